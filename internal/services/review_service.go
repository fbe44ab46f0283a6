package services

import (
	"context"
	"fmt"

	"carspotBack/internal/models"
)

type ReviewRepo interface {
	HasReview(ctx context.Context, reviewerID, listingID int) (bool, error)
	CreateReview(ctx context.Context, rev models.Review) (models.Review, error)
	GetReviewsBySellerID(ctx context.Context, sellerID int) ([]models.Review, error)
	GetSellerRating(ctx context.Context, sellerID int) (models.SellerRating, error)
}

type ReviewService struct {
	ReviewRepo  ReviewRepo
	ListingRepo ListingRepo
	MessageRepo MessageRepo
}

// CreateReview records a buyer's rating of the seller after a sale. Eligible
// is the counterparty of the sold listing's most recent message; without any
// message history nobody can review. One review per (reviewer, listing).
func (s *ReviewService) CreateReview(ctx context.Context, reviewerID, listingID, rating int, comment string) (models.Review, error) {
	if rating < 1 || rating > 5 {
		return models.Review{}, fmt.Errorf("%w: rating must be between 1 and 5", models.ErrValidation)
	}

	listing, err := s.ListingRepo.GetListingByID(ctx, listingID, 0)
	if err != nil {
		return models.Review{}, err
	}
	if listing.Status != models.StatusSold {
		return models.Review{}, fmt.Errorf("%w: listing is not sold", models.ErrNotEligibleToReview)
	}
	if reviewerID == listing.SellerID {
		return models.Review{}, fmt.Errorf("%w: sellers cannot review their own listing", models.ErrNotEligibleToReview)
	}

	buyerID, err := s.MessageRepo.GetLatestCounterpart(ctx, listingID, listing.SellerID)
	if err != nil {
		return models.Review{}, err
	}
	if buyerID == 0 || buyerID != reviewerID {
		return models.Review{}, fmt.Errorf("%w: only the buyer can review this sale", models.ErrNotEligibleToReview)
	}

	exists, err := s.ReviewRepo.HasReview(ctx, reviewerID, listingID)
	if err != nil {
		return models.Review{}, err
	}
	if exists {
		return models.Review{}, models.ErrAlreadyReviewed
	}

	return s.ReviewRepo.CreateReview(ctx, models.Review{
		ReviewerID: reviewerID,
		SellerID:   listing.SellerID,
		ListingID:  listingID,
		Rating:     rating,
		Comment:    comment,
	})
}

// GetMyPurchases lists the sold listings the user is the inferred buyer of,
// flagged with whether they already left a review. This is the entry point to
// the review flow: the same latest-counterparty heuristic CreateReview
// enforces decides what shows up here.
func (s *ReviewService) GetMyPurchases(ctx context.Context, userID int) ([]models.Purchase, error) {
	candidates, err := s.ListingRepo.FetchSoldWithParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}

	purchases := []models.Purchase{}
	for _, listing := range candidates {
		if listing.SellerID == userID {
			continue
		}
		buyerID, err := s.MessageRepo.GetLatestCounterpart(ctx, listing.ID, listing.SellerID)
		if err != nil {
			return nil, err
		}
		if buyerID != userID {
			continue
		}
		reviewed, err := s.ReviewRepo.HasReview(ctx, userID, listing.ID)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, models.Purchase{Listing: listing, HasReviewed: reviewed})
	}
	return purchases, nil
}

func (s *ReviewService) GetSellerReviews(ctx context.Context, sellerID int) ([]models.Review, error) {
	return s.ReviewRepo.GetReviewsBySellerID(ctx, sellerID)
}

func (s *ReviewService) GetSellerRating(ctx context.Context, sellerID int) (models.SellerRating, error) {
	return s.ReviewRepo.GetSellerRating(ctx, sellerID)
}
