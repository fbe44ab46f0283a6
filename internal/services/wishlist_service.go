package services

import (
	"context"

	"carspotBack/internal/models"
)

type WishlistRepo interface {
	IsWishlisted(ctx context.Context, userID, listingID int) (bool, error)
	Add(ctx context.Context, userID, listingID int) error
	Remove(ctx context.Context, userID, listingID int) error
	GetWishlistByUser(ctx context.Context, userID int) ([]models.WishlistItem, error)
}

type WishlistService struct {
	WishlistRepo WishlistRepo
	ListingRepo  ListingRepo
}

// Toggle flips the wishlist membership of (user, listing) and reports the new
// state. Toggling twice always lands back where it started.
func (s *WishlistService) Toggle(ctx context.Context, userID, listingID int) (bool, error) {
	if _, err := s.ListingRepo.GetListingByID(ctx, listingID, 0); err != nil {
		return false, err
	}
	wishlisted, err := s.WishlistRepo.IsWishlisted(ctx, userID, listingID)
	if err != nil {
		return false, err
	}
	if wishlisted {
		if err := s.WishlistRepo.Remove(ctx, userID, listingID); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := s.WishlistRepo.Add(ctx, userID, listingID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *WishlistService) GetWishlist(ctx context.Context, userID int) ([]models.WishlistItem, error) {
	return s.WishlistRepo.GetWishlistByUser(ctx, userID)
}
