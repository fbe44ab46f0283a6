package services

import (
	"context"
	"fmt"
	"strings"

	"carspotBack/internal/models"
)

// ListingRepo is the persistence surface the listing service needs.
// *repositories.ListingRepository satisfies it.
type ListingRepo interface {
	CreateListing(ctx context.Context, listing models.CarListing) (models.CarListing, error)
	GetListingByID(ctx context.Context, id, viewerID int) (models.CarListing, error)
	UpdateListing(ctx context.Context, listing models.CarListing) (models.CarListing, error)
	UpdateStatus(ctx context.Context, id int, status string) error
	IncrementViews(ctx context.Context, id int) error
	DeleteListing(ctx context.Context, id int) error
	GetListingsWithFilters(ctx context.Context, viewerID int, filter models.ListingFilter) ([]models.CarListing, int, error)
	GetFilterOptions(ctx context.Context) (models.FilterOptions, error)
	GetActiveByIDs(ctx context.Context, ids []int) ([]models.CarListing, error)
	FetchByStatusAndSellerID(ctx context.Context, sellerID int, status string) ([]models.CarListing, error)
	FetchSoldWithParticipant(ctx context.Context, userID int) ([]models.CarListing, error)
	GetImageByID(ctx context.Context, imageID int) (models.CarImage, error)
	AddImages(ctx context.Context, listingID int, images []models.CarImage) ([]models.CarImage, error)
	DeleteImage(ctx context.Context, imageID int) error
}

// OptionsStore caches the filter dropdown values. May be nil-backed in tests.
type OptionsStore interface {
	Get(ctx context.Context) (*models.FilterOptions, error)
	Set(ctx context.Context, opts models.FilterOptions) error
	Invalidate(ctx context.Context) error
}

type ListingService struct {
	ListingRepo ListingRepo
	Options     OptionsStore
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CreateListing validates the submission and stores it awaiting moderation.
// The caller cannot choose the initial status.
func (s *ListingService) CreateListing(ctx context.Context, listing models.CarListing) (models.CarListing, error) {
	if err := validateListing(listing); err != nil {
		return models.CarListing{}, err
	}
	listing.Status = models.StatusPendingApproval
	listing.Views = 0

	created, err := s.ListingRepo.CreateListing(ctx, listing)
	if err != nil {
		return models.CarListing{}, err
	}
	s.invalidateOptions(ctx)
	return created, nil
}

// GetListing applies the visibility rule: only the seller sees a listing that
// is not active. A view by an authenticated non-owner counts toward views.
func (s *ListingService) GetListing(ctx context.Context, id, viewerID int) (models.CarListing, error) {
	listing, err := s.ListingRepo.GetListingByID(ctx, id, viewerID)
	if err != nil {
		return models.CarListing{}, err
	}
	if listing.Status != models.StatusActive && listing.SellerID != viewerID {
		return models.CarListing{}, models.ErrListingNotFound
	}
	if viewerID > 0 && viewerID != listing.SellerID {
		if err := s.ListingRepo.IncrementViews(ctx, id); err != nil {
			return models.CarListing{}, err
		}
		listing.Views++
	}
	return listing, nil
}

// UpdateListing lets the owner edit the descriptive fields. Status is never
// touched here and any new images are added alongside the existing ones.
func (s *ListingService) UpdateListing(ctx context.Context, listing models.CarListing, requesterID int, newImages []models.CarImage) (models.CarListing, error) {
	existing, err := s.ListingRepo.GetListingByID(ctx, listing.ID, 0)
	if err != nil {
		return models.CarListing{}, err
	}
	if existing.SellerID != requesterID {
		return models.CarListing{}, models.ErrNotOwner
	}
	if err := validateListing(listing); err != nil {
		return models.CarListing{}, err
	}

	updated, err := s.ListingRepo.UpdateListing(ctx, listing)
	if err != nil {
		return models.CarListing{}, err
	}
	if len(newImages) > 0 {
		added, err := s.ListingRepo.AddImages(ctx, listing.ID, newImages)
		if err != nil {
			return models.CarListing{}, err
		}
		updated.Images = append(updated.Images, added...)
	}
	s.invalidateOptions(ctx)
	return updated, nil
}

// DeleteImage removes one image from the requester's own listing and returns
// the removed record so the handler can drop the stored object too.
func (s *ListingService) DeleteImage(ctx context.Context, imageID, requesterID int) (models.CarImage, error) {
	image, err := s.ListingRepo.GetImageByID(ctx, imageID)
	if err != nil {
		return models.CarImage{}, err
	}
	listing, err := s.ListingRepo.GetListingByID(ctx, image.ListingID, 0)
	if err != nil {
		return models.CarImage{}, err
	}
	if listing.SellerID != requesterID {
		return models.CarImage{}, models.ErrNotOwner
	}
	if err := s.ListingRepo.DeleteImage(ctx, imageID); err != nil {
		return models.CarImage{}, err
	}
	return image, nil
}

// MarkSold transitions an active listing to sold. Pending, rejected and
// already sold listings cannot be marked sold.
func (s *ListingService) MarkSold(ctx context.Context, id, requesterID int) error {
	listing, err := s.ListingRepo.GetListingByID(ctx, id, 0)
	if err != nil {
		return err
	}
	if listing.SellerID != requesterID {
		return models.ErrNotOwner
	}
	if listing.Status != models.StatusActive {
		return fmt.Errorf("%w: cannot mark %s listing as sold", models.ErrInvalidStateTransition, listing.Status)
	}
	if err := s.ListingRepo.UpdateStatus(ctx, id, models.StatusSold); err != nil {
		return err
	}
	s.invalidateOptions(ctx)
	return nil
}

// Approve moves a pending listing onto the public site.
func (s *ListingService) Approve(ctx context.Context, id int) error {
	return s.moderate(ctx, id, models.StatusActive)
}

// Reject declines a pending listing. It stays visible to its seller only.
func (s *ListingService) Reject(ctx context.Context, id int) error {
	return s.moderate(ctx, id, models.StatusRejected)
}

func (s *ListingService) moderate(ctx context.Context, id int, status string) error {
	listing, err := s.ListingRepo.GetListingByID(ctx, id, 0)
	if err != nil {
		return err
	}
	if listing.Status != models.StatusPendingApproval {
		return fmt.Errorf("%w: listing is %s, not pending approval", models.ErrInvalidStateTransition, listing.Status)
	}
	if err := s.ListingRepo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.invalidateOptions(ctx)
	return nil
}

// DeleteListing removes the requester's own listing together with its images,
// conversations and wishlist entries.
func (s *ListingService) DeleteListing(ctx context.Context, id, requesterID int) (models.CarListing, error) {
	listing, err := s.ListingRepo.GetListingByID(ctx, id, 0)
	if err != nil {
		return models.CarListing{}, err
	}
	if listing.SellerID != requesterID {
		return models.CarListing{}, models.ErrNotOwner
	}
	if err := s.ListingRepo.DeleteListing(ctx, id); err != nil {
		return models.CarListing{}, err
	}
	s.invalidateOptions(ctx)
	return listing, nil
}

// SearchListings returns one page of active listings matching the filter.
func (s *ListingService) SearchListings(ctx context.Context, viewerID int, filter models.ListingFilter) (models.ListingPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	filter.Query = strings.TrimSpace(filter.Query)

	listings, total, err := s.ListingRepo.GetListingsWithFilters(ctx, viewerID, filter)
	if err != nil {
		return models.ListingPage{}, err
	}
	return models.ListingPage{
		Listings: listings,
		Total:    total,
		Page:     filter.Page,
		Limit:    filter.Limit,
	}, nil
}

// GetFilterOptions serves the make/city dropdowns, cache-aside.
func (s *ListingService) GetFilterOptions(ctx context.Context) (models.FilterOptions, error) {
	if s.Options != nil {
		if cached, err := s.Options.Get(ctx); err == nil && cached != nil {
			return *cached, nil
		}
	}
	opts, err := s.ListingRepo.GetFilterOptions(ctx)
	if err != nil {
		return models.FilterOptions{}, err
	}
	if s.Options != nil {
		_ = s.Options.Set(ctx, opts)
	}
	return opts, nil
}

// CompareListings fetches active listings side by side. IDs that do not
// resolve to an active listing are skipped; any id count is fine, including
// none.
func (s *ListingService) CompareListings(ctx context.Context, ids []int) ([]models.CarListing, error) {
	return s.ListingRepo.GetActiveByIDs(ctx, ids)
}

// GetMyListings returns the seller's own listings, optionally narrowed to one
// status. An empty status means all of them.
func (s *ListingService) GetMyListings(ctx context.Context, sellerID int, status string) ([]models.CarListing, error) {
	if status != "" && !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrValidation, status)
	}
	return s.ListingRepo.FetchByStatusAndSellerID(ctx, sellerID, status)
}

func (s *ListingService) invalidateOptions(ctx context.Context) {
	if s.Options != nil {
		_ = s.Options.Invalidate(ctx)
	}
}

func validateListing(l models.CarListing) error {
	switch {
	case strings.TrimSpace(l.Make) == "":
		return fmt.Errorf("%w: make is required", models.ErrValidation)
	case strings.TrimSpace(l.Model) == "":
		return fmt.Errorf("%w: model is required", models.ErrValidation)
	case l.Year < 1900 || l.Year > 2100:
		return fmt.Errorf("%w: year %d is out of range", models.ErrValidation, l.Year)
	case l.Price < 0:
		return fmt.Errorf("%w: price cannot be negative", models.ErrValidation)
	case l.KmsDriven < 0:
		return fmt.Errorf("%w: kms driven cannot be negative", models.ErrValidation)
	case l.Mileage < 0:
		return fmt.Errorf("%w: mileage cannot be negative", models.ErrValidation)
	case !models.ValidTransmission(l.Transmission):
		return fmt.Errorf("%w: unknown transmission %q", models.ErrValidation, l.Transmission)
	case !models.ValidFuelType(l.FuelType):
		return fmt.Errorf("%w: unknown fuel type %q", models.ErrValidation, l.FuelType)
	}
	return nil
}
