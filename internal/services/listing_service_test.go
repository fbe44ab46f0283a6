package services

import (
	"context"
	"errors"
	"testing"

	"carspotBack/internal/models"
)

func newListingService() (*ListingService, *fakeListingRepo, *fakeOptionsStore) {
	repo := newFakeListingRepo()
	opts := &fakeOptionsStore{}
	return &ListingService{ListingRepo: repo, Options: opts}, repo, opts
}

func TestCreateListingForcesPendingStatus(t *testing.T) {
	svc, repo, opts := newListingService()

	submitted := activeListing(0, 7)
	submitted.Status = models.StatusActive
	submitted.Views = 99

	created, err := svc.CreateListing(context.Background(), submitted)
	if err != nil {
		t.Fatalf("CreateListing: %v", err)
	}
	if created.Status != models.StatusPendingApproval {
		t.Errorf("status = %q, want %q", created.Status, models.StatusPendingApproval)
	}
	if created.Views != 0 {
		t.Errorf("views = %d, want 0", created.Views)
	}
	if repo.listings[created.ID].Status != models.StatusPendingApproval {
		t.Errorf("stored status = %q", repo.listings[created.ID].Status)
	}
	if opts.invalidates != 1 {
		t.Errorf("invalidates = %d, want 1", opts.invalidates)
	}
}

func TestCreateListingValidation(t *testing.T) {
	svc, _, _ := newListingService()

	cases := []struct {
		name   string
		mutate func(*models.CarListing)
	}{
		{"empty make", func(l *models.CarListing) { l.Make = " " }},
		{"empty model", func(l *models.CarListing) { l.Model = "" }},
		{"negative price", func(l *models.CarListing) { l.Price = -1 }},
		{"negative kms", func(l *models.CarListing) { l.KmsDriven = -5 }},
		{"negative mileage", func(l *models.CarListing) { l.Mileage = -0.1 }},
		{"year too small", func(l *models.CarListing) { l.Year = 1800 }},
		{"bad transmission", func(l *models.CarListing) { l.Transmission = "CVT-ish" }},
		{"bad fuel type", func(l *models.CarListing) { l.FuelType = "Coal" }},
	}
	for _, tc := range cases {
		l := activeListing(0, 7)
		tc.mutate(&l)
		if _, err := svc.CreateListing(context.Background(), l); !errors.Is(err, models.ErrValidation) {
			t.Errorf("%s: err = %v, want ErrValidation", tc.name, err)
		}
	}
}

func TestGetListingVisibility(t *testing.T) {
	svc, repo, _ := newListingService()

	pending := activeListing(1, 7)
	pending.Status = models.StatusPendingApproval
	repo.put(pending)

	if _, err := svc.GetListing(context.Background(), 1, 99); !errors.Is(err, models.ErrListingNotFound) {
		t.Errorf("stranger viewing pending: err = %v, want ErrListingNotFound", err)
	}
	if _, err := svc.GetListing(context.Background(), 1, 0); !errors.Is(err, models.ErrListingNotFound) {
		t.Errorf("anonymous viewing pending: err = %v, want ErrListingNotFound", err)
	}
	if _, err := svc.GetListing(context.Background(), 1, 7); err != nil {
		t.Errorf("owner viewing pending: %v", err)
	}
}

func TestGetListingCountsViews(t *testing.T) {
	svc, repo, _ := newListingService()
	repo.put(activeListing(1, 7))

	// Authenticated non-owner counts.
	got, err := svc.GetListing(context.Background(), 1, 42)
	if err != nil {
		t.Fatalf("GetListing: %v", err)
	}
	if got.Views != 1 {
		t.Errorf("views after stranger visit = %d, want 1", got.Views)
	}

	// Owner and anonymous do not count.
	if _, err := svc.GetListing(context.Background(), 1, 7); err != nil {
		t.Fatalf("owner GetListing: %v", err)
	}
	if _, err := svc.GetListing(context.Background(), 1, 0); err != nil {
		t.Fatalf("anonymous GetListing: %v", err)
	}
	if repo.listings[1].Views != 1 {
		t.Errorf("stored views = %d, want 1", repo.listings[1].Views)
	}
}

func TestUpdateListingOwnerOnly(t *testing.T) {
	svc, repo, _ := newListingService()
	repo.put(activeListing(1, 7))

	edit := activeListing(1, 7)
	edit.Price = 900000

	if _, err := svc.UpdateListing(context.Background(), edit, 8, nil); !errors.Is(err, models.ErrNotOwner) {
		t.Errorf("stranger edit: err = %v, want ErrNotOwner", err)
	}

	updated, err := svc.UpdateListing(context.Background(), edit, 7, nil)
	if err != nil {
		t.Fatalf("owner edit: %v", err)
	}
	if updated.Price != 900000 {
		t.Errorf("price = %v, want 900000", updated.Price)
	}
}

func TestUpdateListingKeepsStatusAndAddsImages(t *testing.T) {
	svc, repo, _ := newListingService()
	sold := activeListing(1, 7)
	sold.Status = models.StatusSold
	repo.put(sold)

	edit := activeListing(1, 7)
	edit.Status = models.StatusActive

	updated, err := svc.UpdateListing(context.Background(), edit, 7, []models.CarImage{{Name: "rear.jpg", Path: "https://cdn/rear.jpg"}})
	if err != nil {
		t.Fatalf("UpdateListing: %v", err)
	}
	if repo.listings[1].Status != models.StatusSold {
		t.Errorf("status changed via edit: %q", repo.listings[1].Status)
	}
	if len(updated.Images) != 1 || updated.Images[0].ListingID != 1 {
		t.Errorf("images not attached: %+v", updated.Images)
	}
}

func TestMarkSoldTransitions(t *testing.T) {
	svc, repo, _ := newListingService()

	for _, status := range []string{models.StatusPendingApproval, models.StatusRejected, models.StatusSold} {
		l := activeListing(1, 7)
		l.Status = status
		repo.put(l)
		if err := svc.MarkSold(context.Background(), 1, 7); !errors.Is(err, models.ErrInvalidStateTransition) {
			t.Errorf("MarkSold from %s: err = %v, want ErrInvalidStateTransition", status, err)
		}
	}

	repo.put(activeListing(1, 7))
	if err := svc.MarkSold(context.Background(), 1, 8); !errors.Is(err, models.ErrNotOwner) {
		t.Errorf("stranger MarkSold: err = %v, want ErrNotOwner", err)
	}
	if err := svc.MarkSold(context.Background(), 1, 7); err != nil {
		t.Fatalf("MarkSold: %v", err)
	}
	if repo.listings[1].Status != models.StatusSold {
		t.Errorf("status = %q, want sold", repo.listings[1].Status)
	}
}

func TestModeration(t *testing.T) {
	svc, repo, _ := newListingService()

	pending := activeListing(1, 7)
	pending.Status = models.StatusPendingApproval
	repo.put(pending)

	if err := svc.Approve(context.Background(), 1); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if repo.listings[1].Status != models.StatusActive {
		t.Errorf("status = %q, want active", repo.listings[1].Status)
	}

	// Already moderated.
	if err := svc.Reject(context.Background(), 1); !errors.Is(err, models.ErrInvalidStateTransition) {
		t.Errorf("Reject active: err = %v, want ErrInvalidStateTransition", err)
	}

	pending.ID = 2
	repo.put(pending)
	if err := svc.Reject(context.Background(), 2); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if repo.listings[2].Status != models.StatusRejected {
		t.Errorf("status = %q, want rejected", repo.listings[2].Status)
	}
}

func TestDeleteListingOwnerOnly(t *testing.T) {
	svc, repo, _ := newListingService()
	repo.put(activeListing(1, 7))

	if _, err := svc.DeleteListing(context.Background(), 1, 8); !errors.Is(err, models.ErrNotOwner) {
		t.Errorf("stranger delete: err = %v, want ErrNotOwner", err)
	}
	if _, err := svc.DeleteListing(context.Background(), 1, 7); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, ok := repo.listings[1]; ok {
		t.Error("listing still present after delete")
	}
	if _, err := svc.DeleteListing(context.Background(), 1, 7); !errors.Is(err, models.ErrListingNotFound) {
		t.Errorf("second delete: err = %v, want ErrListingNotFound", err)
	}
}

func TestDeleteImageOwnerOnly(t *testing.T) {
	svc, repo, _ := newListingService()
	repo.put(activeListing(1, 7))
	added, _ := repo.AddImages(context.Background(), 1, []models.CarImage{{Name: "front.jpg", Path: "https://cdn/front.jpg"}})

	if _, err := svc.DeleteImage(context.Background(), added[0].ID, 8); !errors.Is(err, models.ErrNotOwner) {
		t.Errorf("stranger delete image: err = %v, want ErrNotOwner", err)
	}
	img, err := svc.DeleteImage(context.Background(), added[0].ID, 7)
	if err != nil {
		t.Fatalf("DeleteImage: %v", err)
	}
	if img.Path != "https://cdn/front.jpg" {
		t.Errorf("returned path = %q", img.Path)
	}
	if _, err := svc.DeleteImage(context.Background(), added[0].ID, 7); !errors.Is(err, models.ErrImageNotFound) {
		t.Errorf("second delete: err = %v, want ErrImageNotFound", err)
	}
}

func TestSearchDefaultsAndPaging(t *testing.T) {
	svc, repo, _ := newListingService()
	for i := 1; i <= 25; i++ {
		repo.put(activeListing(i, 7))
	}

	page, err := svc.SearchListings(context.Background(), 0, models.ListingFilter{})
	if err != nil {
		t.Fatalf("SearchListings: %v", err)
	}
	if page.Page != 1 || page.Limit != defaultPageSize {
		t.Errorf("defaults: page=%d limit=%d", page.Page, page.Limit)
	}
	if page.Total != 25 || len(page.Listings) != defaultPageSize {
		t.Errorf("total=%d len=%d", page.Total, len(page.Listings))
	}

	page2, err := svc.SearchListings(context.Background(), 0, models.ListingFilter{Page: 2, Limit: 20})
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(page2.Listings) != 5 {
		t.Errorf("page 2 len = %d, want 5", len(page2.Listings))
	}
}

func TestSearchPriceBoundsInclusive(t *testing.T) {
	svc, repo, _ := newListingService()
	for i, price := range []float64{100000, 200000, 300000} {
		l := activeListing(i+1, 7)
		l.Price = price
		repo.put(l)
	}

	page, err := svc.SearchListings(context.Background(), 0, models.ListingFilter{MinPrice: 200000, MaxPrice: 200000})
	if err != nil {
		t.Fatalf("SearchListings: %v", err)
	}
	if page.Total != 1 || len(page.Listings) != 1 || page.Listings[0].Price != 200000 {
		t.Errorf("boundary match = %+v, want exactly the 200000 listing", page.Listings)
	}

	page, err = svc.SearchListings(context.Background(), 0, models.ListingFilter{MinPrice: 100000, MaxPrice: 300000})
	if err != nil {
		t.Fatalf("SearchListings: %v", err)
	}
	if page.Total != 3 {
		t.Errorf("total = %d, want all three inside inclusive bounds", page.Total)
	}
}

func TestFilterOptionsCacheAside(t *testing.T) {
	svc, repo, opts := newListingService()
	repo.put(activeListing(1, 7))

	first, err := svc.GetFilterOptions(context.Background())
	if err != nil {
		t.Fatalf("GetFilterOptions: %v", err)
	}
	if len(first.Makes) != 1 || first.Makes[0] != "Toyota" {
		t.Fatalf("makes = %v", first.Makes)
	}
	if opts.sets != 1 {
		t.Errorf("sets = %d, want 1 after miss", opts.sets)
	}

	// Second call is served from the cache; no new Set.
	if _, err := svc.GetFilterOptions(context.Background()); err != nil {
		t.Fatalf("second GetFilterOptions: %v", err)
	}
	if opts.sets != 1 {
		t.Errorf("sets = %d after cache hit, want 1", opts.sets)
	}

	// A mutation drops the cache.
	if _, err := svc.CreateListing(context.Background(), activeListing(0, 7)); err != nil {
		t.Fatalf("CreateListing: %v", err)
	}
	if opts.cached != nil {
		t.Error("cache not invalidated after mutation")
	}
}

func TestCompareListings(t *testing.T) {
	svc, repo, _ := newListingService()
	repo.put(activeListing(1, 7))
	repo.put(activeListing(2, 7))
	sold := activeListing(3, 7)
	sold.Status = models.StatusSold
	repo.put(sold)

	got, err := svc.CompareListings(context.Background(), []int{1, 2, 3})
	if err != nil {
		t.Fatalf("CompareListings: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2 (sold one skipped)", len(got))
	}

	// Any id count works; unmatched and missing ids just shrink the result.
	single, err := svc.CompareListings(context.Background(), []int{1})
	if err != nil {
		t.Fatalf("single id: %v", err)
	}
	if len(single) != 1 || single[0].ID != 1 {
		t.Errorf("single = %+v, want listing 1", single)
	}
	empty, err := svc.CompareListings(context.Background(), nil)
	if err != nil {
		t.Fatalf("no ids: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("empty input len = %d, want 0", len(empty))
	}
	if gone, err := svc.CompareListings(context.Background(), []int{3, 404}); err != nil || len(gone) != 0 {
		t.Errorf("unmatched ids = %+v, %v, want empty subset", gone, err)
	}
}

func TestGetMyListingsStatusFilter(t *testing.T) {
	svc, repo, _ := newListingService()
	repo.put(activeListing(1, 7))
	sold := activeListing(2, 7)
	sold.Status = models.StatusSold
	repo.put(sold)
	repo.put(activeListing(3, 8))

	if _, err := svc.GetMyListings(context.Background(), 7, "archived"); !errors.Is(err, models.ErrValidation) {
		t.Errorf("unknown status: err = %v, want ErrValidation", err)
	}

	all, err := svc.GetMyListings(context.Background(), 7, "")
	if err != nil {
		t.Fatalf("GetMyListings: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all len = %d, want 2", len(all))
	}

	soldOnly, err := svc.GetMyListings(context.Background(), 7, models.StatusSold)
	if err != nil {
		t.Fatalf("GetMyListings sold: %v", err)
	}
	if len(soldOnly) != 1 || soldOnly[0].ID != 2 {
		t.Errorf("sold = %+v", soldOnly)
	}
}
