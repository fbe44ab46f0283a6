package services

import (
	"context"
	"errors"
	"testing"

	"carspotBack/internal/models"
)

func TestToggleWishlist(t *testing.T) {
	listings := newFakeListingRepo()
	listings.put(activeListing(1, 7))
	svc := &WishlistService{WishlistRepo: newFakeWishlistRepo(), ListingRepo: listings}

	on, err := svc.Toggle(context.Background(), 5, 1)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !on {
		t.Error("first toggle should add")
	}

	off, err := svc.Toggle(context.Background(), 5, 1)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if off {
		t.Error("second toggle should remove")
	}

	items, err := svc.GetWishlist(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetWishlist: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("wishlist after double toggle = %+v, want empty", items)
	}
}

func TestToggleWishlistUnknownListing(t *testing.T) {
	svc := &WishlistService{WishlistRepo: newFakeWishlistRepo(), ListingRepo: newFakeListingRepo()}

	if _, err := svc.Toggle(context.Background(), 5, 404); !errors.Is(err, models.ErrListingNotFound) {
		t.Errorf("err = %v, want ErrListingNotFound", err)
	}
}

func TestWishlistPerUser(t *testing.T) {
	listings := newFakeListingRepo()
	listings.put(activeListing(1, 7))
	listings.put(activeListing(2, 7))
	svc := &WishlistService{WishlistRepo: newFakeWishlistRepo(), ListingRepo: listings}

	if _, err := svc.Toggle(context.Background(), 5, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Toggle(context.Background(), 5, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Toggle(context.Background(), 6, 1); err != nil {
		t.Fatal(err)
	}

	mine, _ := svc.GetWishlist(context.Background(), 5)
	theirs, _ := svc.GetWishlist(context.Background(), 6)
	if len(mine) != 2 || len(theirs) != 1 {
		t.Errorf("mine=%d theirs=%d, want 2 and 1", len(mine), len(theirs))
	}
}
