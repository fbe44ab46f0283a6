package services

import (
	"context"
	"sort"
	"time"

	"carspotBack/internal/models"
)

// In-memory stand-ins for the repositories, enough behavior for the service
// rules under test.

type fakeListingRepo struct {
	listings map[int]models.CarListing
	images   map[int]models.CarImage
	nextID   int
	nextImg  int
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{
		listings: map[int]models.CarListing{},
		images:   map[int]models.CarImage{},
		nextID:   1,
		nextImg:  1,
	}
}

func (f *fakeListingRepo) put(l models.CarListing) models.CarListing {
	if l.ID == 0 {
		l.ID = f.nextID
		f.nextID++
	} else if l.ID >= f.nextID {
		f.nextID = l.ID + 1
	}
	f.listings[l.ID] = l
	return l
}

func (f *fakeListingRepo) CreateListing(_ context.Context, l models.CarListing) (models.CarListing, error) {
	return f.put(l), nil
}

func (f *fakeListingRepo) GetListingByID(_ context.Context, id, _ int) (models.CarListing, error) {
	l, ok := f.listings[id]
	if !ok {
		return models.CarListing{}, models.ErrListingNotFound
	}
	return l, nil
}

func (f *fakeListingRepo) UpdateListing(_ context.Context, l models.CarListing) (models.CarListing, error) {
	existing, ok := f.listings[l.ID]
	if !ok {
		return models.CarListing{}, models.ErrListingNotFound
	}
	l.Status = existing.Status
	l.SellerID = existing.SellerID
	l.Views = existing.Views
	f.listings[l.ID] = l
	return l, nil
}

func (f *fakeListingRepo) UpdateStatus(_ context.Context, id int, status string) error {
	l, ok := f.listings[id]
	if !ok {
		return models.ErrListingNotFound
	}
	l.Status = status
	f.listings[id] = l
	return nil
}

func (f *fakeListingRepo) IncrementViews(_ context.Context, id int) error {
	l, ok := f.listings[id]
	if !ok {
		return models.ErrListingNotFound
	}
	l.Views++
	f.listings[id] = l
	return nil
}

func (f *fakeListingRepo) DeleteListing(_ context.Context, id int) error {
	if _, ok := f.listings[id]; !ok {
		return models.ErrListingNotFound
	}
	delete(f.listings, id)
	return nil
}

func (f *fakeListingRepo) GetListingsWithFilters(_ context.Context, _ int, filter models.ListingFilter) ([]models.CarListing, int, error) {
	matched := []models.CarListing{}
	for _, l := range f.listings {
		if l.Status != models.StatusActive {
			continue
		}
		if filter.Make != "" && l.Make != filter.Make {
			continue
		}
		if filter.Transmission != "" && l.Transmission != filter.Transmission {
			continue
		}
		if filter.MinPrice > 0 && l.Price < filter.MinPrice {
			continue
		}
		if filter.MaxPrice > 0 && l.Price > filter.MaxPrice {
			continue
		}
		matched = append(matched, l)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := len(matched)
	start := (filter.Page - 1) * filter.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakeListingRepo) GetFilterOptions(_ context.Context) (models.FilterOptions, error) {
	seen := map[string]bool{}
	opts := models.FilterOptions{}
	for _, l := range f.listings {
		if l.Status != models.StatusActive || seen[l.Make] {
			continue
		}
		seen[l.Make] = true
		opts.Makes = append(opts.Makes, l.Make)
	}
	sort.Strings(opts.Makes)
	return opts, nil
}

func (f *fakeListingRepo) GetActiveByIDs(_ context.Context, ids []int) ([]models.CarListing, error) {
	out := []models.CarListing{}
	for _, id := range ids {
		if l, ok := f.listings[id]; ok && l.Status == models.StatusActive {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeListingRepo) FetchSoldWithParticipant(_ context.Context, _ int) ([]models.CarListing, error) {
	out := []models.CarListing{}
	for _, l := range f.listings {
		if l.Status == models.StatusSold {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeListingRepo) FetchByStatusAndSellerID(_ context.Context, sellerID int, status string) ([]models.CarListing, error) {
	out := []models.CarListing{}
	for _, l := range f.listings {
		if l.SellerID != sellerID {
			continue
		}
		if status != "" && l.Status != status {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeListingRepo) GetImageByID(_ context.Context, imageID int) (models.CarImage, error) {
	img, ok := f.images[imageID]
	if !ok {
		return models.CarImage{}, models.ErrImageNotFound
	}
	return img, nil
}

func (f *fakeListingRepo) AddImages(_ context.Context, listingID int, images []models.CarImage) ([]models.CarImage, error) {
	added := []models.CarImage{}
	for _, img := range images {
		img.ID = f.nextImg
		f.nextImg++
		img.ListingID = listingID
		f.images[img.ID] = img
		added = append(added, img)
	}
	return added, nil
}

func (f *fakeListingRepo) DeleteImage(_ context.Context, imageID int) error {
	if _, ok := f.images[imageID]; !ok {
		return models.ErrImageNotFound
	}
	delete(f.images, imageID)
	return nil
}

type fakeOptionsStore struct {
	cached      *models.FilterOptions
	gets        int
	sets        int
	invalidates int
}

func (f *fakeOptionsStore) Get(_ context.Context) (*models.FilterOptions, error) {
	f.gets++
	return f.cached, nil
}

func (f *fakeOptionsStore) Set(_ context.Context, opts models.FilterOptions) error {
	f.sets++
	f.cached = &opts
	return nil
}

func (f *fakeOptionsStore) Invalidate(_ context.Context) error {
	f.invalidates++
	f.cached = nil
	return nil
}

type fakeMessageRepo struct {
	messages []models.Message
	inbox    []models.InboxMessage
	nextID   int
}

func (f *fakeMessageRepo) CreateMessage(_ context.Context, msg models.Message) (models.Message, error) {
	f.nextID++
	msg.ID = f.nextID
	msg.IsRead = false
	msg.CreatedAt = time.Now()
	f.messages = append(f.messages, msg)
	return msg, nil
}

func (f *fakeMessageRepo) GetConversationMessages(_ context.Context, listingID, user1ID, user2ID int) ([]models.Message, error) {
	out := []models.Message{}
	for _, m := range f.messages {
		if m.ListingID != listingID {
			continue
		}
		pair := (m.SenderID == user1ID && m.ReceiverID == user2ID) ||
			(m.SenderID == user2ID && m.ReceiverID == user1ID)
		if pair {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) MarkConversationRead(_ context.Context, listingID, readerID, otherID int) error {
	for i, m := range f.messages {
		if m.ListingID == listingID && m.SenderID == otherID && m.ReceiverID == readerID {
			f.messages[i].IsRead = true
		}
	}
	return nil
}

func (f *fakeMessageRepo) GetInboxMessages(_ context.Context, _ int) ([]models.InboxMessage, error) {
	return f.inbox, nil
}

func (f *fakeMessageRepo) GetLatestCounterpart(_ context.Context, listingID, sellerID int) (int, error) {
	for i := len(f.messages) - 1; i >= 0; i-- {
		m := f.messages[i]
		if m.ListingID != listingID {
			continue
		}
		if m.SenderID == sellerID {
			return m.ReceiverID, nil
		}
		return m.SenderID, nil
	}
	return 0, nil
}

type fakeReviewRepo struct {
	reviews []models.Review
	nextID  int
}

func (f *fakeReviewRepo) HasReview(_ context.Context, reviewerID, listingID int) (bool, error) {
	for _, r := range f.reviews {
		if r.ReviewerID == reviewerID && r.ListingID == listingID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReviewRepo) CreateReview(_ context.Context, rev models.Review) (models.Review, error) {
	f.nextID++
	rev.ID = f.nextID
	f.reviews = append(f.reviews, rev)
	return rev, nil
}

func (f *fakeReviewRepo) GetReviewsBySellerID(_ context.Context, sellerID int) ([]models.Review, error) {
	out := []models.Review{}
	for _, r := range f.reviews {
		if r.SellerID == sellerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) GetSellerRating(_ context.Context, sellerID int) (models.SellerRating, error) {
	sum, count := 0, 0
	for _, r := range f.reviews {
		if r.SellerID == sellerID {
			sum += r.Rating
			count++
		}
	}
	if count == 0 {
		return models.SellerRating{}, nil
	}
	avg := float64(sum) / float64(count)
	return models.SellerRating{Average: &avg, Count: count}, nil
}

type fakeWishlistRepo struct {
	members map[[2]int]bool
}

func newFakeWishlistRepo() *fakeWishlistRepo {
	return &fakeWishlistRepo{members: map[[2]int]bool{}}
}

func (f *fakeWishlistRepo) IsWishlisted(_ context.Context, userID, listingID int) (bool, error) {
	return f.members[[2]int{userID, listingID}], nil
}

func (f *fakeWishlistRepo) Add(_ context.Context, userID, listingID int) error {
	f.members[[2]int{userID, listingID}] = true
	return nil
}

func (f *fakeWishlistRepo) Remove(_ context.Context, userID, listingID int) error {
	delete(f.members, [2]int{userID, listingID})
	return nil
}

func (f *fakeWishlistRepo) GetWishlistByUser(_ context.Context, userID int) ([]models.WishlistItem, error) {
	out := []models.WishlistItem{}
	for key := range f.members {
		if key[0] == userID {
			out = append(out, models.WishlistItem{ListingID: key[1]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ListingID < out[j].ListingID })
	return out, nil
}

type fakePusher struct {
	sent []int
}

func (f *fakePusher) SendToUser(_ context.Context, userID int, _, _ string, _ map[string]string) error {
	f.sent = append(f.sent, userID)
	return nil
}

func activeListing(id, sellerID int) models.CarListing {
	return models.CarListing{
		ID:           id,
		SellerID:     sellerID,
		Make:         "Toyota",
		Model:        "Corolla",
		Year:         2019,
		Price:        850000,
		KmsDriven:    42000,
		Mileage:      15.2,
		Transmission: models.TransmissionManual,
		FuelType:     "Petrol",
		LocationCity: "Pune",
		Status:       models.StatusActive,
	}
}
