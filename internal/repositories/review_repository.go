package repositories

import (
	"context"
	"database/sql"

	"carspotBack/internal/models"
)

type ReviewRepository struct {
	DB *sql.DB
}

func (r *ReviewRepository) HasReview(ctx context.Context, reviewerID, listingID int) (bool, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE reviewer_id = ? AND listing_id = ?`,
		reviewerID, listingID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ReviewRepository) CreateReview(ctx context.Context, rev models.Review) (models.Review, error) {
	query := `
		INSERT INTO reviews (reviewer_id, seller_id, listing_id, rating, comment, created_at)
		VALUES (?, ?, ?, ?, ?, NOW())
	`
	result, err := r.DB.ExecContext(ctx, query,
		rev.ReviewerID, rev.SellerID, rev.ListingID, rev.Rating, rev.Comment,
	)
	if err != nil {
		// The unique (reviewer_id, listing_id) key backstops the service-level
		// duplicate check under concurrent submissions.
		if isDuplicateEntryError(err) {
			return models.Review{}, models.ErrAlreadyReviewed
		}
		return models.Review{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Review{}, err
	}
	rev.ID = int(id)
	return rev, nil
}

func (r *ReviewRepository) GetReviewsBySellerID(ctx context.Context, sellerID int) ([]models.Review, error) {
	query := `
		SELECT r.id, r.reviewer_id, r.seller_id, r.listing_id, r.rating, r.comment,
		       u.name, p.avatar_path, r.created_at
		FROM reviews r
		JOIN users u ON r.reviewer_id = u.id
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE r.seller_id = ?
		ORDER BY r.created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var rev models.Review
		err := rows.Scan(&rev.ID, &rev.ReviewerID, &rev.SellerID, &rev.ListingID, &rev.Rating, &rev.Comment,
			&rev.ReviewerName, &rev.ReviewerAvatarPath, &rev.CreatedAt)
		if err != nil {
			return nil, err
		}
		if rev.ReviewerAvatarPath != nil && *rev.ReviewerAvatarPath == "" {
			rev.ReviewerAvatarPath = nil
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

// GetSellerRating returns the seller aggregate; Average stays nil when the
// seller has no reviews.
func (r *ReviewRepository) GetSellerRating(ctx context.Context, sellerID int) (models.SellerRating, error) {
	avg, count, err := getSellerRating(ctx, r.DB, sellerID)
	if err != nil {
		return models.SellerRating{}, err
	}
	return models.SellerRating{Average: avg, Count: count}, nil
}
