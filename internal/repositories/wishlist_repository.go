package repositories

import (
	"context"
	"database/sql"

	"carspotBack/internal/models"
)

type WishlistRepository struct {
	DB *sql.DB
}

func (r *WishlistRepository) IsWishlisted(ctx context.Context, userID, listingID int) (bool, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM wishlist WHERE user_id = ? AND listing_id = ?`,
		userID, listingID,
	).Scan(&count)
	return count > 0, err
}

func (r *WishlistRepository) Add(ctx context.Context, userID, listingID int) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO wishlist (user_id, listing_id, created_at) VALUES (?, ?, NOW())`,
		userID, listingID,
	)
	if isDuplicateEntryError(err) {
		// Concurrent double-toggle; membership already holds.
		return nil
	}
	return err
}

func (r *WishlistRepository) Remove(ctx context.Context, userID, listingID int) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM wishlist WHERE user_id = ? AND listing_id = ?`,
		userID, listingID,
	)
	return err
}

func (r *WishlistRepository) GetWishlistByUser(ctx context.Context, userID int) ([]models.WishlistItem, error) {
	query := `
		SELECT w.user_id, w.listing_id, l.make, l.model, l.year, l.price, l.location_city, l.status,
		       (SELECT li.path FROM listing_images li WHERE li.listing_id = l.id ORDER BY li.id ASC LIMIT 1),
		       w.created_at
		FROM wishlist w
		JOIN listings l ON l.id = w.listing_id
		WHERE w.user_id = ?
		ORDER BY w.created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.WishlistItem{}
	for rows.Next() {
		var item models.WishlistItem
		var imagePath sql.NullString
		if err := rows.Scan(&item.UserID, &item.ListingID, &item.Make, &item.Model, &item.Year,
			&item.Price, &item.LocationCity, &item.Status, &imagePath, &item.AddedAt); err != nil {
			return nil, err
		}
		if imagePath.Valid {
			item.ImagePath = &imagePath.String
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
