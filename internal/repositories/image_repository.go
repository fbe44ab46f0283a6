package repositories

import (
	"context"
	"database/sql"
	"errors"

	"carspotBack/internal/models"
)

func (r *ListingRepository) GetImagesByListingID(ctx context.Context, listingID int) ([]models.CarImage, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, listing_id, name, path, type FROM listing_images WHERE listing_id = ? ORDER BY id ASC`,
		listingID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := []models.CarImage{}
	for rows.Next() {
		var img models.CarImage
		if err := rows.Scan(&img.ID, &img.ListingID, &img.Name, &img.Path, &img.Type); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *ListingRepository) GetImageByID(ctx context.Context, imageID int) (models.CarImage, error) {
	var img models.CarImage
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, listing_id, name, path, type FROM listing_images WHERE id = ?`,
		imageID,
	).Scan(&img.ID, &img.ListingID, &img.Name, &img.Path, &img.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CarImage{}, models.ErrImageNotFound
	}
	if err != nil {
		return models.CarImage{}, err
	}
	return img, nil
}

// AddImages appends supplementary images to a listing. Existing rows are
// never replaced.
func (r *ListingRepository) AddImages(ctx context.Context, listingID int, images []models.CarImage) ([]models.CarImage, error) {
	added := make([]models.CarImage, 0, len(images))
	for _, img := range images {
		img.ListingID = listingID
		res, err := r.DB.ExecContext(ctx,
			`INSERT INTO listing_images (listing_id, name, path, type) VALUES (?, ?, ?, ?)`,
			listingID, img.Name, img.Path, img.Type,
		)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		img.ID = int(id)
		added = append(added, img)
	}
	return added, nil
}

func (r *ListingRepository) DeleteImage(ctx context.Context, imageID int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM listing_images WHERE id = ?`, imageID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return models.ErrImageNotFound
	}
	return nil
}
