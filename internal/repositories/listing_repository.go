package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"carspotBack/internal/models"
)

type ListingRepository struct {
	DB *sql.DB
}

func (r *ListingRepository) CreateListing(ctx context.Context, l models.CarListing) (models.CarListing, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.CarListing{}, err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO listings
			(seller_id, make, model, year, price, kms_driven, mileage, transmission, fuel_type,
			 noc_available, description, location_city, status, views, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, NOW(), NOW())
	`
	result, err := tx.ExecContext(ctx, query,
		l.SellerID, l.Make, l.Model, l.Year, l.Price, l.KmsDriven, l.Mileage,
		l.Transmission, l.FuelType, l.NocAvailable, l.Description, l.LocationCity, l.Status,
	)
	if err != nil {
		return models.CarListing{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.CarListing{}, err
	}
	l.ID = int(id)

	for i := range l.Images {
		l.Images[i].ListingID = l.ID
		res, err := tx.ExecContext(ctx,
			`INSERT INTO listing_images (listing_id, name, path, type) VALUES (?, ?, ?, ?)`,
			l.ID, l.Images[i].Name, l.Images[i].Path, l.Images[i].Type,
		)
		if err != nil {
			return models.CarListing{}, err
		}
		imgID, err := res.LastInsertId()
		if err != nil {
			return models.CarListing{}, err
		}
		l.Images[i].ID = int(imgID)
	}

	if err := tx.Commit(); err != nil {
		return models.CarListing{}, err
	}
	return l, nil
}

func (r *ListingRepository) GetListingByID(ctx context.Context, id int, viewerID int) (models.CarListing, error) {
	query := `
		SELECT l.id, l.seller_id, u.id, u.name, u.phone, u.city, p.avatar_path,
		       l.make, l.model, l.year, l.price, l.kms_driven, l.mileage, l.transmission, l.fuel_type,
		       l.noc_available, l.description, l.location_city, l.status, l.views,
		       CASE WHEN w.listing_id IS NOT NULL THEN 1 ELSE 0 END AS wishlisted,
		       l.created_at, l.updated_at
		FROM listings l
		JOIN users u ON l.seller_id = u.id
		LEFT JOIN profiles p ON p.user_id = u.id
		LEFT JOIN wishlist w ON w.listing_id = l.id AND w.user_id = ?
		WHERE l.id = ?
	`

	var l models.CarListing
	err := r.DB.QueryRowContext(ctx, query, viewerID, id).Scan(
		&l.ID, &l.SellerID, &l.Seller.ID, &l.Seller.Name, &l.Seller.Phone, &l.Seller.City, &l.Seller.AvatarPath,
		&l.Make, &l.Model, &l.Year, &l.Price, &l.KmsDriven, &l.Mileage, &l.Transmission, &l.FuelType,
		&l.NocAvailable, &l.Description, &l.LocationCity, &l.Status, &l.Views,
		&l.Wishlisted,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CarListing{}, models.ErrListingNotFound
	}
	if err != nil {
		return models.CarListing{}, err
	}

	if avg, count, err := getSellerRating(ctx, r.DB, l.SellerID); err == nil {
		l.Seller.ReviewRating = avg
		l.Seller.ReviewsCount = count
	}

	images, err := r.GetImagesByListingID(ctx, l.ID)
	if err != nil {
		return models.CarListing{}, err
	}
	l.Images = images
	return l, nil
}

func (r *ListingRepository) UpdateListing(ctx context.Context, l models.CarListing) (models.CarListing, error) {
	query := `
		UPDATE listings
		SET make = ?, model = ?, year = ?, price = ?, kms_driven = ?, mileage = ?,
		    transmission = ?, fuel_type = ?, noc_available = ?, description = ?,
		    location_city = ?, updated_at = ?
		WHERE id = ?
	`
	updatedAt := time.Now()
	l.UpdatedAt = &updatedAt
	result, err := r.DB.ExecContext(ctx, query,
		l.Make, l.Model, l.Year, l.Price, l.KmsDriven, l.Mileage,
		l.Transmission, l.FuelType, l.NocAvailable, l.Description,
		l.LocationCity, l.UpdatedAt, l.ID,
	)
	if err != nil {
		return models.CarListing{}, err
	}
	if _, err := result.RowsAffected(); err != nil {
		return models.CarListing{}, err
	}
	return r.GetListingByID(ctx, l.ID, 0)
}

// UpdateStatus writes the status column only; transition rules live in the
// service layer.
func (r *ListingRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE listings SET status = ?, updated_at = NOW() WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return models.ErrListingNotFound
	}
	return nil
}

// IncrementViews bumps the counter in a single statement so concurrent views
// cannot lose updates.
func (r *ListingRepository) IncrementViews(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE listings SET views = views + 1 WHERE id = ?`, id)
	return err
}

// DeleteListing removes the listing together with its images, conversations
// and wishlist rows in one transaction. Reviews stay: they rate the seller.
func (r *ListingRepository) DeleteListing(ctx context.Context, id int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM messages WHERE conversation_id IN (SELECT id FROM conversations WHERE listing_id = ?)`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM conversations WHERE listing_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM listing_images WHERE listing_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM wishlist WHERE listing_id = ?`, id); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM listings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return models.ErrListingNotFound
	}
	return tx.Commit()
}

func (r *ListingRepository) GetListingsWithFilters(ctx context.Context, viewerID int, f models.ListingFilter) ([]models.CarListing, int, error) {
	var (
		listings   []models.CarListing
		params     []interface{}
		conditions []string
	)

	baseQuery := `
		SELECT l.id, l.seller_id, u.id, u.name, u.city, p.avatar_path,
		       l.make, l.model, l.year, l.price, l.kms_driven, l.mileage, l.transmission, l.fuel_type,
		       l.noc_available, l.description, l.location_city, l.status, l.views,
		       CASE WHEN w.listing_id IS NOT NULL THEN 1 ELSE 0 END AS wishlisted,
		       l.created_at, l.updated_at
		FROM listings l
		JOIN users u ON l.seller_id = u.id
		LEFT JOIN profiles p ON p.user_id = u.id
		LEFT JOIN wishlist w ON w.listing_id = l.id AND w.user_id = ?
	`
	params = append(params, viewerID)

	// Only active listings are searchable.
	conditions = append(conditions, "l.status = ?")
	countParams := []interface{}{models.StatusActive}

	if q := strings.TrimSpace(f.Query); q != "" {
		conditions = append(conditions, "(l.make LIKE ? OR l.model LIKE ?)")
		countParams = append(countParams, "%"+q+"%", "%"+q+"%")
	}
	if f.Transmission != "" {
		conditions = append(conditions, "l.transmission = ?")
		countParams = append(countParams, f.Transmission)
	}
	if f.FuelType != "" {
		conditions = append(conditions, "l.fuel_type = ?")
		countParams = append(countParams, f.FuelType)
	}
	if f.Make != "" {
		conditions = append(conditions, "l.make = ?")
		countParams = append(countParams, f.Make)
	}
	if f.City != "" {
		conditions = append(conditions, "l.location_city = ?")
		countParams = append(countParams, f.City)
	}
	if f.Year > 0 {
		conditions = append(conditions, "l.year = ?")
		countParams = append(countParams, f.Year)
	}
	if f.MinPrice > 0 {
		conditions = append(conditions, "l.price >= ?")
		countParams = append(countParams, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		conditions = append(conditions, "l.price <= ?")
		countParams = append(countParams, f.MaxPrice)
	}

	where := " WHERE " + strings.Join(conditions, " AND ")
	baseQuery += where
	params = append(params, countParams...)

	baseQuery += ` ORDER BY l.created_at DESC`
	baseQuery += ` LIMIT ? OFFSET ?`
	offset := (f.Page - 1) * f.Limit
	params = append(params, f.Limit, offset)

	rows, err := r.DB.QueryContext(ctx, baseQuery, params...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var l models.CarListing
		err := rows.Scan(
			&l.ID, &l.SellerID, &l.Seller.ID, &l.Seller.Name, &l.Seller.City, &l.Seller.AvatarPath,
			&l.Make, &l.Model, &l.Year, &l.Price, &l.KmsDriven, &l.Mileage, &l.Transmission, &l.FuelType,
			&l.NocAvailable, &l.Description, &l.LocationCity, &l.Status, &l.Views,
			&l.Wishlisted,
			&l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		listings = append(listings, l)
		ids = append(ids, l.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.attachImages(ctx, listings, ids); err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT COUNT(*) FROM listings l` + where
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, countParams...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

func (r *ListingRepository) attachImages(ctx context.Context, listings []models.CarListing, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf(
		`SELECT id, listing_id, name, path, type FROM listing_images WHERE listing_id IN (%s) ORDER BY id ASC`,
		placeholders,
	)
	params := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		params = append(params, id)
	}

	rows, err := r.DB.QueryContext(ctx, query, params...)
	if err != nil {
		return err
	}
	defer rows.Close()

	byListing := make(map[int][]models.CarImage, len(ids))
	for rows.Next() {
		var img models.CarImage
		if err := rows.Scan(&img.ID, &img.ListingID, &img.Name, &img.Path, &img.Type); err != nil {
			return err
		}
		byListing[img.ListingID] = append(byListing[img.ListingID], img)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range listings {
		listings[i].Images = byListing[listings[i].ID]
	}
	return nil
}

// GetFilterOptions derives the make/city dropdown values from the listings
// currently active.
func (r *ListingRepository) GetFilterOptions(ctx context.Context) (models.FilterOptions, error) {
	var opts models.FilterOptions

	makes, err := r.distinctColumn(ctx, "make")
	if err != nil {
		return models.FilterOptions{}, err
	}
	cities, err := r.distinctColumn(ctx, "location_city")
	if err != nil {
		return models.FilterOptions{}, err
	}
	opts.Makes = makes
	opts.Cities = cities
	return opts, nil
}

func (r *ListingRepository) distinctColumn(ctx context.Context, column string) ([]string, error) {
	query := fmt.Sprintf(
		`SELECT DISTINCT %s FROM listings WHERE status = ? AND %s <> '' ORDER BY %s ASC`,
		column, column, column,
	)
	rows, err := r.DB.QueryContext(ctx, query, models.StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// GetActiveByIDs returns the active subset of the requested ids, for the
// compare page. Unknown ids are silently skipped.
func (r *ListingRepository) GetActiveByIDs(ctx context.Context, ids []int) ([]models.CarListing, error) {
	if len(ids) == 0 {
		return []models.CarListing{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf(`
		SELECT l.id, l.seller_id, u.id, u.name, u.city, p.avatar_path,
		       l.make, l.model, l.year, l.price, l.kms_driven, l.mileage, l.transmission, l.fuel_type,
		       l.noc_available, l.description, l.location_city, l.status, l.views,
		       0 AS wishlisted,
		       l.created_at, l.updated_at
		FROM listings l
		JOIN users u ON l.seller_id = u.id
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE l.status = ? AND l.id IN (%s)
		ORDER BY l.id ASC
	`, placeholders)

	params := []interface{}{models.StatusActive}
	for _, id := range ids {
		params = append(params, id)
	}

	rows, err := r.DB.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := []models.CarListing{}
	var found []int
	for rows.Next() {
		var l models.CarListing
		err := rows.Scan(
			&l.ID, &l.SellerID, &l.Seller.ID, &l.Seller.Name, &l.Seller.City, &l.Seller.AvatarPath,
			&l.Make, &l.Model, &l.Year, &l.Price, &l.KmsDriven, &l.Mileage, &l.Transmission, &l.FuelType,
			&l.NocAvailable, &l.Description, &l.LocationCity, &l.Status, &l.Views,
			&l.Wishlisted,
			&l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
		found = append(found, l.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachImages(ctx, listings, found); err != nil {
		return nil, err
	}
	return listings, nil
}

// FetchSoldWithParticipant returns the sold listings the user has a
// conversation about. Whether the user is the actual buyer is decided in the
// service via the latest-counterparty check.
func (r *ListingRepository) FetchSoldWithParticipant(ctx context.Context, userID int) ([]models.CarListing, error) {
	query := `
		SELECT DISTINCT l.id, l.seller_id, l.make, l.model, l.year, l.price, l.kms_driven, l.mileage,
		       l.transmission, l.fuel_type, l.noc_available, l.description, l.location_city,
		       l.status, l.views, l.created_at, l.updated_at
		FROM listings l
		JOIN conversations c ON c.listing_id = l.id
		WHERE l.status = ? AND (c.user1_id = ? OR c.user2_id = ?)
		ORDER BY l.updated_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, models.StatusSold, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := []models.CarListing{}
	var ids []int
	for rows.Next() {
		var l models.CarListing
		if err := rows.Scan(
			&l.ID, &l.SellerID, &l.Make, &l.Model, &l.Year, &l.Price, &l.KmsDriven, &l.Mileage,
			&l.Transmission, &l.FuelType, &l.NocAvailable, &l.Description, &l.LocationCity,
			&l.Status, &l.Views, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		listings = append(listings, l)
		ids = append(ids, l.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachImages(ctx, listings, ids); err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *ListingRepository) FetchByStatusAndSellerID(ctx context.Context, sellerID int, status string) ([]models.CarListing, error) {
	query := `
		SELECT id, seller_id, make, model, year, price, kms_driven, mileage, transmission, fuel_type,
		       noc_available, description, location_city, status, views, created_at, updated_at
		FROM listings
		WHERE seller_id = ?
	`
	params := []interface{}{sellerID}
	if status != "" {
		query += ` AND status = ?`
		params = append(params, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := []models.CarListing{}
	var ids []int
	for rows.Next() {
		var l models.CarListing
		if err := rows.Scan(
			&l.ID, &l.SellerID, &l.Make, &l.Model, &l.Year, &l.Price, &l.KmsDriven, &l.Mileage,
			&l.Transmission, &l.FuelType, &l.NocAvailable, &l.Description, &l.LocationCity,
			&l.Status, &l.Views, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		listings = append(listings, l)
		ids = append(ids, l.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachImages(ctx, listings, ids); err != nil {
		return nil, err
	}
	return listings, nil
}
