package handlers

import (
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"carspotBack/internal/models"
	"carspotBack/internal/services"
	"carspotBack/utils"
)

type ListingHandler struct {
	Service  *services.ListingService
	Uploader *utils.Uploader
	Tokens   *utils.Manager
}

const maxUploadSize = 32 << 20

// optionalUserID extracts the user from a Bearer token on public routes where
// authentication is not required but personalizes the response.
func (h *ListingHandler) optionalUserID(r *http.Request) int {
	if id := contextUserID(r); id != 0 {
		return id
	}
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return 0
	}
	claims, err := h.Tokens.ParseAccessToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return 0
	}
	return int(claims.UserID)
}

func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	listing := listingFromForm(r)
	listing.SellerID = contextUserID(r)

	images, err := h.uploadFormImages(r)
	if err != nil {
		http.Error(w, "Failed to store images", http.StatusInternalServerError)
		return
	}
	listing.Images = images

	created, err := h.Service.CreateListing(r.Context(), listing)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ListingHandler) GetListingByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(getParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}

	listing, err := h.Service.GetListing(r.Context(), id, h.optionalUserID(r))
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(getParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	listing := listingFromForm(r)
	listing.ID = id

	newImages, err := h.uploadFormImages(r)
	if err != nil {
		http.Error(w, "Failed to store images", http.StatusInternalServerError)
		return
	}

	updated, err := h.Service.UpdateListing(r.Context(), listing, contextUserID(r), newImages)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ListingHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(getParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}

	deleted, err := h.Service.DeleteListing(r.Context(), id, contextUserID(r))
	if err != nil {
		serviceError(w, err)
		return
	}
	for _, img := range deleted.Images {
		if err := h.Uploader.DeleteFile(img.Path); err != nil {
			log.Printf("delete stored image %s: %v", img.Path, err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListingHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	imageID, err := strconv.Atoi(getParam(r, "image_id"))
	if err != nil {
		http.Error(w, "Invalid image ID", http.StatusBadRequest)
		return
	}

	img, err := h.Service.DeleteImage(r.Context(), imageID, contextUserID(r))
	if err != nil {
		serviceError(w, err)
		return
	}
	if err := h.Uploader.DeleteFile(img.Path); err != nil {
		log.Printf("delete stored image %s: %v", img.Path, err)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListingHandler) MarkSold(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(getParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}
	if err := h.Service.MarkSold(r.Context(), id, contextUserID(r)); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": models.StatusSold})
}

func (h *ListingHandler) ApproveListing(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(getParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}
	if err := h.Service.Approve(r.Context(), id); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": models.StatusActive})
}

func (h *ListingHandler) RejectListing(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(getParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}
	if err := h.Service.Reject(r.Context(), id); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": models.StatusRejected})
}

func (h *ListingHandler) GetListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, _ := strconv.Atoi(q.Get("year"))
	minPrice, _ := strconv.ParseFloat(q.Get("min_price"), 64)
	maxPrice, _ := strconv.ParseFloat(q.Get("max_price"), 64)
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	filter := models.ListingFilter{
		Query:        q.Get("q"),
		Transmission: q.Get("transmission"),
		FuelType:     q.Get("fuel_type"),
		Make:         q.Get("make"),
		City:         q.Get("location_city"),
		Year:         year,
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
		Page:         page,
		Limit:        limit,
	}

	result, err := h.Service.SearchListings(r.Context(), h.optionalUserID(r), filter)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ListingHandler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.Service.GetFilterOptions(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (h *ListingHandler) CompareListings(w http.ResponseWriter, r *http.Request) {
	ids := parseIntArray(r.URL.Query().Get("ids"))
	listings, err := h.Service.CompareListings(r.Context(), ids)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (h *ListingHandler) GetMyListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.Service.GetMyListings(r.Context(), contextUserID(r), r.URL.Query().Get("status"))
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (h *ListingHandler) uploadFormImages(r *http.Request) ([]models.CarImage, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var images []models.CarImage
	for _, fh := range r.MultipartForm.File["images"] {
		file, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, err
		}

		name := uuid.New().String() + filepath.Ext(fh.Filename)
		url, err := h.Uploader.UploadFile(data, name, "listings", fh.Header.Get("Content-Type"))
		if err != nil {
			return nil, err
		}
		images = append(images, models.CarImage{
			Name: fh.Filename,
			Path: url,
			Type: fh.Header.Get("Content-Type"),
		})
	}
	return images, nil
}

func listingFromForm(r *http.Request) models.CarListing {
	year, _ := strconv.Atoi(r.FormValue("year"))
	price, _ := strconv.ParseFloat(r.FormValue("price"), 64)
	kms, _ := strconv.Atoi(r.FormValue("kms_driven"))
	mileage, _ := strconv.ParseFloat(r.FormValue("mileage"), 64)
	noc, _ := strconv.ParseBool(r.FormValue("noc_available"))

	return models.CarListing{
		Make:         strings.TrimSpace(r.FormValue("make")),
		Model:        strings.TrimSpace(r.FormValue("model")),
		Year:         year,
		Price:        price,
		KmsDriven:    kms,
		Mileage:      mileage,
		Transmission: r.FormValue("transmission"),
		FuelType:     r.FormValue("fuel_type"),
		NocAvailable: noc,
		Description:  r.FormValue("description"),
		LocationCity: strings.TrimSpace(r.FormValue("location_city")),
	}
}

func parseIntArray(raw string) []int {
	if raw == "" {
		return nil
	}
	var out []int
	for _, part := range strings.Split(raw, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			out = append(out, n)
		}
	}
	return out
}
