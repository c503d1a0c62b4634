package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"housebroker/internal/application/services"
	"housebroker/internal/domain/aggregate"
	"housebroker/pkg/middleware"
	"housebroker/pkg/response"
)

// maxImageUploadBytes caps multipart image uploads at 10 MiB.
const maxImageUploadBytes = 10 << 20

// HTTPListingController handles HTTP requests for listing operations
type HTTPListingController struct {
	listingService *services.ListingService
}

// NewHTTPListingController creates a new HTTP listing controller
func NewHTTPListingController(listingService *services.ListingService) *HTTPListingController {
	return &HTTPListingController{
		listingService: listingService,
	}
}

// CreateListing handles POST /api/listings
func (c *HTTPListingController) CreateListing(w http.ResponseWriter, r *http.Request) {
	var req services.CreateUpdateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.SendBadRequest(w, r, "Invalid JSON format")
		return
	}

	response.SendResult(w, r, c.listingService.Create(r.Context(), req))
}

// UpdateListing handles PUT /api/listings/{id}
func (c *HTTPListingController) UpdateListing(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")

	var req services.CreateUpdateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.SendBadRequest(w, r, "Invalid JSON format")
		return
	}

	response.SendResult(w, r, c.listingService.Update(r.Context(), listingID, req))
}

// DeleteListing handles DELETE /api/listings/{id}
func (c *HTTPListingController) DeleteListing(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")
	response.SendResult(w, r, c.listingService.Delete(r.Context(), listingID))
}

// GetListing handles GET /api/listings/{id}
func (c *HTTPListingController) GetListing(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")
	response.SendResult(w, r, c.listingService.GetByID(r.Context(), listingID))
}

// GetDetailedListing handles GET /api/listings/{id}/detailed
func (c *HTTPListingController) GetDetailedListing(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")
	response.SendResult(w, r, c.listingService.GetDetailedByID(r.Context(), listingID))
}

// GetListings handles GET /api/listings
func (c *HTTPListingController) GetListings(w http.ResponseWriter, r *http.Request) {
	filters := parseListingFilters(r)
	response.SendResult(w, r, c.listingService.GetListings(r.Context(), filters))
}

// GetBrokerListings handles GET /api/brokers/{brokerId}/listings
func (c *HTTPListingController) GetBrokerListings(w http.ResponseWriter, r *http.Request) {
	brokerID := chi.URLParam(r, "brokerId")
	filters := parseListingFilters(r)
	response.SendResult(w, r, c.listingService.GetBrokerListings(r.Context(), brokerID, filters))
}

// UploadImage handles POST /api/listings/{id}/images
func (c *HTTPListingController) UploadImage(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		response.SendBadRequest(w, r, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.SendBadRequest(w, r, "Image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageUploadBytes))
	if err != nil {
		response.SendBadRequest(w, r, "Failed to read uploaded file")
		return
	}

	isPrimary := r.FormValue("is_primary") == "true"

	response.SendResult(w, r, c.listingService.UploadImage(r.Context(), listingID, data, header.Filename, isPrimary))
}

// RemoveImage handles DELETE /api/listings/{id}/images/{imageId}
func (c *HTTPListingController) RemoveImage(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")
	imageID := chi.URLParam(r, "imageId")
	response.SendResult(w, r, c.listingService.RemoveImage(r.Context(), listingID, imageID))
}

// SetPrimaryImage handles PUT /api/listings/{id}/images/{imageId}/primary
func (c *HTTPListingController) SetPrimaryImage(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")
	imageID := chi.URLParam(r, "imageId")
	response.SendResult(w, r, c.listingService.SetPrimaryImage(r.Context(), listingID, imageID))
}

// AddUpdateOffer handles POST /api/listings/{id}/offers
func (c *HTTPListingController) AddUpdateOffer(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")

	var req struct {
		OfferPrice float64 `json:"offer_price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.SendBadRequest(w, r, "Invalid JSON format")
		return
	}

	response.SendResult(w, r, c.listingService.AddUpdateOffer(r.Context(), listingID, req.OfferPrice))
}

// RemoveOffer handles DELETE /api/listings/{id}/offers/{offerId}
func (c *HTTPListingController) RemoveOffer(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")
	offerID := chi.URLParam(r, "offerId")
	response.SendResult(w, r, c.listingService.RemoveOffer(r.Context(), listingID, offerID))
}

// AcceptOffer handles POST /api/listings/{id}/offers/{offerId}/accept
func (c *HTTPListingController) AcceptOffer(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")
	offerID := chi.URLParam(r, "offerId")
	response.SendResult(w, r, c.listingService.AcceptOffer(r.Context(), listingID, offerID))
}

// MarkAsOffMarket handles POST /api/listings/{id}/off-market
func (c *HTTPListingController) MarkAsOffMarket(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "id")
	response.SendResult(w, r, c.listingService.MarkAsOffMarket(r.Context(), listingID))
}

// GetMyListings handles GET /api/listings/mine for the authenticated broker
func (c *HTTPListingController) GetMyListings(w http.ResponseWriter, r *http.Request) {
	brokerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.SendUnauthorized(w, r, "Authentication required")
		return
	}
	filters := parseListingFilters(r)
	response.SendResult(w, r, c.listingService.GetBrokerListings(r.Context(), brokerID, filters))
}

// parseListingFilters reads optional price, type and paging query parameters.
func parseListingFilters(r *http.Request) services.ListingFilters {
	q := r.URL.Query()

	var filters services.ListingFilters

	if raw := q.Get("low_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filters.LowPrice = &v
		}
	}
	if raw := q.Get("high_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filters.HighPrice = &v
		}
	}
	if raw := q.Get("property_type"); raw != "" {
		pt := aggregate.PropertyType(raw)
		filters.PropertyType = &pt
	}
	if raw := q.Get("skip"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			filters.Skip = v
		}
	}
	if raw := q.Get("take"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			filters.Take = v
		}
	}

	return filters
}
