package services

import (
	"strings"
	"time"

	"housebroker/internal/domain/aggregate"
)

// CreateUpdateListingRequest is the payload for creating or updating a listing.
type CreateUpdateListingRequest struct {
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Address      aggregate.Address      `json:"address"`
	Price        float64                `json:"price"`
	PropertyType aggregate.PropertyType `json:"property_type"`
	ContactPhone string                 `json:"contact_phone"`
	ContactEmail string                 `json:"contact_email"`
}

// validate returns field-level messages for malformed input, empty when valid.
func (r CreateUpdateListingRequest) validate() map[string][]string {
	fieldErrors := make(map[string][]string)
	if strings.TrimSpace(r.Title) == "" {
		fieldErrors["title"] = append(fieldErrors["title"], "title is required")
	}
	if r.Price < 0 {
		fieldErrors["price"] = append(fieldErrors["price"], "price cannot be negative")
	}
	if strings.TrimSpace(r.Address.Street) == "" {
		fieldErrors["address.street"] = append(fieldErrors["address.street"], "street address is required")
	}
	if strings.TrimSpace(r.Address.City) == "" {
		fieldErrors["address.city"] = append(fieldErrors["address.city"], "city is required")
	}
	if r.ContactEmail != "" && !strings.Contains(r.ContactEmail, "@") {
		fieldErrors["contact_email"] = append(fieldErrors["contact_email"], "contact email is invalid")
	}
	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}

// ListingFilters narrows and pages listing queries.
type ListingFilters struct {
	LowPrice     *float64                `json:"low_price,omitempty"`
	HighPrice    *float64                `json:"high_price,omitempty"`
	PropertyType *aggregate.PropertyType `json:"property_type,omitempty"`
	Skip         int                     `json:"skip"`
	Take         int                     `json:"take"`
}

// ImageResponse is the public projection of a listing image.
type ImageResponse struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	IsPrimary bool   `json:"is_primary"`
}

// OfferResponse is the broker-facing projection of an offer.
type OfferResponse struct {
	ID                  string  `json:"id"`
	BuyerID             string  `json:"buyer_id"`
	BuyerName           string  `json:"buyer_name"`
	OfferAmount         float64 `json:"offer_amount"`
	EstimatedCommission float64 `json:"estimated_commission"`
}

// DealResponse is the broker-facing projection of a closed deal.
type DealResponse struct {
	ID         string    `json:"id"`
	OfferID    string    `json:"offer_id"`
	DealDate   time.Time `json:"deal_date"`
	DealPrice  float64   `json:"deal_price"`
	Commission float64   `json:"commission"`
}

// ListingResponse is the public projection of a listing.
type ListingResponse struct {
	ID           string                  `json:"id"`
	Title        string                  `json:"title"`
	Description  string                  `json:"description"`
	Address      aggregate.Address       `json:"address"`
	Price        float64                 `json:"price"`
	PropertyType aggregate.PropertyType  `json:"property_type"`
	ContactPhone string                  `json:"contact_phone"`
	ContactEmail string                  `json:"contact_email"`
	Status       aggregate.ListingStatus `json:"status"`
	BrokerID     string                  `json:"broker_id"`
	Images       []ImageResponse         `json:"images"`
	CreatedAt    time.Time               `json:"created_at"`
}

// DetailedListingResponse adds offers and deals to the public projection.
// Both collections are redacted to empty for everyone but the owning broker.
type DetailedListingResponse struct {
	ListingResponse
	Offers []OfferResponse `json:"offers"`
	Deals  []DealResponse  `json:"deals"`
}

// PaginationResponse pages a result set.
type PaginationResponse[T any] struct {
	Data      []T `json:"data"`
	PageNo    int `json:"page_no"`
	PageCount int `json:"page_count"`
}

func toListingResponse(l *aggregate.Listing) *ListingResponse {
	resp := &ListingResponse{
		ID:           l.ID(),
		Title:        l.Title(),
		Description:  l.Description(),
		Address:      l.Address(),
		Price:        l.Price(),
		PropertyType: l.PropertyType(),
		ContactPhone: l.ContactPhone(),
		ContactEmail: l.ContactEmail(),
		Status:       l.Status(),
		BrokerID:     l.BrokerID(),
		Images:       []ImageResponse{},
		CreatedAt:    l.CreatedAt(),
	}
	for _, img := range l.Images() {
		resp.Images = append(resp.Images, ImageResponse{
			ID:        img.ID(),
			URL:       img.URL(),
			IsPrimary: img.IsPrimary(),
		})
	}
	return resp
}

func toOfferResponse(o *aggregate.Offer) OfferResponse {
	return OfferResponse{
		ID:          o.ID(),
		BuyerID:     o.BuyerID(),
		BuyerName:   o.BuyerName(),
		OfferAmount: o.Amount(),
	}
}

func toDealResponse(l *aggregate.Listing, d *aggregate.Deal) DealResponse {
	resp := DealResponse{
		ID:         d.ID(),
		OfferID:    d.OfferID(),
		DealDate:   d.DealDate(),
		Commission: d.Commission(),
	}
	if offer := l.FindOffer(d.OfferID()); offer != nil {
		resp.DealPrice = offer.Amount()
	}
	return resp
}
