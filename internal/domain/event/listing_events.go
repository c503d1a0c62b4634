package event

import "time"

// DomainEvent is a fact about an aggregate, published after commit.
type DomainEvent interface {
	EventType() string
	AggregateID() string
	OccurredAt() time.Time
}

// ListingCreated event
type ListingCreated struct {
	ListingID string    `json:"listing_id"`
	BrokerID  string    `json:"broker_id"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *ListingCreated) EventType() string     { return "ListingCreated" }
func (e *ListingCreated) AggregateID() string   { return e.ListingID }
func (e *ListingCreated) OccurredAt() time.Time { return e.Timestamp }

// ListingUpdated event
type ListingUpdated struct {
	ListingID string    `json:"listing_id"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *ListingUpdated) EventType() string     { return "ListingUpdated" }
func (e *ListingUpdated) AggregateID() string   { return e.ListingID }
func (e *ListingUpdated) OccurredAt() time.Time { return e.Timestamp }

// ListingDeleted event
type ListingDeleted struct {
	ListingID string    `json:"listing_id"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *ListingDeleted) EventType() string     { return "ListingDeleted" }
func (e *ListingDeleted) AggregateID() string   { return e.ListingID }
func (e *ListingDeleted) OccurredAt() time.Time { return e.Timestamp }

// ListingOffMarket event
type ListingOffMarket struct {
	ListingID string    `json:"listing_id"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *ListingOffMarket) EventType() string     { return "ListingOffMarket" }
func (e *ListingOffMarket) AggregateID() string   { return e.ListingID }
func (e *ListingOffMarket) OccurredAt() time.Time { return e.Timestamp }

// OfferPlaced event, raised for both new offers and re-bids.
type OfferPlaced struct {
	ListingID string    `json:"listing_id"`
	BuyerID   string    `json:"buyer_id"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *OfferPlaced) EventType() string     { return "OfferPlaced" }
func (e *OfferPlaced) AggregateID() string   { return e.ListingID }
func (e *OfferPlaced) OccurredAt() time.Time { return e.Timestamp }

// OfferAccepted event, raised when a deal is closed and the listing sells.
type OfferAccepted struct {
	ListingID  string    `json:"listing_id"`
	OfferID    string    `json:"offer_id"`
	DealID     string    `json:"deal_id"`
	Commission float64   `json:"commission"`
	Timestamp  time.Time `json:"timestamp"`
}

func (e *OfferAccepted) EventType() string     { return "OfferAccepted" }
func (e *OfferAccepted) AggregateID() string   { return e.ListingID }
func (e *OfferAccepted) OccurredAt() time.Time { return e.Timestamp }

// ListingImagesChanged event, raised on upload, removal and primary changes.
type ListingImagesChanged struct {
	ListingID string    `json:"listing_id"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *ListingImagesChanged) EventType() string     { return "ListingImagesChanged" }
func (e *ListingImagesChanged) AggregateID() string   { return e.ListingID }
func (e *ListingImagesChanged) OccurredAt() time.Time { return e.Timestamp }
