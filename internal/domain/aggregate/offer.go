package aggregate

import "time"

// Offer is a buyer's bid on a listing. One offer per buyer; re-bidding by the
// same buyer updates the amount in place. Offers live and die with the listing.
type Offer struct {
	AuditedEntity
	listingID string
	buyerID   string
	buyerName string
	amount    float64
}

func newOffer(listingID string, buyer *UserInfo, amount float64) *Offer {
	return &Offer{
		AuditedEntity: newAuditedEntity(),
		listingID:     listingID,
		buyerID:       buyer.ID(),
		buyerName:     buyer.FullName(),
		amount:        amount,
	}
}

func (o *Offer) updateAmount(amount float64) {
	o.amount = amount
	o.touch()
}

func (o *Offer) ListingID() string { return o.listingID }
func (o *Offer) BuyerID() string   { return o.buyerID }
func (o *Offer) BuyerName() string { return o.buyerName }
func (o *Offer) Amount() float64   { return o.amount }

// OfferState is the persistence snapshot of an Offer.
type OfferState struct {
	ID        string
	ListingID string
	BuyerID   string
	BuyerName string
	Amount    float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RestoreOffer rebuilds an offer from its stored state.
func RestoreOffer(s OfferState) *Offer {
	return &Offer{
		AuditedEntity: restoreAuditedEntity(s.ID, s.CreatedAt, s.UpdatedAt),
		listingID:     s.ListingID,
		buyerID:       s.BuyerID,
		buyerName:     s.BuyerName,
		amount:        s.Amount,
	}
}

// State captures the offer for persistence.
func (o *Offer) State() OfferState {
	return OfferState{
		ID:        o.id,
		ListingID: o.listingID,
		BuyerID:   o.buyerID,
		BuyerName: o.buyerName,
		Amount:    o.amount,
		CreatedAt: o.createdAt,
		UpdatedAt: o.updatedAt,
	}
}
