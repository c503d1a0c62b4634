package aggregate

import "time"

// Deal is the immutable record of an accepted offer. Exactly one deal exists
// per accepted offer, and creating one marks the listing as sold.
type Deal struct {
	Entity
	listingID  string
	offerID    string
	dealDate   time.Time
	commission float64
}

func newDeal(listingID string, offer *Offer, commission float64) *Deal {
	return &Deal{
		Entity:     newEntity(),
		listingID:  listingID,
		offerID:    offer.ID(),
		dealDate:   time.Now().UTC(),
		commission: commission,
	}
}

func (d *Deal) ListingID() string   { return d.listingID }
func (d *Deal) OfferID() string     { return d.offerID }
func (d *Deal) DealDate() time.Time { return d.dealDate }
func (d *Deal) Commission() float64 { return d.commission }

// DealState is the persistence snapshot of a Deal.
type DealState struct {
	ID         string
	ListingID  string
	OfferID    string
	DealDate   time.Time
	Commission float64
}

// RestoreDeal rebuilds a deal from its stored state.
func RestoreDeal(s DealState) *Deal {
	return &Deal{
		Entity:     restoreEntity(s.ID),
		listingID:  s.ListingID,
		offerID:    s.OfferID,
		dealDate:   s.DealDate,
		commission: s.Commission,
	}
}

// State captures the deal for persistence.
func (d *Deal) State() DealState {
	return DealState{
		ID:         d.id,
		ListingID:  d.listingID,
		OfferID:    d.offerID,
		DealDate:   d.dealDate,
		Commission: d.commission,
	}
}
