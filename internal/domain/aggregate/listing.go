package aggregate

import (
	"fmt"
	"time"
)

// Listing is the root aggregate of the marketplace. It owns its images,
// offers and deals; every mutation goes through the root so the state-machine
// and primary-image invariants hold across the cluster.
//
// State machine: Available -> OffMarket, Available/OffMarket -> Sold (via
// AcceptOffer only). Sold is terminal: every mutating operation on a sold
// listing fails with a DomainError.
type Listing struct {
	AuditedEntity
	title        string
	description  string
	address      Address
	price        float64
	propertyType PropertyType
	contactPhone string
	contactEmail string
	status       ListingStatus
	brokerID     string

	images []*ListingImage
	offers []*Offer
	deals  []*Deal
}

// NewListing creates a listing in the Available state, owned by brokerID.
func NewListing(title, description string, address Address, price float64,
	propertyType PropertyType, contactPhone, contactEmail, brokerID string) (*Listing, error) {
	if title == "" {
		return nil, fmt.Errorf("title cannot be empty")
	}
	if price < 0 {
		return nil, fmt.Errorf("price cannot be negative: %f", price)
	}
	if brokerID == "" {
		return nil, fmt.Errorf("brokerID cannot be empty")
	}
	return &Listing{
		AuditedEntity: newAuditedEntity(),
		title:         title,
		description:   description,
		address:       address,
		price:         price,
		propertyType:  propertyType,
		contactPhone:  contactPhone,
		contactEmail:  contactEmail,
		status:        StatusAvailable,
		brokerID:      brokerID,
	}, nil
}

// UpdateDetails replaces the listing's descriptive fields.
func (l *Listing) UpdateDetails(title, description string, address Address, price float64,
	propertyType PropertyType, contactPhone, contactEmail string) error {
	if l.status == StatusSold {
		return newSoldListingImmutable("cannot update details of a sold listing")
	}
	l.title = title
	l.description = description
	l.address = address
	l.price = price
	l.propertyType = propertyType
	l.contactPhone = contactPhone
	l.contactEmail = contactEmail
	l.touch()
	return nil
}

// AddImage attaches an uploaded file. When isPrimary is set, the previous
// primary image is demoted first so only one primary exists.
func (l *Listing) AddImage(file *FileInfo, isPrimary bool) (*ListingImage, error) {
	if l.status == StatusSold {
		return nil, newSoldListingImmutable("cannot add images to a sold listing")
	}
	if isPrimary {
		if prev := l.primaryImage(); prev != nil {
			prev.setPrimary(false)
		}
	}
	image := newListingImage(l.id, file, isPrimary)
	l.images = append(l.images, image)
	l.touch()
	return image, nil
}

// RemoveImage detaches an image. Removing the primary image promotes the
// first remaining image, if any.
func (l *Listing) RemoveImage(image *ListingImage) error {
	if l.status == StatusSold {
		return newSoldListingImmutable("cannot remove images from a sold listing")
	}
	if image.IsPrimary() {
		for _, other := range l.images {
			if other.ID() != image.ID() {
				other.setPrimary(true)
				break
			}
		}
	}
	for i, img := range l.images {
		if img.ID() == image.ID() {
			l.images = append(l.images[:i], l.images[i+1:]...)
			break
		}
	}
	l.touch()
	return nil
}

// UpdatePrimaryImage makes the given image the listing's primary one.
func (l *Listing) UpdatePrimaryImage(image *ListingImage) error {
	if l.status == StatusSold {
		return newSoldListingImmutable("cannot update primary image of a sold listing")
	}
	if prev := l.primaryImage(); prev != nil {
		prev.setPrimary(false)
	}
	image.setPrimary(true)
	l.touch()
	return nil
}

// AddUpdateOffer records a buyer's bid. A repeat bid by the same buyer
// overwrites the amount of the existing offer instead of creating a new one.
// The buyer-is-not-the-broker check belongs to the application layer.
func (l *Listing) AddUpdateOffer(buyer *UserInfo, amount float64) error {
	if l.status == StatusSold {
		return newSoldListingImmutable("cannot add offer to a sold listing")
	}
	for _, offer := range l.offers {
		if offer.BuyerID() == buyer.ID() {
			offer.updateAmount(amount)
			l.touch()
			return nil
		}
	}
	l.offers = append(l.offers, newOffer(l.id, buyer, amount))
	l.touch()
	return nil
}

// RemoveOffer withdraws an offer. An offer referenced by a deal can never be
// removed; a missing offer id is a no-op.
func (l *Listing) RemoveOffer(offerID string) error {
	if l.status == StatusSold {
		return newSoldListingImmutable("cannot remove offer from a sold listing")
	}
	for _, deal := range l.deals {
		if deal.OfferID() == offerID {
			return newOfferHasAcceptedDeal("cannot remove an offer that has been accepted in a deal")
		}
	}
	for i, offer := range l.offers {
		if offer.ID() == offerID {
			l.offers = append(l.offers[:i], l.offers[i+1:]...)
			l.touch()
			return nil
		}
	}
	return nil
}

// AcceptOffer closes the sale: it records a deal with the computed commission
// and moves the listing to Sold. Allowed from Available and OffMarket.
func (l *Listing) AcceptOffer(offer *Offer, commission float64) (*Deal, error) {
	if l.status == StatusSold {
		return nil, newInvalidStateTransition("cannot accept an offer on a sold listing")
	}
	deal := newDeal(l.id, offer, commission)
	l.deals = append(l.deals, deal)
	l.status = StatusSold
	l.touch()
	return deal, nil
}

// MarkOffMarket takes the listing off the market without a sale.
func (l *Listing) MarkOffMarket() error {
	if l.status == StatusSold {
		return newInvalidStateTransition("cannot mark a sold listing as off-market")
	}
	l.status = StatusOffMarket
	l.touch()
	return nil
}

// FindOffer returns the offer with the given id, or nil.
func (l *Listing) FindOffer(offerID string) *Offer {
	for _, offer := range l.offers {
		if offer.ID() == offerID {
			return offer
		}
	}
	return nil
}

// FindImage returns the image with the given id, or nil.
func (l *Listing) FindImage(imageID string) *ListingImage {
	for _, image := range l.images {
		if image.ID() == imageID {
			return image
		}
	}
	return nil
}

func (l *Listing) primaryImage() *ListingImage {
	for _, image := range l.images {
		if image.IsPrimary() {
			return image
		}
	}
	return nil
}

func (l *Listing) Title() string              { return l.title }
func (l *Listing) Description() string        { return l.description }
func (l *Listing) Address() Address           { return l.address }
func (l *Listing) Price() float64             { return l.price }
func (l *Listing) PropertyType() PropertyType { return l.propertyType }
func (l *Listing) ContactPhone() string       { return l.contactPhone }
func (l *Listing) ContactEmail() string       { return l.contactEmail }
func (l *Listing) Status() ListingStatus      { return l.status }
func (l *Listing) BrokerID() string           { return l.brokerID }

// Images returns a copy of the image collection in insertion order.
func (l *Listing) Images() []*ListingImage {
	out := make([]*ListingImage, len(l.images))
	copy(out, l.images)
	return out
}

// Offers returns a copy of the offer collection in insertion order.
func (l *Listing) Offers() []*Offer {
	out := make([]*Offer, len(l.offers))
	copy(out, l.offers)
	return out
}

// Deals returns a copy of the deal collection in insertion order.
func (l *Listing) Deals() []*Deal {
	out := make([]*Deal, len(l.deals))
	copy(out, l.deals)
	return out
}

// ListingState is the persistence snapshot of a Listing and its children.
type ListingState struct {
	ID           string
	Title        string
	Description  string
	Address      Address
	Price        float64
	PropertyType PropertyType
	ContactPhone string
	ContactEmail string
	Status       ListingStatus
	BrokerID     string
	Images       []ListingImageState
	Offers       []OfferState
	Deals        []DealState
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RestoreListing rebuilds the aggregate from its stored state.
func RestoreListing(s ListingState) *Listing {
	l := &Listing{
		AuditedEntity: restoreAuditedEntity(s.ID, s.CreatedAt, s.UpdatedAt),
		title:         s.Title,
		description:   s.Description,
		address:       s.Address,
		price:         s.Price,
		propertyType:  s.PropertyType,
		contactPhone:  s.ContactPhone,
		contactEmail:  s.ContactEmail,
		status:        s.Status,
		brokerID:      s.BrokerID,
	}
	for _, img := range s.Images {
		l.images = append(l.images, RestoreListingImage(img))
	}
	for _, off := range s.Offers {
		l.offers = append(l.offers, RestoreOffer(off))
	}
	for _, deal := range s.Deals {
		l.deals = append(l.deals, RestoreDeal(deal))
	}
	return l
}

// State captures the aggregate for persistence.
func (l *Listing) State() ListingState {
	s := ListingState{
		ID:           l.id,
		Title:        l.title,
		Description:  l.description,
		Address:      l.address,
		Price:        l.price,
		PropertyType: l.propertyType,
		ContactPhone: l.contactPhone,
		ContactEmail: l.contactEmail,
		Status:       l.status,
		BrokerID:     l.brokerID,
		CreatedAt:    l.createdAt,
		UpdatedAt:    l.updatedAt,
	}
	for _, img := range l.images {
		s.Images = append(s.Images, img.State())
	}
	for _, off := range l.offers {
		s.Offers = append(s.Offers, off.State())
	}
	for _, deal := range l.deals {
		s.Deals = append(s.Deals, deal.State())
	}
	return s
}
