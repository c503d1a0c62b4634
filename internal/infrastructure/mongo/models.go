package mongo

import (
	"time"

	"housebroker/internal/domain/aggregate"
)

// Listings are stored as a single document per aggregate: images, offers and
// deals are embedded, so the cascade-delete boundary and the single
// transactional write per use case fall out of the storage model.

type listingImageDocument struct {
	ID         string `bson:"id"`
	FileInfoID string `bson:"file_info_id"`
	URL        string `bson:"url"`
	IsPrimary  bool   `bson:"is_primary"`
}

type offerDocument struct {
	ID        string    `bson:"id"`
	BuyerID   string    `bson:"buyer_id"`
	BuyerName string    `bson:"buyer_name"`
	Amount    float64   `bson:"amount"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type dealDocument struct {
	ID         string    `bson:"id"`
	OfferID    string    `bson:"offer_id"`
	DealDate   time.Time `bson:"deal_date"`
	Commission float64   `bson:"commission"`
}

type listingDocument struct {
	ID           string                 `bson:"_id"`
	Title        string                 `bson:"title"`
	Description  string                 `bson:"description"`
	Address      aggregate.Address      `bson:"address"`
	Price        float64                `bson:"price"`
	PropertyType string                 `bson:"property_type"`
	ContactPhone string                 `bson:"contact_phone"`
	ContactEmail string                 `bson:"contact_email"`
	Status       string                 `bson:"status"`
	BrokerID     string                 `bson:"broker_id"`
	Images       []listingImageDocument `bson:"images"`
	Offers       []offerDocument        `bson:"offers"`
	Deals        []dealDocument         `bson:"deals"`
	CreatedAt    time.Time              `bson:"created_at"`
	UpdatedAt    time.Time              `bson:"updated_at"`
}

func toListingDocument(l *aggregate.Listing) listingDocument {
	s := l.State()
	doc := listingDocument{
		ID:           s.ID,
		Title:        s.Title,
		Description:  s.Description,
		Address:      s.Address,
		Price:        s.Price,
		PropertyType: string(s.PropertyType),
		ContactPhone: s.ContactPhone,
		ContactEmail: s.ContactEmail,
		Status:       string(s.Status),
		BrokerID:     s.BrokerID,
		Images:       []listingImageDocument{},
		Offers:       []offerDocument{},
		Deals:        []dealDocument{},
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
	for _, img := range s.Images {
		doc.Images = append(doc.Images, listingImageDocument{
			ID:         img.ID,
			FileInfoID: img.FileInfoID,
			URL:        img.URL,
			IsPrimary:  img.IsPrimary,
		})
	}
	for _, off := range s.Offers {
		doc.Offers = append(doc.Offers, offerDocument{
			ID:        off.ID,
			BuyerID:   off.BuyerID,
			BuyerName: off.BuyerName,
			Amount:    off.Amount,
			CreatedAt: off.CreatedAt,
			UpdatedAt: off.UpdatedAt,
		})
	}
	for _, deal := range s.Deals {
		doc.Deals = append(doc.Deals, dealDocument{
			ID:         deal.ID,
			OfferID:    deal.OfferID,
			DealDate:   deal.DealDate,
			Commission: deal.Commission,
		})
	}
	return doc
}

func (doc listingDocument) toAggregate() *aggregate.Listing {
	s := aggregate.ListingState{
		ID:           doc.ID,
		Title:        doc.Title,
		Description:  doc.Description,
		Address:      doc.Address,
		Price:        doc.Price,
		PropertyType: aggregate.PropertyType(doc.PropertyType),
		ContactPhone: doc.ContactPhone,
		ContactEmail: doc.ContactEmail,
		Status:       aggregate.ListingStatus(doc.Status),
		BrokerID:     doc.BrokerID,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
	for _, img := range doc.Images {
		s.Images = append(s.Images, aggregate.ListingImageState{
			ID:         img.ID,
			ListingID:  doc.ID,
			FileInfoID: img.FileInfoID,
			URL:        img.URL,
			IsPrimary:  img.IsPrimary,
		})
	}
	for _, off := range doc.Offers {
		s.Offers = append(s.Offers, aggregate.OfferState{
			ID:        off.ID,
			ListingID: doc.ID,
			BuyerID:   off.BuyerID,
			BuyerName: off.BuyerName,
			Amount:    off.Amount,
			CreatedAt: off.CreatedAt,
			UpdatedAt: off.UpdatedAt,
		})
	}
	for _, deal := range doc.Deals {
		s.Deals = append(s.Deals, aggregate.DealState{
			ID:         deal.ID,
			ListingID:  doc.ID,
			OfferID:    deal.OfferID,
			DealDate:   deal.DealDate,
			Commission: deal.Commission,
		})
	}
	return aggregate.RestoreListing(s)
}

type userInfoDocument struct {
	ID           string    `bson:"_id"`
	FirstName    string    `bson:"first_name"`
	LastName     string    `bson:"last_name"`
	ContactPhone string    `bson:"contact_phone"`
	ContactEmail string    `bson:"contact_email"`
	PasswordHash string    `bson:"password_hash"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func toUserInfoDocument(u *aggregate.UserInfo) userInfoDocument {
	s := u.State()
	return userInfoDocument{
		ID:           s.ID,
		FirstName:    s.FirstName,
		LastName:     s.LastName,
		ContactPhone: s.ContactPhone,
		ContactEmail: s.ContactEmail,
		PasswordHash: s.PasswordHash,
		Role:         string(s.Role),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (doc userInfoDocument) toAggregate() *aggregate.UserInfo {
	return aggregate.RestoreUserInfo(aggregate.UserInfoState{
		ID:           doc.ID,
		FirstName:    doc.FirstName,
		LastName:     doc.LastName,
		ContactPhone: doc.ContactPhone,
		ContactEmail: doc.ContactEmail,
		PasswordHash: doc.PasswordHash,
		Role:         aggregate.UserRole(doc.Role),
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	})
}

type fileInfoDocument struct {
	ID          string    `bson:"_id"`
	DisplayName string    `bson:"display_name"`
	StoredName  string    `bson:"stored_name"`
	URL         string    `bson:"url"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func toFileInfoDocument(f *aggregate.FileInfo) fileInfoDocument {
	s := f.State()
	return fileInfoDocument{
		ID:          s.ID,
		DisplayName: s.DisplayName,
		StoredName:  s.StoredName,
		URL:         s.URL,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (doc fileInfoDocument) toAggregate() *aggregate.FileInfo {
	return aggregate.RestoreFileInfo(aggregate.FileInfoState{
		ID:          doc.ID,
		DisplayName: doc.DisplayName,
		StoredName:  doc.StoredName,
		URL:         doc.URL,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	})
}

type commissionConfigDocument struct {
	ID             string  `bson:"_id"`
	StartingPrice  float64 `bson:"starting_price"`
	EndingPrice    float64 `bson:"ending_price"`
	CommissionRate float64 `bson:"commission_rate"`
}

func toCommissionConfigDocument(c *aggregate.CommissionConfig) commissionConfigDocument {
	s := c.State()
	return commissionConfigDocument{
		ID:             s.ID,
		StartingPrice:  s.StartingPrice,
		EndingPrice:    s.EndingPrice,
		CommissionRate: s.CommissionRate,
	}
}

func (doc commissionConfigDocument) toAggregate() *aggregate.CommissionConfig {
	return aggregate.RestoreCommissionConfig(aggregate.CommissionConfigState{
		ID:             doc.ID,
		StartingPrice:  doc.StartingPrice,
		EndingPrice:    doc.EndingPrice,
		CommissionRate: doc.CommissionRate,
	})
}
