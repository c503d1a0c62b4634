package services

import (
	"context"
	"log"
	"path/filepath"
	"strings"
	"time"

	"housebroker/internal/domain/aggregate"
	"housebroker/internal/domain/event"
	"housebroker/internal/domain/repository"
	"housebroker/internal/infrastructure/bus"
	"housebroker/pkg/result"
)

// allowedImageExtensions is the upload allow-list, matched case-insensitively.
var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".webp": true,
}

// ListingService orchestrates every listing use case: it authenticates the
// caller, loads the aggregate, authorizes against broker ownership, invokes
// the aggregate mutation and persists through a unit of work, mapping each
// failure mode onto the result envelope.
type ListingService struct {
	uowFactory  repository.UnitOfWorkFactory
	listings    repository.ListingRepository
	users       repository.UserInfoRepository
	commission  *CommissionConfigService
	files       FileService
	currentUser CurrentUserService
	eventBus    bus.EventBus
	cache       ListingCache
}

// NewListingService creates a new listing service. cache may be nil.
func NewListingService(
	uowFactory repository.UnitOfWorkFactory,
	listings repository.ListingRepository,
	users repository.UserInfoRepository,
	commission *CommissionConfigService,
	files FileService,
	currentUser CurrentUserService,
	eventBus bus.EventBus,
	cache ListingCache,
) *ListingService {
	return &ListingService{
		uowFactory:  uowFactory,
		listings:    listings,
		users:       users,
		commission:  commission,
		files:       files,
		currentUser: currentUser,
		eventBus:    eventBus,
		cache:       cache,
	}
}

// Create adds a new listing owned by the authenticated broker.
func (s *ListingService) Create(ctx context.Context, req CreateUpdateListingRequest) result.Result[*ListingResponse] {
	if fieldErrors := req.validate(); fieldErrors != nil {
		return result.ValidationError[*ListingResponse](fieldErrors)
	}
	userID, ok := s.currentUser.UserID(ctx)
	if !ok {
		return result.Unauthorized[*ListingResponse]("User is not logged in")
	}

	listing, err := aggregate.NewListing(req.Title, req.Description, req.Address, req.Price,
		req.PropertyType, req.ContactPhone, req.ContactEmail, userID)
	if err != nil {
		return result.Failure[*ListingResponse](err.Error())
	}

	uow := s.uowFactory.CreateUnitOfWork()
	defer uow.Close()

	if err := uow.Begin(ctx); err != nil {
		return result.Failure[*ListingResponse]("Failed to add listing")
	}
	if err := uow.Listings().Add(ctx, listing); err != nil {
		uow.Rollback(ctx)
		return result.Failure[*ListingResponse]("Failed to add listing")
	}
	if err := s.commit(ctx, uow); err != nil {
		return result.Failure[*ListingResponse]("Failed to add listing")
	}

	s.publish(ctx, &event.ListingCreated{
		ListingID: listing.ID(),
		BrokerID:  listing.BrokerID(),
		Title:     listing.Title(),
		Price:     listing.Price(),
		Timestamp: time.Now().UTC(),
	})
	return result.Success("Added successfully", toListingResponse(listing))
}

// Update replaces the descriptive details of a listing owned by the caller.
func (s *ListingService) Update(ctx context.Context, listingID string, req CreateUpdateListingRequest) result.Result[*ListingResponse] {
	if fieldErrors := req.validate(); fieldErrors != nil {
		return result.ValidationError[*ListingResponse](fieldErrors)
	}
	userID, ok := s.currentUser.UserID(ctx)
	if !ok {
		return result.Unauthorized[*ListingResponse]("User is not logged in")
	}

	uow := s.uowFactory.CreateUnitOfWork()
	defer uow.Close()

	if err := uow.Begin(ctx); err != nil {
		return result.Failure[*ListingResponse]("Failed to update listing")
	}
	listing, err := uow.Listings().GetByID(ctx, listingID)
	if err != nil {
		uow.Rollback(ctx)
		return result.Failure[*ListingResponse]("Failed to update listing")
	}
	if listing == nil {
		uow.Rollback(ctx)
		return result.NotFound[*ListingResponse]()
	}
	if listing.BrokerID() != userID {
		uow.Rollback(ctx)
		return result.Unauthorized[*ListingResponse]("Only the broker of the listing can update it.")
	}

	if err := listing.UpdateDetails(req.Title, req.Description, req.Address, req.Price,
		req.PropertyType, req.ContactPhone, req.ContactEmail); err != nil {
		uow.Rollback(ctx)
		return result.Failure[*ListingResponse](err.Error())
	}
	if err := uow.Listings().Update(ctx, listing); err != nil {
		uow.Rollback(ctx)
		return result.Failure[*ListingResponse]("Failed to update listing")
	}
	if err := s.commit(ctx, uow); err != nil {
		return result.Failure[*ListingResponse]("Failed to update listing")
	}

	s.publish(ctx, &event.ListingUpdated{
		ListingID: listing.ID(),
		Title:     listing.Title(),
		Price:     listing.Price(),
		Timestamp: time.Now().UTC(),
	})
	return result.Success("Updated successfully", toListingResponse(listing))
}

// Delete removes a listing and, through aggregate ownership, its images,
// offers and deals.
func (s *ListingService) Delete(ctx context.Context, listingID string) result.Result[string] {
	userID, ok := s.currentUser.UserID(ctx)
	if !ok {
		return result.Unauthorized[string]("User is not logged in")
	}

	uow := s.uowFactory.CreateUnitOfWork()
	defer uow.Close()

	if err := uow.Begin(ctx); err != nil {
		return result.Failure[string]("Failed to delete listing")
	}
	listing, err := uow.Listings().GetByID(ctx, listingID)
	if err != nil {
		uow.Rollback(ctx)
		return result.Failure[string]("Failed to delete listing")
	}
	if listing == nil {
		uow.Rollback(ctx)
		return result.NotFound[string]()
	}
	if listing.BrokerID() != userID {
		uow.Rollback(ctx)
		return result.Unauthorized[string]("Only the broker of the listing can delete it.")
	}

	if err := uow.Listings().Delete(ctx, listing); err != nil {
		uow.Rollback(ctx)
		return result.Failure[string]("Failed to delete listing")
	}
	if err := s.commit(ctx, uow); err != nil {
		return result.Failure[string]("Failed to delete listing")
	}

	s.publish(ctx, &event.ListingDeleted{ListingID: listingID, Timestamp: time.Now().UTC()})
	return result.Success("Successful", "")
}

// GetByID returns the public projection of a listing.
func (s *ListingService) GetByID(ctx context.Context, listingID string) result.Result[*ListingResponse] {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, listingID)
		if err != nil {
			log.Printf("Warning: listing cache read failed: %v", err)
		} else if cached != nil {
			return result.Success("Successful", cached)
		}
	}

	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return result.Failure[*ListingResponse]("Failed to load listing")
	}
	if listing == nil {
		return result.NotFound[*ListingResponse]()
	}

	resp := toListingResponse(listing)
	if s.cache != nil {
		if err := s.cache.Set(ctx, resp); err != nil {
			log.Printf("Warning: listing cache write failed: %v", err)
		}
	}
	return result.Success("Successful", resp)
}

// GetDetailedByID returns the detailed projection of a listing. The owning
// broker sees offers with a live estimated commission and all deals; every
// other caller, anonymous included, gets both collections redacted to empty.
func (s *ListingService) GetDetailedByID(ctx context.Context, listingID string) result.Result[*DetailedListingResponse] {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return result.Failure[*DetailedListingResponse]("Failed to load listing")
	}
	if listing == nil {
		return result.NotFound[*DetailedListingResponse]()
	}

	resp := &DetailedListingResponse{
		ListingResponse: *toListingResponse(listing),
		Offers:          []OfferResponse{},
		Deals:           []DealResponse{},
	}

	userID, ok := s.currentUser.UserID(ctx)
	if !ok || listing.BrokerID() != userID {
		return result.Success("Successful", resp)
	}

	for _, offer := range listing.Offers() {
		offerResp := toOfferResponse(offer)
		estimated, err := s.commission.CalculateCommission(ctx, offer.Amount())
		if err != nil {
			return result.Failure[*DetailedListingResponse]("Failed to load listing details")
		}
		offerResp.EstimatedCommission = estimated
		resp.Offers = append(resp.Offers, offerResp)
	}
	for _, deal := range listing.Deals() {
		resp.Deals = append(resp.Deals, toDealResponse(listing, deal))
	}
	return result.Success("Successful", resp)
}

// GetListings returns a filtered, paginated page of listings.
func (s *ListingService) GetListings(ctx context.Context, filters ListingFilters) result.Result[PaginationResponse[*ListingResponse]] {
	return s.listPage(ctx, filters, "")
}

// GetBrokerListings returns the listings owned by a specific broker.
func (s *ListingService) GetBrokerListings(ctx context.Context, brokerID string, filters ListingFilters) result.Result[PaginationResponse[*ListingResponse]] {
	return s.listPage(ctx, filters, brokerID)
}

func (s *ListingService) listPage(ctx context.Context, filters ListingFilters, brokerID string) result.Result[PaginationResponse[*ListingResponse]] {
	take := filters.Take
	if take <= 0 {
		take = 10
	}
	spec := repository.NewSpecification().
		WithPriceRange(filters.LowPrice, filters.HighPrice).
		WithPaging(filters.Skip, take).
		WithOrder("created_at", repository.SortDescending)
	if filters.PropertyType != nil {
		spec = spec.WithFilter("property_type", string(*filters.PropertyType))
	}
	if brokerID != "" {
		spec = spec.WithFilter("broker_id", brokerID)
	}

	listings, err := s.listings.GetBySpecification(ctx, spec)
	if err != nil {
		return result.Failure[PaginationResponse[*ListingResponse]]("Failed to load listings")
	}

	page := PaginationResponse[*ListingResponse]{
		Data:      []*ListingResponse{},
		PageNo:    filters.Skip + 1,
		PageCount: len(listings),
	}
	for _, listing := range listings {
		page.Data = append(page.Data, toListingResponse(listing))
	}
	return result.Success("Success", page)
}

// UploadImage validates the file extension, stores the file and attaches it
// to the listing. A storage failure surfaces before any aggregate mutation.
func (s *ListingService) UploadImage(ctx context.Context, listingID string, data []byte, fileName string, isPrimary bool) result.Result[string] {
	extension := strings.ToLower(filepath.Ext(fileName))
	if !allowedImageExtensions[extension] {
		return result.Failure[string]("Invalid file type uploaded")
	}

	userID, ok := s.currentUser.UserID(ctx)
	if !ok {
		return result.Unauthorized[string]("User is not logged in")
	}

	uow := s.uowFactory.CreateUnitOfWork()
	defer uow.Close()

	if err := uow.Begin(ctx); err != nil {
		return result.Failure[string]("Failed to add image")
	}
	listing, err := uow.Listings().GetByID(ctx, listingID)
	if err != nil {
		uow.Rollback(ctx)
		return result.Failure[string]("Failed to add image")
	}
	if listing == nil {
		uow.Rollback(ctx)
		return result.NotFound[string]()
	}
	if listing.BrokerID() != userID {
		uow.Rollback(ctx)
		return result.Unauthorized[string]("Only the broker of the listing can upload images.")
	}

	fileInfo, err := s.files.Upload(ctx, data, fileName)
	if err != nil {
		uow.Rollback(ctx)
		return result.Failure[string]("Failed to upload image")
	}

	if err := uow.Files().Add(ctx, fileInfo); err != nil {
		uow.Rollback(ctx)
		return result.Failure[string]("Failed to add image")
	}
	if _, err := listing.AddImage(fileInfo, isPrimary); err != nil {
		uow.Rollback(ctx)
		return result.Failure[string](err.Error())
	}
	if err := uow.Listings().Update(ctx, listing); err != nil {
		uow.Rollback(ctx)
		return result.Failure[string]("Failed to add image")
	}
	if err := s.commit(ctx, uow); err != nil {
		return result.Failure[string]("Failed to add image")
	}

	s.publish(ctx, &event.ListingImagesChanged{ListingID: listingID, Timestamp: time.Now().UTC()})
	return result.Success("Successful", fileInfo.URL())
}

// RemoveImage detaches an image from a listing owned by the caller.
func (s *ListingService) RemoveImage(ctx context.Context, listingID, imageID string) result.Result[string] {
	userID, ok := s.currentUser.UserID(ctx)
	if !ok {
		return result.Unauthorized[string]("User is not logged in")
	}

	uow := s.uowFactory.CreateUnitOfWork()
	defer uow.Close()

	if err := uow.Begin(ctx); err != nil {
		return result.Failure[string]("Failed to remove image")
	}
	listing, err := uow.Listings().GetByID(ctx, listingID)
	if err != nil {
		uow.Rollback(ctx)
		return result.Failure[string]("Failed to remove image")
	}
	if listing == nil {
		uow.Rollback(ctx)
		return result.NotFound[string]()
	}
	if listing.BrokerID() != userID {
		uow.Rollback(ctx)
		return result.Unauthorized[string]("Only the broker of the listing can remove images.")
	}
	image := listing.FindImage(imageID)
	if image == nil {
		uow.Rollback(ctx)
		return result.NotFound[string]()
	}

	if err := listing.RemoveImage(image); err != nil {
		uow.Rollback(ctx)
		return result.Failure[string](err.Error())
	}
	if err := uow.Listings().Update(ctx, listing); err != nil {
		uow.Rollback(ctx)
		return result.Failure[string]("Failed to remove image from database.")
	}
	if err := s.commit(ctx, uow); err != nil {
		return result.Failure[string]("Failed to remove image from database.")
	}

	s.publish(ctx, &event.ListingImagesChanged{ListingID: listingID, Timestamp: time.Now().UTC()})
	return result.Success("Image removed successfully.", "")
}

// SetPrimaryImage promotes an image to be the listing's primary one.
func (s *ListingService) SetPrimaryImage(ctx context.Context, listingID, imageID string) result.Result[string] {
	userID, ok := s.currentUser.UserID(ctx)
	if !ok {
		return result.Unauthorized[string]("User is not logged in")
	}

	uow := s.uowFactory.CreateUnitOfWork()
	defer uow.Close()

	if err := uow.Begin(ctx); err != nil {
		return result.Failure[string]("Failed to set primary image")
	}
	listing, err := uow.Listings().GetByID(ctx, listingID)
	if err != nil {
		uow.Rollback(ctx)
		return result.Failure[string]("Failed to set primary image")
	}
	if listing == nil {
		uow.Rollback(ctx)
		return result.NotFound[string]()
	}
	if listing.BrokerID() != userID {
		uow.Rollback(ctx)
		return result.Unauthorized[string]("Only the broker of the listing can set the primary image.")
	}
	image := listing.FindImage(imageID)
	if image == nil {
		uow.Rollback(ctx)
		return result.NotFound[string]()
	}

	if err := listing.UpdatePrimaryImage(image); err != nil {
		uow.Rollback(ctx)
		return result.Failure[string](err.Error())
	}
	if err := uow.Listings().Update(ctx, listing); err != nil {
		uow.Rollback(ctx)
		return result.Failure[string]("Failed to set primary image.")
	}
	if err := s.commit(ctx, uow); err != nil {
		return result.Failure[string]("Failed to set primary image.")
	}

	s.publish(ctx, &event.ListingImagesChanged{ListingID: listingID, Timestamp: time.Now().UTC()})
	return result.Success("Primary image set successfully.", "")
}

// AddUpdateOffer records the caller's bid on a listing. The broker of the
// listing cannot bid on it; that is a domain rule failure, not an
// authorization one.
func (s *ListingService) AddUpdateOffer(ctx context.Context, listingID string, offerPrice float64) result.Result[string] {
	userID, ok := s.currentUser.UserID(ctx)
	if !ok {
		return result.Unauthorized[string]("User is not logged in")
	}

	uow := s.uowFactory.CreateUnitOfWork()
	defer uow.Close()

	if err := uow.Begin(ctx); err != nil {
		return result.Failure[string]("Failed to add or update offer.")
	}
	listing, err := uow.Listings().GetByID(ctx, listingID)
	if err != nil {
		uow.Rollback(ctx)
		return result.Failure[string]("Failed to add or update offer.")
	}
	if listing == nil {
		uow.Rollback(ctx)
		return result.NotFound[string]()
	}
	buyer, err := uow.Users().GetByID(ctx, userID)
	if err != nil {
		uow.Rollback(ctx)
		return result.Failure[string]("Failed to add or update offer.")
	}
	if buyer == nil {
		uow.Rollback(ctx)
		return result.NotFound[string]()
	}
	if listing.BrokerID() == buyer.ID() {
		uow.Rollback(ctx)
		return result.Failure[string]("Cannot add offer in own listing")
	}

	if err := listing.AddUpdateOffer(buyer, offerPrice); err != nil {
		uow.Rollback(ctx)
		return result.Failure[string](err.Error())
	}
	if err := uow.Listings().Update(ctx, listing); err != nil {
		uow.Rollback(ctx)
		return result.Failure[string]("Failed to add or update offer.")
	}
	if err := s.commit(ctx, uow); err != nil {
		return result.Failure[string]("Failed to add or update offer.")
	}

	s.publish(ctx, &event.OfferPlaced{
		ListingID: listingID,
		BuyerID:   userID,
		Amount:    offerPrice,
		Timestamp: time.Now().UTC(),
	})
	return result.Success("Offer added/updated successfully.", "")
}

// RemoveOffer withdraws an offer. Either the broker of the listing or the
// buyer who made the offer may remove it; nobody else.
func (s *ListingService) RemoveOffer(ctx context.Context, listingID, offerID string) result.Result[string] {
	userID, ok := s.currentUser.UserID(ctx)
	if !ok {
		return result.Unauthorized[string]("User is not logged in")
	}

	uow := s.uowFactory.CreateUnitOfWork()
	defer uow.Close()

	if err := uow.Begin(ctx); err != nil {
		return result.Failure[string]("Failed to remove offer.")
	}
	listing, err := uow.Listings().GetByID(ctx, listingID)
	if err != nil {
		uow.Rollback(ctx)
		return result.Failure[string]("Failed to remove offer.")
	}
	if listing == nil {
		uow.Rollback(ctx)
		return result.NotFound[string]()
	}
	offer := listing.FindOffer(offerID)
	if offer == nil {
		uow.Rollback(ctx)
		return result.NotFound[string]()
	}
	if userID != listing.BrokerID() && userID != offer.BuyerID() {
		uow.Rollback(ctx)
		return result.Unauthorized[string]("Only the broker or the offer creator can remove the offer.")
	}

	if err := listing.RemoveOffer(offerID); err != nil {
		uow.Rollback(ctx)
		return result.Failure[string](err.Error())
	}
	if err := uow.Listings().Update(ctx, listing); err != nil {
		uow.Rollback(ctx)
		return result.Failure[string]("Failed to remove offer.")
	}
	if err := s.commit(ctx, uow); err != nil {
		return result.Failure[string]("Failed to remove offer.")
	}
	return result.Success("Offer removed successfully.", "")
}

// AcceptOffer closes the sale on an offer: the commission is computed from
// the offer amount, a deal is recorded and the listing becomes Sold.
func (s *ListingService) AcceptOffer(ctx context.Context, listingID, offerID string) result.Result[string] {
	userID, ok := s.currentUser.UserID(ctx)
	if !ok {
		return result.Unauthorized[string]("User is not logged in")
	}

	uow := s.uowFactory.CreateUnitOfWork()
	defer uow.Close()

	if err := uow.Begin(ctx); err != nil {
		return result.Failure[string]("Failed to accept offer and close deal.")
	}
	listing, err := uow.Listings().GetByID(ctx, listingID)
	if err != nil {
		uow.Rollback(ctx)
		return result.Failure[string]("Failed to accept offer and close deal.")
	}
	if listing == nil {
		uow.Rollback(ctx)
		return result.NotFound[string]()
	}
	if listing.BrokerID() != userID {
		uow.Rollback(ctx)
		return result.Unauthorized[string]("Only the broker of the listing can accept offers.")
	}
	offer := listing.FindOffer(offerID)
	if offer == nil {
		uow.Rollback(ctx)
		return result.NotFound[string]()
	}

	commission, err := s.commission.CalculateCommission(ctx, offer.Amount())
	if err != nil {
		uow.Rollback(ctx)
		return result.Failure[string]("Failed to accept offer and close deal.")
	}

	deal, err := listing.AcceptOffer(offer, commission)
	if err != nil {
		uow.Rollback(ctx)
		return result.Failure[string](err.Error())
	}
	if err := uow.Listings().Update(ctx, listing); err != nil {
		uow.Rollback(ctx)
		return result.Failure[string]("Failed to accept offer and close deal.")
	}
	if err := s.commit(ctx, uow); err != nil {
		return result.Failure[string]("Failed to accept offer and close deal.")
	}

	s.publish(ctx, &event.OfferAccepted{
		ListingID:  listingID,
		OfferID:    offerID,
		DealID:     deal.ID(),
		Commission: deal.Commission(),
		Timestamp:  time.Now().UTC(),
	})
	return result.Success("Offer accepted and listing marked as Sold.", "")
}

// MarkAsOffMarket takes a listing off the market without a sale.
func (s *ListingService) MarkAsOffMarket(ctx context.Context, listingID string) result.Result[string] {
	userID, ok := s.currentUser.UserID(ctx)
	if !ok {
		return result.Unauthorized[string]("User is not logged in")
	}

	uow := s.uowFactory.CreateUnitOfWork()
	defer uow.Close()

	if err := uow.Begin(ctx); err != nil {
		return result.Failure[string]("Failed to mark listing as off-market.")
	}
	listing, err := uow.Listings().GetByID(ctx, listingID)
	if err != nil {
		uow.Rollback(ctx)
		return result.Failure[string]("Failed to mark listing as off-market.")
	}
	if listing == nil {
		uow.Rollback(ctx)
		return result.NotFound[string]()
	}
	if listing.BrokerID() != userID {
		uow.Rollback(ctx)
		return result.Unauthorized[string]("Only the broker of the listing can mark it as off-market.")
	}

	if err := listing.MarkOffMarket(); err != nil {
		uow.Rollback(ctx)
		return result.Failure[string](err.Error())
	}
	if err := uow.Listings().Update(ctx, listing); err != nil {
		uow.Rollback(ctx)
		return result.Failure[string]("Failed to mark listing as off-market.")
	}
	if err := s.commit(ctx, uow); err != nil {
		return result.Failure[string]("Failed to mark listing as off-market.")
	}

	s.publish(ctx, &event.ListingOffMarket{ListingID: listingID, Timestamp: time.Now().UTC()})
	return result.Success("Listing marked as off-market successfully.", "")
}

// commit flushes pending writes and commits the transaction.
func (s *ListingService) commit(ctx context.Context, uow repository.UnitOfWork) error {
	if err := uow.SaveChanges(ctx); err != nil {
		uow.Rollback(ctx)
		return err
	}
	return uow.Commit(ctx)
}

// publish is best-effort: a subscriber failure never fails the use case.
func (s *ListingService) publish(ctx context.Context, e event.DomainEvent) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, e); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", e.EventType(), err)
	}
}
