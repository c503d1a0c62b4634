package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housebroker/internal/domain/aggregate"
	"housebroker/internal/domain/repository"
	"housebroker/internal/infrastructure/bus"
	"housebroker/pkg/result"
)

type memListingRepo struct {
	listings map[string]*aggregate.Listing
}

func newMemListingRepo() *memListingRepo {
	return &memListingRepo{listings: make(map[string]*aggregate.Listing)}
}

func (r *memListingRepo) Add(ctx context.Context, l *aggregate.Listing) error {
	r.listings[l.ID()] = l
	return nil
}

func (r *memListingRepo) Update(ctx context.Context, l *aggregate.Listing) error {
	if _, ok := r.listings[l.ID()]; !ok {
		return errors.New("listing not found")
	}
	r.listings[l.ID()] = l
	return nil
}

func (r *memListingRepo) Delete(ctx context.Context, l *aggregate.Listing) error {
	delete(r.listings, l.ID())
	return nil
}

func (r *memListingRepo) GetByID(ctx context.Context, id string) (*aggregate.Listing, error) {
	return r.listings[id], nil
}

func (r *memListingRepo) GetBySpecification(ctx context.Context, spec repository.Specification) ([]*aggregate.Listing, error) {
	var out []*aggregate.Listing
	for _, l := range r.listings {
		if brokerID, ok := spec.Filters["broker_id"]; ok && l.BrokerID() != brokerID {
			continue
		}
		if propertyType, ok := spec.Filters["property_type"]; ok && string(l.PropertyType()) != propertyType {
			continue
		}
		if spec.MinPrice != nil && l.Price() < *spec.MinPrice {
			continue
		}
		if spec.MaxPrice != nil && l.Price() > *spec.MaxPrice {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *memListingRepo) GetSingleBySpecification(ctx context.Context, spec repository.Specification) (*aggregate.Listing, error) {
	matches, err := r.GetBySpecification(ctx, spec)
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	return matches[0], nil
}

type memUserRepo struct {
	users map[string]*aggregate.UserInfo
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*aggregate.UserInfo)}
}

func (r *memUserRepo) Add(ctx context.Context, u *aggregate.UserInfo) error {
	r.users[u.ID()] = u
	return nil
}

func (r *memUserRepo) Update(ctx context.Context, u *aggregate.UserInfo) error {
	r.users[u.ID()] = u
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, u *aggregate.UserInfo) error {
	delete(r.users, u.ID())
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*aggregate.UserInfo, error) {
	return r.users[id], nil
}

func (r *memUserRepo) GetBySpecification(ctx context.Context, spec repository.Specification) ([]*aggregate.UserInfo, error) {
	var out []*aggregate.UserInfo
	for _, u := range r.users {
		if email, ok := spec.Filters["contact_email"]; ok && u.ContactEmail() != email {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (r *memUserRepo) GetSingleBySpecification(ctx context.Context, spec repository.Specification) (*aggregate.UserInfo, error) {
	matches, err := r.GetBySpecification(ctx, spec)
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	return matches[0], nil
}

type memFileRepo struct {
	files map[string]*aggregate.FileInfo
}

func newMemFileRepo() *memFileRepo {
	return &memFileRepo{files: make(map[string]*aggregate.FileInfo)}
}

func (r *memFileRepo) Add(ctx context.Context, f *aggregate.FileInfo) error {
	r.files[f.ID()] = f
	return nil
}

func (r *memFileRepo) Update(ctx context.Context, f *aggregate.FileInfo) error {
	r.files[f.ID()] = f
	return nil
}

func (r *memFileRepo) Delete(ctx context.Context, f *aggregate.FileInfo) error {
	delete(r.files, f.ID())
	return nil
}

func (r *memFileRepo) GetByID(ctx context.Context, id string) (*aggregate.FileInfo, error) {
	return r.files[id], nil
}

func (r *memFileRepo) GetBySpecification(ctx context.Context, spec repository.Specification) ([]*aggregate.FileInfo, error) {
	var out []*aggregate.FileInfo
	for _, f := range r.files {
		out = append(out, f)
	}
	return out, nil
}

func (r *memFileRepo) GetSingleBySpecification(ctx context.Context, spec repository.Specification) (*aggregate.FileInfo, error) {
	matches, _ := r.GetBySpecification(ctx, spec)
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

type memUnitOfWork struct {
	listings      *memListingRepo
	users         *memUserRepo
	files         *memFileRepo
	commissions   repository.CommissionConfigRepository
	inTransaction bool
}

func (u *memUnitOfWork) Begin(ctx context.Context) error {
	u.inTransaction = true
	return nil
}

func (u *memUnitOfWork) Commit(ctx context.Context) error {
	u.inTransaction = false
	return nil
}

func (u *memUnitOfWork) Rollback(ctx context.Context) error {
	u.inTransaction = false
	return nil
}

func (u *memUnitOfWork) Listings() repository.ListingRepository { return u.listings }
func (u *memUnitOfWork) Users() repository.UserInfoRepository   { return u.users }
func (u *memUnitOfWork) Files() repository.FileInfoRepository   { return u.files }

func (u *memUnitOfWork) CommissionConfigs() repository.CommissionConfigRepository {
	return u.commissions
}

func (u *memUnitOfWork) SaveChanges(ctx context.Context) error { return nil }
func (u *memUnitOfWork) Close() error                          { return nil }
func (u *memUnitOfWork) IsInTransaction() bool                 { return u.inTransaction }

type memUowFactory struct {
	uow *memUnitOfWork
}

func (f *memUowFactory) CreateUnitOfWork() repository.UnitOfWork { return f.uow }

type fakeFileService struct {
	uploadErr error
}

func (f *fakeFileService) Upload(ctx context.Context, data []byte, fileName string) (*aggregate.FileInfo, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return aggregate.NewFileInfo(fileName, "stored-"+fileName, "https://cdn.example.com/"+fileName), nil
}

type fakeCurrentUser struct {
	userID string
}

func (c *fakeCurrentUser) UserID(ctx context.Context) (string, bool) {
	return c.userID, c.userID != ""
}

type listingFixture struct {
	service     *ListingService
	listings    *memListingRepo
	users       *memUserRepo
	currentUser *fakeCurrentUser
	fileService *fakeFileService
	broker      *aggregate.UserInfo
	buyer       *aggregate.UserInfo
}

func newListingFixture(t *testing.T) *listingFixture {
	t.Helper()

	listings := newMemListingRepo()
	users := newMemUserRepo()
	files := newMemFileRepo()
	commissions := &fakeCommissionRepo{}

	broker, err := aggregate.NewUserInfo("Bina", "Karki", "+977-9800000001", "bina@example.com", "hash", aggregate.RoleBroker)
	require.NoError(t, err)
	buyer, err := aggregate.NewUserInfo("Ram", "Shrestha", "+977-9800000002", "ram@example.com", "hash", aggregate.RoleHouseSeeker)
	require.NoError(t, err)
	require.NoError(t, users.Add(context.Background(), broker))
	require.NoError(t, users.Add(context.Background(), buyer))

	currentUser := &fakeCurrentUser{}
	fileService := &fakeFileService{}
	factory := &memUowFactory{uow: &memUnitOfWork{
		listings:    listings,
		users:       users,
		files:       files,
		commissions: commissions,
	}}

	service := NewListingService(
		factory,
		listings,
		users,
		NewCommissionConfigService(commissions),
		fileService,
		currentUser,
		bus.NewInMemoryEventBus(),
		nil,
	)

	return &listingFixture{
		service:     service,
		listings:    listings,
		users:       users,
		currentUser: currentUser,
		fileService: fileService,
		broker:      broker,
		buyer:       buyer,
	}
}

func (f *listingFixture) actAs(userID string) { f.currentUser.userID = userID }

func (f *listingFixture) createListing(t *testing.T, price float64) *ListingResponse {
	t.Helper()
	f.actAs(f.broker.ID())
	res := f.service.Create(context.Background(), CreateUpdateListingRequest{
		Title:        "City Apartment",
		Description:  "Two bedroom apartment downtown",
		Address:      aggregate.Address{Street: "4 Main Street", City: "Pokhara"},
		Price:        price,
		PropertyType: aggregate.PropertyApartment,
		ContactPhone: "+977-9800000001",
		ContactEmail: "bina@example.com",
	})
	require.True(t, res.IsSuccess, res.Message)
	return res.Data
}

func TestCreateListingRequiresAuthentication(t *testing.T) {
	f := newListingFixture(t)
	f.actAs("")

	res := f.service.Create(context.Background(), CreateUpdateListingRequest{
		Title:   "Orphan Listing",
		Price:   100,
		Address: aggregate.Address{Street: "1 Road", City: "Kathmandu"},
	})
	assert.Equal(t, result.TypeUnauthorized, res.Type)
}

func TestCreateListingValidation(t *testing.T) {
	f := newListingFixture(t)
	f.actAs(f.broker.ID())

	res := f.service.Create(context.Background(), CreateUpdateListingRequest{Price: -5})
	assert.Equal(t, result.TypeValidationError, res.Type)
	assert.Contains(t, res.FieldErrors, "title")
	assert.Contains(t, res.FieldErrors, "price")
}

func TestOfferLifecycleEndsInSoldListing(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()
	created := f.createListing(t, 1_000_000)

	f.actAs(f.buyer.ID())
	offerRes := f.service.AddUpdateOffer(ctx, created.ID, 950_000)
	require.True(t, offerRes.IsSuccess, offerRes.Message)

	listing, err := f.listings.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, listing.Offers(), 1)
	offerID := listing.Offers()[0].ID()

	f.actAs(f.broker.ID())
	acceptRes := f.service.AcceptOffer(ctx, created.ID, offerID)
	require.True(t, acceptRes.IsSuccess, acceptRes.Message)
	assert.Equal(t, "Offer accepted and listing marked as Sold.", acceptRes.Message)

	listing, err = f.listings.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, aggregate.StatusSold, listing.Status())
	require.Len(t, listing.Deals(), 1)

	// 950,000 falls into the 2.0% fallback tier
	assert.InDelta(t, 19_000, listing.Deals()[0].Commission(), 0.001)
}

func TestAddOfferOnOwnListingFails(t *testing.T) {
	f := newListingFixture(t)
	created := f.createListing(t, 1_000_000)

	f.actAs(f.broker.ID())
	res := f.service.AddUpdateOffer(context.Background(), created.ID, 900_000)

	assert.Equal(t, result.TypeError, res.Type)
	assert.Equal(t, "Cannot add offer in own listing", res.Message)
}

func TestAcceptOfferRequiresOwningBroker(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()
	created := f.createListing(t, 1_000_000)

	f.actAs(f.buyer.ID())
	require.True(t, f.service.AddUpdateOffer(ctx, created.ID, 900_000).IsSuccess)

	listing, err := f.listings.GetByID(ctx, created.ID)
	require.NoError(t, err)
	offerID := listing.Offers()[0].ID()

	res := f.service.AcceptOffer(ctx, created.ID, offerID)
	assert.Equal(t, result.TypeUnauthorized, res.Type)
	assert.Equal(t, "Only the broker of the listing can accept offers.", res.Message)
}

func TestRemoveOfferAuthorization(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()
	created := f.createListing(t, 1_000_000)

	f.actAs(f.buyer.ID())
	require.True(t, f.service.AddUpdateOffer(ctx, created.ID, 900_000).IsSuccess)

	listing, err := f.listings.GetByID(ctx, created.ID)
	require.NoError(t, err)
	offerID := listing.Offers()[0].ID()

	stranger, err := aggregate.NewUserInfo("Eve", "Thapa", "", "eve@example.com", "hash", aggregate.RoleHouseSeeker)
	require.NoError(t, err)
	require.NoError(t, f.users.Add(ctx, stranger))

	f.actAs(stranger.ID())
	res := f.service.RemoveOffer(ctx, created.ID, offerID)
	assert.Equal(t, result.TypeUnauthorized, res.Type)

	// The buyer can withdraw their own offer
	f.actAs(f.buyer.ID())
	res = f.service.RemoveOffer(ctx, created.ID, offerID)
	require.True(t, res.IsSuccess, res.Message)

	listing, err = f.listings.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, listing.Offers())
}

func TestRemoveMissingOfferIsNotFound(t *testing.T) {
	f := newListingFixture(t)
	created := f.createListing(t, 1_000_000)

	f.actAs(f.broker.ID())
	res := f.service.RemoveOffer(context.Background(), created.ID, "missing-offer")
	assert.Equal(t, result.TypeNotFound, res.Type)
}

func TestMarkAsOffMarketRequiresOwningBroker(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()
	created := f.createListing(t, 1_000_000)

	f.actAs(f.buyer.ID())
	res := f.service.MarkAsOffMarket(ctx, created.ID)
	assert.Equal(t, result.TypeUnauthorized, res.Type)

	f.actAs(f.broker.ID())
	res = f.service.MarkAsOffMarket(ctx, created.ID)
	require.True(t, res.IsSuccess, res.Message)

	listing, err := f.listings.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, aggregate.StatusOffMarket, listing.Status())
}

func TestUploadImageRejectsUnknownExtension(t *testing.T) {
	f := newListingFixture(t)
	created := f.createListing(t, 1_000_000)

	f.actAs(f.broker.ID())
	res := f.service.UploadImage(context.Background(), created.ID, []byte("payload"), "malware.exe", false)

	assert.Equal(t, result.TypeError, res.Type)
	assert.Equal(t, "Invalid file type uploaded", res.Message)
}

func TestUploadImageStoresFileAndAttaches(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()
	created := f.createListing(t, 1_000_000)

	f.actAs(f.broker.ID())
	res := f.service.UploadImage(ctx, created.ID, []byte("payload"), "Front.JPG", true)
	require.True(t, res.IsSuccess, res.Message)
	assert.Equal(t, "https://cdn.example.com/Front.JPG", res.Data)

	listing, err := f.listings.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, listing.Images(), 1)
	assert.True(t, listing.Images()[0].IsPrimary())
}

func TestUploadImageStorageFailure(t *testing.T) {
	f := newListingFixture(t)
	created := f.createListing(t, 1_000_000)

	f.fileService.uploadErr = errors.New("storage unavailable")
	f.actAs(f.broker.ID())
	res := f.service.UploadImage(context.Background(), created.ID, []byte("payload"), "front.jpg", false)

	assert.Equal(t, result.TypeError, res.Type)
	assert.Equal(t, "Failed to upload image", res.Message)
}

func TestGetDetailedByIDRedactsForNonOwners(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()
	created := f.createListing(t, 1_000_000)

	f.actAs(f.buyer.ID())
	require.True(t, f.service.AddUpdateOffer(ctx, created.ID, 900_000).IsSuccess)

	// The buyer sees no offers or deals
	res := f.service.GetDetailedByID(ctx, created.ID)
	require.True(t, res.IsSuccess)
	assert.Empty(t, res.Data.Offers)
	assert.Empty(t, res.Data.Deals)

	// Anonymous callers are redacted too
	f.actAs("")
	res = f.service.GetDetailedByID(ctx, created.ID)
	require.True(t, res.IsSuccess)
	assert.Empty(t, res.Data.Offers)

	// The owning broker sees the offer with its estimated commission
	f.actAs(f.broker.ID())
	res = f.service.GetDetailedByID(ctx, created.ID)
	require.True(t, res.IsSuccess)
	require.Len(t, res.Data.Offers, 1)
	assert.Equal(t, f.buyer.ID(), res.Data.Offers[0].BuyerID)
	assert.InDelta(t, 18_000, res.Data.Offers[0].EstimatedCommission, 0.001)
}

func TestUpdateListingRequiresOwnership(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()
	created := f.createListing(t, 1_000_000)

	otherBroker, err := aggregate.NewUserInfo("Hari", "Gurung", "", "hari@example.com", "hash", aggregate.RoleBroker)
	require.NoError(t, err)
	require.NoError(t, f.users.Add(ctx, otherBroker))

	f.actAs(otherBroker.ID())
	res := f.service.Update(ctx, created.ID, CreateUpdateListingRequest{
		Title:   "Hijacked",
		Price:   1,
		Address: aggregate.Address{Street: "1 Road", City: "Kathmandu"},
	})
	assert.Equal(t, result.TypeUnauthorized, res.Type)
}

func TestUpdateMissingListingIsNotFound(t *testing.T) {
	f := newListingFixture(t)
	f.actAs(f.broker.ID())

	res := f.service.Update(context.Background(), "missing-id", CreateUpdateListingRequest{
		Title:   "Ghost",
		Price:   1,
		Address: aggregate.Address{Street: "1 Road", City: "Kathmandu"},
	})
	assert.Equal(t, result.TypeNotFound, res.Type)
}

func TestSoldListingMutationsSurfaceDomainMessage(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()
	created := f.createListing(t, 1_000_000)

	f.actAs(f.buyer.ID())
	require.True(t, f.service.AddUpdateOffer(ctx, created.ID, 900_000).IsSuccess)
	listing, err := f.listings.GetByID(ctx, created.ID)
	require.NoError(t, err)
	offerID := listing.Offers()[0].ID()

	f.actAs(f.broker.ID())
	require.True(t, f.service.AcceptOffer(ctx, created.ID, offerID).IsSuccess)

	res := f.service.MarkAsOffMarket(ctx, created.ID)
	assert.Equal(t, result.TypeError, res.Type)
	assert.Equal(t, "cannot mark a sold listing as off-market", res.Message)

	f.actAs(f.buyer.ID())
	res = f.service.AddUpdateOffer(ctx, created.ID, 999_999)
	assert.Equal(t, result.TypeError, res.Type)
}

func TestGetBrokerListingsFiltersByOwner(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()
	f.createListing(t, 1_000_000)
	f.createListing(t, 2_000_000)

	otherBroker, err := aggregate.NewUserInfo("Hari", "Gurung", "", "hari@example.com", "hash", aggregate.RoleBroker)
	require.NoError(t, err)
	require.NoError(t, f.users.Add(ctx, otherBroker))
	f.actAs(otherBroker.ID())
	res := f.service.Create(ctx, CreateUpdateListingRequest{
		Title:        "Other Broker Listing",
		Price:        3_000_000,
		Address:      aggregate.Address{Street: "9 Lake Road", City: "Pokhara"},
		PropertyType: aggregate.PropertyHouse,
	})
	require.True(t, res.IsSuccess)

	page := f.service.GetBrokerListings(ctx, f.broker.ID(), ListingFilters{})
	require.True(t, page.IsSuccess)
	assert.Len(t, page.Data.Data, 2)

	all := f.service.GetListings(ctx, ListingFilters{})
	require.True(t, all.IsSuccess)
	assert.Len(t, all.Data.Data, 3)

	low := 2_500_000.0
	expensive := f.service.GetListings(ctx, ListingFilters{LowPrice: &low})
	require.True(t, expensive.IsSuccess)
	assert.Len(t, expensive.Data.Data, 1)
}

func TestDeleteListingRemovesIt(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()
	created := f.createListing(t, 1_000_000)

	f.actAs(f.broker.ID())
	res := f.service.Delete(ctx, created.ID)
	require.True(t, res.IsSuccess, res.Message)

	listing, err := f.listings.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, listing)
}
