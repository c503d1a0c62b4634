package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestListing(t *testing.T) *Listing {
	t.Helper()
	listing, err := NewListing(
		"Sunset Villa",
		"Three bedroom villa with garden",
		Address{Street: "12 Hill Road", City: "Kathmandu", State: "Bagmati", ZipCode: "44600"},
		8_000_000,
		PropertyHouse,
		"+977-9800000000",
		"broker@example.com",
		"broker-1",
	)
	require.NoError(t, err)
	return listing
}

func newTestBuyer(t *testing.T, email string) *UserInfo {
	t.Helper()
	buyer, err := NewUserInfo("Ram", "Shrestha", "+977-9811111111", email, "hashed", RoleHouseSeeker)
	require.NoError(t, err)
	return buyer
}

func TestNewListingValidation(t *testing.T) {
	_, err := NewListing("", "desc", Address{}, 100, PropertyHouse, "", "", "broker-1")
	assert.Error(t, err)

	_, err = NewListing("Title", "desc", Address{}, -1, PropertyHouse, "", "", "broker-1")
	assert.Error(t, err)

	_, err = NewListing("Title", "desc", Address{}, 100, PropertyHouse, "", "", "")
	assert.Error(t, err)

	listing := newTestListing(t)
	assert.Equal(t, StatusAvailable, listing.Status())
	assert.NotEmpty(t, listing.ID())
}

func TestMarkOffMarket(t *testing.T) {
	listing := newTestListing(t)

	require.NoError(t, listing.MarkOffMarket())
	assert.Equal(t, StatusOffMarket, listing.Status())

	// Idempotent from OffMarket
	require.NoError(t, listing.MarkOffMarket())
	assert.Equal(t, StatusOffMarket, listing.Status())
}

func TestAcceptOfferMarksListingSold(t *testing.T) {
	listing := newTestListing(t)
	buyer := newTestBuyer(t, "buyer@example.com")

	require.NoError(t, listing.AddUpdateOffer(buyer, 7_500_000))
	offer := listing.Offers()[0]

	deal, err := listing.AcceptOffer(offer, 131_250)
	require.NoError(t, err)

	assert.Equal(t, StatusSold, listing.Status())
	assert.Equal(t, offer.ID(), deal.OfferID())
	assert.Equal(t, listing.ID(), deal.ListingID())
	assert.Equal(t, 131_250.0, deal.Commission())
	assert.Len(t, listing.Deals(), 1)
}

func TestAcceptOfferAllowedFromOffMarket(t *testing.T) {
	listing := newTestListing(t)
	buyer := newTestBuyer(t, "buyer@example.com")

	require.NoError(t, listing.AddUpdateOffer(buyer, 7_000_000))
	offer := listing.Offers()[0]
	require.NoError(t, listing.MarkOffMarket())

	_, err := listing.AcceptOffer(offer, 122_500)
	require.NoError(t, err)
	assert.Equal(t, StatusSold, listing.Status())
}

func TestSoldListingRejectsAllMutations(t *testing.T) {
	listing := newTestListing(t)
	buyer := newTestBuyer(t, "buyer@example.com")
	require.NoError(t, listing.AddUpdateOffer(buyer, 7_000_000))
	offer := listing.Offers()[0]
	_, err := listing.AcceptOffer(offer, 122_500)
	require.NoError(t, err)

	err = listing.UpdateDetails("New", "desc", listing.Address(), 1, PropertyHouse, "", "")
	assert.True(t, IsDomainError(err))

	_, err = listing.AddImage(NewFileInfo("a.jpg", "stored.jpg", "https://img/a.jpg"), false)
	assert.True(t, IsDomainError(err))

	err = listing.AddUpdateOffer(newTestBuyer(t, "other@example.com"), 9_000_000)
	assert.True(t, IsDomainError(err))

	err = listing.RemoveOffer(offer.ID())
	assert.True(t, IsDomainError(err))

	err = listing.MarkOffMarket()
	assert.True(t, IsDomainError(err))

	_, err = listing.AcceptOffer(offer, 122_500)
	assert.True(t, IsDomainError(err))
}

func TestAddUpdateOfferUpsertsPerBuyer(t *testing.T) {
	listing := newTestListing(t)
	first := newTestBuyer(t, "first@example.com")
	second := newTestBuyer(t, "second@example.com")

	require.NoError(t, listing.AddUpdateOffer(first, 6_000_000))
	require.NoError(t, listing.AddUpdateOffer(second, 6_500_000))
	require.NoError(t, listing.AddUpdateOffer(first, 7_200_000))

	offers := listing.Offers()
	require.Len(t, offers, 2)
	assert.Equal(t, first.ID(), offers[0].BuyerID())
	assert.Equal(t, 7_200_000.0, offers[0].Amount())
	assert.Equal(t, 6_500_000.0, offers[1].Amount())
}

func TestRemoveOffer(t *testing.T) {
	listing := newTestListing(t)
	buyer := newTestBuyer(t, "buyer@example.com")
	require.NoError(t, listing.AddUpdateOffer(buyer, 6_000_000))
	offer := listing.Offers()[0]

	// Unknown offer id is a no-op
	require.NoError(t, listing.RemoveOffer("missing"))
	assert.Len(t, listing.Offers(), 1)

	require.NoError(t, listing.RemoveOffer(offer.ID()))
	assert.Empty(t, listing.Offers())
}

func TestRemoveOfferWithDealFails(t *testing.T) {
	listing := newTestListing(t)
	buyer := newTestBuyer(t, "buyer@example.com")
	require.NoError(t, listing.AddUpdateOffer(buyer, 6_000_000))
	offer := listing.Offers()[0]

	deal, err := listing.AcceptOffer(offer, 120_000)
	require.NoError(t, err)
	require.NotNil(t, deal)

	// Rehydrate as non-sold to hit the deal guard directly
	state := listing.State()
	state.Status = StatusAvailable
	restored := RestoreListing(state)

	err = restored.RemoveOffer(offer.ID())
	require.Error(t, err)
	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, CodeOfferHasAcceptedDeal, domainErr.Code)
}

func TestAddImagePrimaryDemotesPrevious(t *testing.T) {
	listing := newTestListing(t)

	first, err := listing.AddImage(NewFileInfo("a.jpg", "a-stored.jpg", "https://img/a.jpg"), true)
	require.NoError(t, err)
	second, err := listing.AddImage(NewFileInfo("b.jpg", "b-stored.jpg", "https://img/b.jpg"), true)
	require.NoError(t, err)

	assert.False(t, listing.FindImage(first.ID()).IsPrimary())
	assert.True(t, listing.FindImage(second.ID()).IsPrimary())

	primaries := 0
	for _, img := range listing.Images() {
		if img.IsPrimary() {
			primaries++
		}
	}
	assert.Equal(t, 1, primaries)
}

func TestRemovePrimaryImagePromotesFirstRemaining(t *testing.T) {
	listing := newTestListing(t)

	first, err := listing.AddImage(NewFileInfo("a.jpg", "a-stored.jpg", "https://img/a.jpg"), true)
	require.NoError(t, err)
	second, err := listing.AddImage(NewFileInfo("b.jpg", "b-stored.jpg", "https://img/b.jpg"), false)
	require.NoError(t, err)
	third, err := listing.AddImage(NewFileInfo("c.jpg", "c-stored.jpg", "https://img/c.jpg"), false)
	require.NoError(t, err)

	require.NoError(t, listing.RemoveImage(first))

	images := listing.Images()
	require.Len(t, images, 2)
	assert.True(t, listing.FindImage(second.ID()).IsPrimary())
	assert.False(t, listing.FindImage(third.ID()).IsPrimary())
}

func TestRemoveLastImageLeavesNoPrimary(t *testing.T) {
	listing := newTestListing(t)

	only, err := listing.AddImage(NewFileInfo("a.jpg", "a-stored.jpg", "https://img/a.jpg"), true)
	require.NoError(t, err)
	require.NoError(t, listing.RemoveImage(only))

	assert.Empty(t, listing.Images())
}

func TestUpdatePrimaryImage(t *testing.T) {
	listing := newTestListing(t)

	first, err := listing.AddImage(NewFileInfo("a.jpg", "a-stored.jpg", "https://img/a.jpg"), true)
	require.NoError(t, err)
	second, err := listing.AddImage(NewFileInfo("b.jpg", "b-stored.jpg", "https://img/b.jpg"), false)
	require.NoError(t, err)

	require.NoError(t, listing.UpdatePrimaryImage(second))

	assert.False(t, listing.FindImage(first.ID()).IsPrimary())
	assert.True(t, listing.FindImage(second.ID()).IsPrimary())
}

func TestListingStateRoundTrip(t *testing.T) {
	listing := newTestListing(t)
	buyer := newTestBuyer(t, "buyer@example.com")
	require.NoError(t, listing.AddUpdateOffer(buyer, 6_000_000))
	_, err := listing.AddImage(NewFileInfo("a.jpg", "a-stored.jpg", "https://img/a.jpg"), true)
	require.NoError(t, err)

	restored := RestoreListing(listing.State())

	assert.Equal(t, listing.ID(), restored.ID())
	assert.Equal(t, listing.Title(), restored.Title())
	assert.Equal(t, listing.Status(), restored.Status())
	assert.Equal(t, listing.BrokerID(), restored.BrokerID())
	require.Len(t, restored.Offers(), 1)
	assert.Equal(t, buyer.ID(), restored.Offers()[0].BuyerID())
	require.Len(t, restored.Images(), 1)
	assert.True(t, restored.Images()[0].IsPrimary())
}
