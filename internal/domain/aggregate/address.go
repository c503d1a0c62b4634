package aggregate

// ListingStatus drives the listing state machine. Sold is terminal.
type ListingStatus string

const (
	StatusAvailable ListingStatus = "Available"
	StatusOffMarket ListingStatus = "OffMarket"
	StatusSold      ListingStatus = "Sold"
)

// PropertyType categorizes the kind of property being listed.
type PropertyType string

const (
	PropertyHouse      PropertyType = "House"
	PropertyApartment  PropertyType = "Apartment"
	PropertyLand       PropertyType = "Land"
	PropertyCommercial PropertyType = "Commercial"
)

// UserRole distinguishes brokers from home seekers.
type UserRole string

const (
	RoleBroker      UserRole = "BROKER"
	RoleHouseSeeker UserRole = "HOUSESEEKER"
)

// Address is a value object owned by the listing.
type Address struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	ZipCode string `json:"zip_code" bson:"zip_code"`
	Country string `json:"country" bson:"country"`
}
