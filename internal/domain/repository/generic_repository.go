package repository

import "context"

// Repository provides the persistence gateway the application layer depends
// on. Implementations live in infrastructure; a nil entity and nil error from
// GetByID / GetSingleBySpecification means "not found".
type Repository[T any] interface {
	Add(ctx context.Context, entity T) error
	Update(ctx context.Context, entity T) error
	Delete(ctx context.Context, entity T) error
	GetByID(ctx context.Context, id string) (T, error)
	GetBySpecification(ctx context.Context, spec Specification) ([]T, error)
	GetSingleBySpecification(ctx context.Context, spec Specification) (T, error)
}

// SortOrder controls result ordering in a Specification.
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// Specification describes a query as explicit filter, ordering and paging
// parameters. The persistence collaborator evaluates it; the core never
// builds ad-hoc predicates.
type Specification struct {
	// Filters are field -> expected value equality constraints.
	Filters map[string]any
	// MinPrice/MaxPrice bound the price field when non-nil.
	MinPrice *float64
	MaxPrice *float64
	OrderBy  string
	Order    SortOrder
	Skip     int
	Take     int
}

// NewSpecification returns an empty specification matching everything.
func NewSpecification() Specification {
	return Specification{Filters: make(map[string]any)}
}

// WithFilter adds an equality constraint.
func (s Specification) WithFilter(field string, value any) Specification {
	if s.Filters == nil {
		s.Filters = make(map[string]any)
	}
	s.Filters[field] = value
	return s
}

// WithPriceRange bounds the price field. Either bound may be nil.
func (s Specification) WithPriceRange(min, max *float64) Specification {
	s.MinPrice = min
	s.MaxPrice = max
	return s
}

// WithPaging applies skip/take pagination.
func (s Specification) WithPaging(skip, take int) Specification {
	s.Skip = skip
	s.Take = take
	return s
}

// WithOrder applies result ordering.
func (s Specification) WithOrder(field string, order SortOrder) Specification {
	s.OrderBy = field
	s.Order = order
	return s
}
