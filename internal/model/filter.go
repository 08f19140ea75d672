package model

// PriceFacet narrows discovery results by paid/free.
type PriceFacet string

const (
	PriceAny  PriceFacet = "any"
	PriceFree PriceFacet = "free"
	PricePaid PriceFacet = "paid"
)

// AgeAny disables the age facet. Any other value is matched by exact
// equality against Event.AgeRange.
const AgeAny = "any"

// DateFacet narrows discovery results to a window relative to "now".
type DateFacet string

const (
	DateAny       DateFacet = "any"
	DateToday     DateFacet = "today"
	DateThisWeek  DateFacet = "this_week"
	DateThisMonth DateFacet = "this_month"
)

// DistanceFacet is a radius in miles around the reference point.
// Zero disables the facet.
type DistanceFacet float64

const (
	DistanceAny        DistanceFacet = 0
	DistanceHalfMile   DistanceFacet = 0.5
	DistanceTwoMiles   DistanceFacet = 2
	DistanceFiveMiles  DistanceFacet = 5
	DistanceTenMiles   DistanceFacet = 10
)

// FilterSpec is one faceted discovery query. All active facets are
// AND-combined. ReferencePoint is always supplied explicitly by the
// caller; the server never resolves device location itself.
type FilterSpec struct {
	Price          PriceFacet    `json:"price"`
	AgeRange       string        `json:"age_range"`
	Date           DateFacet     `json:"date"`
	Distance       DistanceFacet `json:"distance"`
	ReferencePoint *Coordinate   `json:"reference_point"`
}
