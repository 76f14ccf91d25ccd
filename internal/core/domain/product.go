package domain

type Product struct {
	ID          int64
	Title       string
	Price       float64
	Thumbnail   string
	Description string
	IsCustom    bool
}

// A Snapshot is a point-in-time copy of the store collections.
//
// Slices are owned by the receiver.
type Snapshot struct {
	Catalog   []Product
	Cart      []Product
	Favorites []Product
}

type CatalogFilter struct {
	Query      string
	CustomOnly bool
}
