package domain

// Point is a collection point accepting one or more item categories.
// Image holds the stored upload filename; ImageURL is derived when the point
// is read and is never persisted.
type Point struct {
	ID        int64   `json:"id"`
	Image     string  `json:"image"`
	ImageURL  string  `json:"image_url"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Whatsapp  string  `json:"whatsapp"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	UF        string  `json:"uf"`
}

// Item is a recyclable material category. Items are reference data.
type Item struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Image    string `json:"-"`
	ImageURL string `json:"image_url"`
}

type PointItem struct {
	PointID int64
	ItemID  int64
}

// NewPoint carries the fields of a point about to be created together with
// the ids of the items it accepts.
type NewPoint struct {
	Image     string
	Name      string
	Email     string
	Whatsapp  string
	Latitude  float64
	Longitude float64
	City      string
	UF        string
	ItemIDs   []int64
}

// PointFilter narrows a point listing. Zero-valued fields do not constrain
// the result.
type PointFilter struct {
	City    string
	UF      string
	ItemIDs []int64
}

// PointDetail is a point together with every item it accepts.
type PointDetail struct {
	Point *Point  `json:"point"`
	Items []*Item `json:"items"`
}
