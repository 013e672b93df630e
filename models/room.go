package models

// Room is a bookable room type as listed by GET /api/rooms.
type Room struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	RoomType    string   `json:"room_type"`
	NightlyRate float64  `json:"nightly_rate"`
	Capacity    int      `json:"capacity"`
	Amenities   []string `json:"amenities,omitempty"`
	Description string   `json:"description,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
}

// RoomQuery holds the optional filters for the room listing. Zero values are
// omitted from the query string.
type RoomQuery struct {
	CheckIn  string
	CheckOut string
	Guests   int
	MinPrice float64
	MaxPrice float64
}

// RoomList is the envelope returned by GET /api/rooms.
type RoomList struct {
	Rooms          []Room            `json:"rooms"`
	FiltersApplied map[string]string `json:"filters_applied,omitempty"`
	TotalCount     int               `json:"total_count"`
}
