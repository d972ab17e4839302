package attendance

import "time"

// Record is a submitted attendance row. The matric number is the natural key;
// at most one record exists per matric number.
type Record struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MatricNo     string    `json:"matric_no"`
	Course       string    `json:"course"`
	SubmittedAt  time.Time `json:"submitted_at"`
	Active       bool      `json:"active"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	Accuracy     *float64  `json:"accuracy,omitempty"`
	LocationName *string   `json:"location_name,omitempty"`
}

// Counts aggregates record totals by active flag.
type Counts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// LocationInput carries raw geolocation form values. Every field is optional,
// but a present numeric field must parse.
type LocationInput struct {
	Latitude  string
	Longitude string
	Accuracy  string
	Name      string
}

// Filter narrows List and export queries.
type Filter struct {
	Course     string
	ActiveOnly bool
}
