package model

type University struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	City      string `json:"city"`
	State     string `json:"state"`
	CountryID int64  `json:"country_id"`

	// Country is populated only by the joined read shape
	Country *Country `json:"country,omitempty"`
}

// UniversityFilter is the closed set of structural filters for
// university listings. Zero values mean "no constraint".
type UniversityFilter struct {
	CountryID int64
	State     string
}
