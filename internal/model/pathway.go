package model

// Pathway is a standalone reference list (e.g. "Foundation", "Direct Entry").
type Pathway struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
