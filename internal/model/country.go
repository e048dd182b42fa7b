package model

// Country is a reference-list entry; universities point at it.
type Country struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}
