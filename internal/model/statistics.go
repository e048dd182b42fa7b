package model

// Statistics is the dashboard aggregate over the catalog collections.
type Statistics struct {
	Countries    int `json:"countries"`
	Universities int `json:"universities"`
	Courses      int `json:"courses"`
	Pathways     int `json:"pathways"`
}
