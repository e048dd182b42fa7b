package model

type Course struct {
	ID           int64  `json:"id"`
	ProgramName  string `json:"program_name"`
	DegreeLevel  string `json:"degree_level"`
	UniversityID int64  `json:"university_id"`

	// University (with its Country) is populated only by the joined read shape
	University *University `json:"university,omitempty"`
}

// Degree level constants
const (
	DegreeLevelBachelor = "bachelor"
	DegreeLevelMaster   = "master"
	DegreeLevelDoctoral = "doctoral"
	DegreeLevelDiploma  = "diploma"
)

// CourseFilter is the closed set of structural filters for course
// listings. Zero values mean "no constraint".
type CourseFilter struct {
	UniversityID int64
	DegreeLevel  string
}
