package domain

// Course is the enrollment record returned by core_enrol_get_users_courses.
// Only the fields the pipeline needs are decoded; anything else is ignored.
type Course struct {
	ID        int64  `json:"id"`
	ShortName string `json:"shortname"`
	FullName  string `json:"fullname"`
	Visible   int    `json:"visible"`
}

// CourseModules is one course's slice of a pipeline run.
type CourseModules struct {
	Course  Course
	Modules []Module
}
