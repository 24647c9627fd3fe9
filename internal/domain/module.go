package domain

import "time"

// Kind is the Moodle "modname" discriminator of a course module.
// The list below is what the notifier knows how to decorate; any other value
// is carried through untouched.
type Kind string

const (
	KindAssign      Kind = "assign"
	KindForum       Kind = "forum"
	KindQuiz        Kind = "quiz"
	KindURL         Kind = "url"
	KindPage        Kind = "page"
	KindBook        Kind = "book"
	KindFolder      Kind = "folder"
	KindResource    Kind = "resource"
	KindLabel       Kind = "label"
	KindLesson      Kind = "lesson"
	KindChoice      Kind = "choice"
	KindFeedback    Kind = "feedback"
	KindWorkshop    Kind = "workshop"
	KindGlossary    Kind = "glossary"
	KindWiki        Kind = "wiki"
	KindSurvey      Kind = "survey"
	KindData        Kind = "data"
	KindAttendance  Kind = "attendance"
	KindSCORM       Kind = "scorm"
	KindH5PActivity Kind = "h5pactivity"
)

// Module is a normalized, dated unit of coursework.
// Values are built once by the normalizer and never mutated afterwards.
type Module struct {
	Name   string
	Parent string // section the module lives in
	Kind   Kind
	URL    string

	AllowSubmissionsFrom time.Time
	DueDate              time.Time
}
