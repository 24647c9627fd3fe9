// Package notify renders the open-activity message sent to students.
package notify

import (
	"fmt"
	"io"
	"strings"
	"time"

	"pache/internal/domain"
	"pache/internal/pipeline"
)

const dateLayout = "02/01 15:04"

var emojis = map[domain.Kind]string{
	domain.KindAssign:      "📝",
	domain.KindForum:       "💬",
	domain.KindQuiz:        "🧠",
	domain.KindURL:         "🔗",
	domain.KindPage:        "📄",
	domain.KindBook:        "📚",
	domain.KindFolder:      "📁",
	domain.KindResource:    "📦",
	domain.KindLabel:       "🏷️",
	domain.KindLesson:      "📖",
	domain.KindChoice:      "🤔",
	domain.KindFeedback:    "📣",
	domain.KindWorkshop:    "🔨",
	domain.KindGlossary:    "📖",
	domain.KindWiki:        "📖",
	domain.KindSurvey:      "📊",
	domain.KindData:        "📊",
	domain.KindAttendance:  "📋",
	domain.KindSCORM:       "📦",
	domain.KindH5PActivity: "🎮",
}

// Emoji returns the decoration for kind; unknown kinds get a generic pin.
func Emoji(kind domain.Kind) string {
	if e, ok := emojis[kind]; ok {
		return e
	}
	return "📌"
}

type Options struct {
	AppURL   string
	Version  string
	Location *time.Location // zone used to print dates; nil keeps each date's own
}

// Render writes the message for res to w.
func Render(w io.Writer, res pipeline.Result, opts Options) error {
	var b strings.Builder

	b.WriteString("📅✨ MOODLES ABERTOS 🚀\n")
	fmt.Fprintf(&b, "> 🎉 Uau! Temos %d atividades incríveis prontinhas para vocês explorar e entregar! 🚀\n\n", res.Total())

	for _, cm := range res.Courses {
		course := SimplifiedCourseName(cm.Course.FullName)
		for _, m := range cm.Modules {
			fmt.Fprintf(&b, "📚 %s\n", course)
			fmt.Fprintf(&b, " ➤ %s %s (De: %s até %s)\n", Emoji(m.Kind), m.Name,
				formatDate(m.AllowSubmissionsFrom, opts.Location), formatDate(m.DueDate, opts.Location))
			fmt.Fprintf(&b, "> Acesse em: %s\n\n", m.URL)
		}
	}

	if opts.AppURL != "" {
		fmt.Fprintf(&b, "> 📚 Acesse o Moodle em: %s\n", opts.AppURL)
	}
	fmt.Fprintf(&b, "> Criada com carinho pela Pache `%s` 🎀", opts.Version)

	_, err := io.WriteString(w, b.String())
	return err
}

// SimplifiedCourseName turns "ID - NAME - EXTRA" into "NAME". Names without
// that shape are returned trimmed but otherwise untouched.
func SimplifiedCourseName(full string) string {
	parts := strings.Split(full, " - ")
	if len(parts) < 2 {
		return strings.TrimSpace(full)
	}
	return strings.TrimSpace(parts[1])
}

func formatDate(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(dateLayout)
}
