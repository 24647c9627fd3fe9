package export

import (
	"encoding/xml"
	"io"
	"time"

	"pache/internal/pipeline"
)

/*
<open_modules generated_at="2026-10-17T10:00:00-03:00">
  <course id="3" name="3 - Algoritmos - 2026">
    <module kind="assign">
      <name>Lista 1</name>
      <section>Semana 1</section>
      <opens_at>2026-10-10T08:00:00-03:00</opens_at>
      <due_at>2026-10-20T23:59:00-03:00</due_at>
      <url>https://moodle.example/mod/assign/view.php?id=5</url>
    </module>
  </course>
</open_modules>
*/

type xmlOpenModules struct {
	XMLName     xml.Name    `xml:"open_modules"`
	GeneratedAt string      `xml:"generated_at,attr"`
	Courses     []xmlCourse `xml:"course"`
}

type xmlCourse struct {
	ID      int64       `xml:"id,attr"`
	Name    string      `xml:"name,attr"`
	Modules []xmlModule `xml:"module"`
}

type xmlModule struct {
	Kind    string `xml:"kind,attr"`
	Name    string `xml:"name"`
	Section string `xml:"section,omitempty"`
	OpensAt string `xml:"opens_at"`
	DueAt   string `xml:"due_at"`
	URL     string `xml:"url,omitempty"`
}

// WriteModulesXML writes res as an <open_modules> document. Courses without
// open modules are included with no children.
func WriteModulesXML(w io.Writer, res pipeline.Result, generatedAt time.Time) error {
	doc := xmlOpenModules{
		GeneratedAt: generatedAt.Format(time.RFC3339),
		Courses:     make([]xmlCourse, 0, len(res.Courses)),
	}
	for _, cm := range res.Courses {
		xc := xmlCourse{ID: cm.Course.ID, Name: cm.Course.FullName}
		for _, m := range cm.Modules {
			xc.Modules = append(xc.Modules, xmlModule{
				Kind:    string(m.Kind),
				Name:    m.Name,
				Section: m.Parent,
				OpensAt: m.AllowSubmissionsFrom.Format(time.RFC3339),
				DueAt:   m.DueDate.Format(time.RFC3339),
				URL:     m.URL,
			})
		}
		doc.Courses = append(doc.Courses, xc)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
