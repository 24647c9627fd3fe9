package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"pache/internal/notify"
	"pache/internal/pipeline"
)

// Column order is part of the file contract; append new columns at the end.
var modulesHeader = []string{
	"COURSE_ID",
	"COURSE",
	"SECTION",
	"KIND",
	"NAME",
	"OPENS_AT",
	"DUE_AT",
	"URL",
}

// WriteModulesCSV writes one row per open module of res.
func WriteModulesCSV(w io.Writer, res pipeline.Result) error {
	cw := csv.NewWriter(w)
	// match spreadsheet imports
	cw.UseCRLF = true

	if err := cw.Write(modulesHeader); err != nil {
		return err
	}

	for _, cm := range res.Courses {
		course := notify.SimplifiedCourseName(cm.Course.FullName)
		for _, m := range cm.Modules {
			row := []string{
				formatInt(cm.Course.ID), // COURSE_ID
				clean(course),           // COURSE
				clean(m.Parent),         // SECTION
				string(m.Kind),          // KIND
				clean(m.Name),           // NAME
				m.AllowSubmissionsFrom.Format(time.RFC3339), // OPENS_AT
				m.DueDate.Format(time.RFC3339),              // DUE_AT
				m.URL,                                       // URL
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// clean keeps each field on a single line.
func clean(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

func formatInt(v int64) string { return strconv.FormatInt(v, 10) }
