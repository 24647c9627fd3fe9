package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pache/internal/domain"
	"pache/internal/pipeline"
)

var brt = time.FixedZone("BRT", -3*60*60)

func sampleResult() pipeline.Result {
	return pipeline.Result{Courses: []domain.CourseModules{
		{
			Course: domain.Course{ID: 3, FullName: "3 - Algoritmos - 2026"},
			Modules: []domain.Module{{
				Name:                 "Lista 1\n(revisada)",
				Parent:               "Semana 1",
				Kind:                 domain.KindAssign,
				URL:                  "https://moodle.test/mod/assign/view.php?id=5",
				AllowSubmissionsFrom: time.Date(2026, time.October, 10, 8, 0, 0, 0, brt),
				DueDate:              time.Date(2026, time.October, 20, 23, 59, 0, 0, brt),
			}},
		},
		{Course: domain.Course{ID: 4, FullName: "4 - Física - 2026"}, Modules: []domain.Module{}},
	}}
}

func TestWriteModulesCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteModulesCSV(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteModulesCSV failed: %v", err)
	}

	if !strings.Contains(buf.String(), "\r\n") {
		t.Error("Expected CRLF line endings")
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected header + 1 row, got %d records", len(records))
	}
	if len(records[0]) != len(modulesHeader) {
		t.Errorf("Expected %d columns, got %d", len(modulesHeader), len(records[0]))
	}

	row := records[1]
	expected := []string{
		"3",
		"Algoritmos",
		"Semana 1",
		"assign",
		"Lista 1 (revisada)",
		"2026-10-10T08:00:00-03:00",
		"2026-10-20T23:59:00-03:00",
		"https://moodle.test/mod/assign/view.php?id=5",
	}
	for i := range expected {
		if row[i] != expected[i] {
			t.Errorf("column %s = %q, want %q", modulesHeader[i], row[i], expected[i])
		}
	}
}

func TestWriteModulesXML(t *testing.T) {
	var buf bytes.Buffer
	gen := time.Date(2026, time.October, 17, 10, 0, 0, 0, brt)
	if err := WriteModulesXML(&buf, sampleResult(), gen); err != nil {
		t.Fatalf("WriteModulesXML failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<open_modules generated_at="2026-10-17T10:00:00-03:00">`,
		`<course id="3" name="3 - Algoritmos - 2026">`,
		`<module kind="assign">`,
		`<section>Semana 1</section>`,
		`<due_at>2026-10-20T23:59:00-03:00</due_at>`,
		`<course id="4" name="4 - Física - 2026"></course>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q\n%s", want, out)
		}
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "nested", "modules.csv")

	err := WriteFile(path, func(w io.Writer) error {
		return WriteModulesCSV(w, sampleResult())
	})
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if !strings.HasPrefix(string(b), "COURSE_ID,COURSE") {
		t.Errorf("Unexpected file content: %q", string(b))
	}
}

func TestWriteFileRemovesPartialOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.txt")
	boom := errors.New("boom")

	err := WriteFile(path, func(w io.Writer) error {
		io.WriteString(w, "half")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected wrapped boom, got %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("Expected partial file to be removed, stat err = %v", statErr)
	}
}
