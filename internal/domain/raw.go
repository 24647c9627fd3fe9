package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ContentSection is one entry of core_course_get_contents.
type ContentSection struct {
	ID      int64       `json:"id"`
	Name    string      `json:"name"`
	Modules []RawModule `json:"modules"`
}

// RawModule is a course module exactly as Moodle sends it. Unknown keys are ignored.
type RawModule struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	ModName     Kind        `json:"modname"`
	URL         string      `json:"url"`
	UserVisible bool        `json:"uservisible"`
	Dates       []DateEntry `json:"dates"`
	CustomData  CustomData  `json:"customdata"`
}

// DateEntry is one element of a module's "dates" array.
type DateEntry struct {
	Label     string       `json:"label"`
	Timestamp EpochSeconds `json:"timestamp"`
}

// EpochSeconds accepts a unix timestamp encoded either as a JSON number or as
// a numeric string ("1715300000"); Moodle uses both depending on the endpoint.
type EpochSeconds int64

func (e *EpochSeconds) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*e = 0
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
		if s == "" {
			*e = 0
			return nil
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("epoch seconds: %w", err)
	}
	*e = EpochSeconds(v)
	return nil
}

// CustomData holds the module's "customdata" payload undecoded.
//
// Moodle sends it as a JSON document encoded inside a string; some plugins
// inline the object instead. Both forms end up here as the document text, so
// a broken document is the resolver's problem and not a decode failure of the
// whole contents response. Empty means absent.
type CustomData string

func (c *CustomData) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*c = ""
		return nil
	}

	// string: "{\"duedate\":\"...\"}"
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = CustomData(s)
		return nil
	}

	// inline object / anything else: keep the raw text
	*c = CustomData(b)
	return nil
}
