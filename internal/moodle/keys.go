package moodle

import (
	"encoding/json"
	"fmt"

	"pache/internal/domain"
)

// The *Keys types mirror the parts of a response the pipeline indexes into.
// A nil pointer after decoding means the key was absent (or null).

type courseKeys struct {
	ID       *json.RawMessage `json:"id"`
	FullName *json.RawMessage `json:"fullname"`
}

type sectionKeys struct {
	Name    *json.RawMessage `json:"name"`
	Modules *[]moduleKeys    `json:"modules"`
}

type moduleKeys struct {
	ModName     *string          `json:"modname"`
	UserVisible *bool            `json:"uservisible"`
	Name        *json.RawMessage `json:"name"`
	URL         *json.RawMessage `json:"url"`
}

// decode unmarshals raw into out, reporting failures as ProtocolError.
func decode(op string, raw json.RawMessage, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return &ProtocolError{Op: op, Message: "unexpected response shape", Err: err}
	}
	return nil
}

// requireCourseKeys checks every course of a listing has id and fullname.
func requireCourseKeys(op string, raw json.RawMessage) error {
	var courses []courseKeys
	if err := decode(op, raw, &courses); err != nil {
		return err
	}
	for i, c := range courses {
		if c.ID == nil {
			return errMissing(op, fmt.Sprintf("[%d].id", i))
		}
		if c.FullName == nil {
			return errMissing(op, fmt.Sprintf("[%d].fullname", i))
		}
	}
	return nil
}

// requireSectionKeys checks a course contents listing. Every section needs
// name and modules; every module needs modname. Labels need nothing else,
// uservisible is read next, and only visible modules must carry name and url.
func requireSectionKeys(op string, raw json.RawMessage) error {
	var sections []sectionKeys
	if err := decode(op, raw, &sections); err != nil {
		return err
	}
	for i, s := range sections {
		if s.Name == nil {
			return errMissing(op, fmt.Sprintf("[%d].name", i))
		}
		if s.Modules == nil {
			return errMissing(op, fmt.Sprintf("[%d].modules", i))
		}
		for j, m := range *s.Modules {
			key := func(k string) string { return fmt.Sprintf("[%d].modules[%d].%s", i, j, k) }
			switch {
			case m.ModName == nil:
				return errMissing(op, key("modname"))
			case domain.Kind(*m.ModName) == domain.KindLabel:
				continue
			case m.UserVisible == nil:
				return errMissing(op, key("uservisible"))
			case !*m.UserVisible:
				continue
			case m.Name == nil:
				return errMissing(op, key("name"))
			case m.URL == nil:
				return errMissing(op, key("url"))
			}
		}
	}
	return nil
}
