// Package normalize flattens a course's content listing into dated modules.
package normalize

import (
	"pache/internal/domain"
	"pache/internal/resolve"
)

// Normalizer applies a date resolver to every module of a content listing.
// It keeps no state between calls.
type Normalizer struct {
	Resolver resolve.Resolver
}

// New returns a Normalizer using r, or an empty chain (nothing datable) when r is nil.
func New(r resolve.Resolver) Normalizer {
	if r == nil {
		r = resolve.Chain{}
	}
	return Normalizer{Resolver: r}
}

// Course returns the dated modules of one course in listing order.
// Labels, modules hidden from the user and modules without dates are skipped.
func (n Normalizer) Course(sections []domain.ContentSection) []domain.Module {
	out := make([]domain.Module, 0)
	for _, section := range sections {
		for _, raw := range section.Modules {
			if skip(raw) {
				continue
			}

			res, ok := n.Resolver.Resolve(raw)
			if !ok {
				continue
			}

			out = append(out, domain.Module{
				Name:                 res.Name,
				Parent:               section.Name,
				Kind:                 raw.ModName,
				URL:                  raw.URL,
				AllowSubmissionsFrom: res.OpenAt,
				DueDate:              res.DueAt,
			})
		}
	}
	return out
}

// All normalizes several courses at once, keyed by course full name.
// A later course with the same full name replaces an earlier one.
func (n Normalizer) All(contents map[string][]domain.ContentSection) map[string][]domain.Module {
	out := make(map[string][]domain.Module, len(contents))
	for name, sections := range contents {
		out[name] = n.Course(sections)
	}
	return out
}

func skip(m domain.RawModule) bool {
	return m.ModName == domain.KindLabel || !m.UserVisible
}
