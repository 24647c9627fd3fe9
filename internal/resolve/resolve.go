// Package resolve turns the three shapes Moodle uses for submission dates into
// one (open, due) pair.
package resolve

import (
	"time"

	"pache/internal/domain"
)

// Resolution is the outcome of a resolver that applied to a module.
type Resolution struct {
	// Name is the display name to use. Resolvers that do not rewrite the
	// title return the raw module name.
	Name   string
	OpenAt time.Time
	DueAt  time.Time
}

// Resolver reports whether it applies to m and, if so, the dates it found.
type Resolver interface {
	Resolve(m domain.RawModule) (Resolution, bool)
}

// Chain tries resolvers in order; the first one that applies wins.
type Chain []Resolver

func (c Chain) Resolve(m domain.RawModule) (Resolution, bool) {
	for _, r := range c {
		if res, ok := r.Resolve(m); ok {
			return res, true
		}
	}
	return Resolution{}, false
}

// Default is the fixed priority used by the notifier: explicit dates array,
// then encoded customdata, then a date range embedded in the title.
// loc is the course timezone; now supplies the year for title ranges.
func Default(loc *time.Location, now func() time.Time) Chain {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return Chain{
		Dates{Location: loc},
		CustomData{Location: loc},
		TitleRange{Location: loc, Now: now},
	}
}

func fromEpoch(sec int64, loc *time.Location) time.Time {
	return time.Unix(sec, 0).In(loc)
}
