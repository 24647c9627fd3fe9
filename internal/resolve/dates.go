package resolve

import (
	"time"

	"pache/internal/domain"
)

// Dates reads the module's "dates" array: element 0 opens, element 1 is due.
type Dates struct {
	Location *time.Location
}

func (d Dates) Resolve(m domain.RawModule) (Resolution, bool) {
	if len(m.Dates) < 2 {
		return Resolution{}, false
	}
	loc := orLocal(d.Location)
	return Resolution{
		Name:   m.Name,
		OpenAt: fromEpoch(int64(m.Dates[0].Timestamp), loc),
		DueAt:  fromEpoch(int64(m.Dates[1].Timestamp), loc),
	}, true
}

func orLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
