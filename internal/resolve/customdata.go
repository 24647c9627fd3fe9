package resolve

import (
	"encoding/json"
	"time"

	"pache/internal/domain"
)

// CustomData reads duedate/allowsubmissionsfromdate out of the JSON document
// carried in the module's "customdata" field.
//
// An absent, undecodable or unrelated document is simply not applicable.
type CustomData struct {
	Location *time.Location
}

type assignCustomData struct {
	DueDate                  *domain.EpochSeconds `json:"duedate"`
	AllowSubmissionsFromDate domain.EpochSeconds  `json:"allowsubmissionsfromdate"`
}

func (c CustomData) Resolve(m domain.RawModule) (Resolution, bool) {
	if m.CustomData == "" {
		return Resolution{}, false
	}

	var cd assignCustomData
	if err := json.Unmarshal([]byte(m.CustomData), &cd); err != nil {
		return Resolution{}, false
	}
	if cd.DueDate == nil {
		return Resolution{}, false
	}

	loc := orLocal(c.Location)
	return Resolution{
		Name:   m.Name,
		OpenAt: fromEpoch(int64(cd.AllowSubmissionsFromDate), loc),
		DueAt:  fromEpoch(int64(*cd.DueDate), loc),
	}, true
}
