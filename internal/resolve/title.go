package resolve

import (
	"regexp"
	"strconv"
	"time"

	"golang.org/x/text/unicode/norm"

	"pache/internal/domain"
)

// titleRange matches names such as "Quiz. 3 (10/05 - 12/05)". The label, the
// index and the range must be separated by whitespace. Only the start is
// anchored, so anything after the closing parenthesis is ignored.
var titleRange = regexp.MustCompile(`^([\p{L}\p{N}_]+\.\s+\d+)\s+\(\s*(\d{1,2})/(\d{1,2})\s*-\s*(\d{1,2})/(\d{1,2})\s*\)`)

// TitleRange extracts a dd/mm - dd/mm range from the module title. The title
// carries no year, so the current calendar year is assumed for both ends.
// The resolved name is the prefix before the range, in NFC form.
type TitleRange struct {
	Location *time.Location
	Now      func() time.Time
}

func (t TitleRange) Resolve(m domain.RawModule) (Resolution, bool) {
	// decomposed accents ("i" + U+0301) are not \p{L}
	sm := titleRange.FindStringSubmatch(norm.NFC.String(m.Name))
	if sm == nil {
		return Resolution{}, false
	}

	loc := orLocal(t.Location)
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	year := now().In(loc).Year()

	open, ok := dayMonth(year, sm[2], sm[3], loc)
	if !ok {
		return Resolution{}, false
	}
	due, ok := dayMonth(year, sm[4], sm[5], loc)
	if !ok {
		return Resolution{}, false
	}

	return Resolution{Name: sm[1], OpenAt: open, DueAt: due}, true
}

// dayMonth builds local midnight of dd/mm/year, rejecting dates that
// time.Date would silently roll over (31/02, 00/13, ...).
func dayMonth(year int, dd, mm string, loc *time.Location) (time.Time, bool) {
	day, err := strconv.Atoi(dd)
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(mm)
	if err != nil {
		return time.Time{}, false
	}
	ts := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if ts.Day() != day || int(ts.Month()) != month {
		return time.Time{}, false
	}
	return ts, true
}
