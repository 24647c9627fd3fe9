// Package availability selects the modules whose submission window is open.
package availability

import (
	"time"

	"pache/internal/domain"
)

// IsOpen reports whether now lies strictly inside the module's window.
// A module opening or closing exactly at now is not open, and an inverted
// window is never open.
func IsOpen(m domain.Module, now time.Time) bool {
	return m.AllowSubmissionsFrom.Before(now) && now.Before(m.DueDate)
}

// Open returns the modules open at now, preserving order.
func Open(modules []domain.Module, now time.Time) []domain.Module {
	out := make([]domain.Module, 0, len(modules))
	for _, m := range modules {
		if IsOpen(m, now) {
			out = append(out, m)
		}
	}
	return out
}

// Filter is Open against the wall clock, read once per call.
func Filter(modules []domain.Module) []domain.Module {
	return Open(modules, time.Now())
}
