package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pache/internal/domain"
)

func window(name string, open, due time.Time) domain.Module {
	return domain.Module{Name: name, Kind: domain.KindAssign, AllowSubmissionsFrom: open, DueDate: due}
}

func TestOpen(t *testing.T) {
	now := time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC)
	hour := time.Hour

	modules := []domain.Module{
		window("open", now.Add(-hour), now.Add(hour)),
		window("due now", now.Add(-hour), now),
		window("opens now", now, now.Add(hour)),
		window("not yet open", now.Add(hour), now.Add(2*hour)),
		window("closed", now.Add(-2*hour), now.Add(-hour)),
		window("inverted", now.Add(hour), now.Add(-hour)),
		window("also open", now.Add(-24*hour), now.Add(24*hour)),
	}

	got := Open(modules, now)

	names := make([]string, 0, len(got))
	for _, m := range got {
		names = append(names, m.Name)
	}
	require.Equal(t, []string{"open", "also open"}, names)
}

func TestOpenEmpty(t *testing.T) {
	got := Open(nil, time.Now())
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestFilterUsesWallClock(t *testing.T) {
	now := time.Now()
	modules := []domain.Module{
		window("open", now.Add(-time.Hour), now.Add(time.Hour)),
		window("closed", now.Add(-2*time.Hour), now.Add(-time.Hour)),
	}

	got := Filter(modules)
	require.Len(t, got, 1)
	require.Equal(t, "open", got[0].Name)
}

func TestIsOpenIgnoresLocation(t *testing.T) {
	now := time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC)
	brt := time.FixedZone("BRT", -3*60*60)

	m := window("x", now.Add(-time.Minute).In(brt), now.Add(time.Minute).In(brt))
	require.True(t, IsOpen(m, now))
}
