package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pache/internal/domain"
	"pache/internal/normalize"
	"pache/internal/resolve"
)

type fakeGateway struct {
	mu       sync.Mutex
	courses  []domain.Course
	contents map[int64][]domain.ContentSection
	failOn   map[int64]error
	calls    []int64
	delay    time.Duration
}

func (g *fakeGateway) EnrolledCourses(ctx context.Context, userID int64) ([]domain.Course, error) {
	if err := g.failOn[0]; err != nil {
		return nil, err
	}
	return g.courses, nil
}

func (g *fakeGateway) CourseContents(ctx context.Context, courseID int64) ([]domain.ContentSection, error) {
	g.mu.Lock()
	g.calls = append(g.calls, courseID)
	g.mu.Unlock()

	if g.delay > 0 {
		time.Sleep(g.delay)
	}
	if err := g.failOn[courseID]; err != nil {
		return nil, err
	}
	return g.contents[courseID], nil
}

var brt = time.FixedZone("BRT", -3*60*60)

func newPipeline(g Gateway, now time.Time, sched Scheduler) Pipeline {
	clock := func() time.Time { return now }
	return Pipeline{
		Gateway:    g,
		Normalizer: normalize.New(resolve.Default(brt, clock)),
		Scheduler:  sched,
		Now:        clock,
	}
}

func epoch(t time.Time) domain.EpochSeconds { return domain.EpochSeconds(t.Unix()) }

// Course A: one open assignment and one hidden module. Course B: a quiz whose
// only date information is the dd/mm range in its title.
func scenario(now time.Time) *fakeGateway {
	return &fakeGateway{
		courses: []domain.Course{
			{ID: 1, FullName: "A"},
			{ID: 2, FullName: "B"},
		},
		contents: map[int64][]domain.ContentSection{
			1: {{
				Name: "Semana 1",
				Modules: []domain.RawModule{
					{
						Name: "Lista 1", ModName: domain.KindAssign, URL: "https://m/1", UserVisible: true,
						Dates: []domain.DateEntry{{Timestamp: epoch(now.Add(-time.Hour))}, {Timestamp: epoch(now.Add(24 * time.Hour))}},
					},
					{
						Name: "Oculta", ModName: domain.KindAssign, URL: "https://m/2", UserVisible: false,
						Dates: []domain.DateEntry{{Timestamp: epoch(now.Add(-time.Hour))}, {Timestamp: epoch(now.Add(24 * time.Hour))}},
					},
				},
			}},
			2: {{
				Name: "Provas",
				Modules: []domain.RawModule{
					{Name: "P1. 1 (01/01 - 02/01)", ModName: domain.KindQuiz, URL: "https://m/3", UserVisible: true},
				},
			}},
		},
	}
}

func TestRunScenarioOutsideTitleRange(t *testing.T) {
	now := time.Date(2026, time.October, 17, 10, 0, 0, 0, brt)
	g := scenario(now)

	res, err := newPipeline(g, now, nil).Run(context.Background(), 99)
	require.NoError(t, err)

	by := res.ByCourse()
	require.Len(t, by, 2)
	require.Len(t, by["A"], 1)
	require.Equal(t, "Lista 1", by["A"][0].Name)
	require.Equal(t, "Semana 1", by["A"][0].Parent)
	require.NotNil(t, by["B"])
	require.Empty(t, by["B"], "courses without open modules stay in the result")

	require.Equal(t, 2, res.Discovered)
	require.Equal(t, 1, res.Total())
	require.Equal(t, []int64{1, 2}, g.calls)
}

func TestRunScenarioInsideTitleRange(t *testing.T) {
	now := time.Date(2026, time.January, 1, 15, 0, 0, 0, brt)
	g := scenario(now)

	res, err := newPipeline(g, now, Sequential{}).Run(context.Background(), 99)
	require.NoError(t, err)

	by := res.ByCourse()
	require.Len(t, by["A"], 1)
	require.Len(t, by["B"], 1)
	require.Equal(t, "P1. 1", by["B"][0].Name)
	require.Equal(t, domain.KindQuiz, by["B"][0].Kind)
}

func TestRunPreservesCourseOrder(t *testing.T) {
	now := time.Date(2026, time.October, 17, 10, 0, 0, 0, brt)
	g := &fakeGateway{contents: map[int64][]domain.ContentSection{}}
	for i := int64(1); i <= 6; i++ {
		g.courses = append(g.courses, domain.Course{ID: i, FullName: fmt.Sprintf("C%d", i)})
	}
	g.delay = time.Millisecond

	for _, sched := range []Scheduler{Sequential{}, Bounded{MaxWorkers: 3}} {
		res, err := newPipeline(g, now, sched).Run(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, res.Courses, 6)
		for i, cm := range res.Courses {
			require.Equal(t, int64(i+1), cm.Course.ID)
		}
	}
}

func TestRunAbortsOnCourseFailure(t *testing.T) {
	now := time.Date(2026, time.October, 17, 10, 0, 0, 0, brt)
	boom := errors.New("connection reset")

	for _, sched := range []Scheduler{Sequential{}, Bounded{MaxWorkers: 2}} {
		g := scenario(now)
		g.courses = append(g.courses, domain.Course{ID: 3, FullName: "C"})
		g.failOn = map[int64]error{2: boom}

		res, err := newPipeline(g, now, sched).Run(context.Background(), 1)
		require.Error(t, err)
		require.ErrorIs(t, err, boom)
		require.Contains(t, err.Error(), "course 2")
		require.Empty(t, res.Courses, "no partial result")
	}
}

func TestSequentialStopsAtFirstFailure(t *testing.T) {
	now := time.Date(2026, time.October, 17, 10, 0, 0, 0, brt)
	g := scenario(now)
	g.courses = append(g.courses, domain.Course{ID: 3, FullName: "C"})
	g.failOn = map[int64]error{2: errors.New("boom")}

	_, err := newPipeline(g, now, Sequential{}).Run(context.Background(), 1)
	require.Error(t, err)
	require.Equal(t, []int64{1, 2}, g.calls)
}

func TestRunEnrolledCoursesFailure(t *testing.T) {
	boom := errors.New("invalid token")
	g := &fakeGateway{failOn: map[int64]error{0: boom}}

	_, err := newPipeline(g, time.Now(), nil).Run(context.Background(), 1)
	require.ErrorIs(t, err, boom)
	require.Empty(t, g.calls)
}

func TestRunNoCourses(t *testing.T) {
	res, err := newPipeline(&fakeGateway{}, time.Now(), nil).Run(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, res.Courses)
	require.Zero(t, res.Total())
	require.Empty(t, res.ByCourse())
}

func TestSchedulerFor(t *testing.T) {
	require.Equal(t, Sequential{}, SchedulerFor(0))
	require.Equal(t, Sequential{}, SchedulerFor(1))
	require.Equal(t, Bounded{MaxWorkers: 4}, SchedulerFor(4))
}

func TestDuplicateCourseNamesKeepLast(t *testing.T) {
	r := Result{Courses: []domain.CourseModules{
		{Course: domain.Course{ID: 1, FullName: "X"}, Modules: []domain.Module{{Name: "first"}}},
		{Course: domain.Course{ID: 2, FullName: "X"}, Modules: []domain.Module{{Name: "second"}}},
	}}
	require.Equal(t, "second", r.ByCourse()["X"][0].Name)
	require.Equal(t, 2, r.Total())
}
