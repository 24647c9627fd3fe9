package pipeline

import (
	"context"

	"pache/internal/concurrency"
	"pache/internal/domain"
)

// FetchFunc fetches the content listing of one course.
type FetchFunc func(ctx context.Context, course domain.Course) ([]domain.ContentSection, error)

// Scheduler decides how the per-course fetches are issued. Implementations
// return the listings in the order of courses and fail as a whole when any
// single fetch fails.
type Scheduler interface {
	FetchAll(ctx context.Context, courses []domain.Course, fetch FetchFunc) ([][]domain.ContentSection, error)
}

// Sequential fetches one course at a time, in enumeration order. It is the
// default and keeps the load on the Moodle server to a single request.
type Sequential struct{}

func (Sequential) FetchAll(ctx context.Context, courses []domain.Course, fetch FetchFunc) ([][]domain.ContentSection, error) {
	out := make([][]domain.ContentSection, 0, len(courses))
	for _, c := range courses {
		sections, err := fetch(ctx, c)
		if err != nil {
			return nil, err
		}
		out = append(out, sections)
	}
	return out, nil
}

// Bounded fetches up to MaxWorkers courses at once.
type Bounded struct {
	MaxWorkers int
}

func (b Bounded) FetchAll(ctx context.Context, courses []domain.Course, fetch FetchFunc) ([][]domain.ContentSection, error) {
	return concurrency.ProcessParallel(ctx, courses, concurrency.ParallelOptions{MaxWorkers: b.MaxWorkers},
		func(ctx context.Context, _ int, c domain.Course) ([]domain.ContentSection, error) {
			return fetch(ctx, c)
		})
}

// SchedulerFor maps a worker count to a policy: 1 or less is Sequential.
func SchedulerFor(workers int) Scheduler {
	if workers <= 1 {
		return Sequential{}
	}
	return Bounded{MaxWorkers: workers}
}
