// Package pipeline discovers the currently open modules of every course a
// user is enrolled in.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"pache/internal/availability"
	"pache/internal/domain"
	"pache/internal/logger"
	"pache/internal/normalize"
)

// Gateway is the part of the Moodle API the pipeline consumes.
type Gateway interface {
	EnrolledCourses(ctx context.Context, userID int64) ([]domain.Course, error)
	CourseContents(ctx context.Context, courseID int64) ([]domain.ContentSection, error)
}

type Pipeline struct {
	Gateway    Gateway
	Normalizer normalize.Normalizer
	Scheduler  Scheduler

	// Now is read once per course when filtering. Defaults to time.Now.
	Now func() time.Time
}

// Result is the outcome of one run, in course enumeration order.
type Result struct {
	Courses []domain.CourseModules

	// Discovered counts dated modules before the availability filter.
	Discovered int
}

// ByCourse returns course full name -> open modules. Courses without open
// modules map to an empty slice.
func (r Result) ByCourse() map[string][]domain.Module {
	out := make(map[string][]domain.Module, len(r.Courses))
	for _, cm := range r.Courses {
		out[cm.Course.FullName] = cm.Modules
	}
	return out
}

// Total is the number of open modules across all courses.
func (r Result) Total() int {
	n := 0
	for _, cm := range r.Courses {
		n += len(cm.Modules)
	}
	return n
}

// Run executes fetch -> normalize -> filter for every enrolled course of userID.
// Any fetch error aborts the run; no partial result is returned.
func (p Pipeline) Run(ctx context.Context, userID int64) (Result, error) {
	log := logger.C(ctx)

	courses, err := p.Gateway.EnrolledCourses(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("fetch enrolled courses: %w", err)
	}
	log.Info().Int("courses", len(courses)).Msg("enrolled courses fetched")

	sched := p.Scheduler
	if sched == nil {
		sched = Sequential{}
	}

	listings, err := sched.FetchAll(ctx, courses, func(ctx context.Context, c domain.Course) ([]domain.ContentSection, error) {
		log.Debug().Int64("course_id", c.ID).Str("course", c.FullName).Msg("fetching course contents")
		sections, err := p.Gateway.CourseContents(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("fetch contents of course %d (%s): %w", c.ID, c.FullName, err)
		}
		return sections, nil
	})
	if err != nil {
		return Result{}, err
	}

	now := p.Now
	if now == nil {
		now = time.Now
	}

	res := Result{Courses: make([]domain.CourseModules, 0, len(courses))}
	for i, c := range courses {
		modules := p.Normalizer.Course(listings[i])
		res.Discovered += len(modules)

		res.Courses = append(res.Courses, domain.CourseModules{
			Course:  c,
			Modules: availability.Open(modules, now()),
		})
	}

	log.Info().Int("discovered", res.Discovered).Int("open", res.Total()).Msg("modules resolved")
	return res, nil
}
