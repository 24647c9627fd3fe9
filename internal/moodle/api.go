package moodle

import (
	"context"
	"encoding/json"

	"pache/internal/domain"
)

const (
	fnSiteInfo        = "core_webservice_get_site_info"
	fnUsersCourses    = "core_enrol_get_users_courses"
	fnCourseContents  = "core_course_get_contents"
	fnAssignments     = "mod_assign_get_assignments"
	fnTimelineCourses = "core_course_get_enrolled_courses_by_timeline_classification"
)

type SiteInfo struct {
	SiteName  string `json:"sitename"`
	SiteURL   string `json:"siteurl"`
	UserName  string `json:"username"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	UserID    int64  `json:"userid"`
	Release   string `json:"release"`
}

// SiteInfo returns the site and the authenticated user.
func (c *Client) SiteInfo(ctx context.Context) (SiteInfo, error) {
	var si SiteInfo
	if err := c.Call(ctx, fnSiteInfo, nil, &si); err != nil {
		return SiteInfo{}, err
	}
	if si.UserID == 0 {
		return SiteInfo{}, errMissing(fnSiteInfo, "userid")
	}
	return si, nil
}

// EnrolledCourses lists the courses userID is enrolled in. A course without
// id or fullname is a ProtocolError.
func (c *Client) EnrolledCourses(ctx context.Context, userID int64) ([]domain.Course, error) {
	var raw json.RawMessage
	if err := c.Call(ctx, fnUsersCourses, Params{"userid": userID}, &raw); err != nil {
		return nil, err
	}
	if err := requireCourseKeys(fnUsersCourses, raw); err != nil {
		return nil, err
	}
	var out []domain.Course
	if err := decode(fnUsersCourses, raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CourseContents returns the sections (and their modules) of a course.
// Missing section or module keys are a ProtocolError.
func (c *Client) CourseContents(ctx context.Context, courseID int64) ([]domain.ContentSection, error) {
	var raw json.RawMessage
	if err := c.Call(ctx, fnCourseContents, Params{"courseid": courseID}, &raw); err != nil {
		return nil, err
	}
	if err := requireSectionKeys(fnCourseContents, raw); err != nil {
		return nil, err
	}
	var out []domain.ContentSection
	if err := decode(fnCourseContents, raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type Assignment struct {
	ID                       int64               `json:"id"`
	CMID                     int64               `json:"cmid"`
	Name                     string              `json:"name"`
	DueDate                  domain.EpochSeconds `json:"duedate"`
	AllowSubmissionsFromDate domain.EpochSeconds `json:"allowsubmissionsfromdate"`
	CutoffDate               domain.EpochSeconds `json:"cutoffdate"`
}

type AssignmentCourse struct {
	ID          int64        `json:"id"`
	FullName    string       `json:"fullname"`
	Assignments []Assignment `json:"assignments"`
}

type assignmentsResponse struct {
	Courses []AssignmentCourse `json:"courses"`
}

// Assignments lists assignments, optionally restricted to courseIDs.
func (c *Client) Assignments(ctx context.Context, courseIDs ...int64) ([]AssignmentCourse, error) {
	var params Params
	if len(courseIDs) > 0 {
		params = Params{"courseids": courseIDs}
	}
	var out assignmentsResponse
	if err := c.Call(ctx, fnAssignments, params, &out); err != nil {
		return nil, err
	}
	return out.Courses, nil
}

type timelineResponse struct {
	Courses    json.RawMessage `json:"courses"`
	NextOffset int             `json:"nextoffset"`
}

// TimelineCourses lists enrolled courses the way the dashboard timeline does.
// classification is one of all, inprogress, future, past; sort is a course
// field such as "fullname".
func (c *Client) TimelineCourses(ctx context.Context, classification, sort string) ([]domain.Course, error) {
	var out timelineResponse
	err := c.Call(ctx, fnTimelineCourses, Params{"classification": classification, "sort": sort}, &out)
	if err != nil {
		return nil, err
	}
	if out.Courses == nil || string(out.Courses) == "null" {
		return nil, errMissing(fnTimelineCourses, "courses")
	}
	if err := requireCourseKeys(fnTimelineCourses, out.Courses); err != nil {
		return nil, err
	}
	var courses []domain.Course
	if err := decode(fnTimelineCourses, out.Courses, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}
