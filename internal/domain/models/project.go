package models

import (
	"fmt"
	"math"
	"time"
)

// Status is the closed set of project lifecycle states.
// Any status may move to any other; there is no transition graph.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusOnHold    Status = "ON_HOLD"
	StatusCompleted Status = "COMPLETED"
)

// StatusAll is the list-filter keyword that disables status filtering.
const StatusAll = "ALL"

// AllStatuses lists every status in display order.
var AllStatuses = []Status{StatusActive, StatusOnHold, StatusCompleted}

// UtilizedStatuses are the statuses whose budgets count as utilized.
var UtilizedStatuses = []Status{StatusActive, StatusCompleted}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusOnHold, StatusCompleted:
		return true
	}
	return false
}

// Label returns the human-readable name used in charts.
func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusOnHold:
		return "On Hold"
	case StatusCompleted:
		return "Completed"
	}
	return string(s)
}

// Color returns the chart colour for the status.
func (s Status) Color() string {
	switch s {
	case StatusActive:
		return "#22c55e"
	case StatusOnHold:
		return "#eab308"
	case StatusCompleted:
		return "#6366f1"
	}
	return "#94a3b8"
}

// ParseStatus converts a raw value into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("must be one of ACTIVE, ON_HOLD, COMPLETED")
	}
	return s, nil
}

// Project is the managed entity. It is not owned by any user.
type Project struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Status     Status    `json:"status"`
	Deadline   time.Time `json:"deadline"`
	AssignedTo string    `json:"assignedTo"`
	Budget     Money     `json:"budget"`
	Progress   int       `json:"progress"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ProjectPatch names the columns an update writes. Nil fields keep their
// stored value; UpdatedAt is always written.
type ProjectPatch struct {
	Name       *string
	Status     *Status
	Deadline   *time.Time
	AssignedTo *string
	Budget     *Money
	Progress   *int
	UpdatedAt  time.Time
}

// ProjectSummary is the display subset used by the recent-projects view.
type ProjectSummary struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Status   Status    `json:"status"`
	Progress int       `json:"progress"`
	Deadline time.Time `json:"deadline"`
}

// ProjectFilter narrows list and count queries. A nil Status matches all
// statuses; an empty Search matches all names.
type ProjectFilter struct {
	Status *Status
	Search string
}

// Page is a 1-based page request.
type Page struct {
	Number int
	Limit  int
}

// Offset returns the number of rows to skip, saturating at math.MaxInt.
func (p Page) Offset() int {
	if p.Number <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Number-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Limit
}

// PastEnd reports whether the page starts at or after the last of total rows.
func (p Page) PastEnd(total int) bool {
	if p.Limit <= 0 {
		return true
	}
	lastPage := total / p.Limit
	if total%p.Limit != 0 {
		lastPage++
	}
	return p.Number > lastPage
}

// PageMeta describes a page of list results.
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NewPageMeta computes pagination metadata; totalPages is ceil(total/limit).
func NewPageMeta(total int, page Page) PageMeta {
	totalPages := 0
	if page.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(page.Limit)))
	}
	return PageMeta{
		Total:      total,
		Page:       page.Number,
		Limit:      page.Limit,
		TotalPages: totalPages,
	}
}

// ProjectPage is one page of projects plus its metadata.
type ProjectPage struct {
	Projects []Project
	Meta     PageMeta
}
