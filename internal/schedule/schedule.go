package schedule

import (
	"time"
)

// Policy constants for the publish window.
const (
	DefaultLeadDays    = 3
	DefaultPublishHour = 9
)

// Planner computes publish instants under the blackout-window policy:
// a minimum lead time, weekends excluded, fixed time of day.
type Planner struct {
	leadDays    int
	publishHour int
	loc         *time.Location
}

// NewPlanner creates a planner. Zero or negative settings fall back to
// the defaults; a nil location means local time.
func NewPlanner(leadDays, publishHour int, loc *time.Location) *Planner {
	if leadDays <= 0 {
		leadDays = DefaultLeadDays
	}
	if publishHour <= 0 || publishHour > 23 {
		publishHour = DefaultPublishHour
	}
	if loc == nil {
		loc = time.Local
	}
	return &Planner{
		leadDays:    leadDays,
		publishHour: publishHour,
		loc:         loc,
	}
}

// NextPublishTime returns the next valid publish instant in UTC: at
// least leadDays ahead of now, moved forward past Saturday and Sunday,
// at the configured local hour. The function is pure and deterministic:
// the same now always yields the same instant.
func (p *Planner) NextPublishTime(now time.Time) time.Time {
	day := now.In(p.loc).AddDate(0, 0, p.leadDays)

	for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		day = day.AddDate(0, 0, 1)
	}

	local := time.Date(day.Year(), day.Month(), day.Day(), p.publishHour, 0, 0, 0, p.loc)
	return local.UTC()
}
