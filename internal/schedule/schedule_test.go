package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/blog-agent/internal/schedule"
)

func TestNextPublishTimeWeekdayTarget(t *testing.T) {
	p := schedule.NewPlanner(3, 9, time.UTC)

	// Monday + 3 days = Thursday
	now := time.Date(2026, 8, 24, 14, 30, 0, 0, time.UTC) // Monday
	got := p.NextPublishTime(now)

	require.Equal(t, time.Thursday, got.Weekday())
	require.Equal(t, time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC), got)
}

func TestNextPublishTimeSkipsSaturday(t *testing.T) {
	p := schedule.NewPlanner(3, 9, time.UTC)

	// Wednesday + 3 days = Saturday, must move to Monday
	now := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC) // Wednesday
	got := p.NextPublishTime(now)

	require.Equal(t, time.Monday, got.Weekday())
	require.Equal(t, time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC), got)
}

func TestNextPublishTimeSkipsSunday(t *testing.T) {
	p := schedule.NewPlanner(3, 9, time.UTC)

	// Thursday + 3 days = Sunday, must move to Monday
	now := time.Date(2026, 8, 27, 23, 59, 0, 0, time.UTC) // Thursday
	got := p.NextPublishTime(now)

	require.Equal(t, time.Monday, got.Weekday())
	require.Equal(t, time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC), got)
}

func TestNextPublishTimeMinimumLead(t *testing.T) {
	p := schedule.NewPlanner(3, 9, time.UTC)

	now := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	got := p.NextPublishTime(now)

	require.GreaterOrEqual(t, got.Sub(now), 72*time.Hour)
}

func TestNextPublishTimeDeterministic(t *testing.T) {
	p := schedule.NewPlanner(3, 9, time.UTC)
	now := time.Date(2026, 8, 25, 6, 0, 0, 0, time.UTC)

	require.Equal(t, p.NextPublishTime(now), p.NextPublishTime(now))
}

func TestNextPublishTimeLocalHourConvertsToUTC(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Kyiv")
	require.NoError(t, err)

	p := schedule.NewPlanner(3, 9, loc)

	// Monday in Kyiv; Thursday 09:00 EEST is 06:00 UTC
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, loc)
	got := p.NextPublishTime(now)

	require.Equal(t, time.UTC, got.Location())
	require.Equal(t, time.Date(2026, 8, 27, 6, 0, 0, 0, time.UTC), got)
}

func TestNewPlannerDefaults(t *testing.T) {
	p := schedule.NewPlanner(0, -1, time.UTC)

	now := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC) // Monday
	got := p.NextPublishTime(now)

	// Defaults: 3 lead days, 09:00
	require.Equal(t, time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC), got)
}
