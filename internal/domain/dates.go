package domain

import "time"

// IsMonday reports whether d falls on a Monday in the UTC civil calendar,
// per the ScheduleJob.period_begin_date invariant (§3).
func IsMonday(d time.Time) bool {
	return d.UTC().Weekday() == time.Monday
}

// WeekStart returns the Monday (UTC civil calendar) of the week containing d.
func WeekStart(d time.Time) time.Time {
	d = d.UTC()
	offset := int(d.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -offset)
}
