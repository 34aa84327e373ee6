package schedule

import "time"

// NextRun computes the next future instant at which the descriptor fires,
// strictly after now.
//
// For a descriptor with at least one hour and one minute: today's date at the
// first listed hour/minute, pushed one day forward if that instant is not
// strictly after now. Only the first listed hour and minute are ever used, so
// a multi-hour descriptor such as "every 6 hours" degenerates to a single
// daily firing at its first hour. Known limitation, kept as-is.
//
// For a descriptor without hour/minute data (custom expressions, @hourly):
// the top of the next hour. For @hourly that is the real schedule; for custom
// expressions it is a placeholder that the schedule check revisits each pass.
func NextRun(d Descriptor, now time.Time) time.Time {
	if len(d.Hours) > 0 && len(d.Minutes) > 0 {
		next := time.Date(now.Year(), now.Month(), now.Day(),
			d.Hours[0], d.Minutes[0], 0, 0, now.Location())
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}
		return next
	}

	// Top of the next hour. Built from wall-clock fields rather than
	// Truncate so zones with fractional offsets stay on local boundaries.
	next := now.Add(time.Hour)
	return time.Date(next.Year(), next.Month(), next.Day(),
		next.Hour(), 0, 0, 0, next.Location())
}
