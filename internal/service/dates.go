package service

import "time"

// DateLayout is the wire format for calendar dates throughout the pipeline.
const DateLayout = "2006-01-02"

// NextPresentationDate returns the next date a presentation can happen,
// starting from the day after today and skipping the designated
// non-presentation weekday. With the default Sunday off-day this pins both
// Saturday's and Sunday's planning to the following Monday.
func NextPresentationDate(today time.Time, offDay time.Weekday) string {
	next := today.AddDate(0, 0, 1)
	for next.Weekday() == offDay {
		next = next.AddDate(0, 0, 1)
	}
	return next.Format(DateLayout)
}

// ParseDate validates a YYYY-MM-DD string.
func ParseDate(date string) (time.Time, error) {
	return time.Parse(DateLayout, date)
}
