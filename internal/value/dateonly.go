package value

import "time"

// DateOnlyLayout is the calendar-date form used for date-only comparison.
const DateOnlyLayout = "2006-01-02"

// DateOnly formats d as "YYYY-MM-DD" in loc, zero-padding month and day.
// A nil loc keeps the date's own location.
func DateOnly(d Date, loc *time.Location) string {
	t := d.Time
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(DateOnlyLayout)
}

// Normalize returns the date-only Text form of a Date.
// Every other kind is returned unchanged, so a missing bound stays Null.
func Normalize(v Value, loc *time.Location) Value {
	if d, ok := v.(Date); ok {
		return Text(DateOnly(d, loc))
	}
	return v
}
