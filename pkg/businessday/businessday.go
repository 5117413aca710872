package businessday

import (
	"fmt"
	"time"
)

// DateLayout is the wire/storage format for business dates.
const DateLayout = "2006-01-02"

// Clock resolves "now" so services can be tested against a fixed instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock struct {
	Instant time.Time
}

func (f FixedClock) Now() time.Time { return f.Instant }

// Calendar buckets instants into calendar days of a single business timezone.
// The counter runs on one zone (Asia/Kolkata in the deployed system) while the
// database stores UTC timestamps, so every "which day does this order belong
// to" decision goes through here instead of ad-hoc offset math.
type Calendar struct {
	loc   *time.Location
	clock Clock
}

// NewCalendar loads the IANA timezone and binds the clock.
func NewCalendar(timezone string, clock Clock) (*Calendar, error) {
	if timezone == "" {
		return nil, fmt.Errorf("business timezone is required")
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("loading business timezone %q: %w", timezone, err)
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Calendar{loc: loc, clock: clock}, nil
}

// Location exposes the business timezone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Today returns the current business date.
func (c *Calendar) Today() Date {
	return c.DateOf(c.clock.Now())
}

// DateOf returns the business date an instant falls on.
func (c *Calendar) DateOf(t time.Time) Date {
	local := t.In(c.loc)
	return Date{Year: local.Year(), Month: local.Month(), Day: local.Day()}
}

// DayBounds returns the half-open UTC interval [start, end) covering the
// business date. Store queries filter created_at against these bounds.
func (c *Calendar) DayBounds(d Date) (time.Time, time.Time) {
	start := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, c.loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// Date is a calendar date with no time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// AddDays returns the date shifted by the given number of days.
func (d Date) AddDays(days int) Date {
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}
