package entity

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is minutes since midnight. 24:00 is allowed as a closing time.
type TimeOfDay int

func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(raw))
	if err != nil {
		if strings.TrimSpace(raw) == "24:00" {
			return TimeOfDay(24 * 60), nil
		}
		return 0, fmt.Errorf("invalid time of day %q: %w", raw, err)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// DailyHours is one opening window. Close earlier than Open wraps past
// midnight into the next day; Close equal to Open means open around the clock.
type DailyHours struct {
	Open  TimeOfDay
	Close TimeOfDay
}

func (d DailyHours) Overnight() bool {
	return d.Close <= d.Open
}

// window anchors the opening hours to the day they open on.
func (d DailyHours) window(day time.Time) TimeRange {
	y, m, dd := day.Date()
	loc := day.Location()
	open := time.Date(y, m, dd, int(d.Open)/60, int(d.Open)%60, 0, 0, loc)
	closeDay := dd
	if d.Overnight() {
		closeDay++
	}
	closing := time.Date(y, m, closeDay, int(d.Close)/60, int(d.Close)%60, 0, 0, loc)
	return TimeRange{Start: open, End: closing}
}

// OpeningHours maps a weekday to its opening window. A missing weekday is a
// closed day.
type OpeningHours map[time.Weekday]DailyHours

// Covers reports whether r fits entirely inside one opening window. Windows
// belong to the weekday they open on, so 22:00-06:00 on Friday covers
// Saturday 01:00.
func (h OpeningHours) Covers(r TimeRange) bool {
	if h == nil {
		return true
	}
	today := StartOfDay(r.Start)
	for _, day := range []time.Time{today.AddDate(0, 0, -1), today} {
		hours, ok := h[day.Weekday()]
		if !ok {
			continue
		}
		w := hours.window(day)
		if !r.Start.Before(w.Start) && !r.End.After(w.End) {
			return true
		}
	}
	return false
}

var weekdayNames = map[string]time.Weekday{
	"SUNDAY":    time.Sunday,
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
}

type dailyHoursJSON struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// UnmarshalJSON reads {"monday": {"open": "09:00", "close": "22:00"}, "sunday": null}.
// Weekday names are case-insensitive; null entries mean closed.
func (h *OpeningHours) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*h = nil
		return nil
	}
	var raw map[string]*dailyHoursJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode opening hours: %w", err)
	}
	out := make(OpeningHours, len(raw))
	for name, entry := range raw {
		day, ok := weekdayNames[strings.ToUpper(strings.TrimSpace(name))]
		if !ok {
			return fmt.Errorf("invalid weekday %q", name)
		}
		if entry == nil {
			continue
		}
		open, err := ParseTimeOfDay(entry.Open)
		if err != nil {
			return err
		}
		closing, err := ParseTimeOfDay(entry.Close)
		if err != nil {
			return err
		}
		out[day] = DailyHours{Open: open, Close: closing}
	}
	*h = out
	return nil
}

func (h OpeningHours) MarshalJSON() ([]byte, error) {
	if h == nil {
		return []byte("null"), nil
	}
	raw := make(map[string]*dailyHoursJSON, 7)
	for name, day := range weekdayNames {
		key := strings.ToLower(name)
		hours, ok := h[day]
		if !ok {
			raw[key] = nil
			continue
		}
		raw[key] = &dailyHoursJSON{Open: hours.Open.String(), Close: hours.Close.String()}
	}
	return json.Marshal(raw)
}
