package nutrition

// Period names the time window a summary covers.
type Period string

const (
	PeriodToday  Period = "today"
	PeriodWeek   Period = "week"
	PeriodMonth  Period = "month"
	PeriodCustom Period = "custom"
)

// ParsePeriod maps a query value to a Period. An empty value means today.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case "":
		return PeriodToday, nil
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodCustom:
		return p, nil
	}
	return "", &ValidationError{Field: "period", Reason: "must be one of: today, week, month, custom"}
}

// Selector is a period plus the optional bounds used by PeriodCustom.
type Selector struct {
	Period Period `json:"period"`
	Start  *Date  `json:"start,omitempty"`
	End    *Date  `json:"end,omitempty"`
}

func (s Selector) hasRange() bool {
	return s.Start != nil && s.End != nil
}

// Validate rejects a custom range whose start is after its end.
func (s Selector) Validate() error {
	if s.Period == PeriodCustom && s.hasRange() && s.Start.Time.After(s.End.Time) {
		return &ValidationError{Field: "start", Reason: "must not be after end"}
	}
	return nil
}

// Contains reports whether a record dated d falls inside the window. week and
// month have no upper bound, so future-dated records are kept. A custom
// selector missing either bound keeps everything.
func (s Selector) Contains(d Date, today Date) bool {
	switch s.Period {
	case PeriodToday:
		return d.Time.Equal(today.Time)
	case PeriodWeek:
		return !d.Time.Before(today.AddDays(-7).Time)
	case PeriodMonth:
		return !d.Time.Before(today.Time.AddDate(0, -1, 0))
	case PeriodCustom:
		if !s.hasRange() {
			return true
		}
		return !d.Time.Before(s.Start.Time) && !d.Time.After(s.End.Time)
	}
	return true
}

// Days is the number of days the period's targets are scaled by.
func (s Selector) Days() int {
	switch s.Period {
	case PeriodWeek:
		return 7
	case PeriodMonth:
		return 30
	case PeriodCustom:
		if !s.hasRange() {
			return 1
		}
		n := DaysBetween(*s.Start, *s.End)
		if n < 0 {
			n = -n
		}
		return n + 1
	}
	return 1
}

// FilterRecords returns the records inside the selector's window, in input
// order.
func FilterRecords(records []Record, s Selector, today Date) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if s.Contains(r.Date, today) {
			out = append(out, r)
		}
	}
	return out
}
