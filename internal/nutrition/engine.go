package nutrition

import "time"

// PeriodTotals is the whole-period aggregate, rated against the daily
// targets scaled by DaysInPeriod.
type PeriodTotals struct {
	DaysInPeriod int       `json:"days_in_period"`
	DaysLogged   int       `json:"days_logged"`
	Records      int       `json:"records"`
	Targets      Nutrients `json:"targets"`
	Totals       Nutrients `json:"totals"`
	Rating       Rating    `json:"rating"`
}

// Summary is everything a client needs to render one period.
type Summary struct {
	Selector
	Today        Date         `json:"today"`
	DailyTargets Nutrients    `json:"daily_targets"`
	Days         []DayGroup   `json:"days"`
	Totals       PeriodTotals `json:"totals"`
}

// Summarize filters records to the selector's window, groups and rates them
// per day against the profile's daily targets, and rates the period as a
// whole against the scaled targets. It has no side effects.
func Summarize(records []Record, p Profile, s Selector, today Date) Summary {
	daily := DailyTargets(p)
	filtered := FilterRecords(records, s, today)

	groups := GroupByDay(filtered)
	for key, g := range groups {
		g.Rating = Rate(g.Totals, daily)
		groups[key] = g
	}

	days := s.Days()
	periodTargets := daily.Scale(float64(days))
	totals := Sum(filtered)

	return Summary{
		Selector:     s,
		Today:        today,
		DailyTargets: daily,
		Days:         NewestFirst(groups),
		Totals: PeriodTotals{
			DaysInPeriod: days,
			DaysLogged:   len(groups),
			Records:      len(filtered),
			Targets:      periodTargets,
			Totals:       totals,
			Rating:       Rate(totals, periodTargets),
		},
	}
}

// Engine binds Summarize to a clock and time zone so "today" is computed the
// same way for every caller.
type Engine struct {
	loc *time.Location
	now func() time.Time
}

// NewEngine returns an engine evaluating dates in loc. A nil now uses
// time.Now; a nil loc uses UTC.
func NewEngine(loc *time.Location, now func() time.Time) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{loc: loc, now: now}
}

// Today returns the current calendar date in the engine's time zone.
func (e *Engine) Today() Date {
	return DateOf(e.now().In(e.loc))
}

// Summarize runs Summarize with the engine's today.
func (e *Engine) Summarize(records []Record, p Profile, s Selector) Summary {
	return Summarize(records, p, s, e.Today())
}
