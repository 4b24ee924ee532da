package nutrition

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date with no time-of-day, stored as midnight UTC.
// It serializes as "YYYY-MM-DD" in JSON.
type Date struct{ time.Time }

// NewDate returns the calendar date year-month-day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate accepts "YYYY-MM-DD" or an RFC 3339 timestamp; timestamps keep
// only their calendar date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Date{t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return d.Time.Format(dateLayout)
}

// AddDays moves d by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

// DaysBetween returns the number of calendar days from a to b (negative when
// b is before a).
func DaysBetween(a, b Date) int {
	return int(math.Round(b.Time.Sub(a.Time).Hours() / 24))
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		d.Time = time.Time{}
		return nil
	}
	unq, err := strconv.Unquote(s)
	if err != nil {
		return err
	}
	parsed, err := ParseDate(unq)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Amount is a nutrient or weight quantity. Decoding never fails: numbers and
// numeric strings keep their value, anything else (empty strings, garbage,
// null, NaN, infinities) becomes 0.
type Amount float64

// ParseAmount applies the same coercion as JSON decoding to a plain string.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Amount(f)
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	*a = ParseAmount(s)
	return nil
}

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}

// Record is one logged intake entry. ID is assigned by the store and empty
// until the record is first saved.
type Record struct {
	ID         string `json:"id,omitempty"`
	Date       Date   `json:"date"`
	Ingredient string `json:"ingredient"`
	Weight     Amount `json:"weight"`
	Calories   Amount `json:"calories"`
	Protein    Amount `json:"protein"`
	Fats       Amount `json:"fats"`
	Carbs      Amount `json:"carbs"`
}

// Nutrients returns the record's contribution to a total.
func (r Record) Nutrients() Nutrients {
	return Nutrients{
		Calories: float64(r.Calories),
		Protein:  float64(r.Protein),
		Fats:     float64(r.Fats),
		Carbs:    float64(r.Carbs),
	}
}

// Validate enforces the two required fields: a non-blank ingredient and a
// positive calorie value.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Ingredient) == "" {
		return &ValidationError{Field: "ingredient", Reason: "is required"}
	}
	if r.Calories <= 0 {
		return &ValidationError{Field: "calories", Reason: "is required"}
	}
	return nil
}

// Draft is the input shape for a new record. Date is kept as a string so an
// omitted date can default to today.
type Draft struct {
	Date       string `json:"date"`
	Ingredient string `json:"ingredient"`
	Weight     Amount `json:"weight"`
	Calories   Amount `json:"calories"`
	Protein    Amount `json:"protein"`
	Fats       Amount `json:"fats"`
	Carbs      Amount `json:"carbs"`
}

// NewRecord validates d and returns the unsaved record it describes.
func NewRecord(d Draft, today Date) (Record, error) {
	date := today
	if strings.TrimSpace(d.Date) != "" {
		parsed, err := ParseDate(d.Date)
		if err != nil {
			return Record{}, &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
		}
		date = parsed
	}
	r := Record{
		Date:       date,
		Ingredient: strings.TrimSpace(d.Ingredient),
		Weight:     d.Weight,
		Calories:   d.Calories,
		Protein:    d.Protein,
		Fats:       d.Fats,
		Carbs:      d.Carbs,
	}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}
