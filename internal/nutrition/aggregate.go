package nutrition

import "sort"

// DayGroup is one calendar day's records with their totals and rating.
type DayGroup struct {
	Date    Date      `json:"date"`
	Records []Record  `json:"records"`
	Totals  Nutrients `json:"totals"`
	Rating  Rating    `json:"rating"`
}

// Sum adds up the nutrient fields of records. Malformed values were already
// coerced to 0 when the records were decoded.
func Sum(records []Record) Nutrients {
	var total Nutrients
	for _, r := range records {
		total = total.Add(r.Nutrients())
	}
	return total
}

// GroupByDay buckets records by date string (YYYY-MM-DD) and totals each
// bucket. Only dates present in records get an entry; each bucket keeps
// input order. Ratings are left zero for the caller to fill in.
func GroupByDay(records []Record) map[string]DayGroup {
	buckets := make(map[string][]Record)
	dates := make(map[string]Date)
	for _, r := range records {
		key := r.Date.String()
		buckets[key] = append(buckets[key], r)
		dates[key] = r.Date
	}

	groups := make(map[string]DayGroup, len(buckets))
	for key, recs := range buckets {
		groups[key] = DayGroup{
			Date:    dates[key],
			Records: recs,
			Totals:  Sum(recs),
		}
	}
	return groups
}

// NewestFirst flattens groups into a slice ordered by date descending.
func NewestFirst(groups map[string]DayGroup) []DayGroup {
	days := make([]DayGroup, 0, len(groups))
	for _, g := range groups {
		days = append(days, g)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Time.After(days[j].Date.Time)
	})
	return days
}
