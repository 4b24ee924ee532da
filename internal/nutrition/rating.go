package nutrition

// Band is the qualitative adherence class of a day or period.
type Band string

const (
	BandSevereDeficit Band = "severe-deficit"
	BandOffTarget     Band = "off-target"
	BandBalanced      Band = "balanced"
	BandExcess        Band = "excess"
)

var bandLabels = map[Band]string{
	BandSevereDeficit: "Serious shortfall",
	BandOffTarget:     "Some deviations",
	BandBalanced:      "Excellent balance!",
	BandExcess:        "Overshoot",
}

// Rating is the result of comparing totals against targets. Percent holds
// the per-nutrient percentage of target; AvgPercent is their mean.
type Rating struct {
	Band       Band      `json:"band"`
	Label      string    `json:"label"`
	AvgPercent float64   `json:"avg_percent"`
	Percent    Nutrients `json:"percent"`
}

// percentOf returns 100*actual/target, or 0 when target is not positive.
func percentOf(actual, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return 100 * actual / target
}

// classify maps an average percentage to a band. 70-90 and 110-130 both
// land in off-target.
func classify(avg float64) Band {
	switch {
	case avg < 70:
		return BandSevereDeficit
	case avg < 90:
		return BandOffTarget
	case avg <= 110:
		return BandBalanced
	case avg <= 130:
		return BandOffTarget
	default:
		return BandExcess
	}
}

// Rate scores actual against target and classifies the result.
func Rate(actual, target Nutrients) Rating {
	pct := Nutrients{
		Calories: percentOf(actual.Calories, target.Calories),
		Protein:  percentOf(actual.Protein, target.Protein),
		Fats:     percentOf(actual.Fats, target.Fats),
		Carbs:    percentOf(actual.Carbs, target.Carbs),
	}
	avg := (pct.Calories + pct.Protein + pct.Fats + pct.Carbs) / 4
	band := classify(avg)
	return Rating{
		Band:       band,
		Label:      bandLabels[band],
		AvgPercent: avg,
		Percent:    pct,
	}
}
