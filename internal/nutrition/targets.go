package nutrition

import "math"

// Nutrients is the four-field shape shared by targets and intake totals.
// Calories are kcal, the macros are grams.
type Nutrients struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fats     float64 `json:"fats"`
	Carbs    float64 `json:"carbs"`
}

// Add returns the field-wise sum of n and o.
func (n Nutrients) Add(o Nutrients) Nutrients {
	return Nutrients{
		Calories: n.Calories + o.Calories,
		Protein:  n.Protein + o.Protein,
		Fats:     n.Fats + o.Fats,
		Carbs:    n.Carbs + o.Carbs,
	}
}

// Scale multiplies every field by k. Used to turn daily targets into
// period targets.
func (n Nutrients) Scale(k float64) Nutrients {
	return Nutrients{
		Calories: n.Calories * k,
		Protein:  n.Protein * k,
		Fats:     n.Fats * k,
		Carbs:    n.Carbs * k,
	}
}

// roundHalfUp rounds to the nearest integer with .5 going up, unlike
// math.Round which rounds half away from zero.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// BMR computes basal metabolic rate via Mifflin-St Jeor: different constant
// for male vs female.
func BMR(p Profile) float64 {
	bmr := 10*p.WeightKG + 6.25*p.HeightCM - 5*float64(p.Age)
	if p.Gender == Male {
		return bmr + 5
	}
	return bmr - 161
}

// TDEE multiplies BMR by the activity multiplier. An unknown activity level
// falls back to sedentary so the calculation stays total.
func TDEE(p Profile) float64 {
	mult, ok := activityMultipliers[p.ActivityLevel]
	if !ok {
		mult = activityMultipliers[Sedentary]
	}
	return BMR(p) * mult
}

// DailyTargets derives the calorie and macro targets for one day.
//
// Protein comes from body weight (1.6 g/kg); fats and carbs are 25% and 50%
// of the rounded calorie target at 9 and 4 kcal/g. The three macro targets
// are not reconciled against the calorie target.
func DailyTargets(p Profile) Nutrients {
	calories := roundHalfUp(TDEE(p))
	return Nutrients{
		Calories: calories,
		Protein:  roundHalfUp(p.WeightKG * 1.6),
		Fats:     roundHalfUp(calories * 0.25 / 9),
		Carbs:    roundHalfUp(calories * 0.50 / 4),
	}
}
