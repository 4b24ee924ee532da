package nutrition

// Gender selects the Mifflin-St Jeor constant.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// ActivityLevel is a key into activityMultipliers.
type ActivityLevel string

const (
	Sedentary  ActivityLevel = "sedentary"
	Light      ActivityLevel = "light"
	Moderate   ActivityLevel = "moderate"
	Active     ActivityLevel = "active"
	VeryActive ActivityLevel = "veryActive"
)

// activityMultipliers maps activity levels to their TDEE multiplier.
// This is the single source of truth for valid activity levels, also used by
// Profile.Validate.
var activityMultipliers = map[ActivityLevel]float64{
	Sedentary:  1.2,
	Light:      1.375,
	Moderate:   1.55,
	Active:     1.725,
	VeryActive: 1.9,
}

// Profile holds the body and activity attributes targets are derived from.
// Height is in centimeters, weight in kilograms.
type Profile struct {
	Gender        Gender        `json:"gender"`
	Age           int           `json:"age"`
	HeightCM      float64       `json:"height"`
	WeightKG      float64       `json:"weight"`
	ActivityLevel ActivityLevel `json:"activity_level"`
}

// DefaultProfile is the profile a user starts with before editing settings.
func DefaultProfile() Profile {
	return Profile{
		Gender:        Male,
		Age:           30,
		HeightCM:      175,
		WeightKG:      70,
		ActivityLevel: Moderate,
	}
}

// ValidActivityLevel reports whether l has a known multiplier.
func ValidActivityLevel(l ActivityLevel) bool {
	_, ok := activityMultipliers[l]
	return ok
}

// Validate checks a profile before it is stored. DailyTargets itself accepts
// any profile; this guards the settings edit path.
func (p Profile) Validate() error {
	if p.Gender != Male && p.Gender != Female {
		return &ValidationError{Field: "gender", Reason: "must be one of: male, female"}
	}
	if p.Age <= 0 {
		return &ValidationError{Field: "age", Reason: "must be greater than 0"}
	}
	if p.HeightCM <= 0 {
		return &ValidationError{Field: "height", Reason: "must be greater than 0"}
	}
	if p.WeightKG <= 0 {
		return &ValidationError{Field: "weight", Reason: "must be greater than 0"}
	}
	if !ValidActivityLevel(p.ActivityLevel) {
		return &ValidationError{Field: "activity_level", Reason: "must be one of: sedentary, light, moderate, active, veryActive"}
	}
	return nil
}
