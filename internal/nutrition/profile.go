package nutrition

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// MinDailyCalories is the floor applied to every computed daily target.
const MinDailyCalories = 1200

// ErrInvalidProfile is returned when a profile cannot produce a daily target.
var ErrInvalidProfile = errors.New("nutrition: invalid profile")

var activityMultipliers = map[string]float64{
	"low":      1.2,
	"light":    1.375,
	"moderate": 1.55,
	"high":     1.725,
	"intense":  1.9,
}

var goalAdjustments = map[string]float64{
	"lose":     -500,
	"maintain": 0,
	"gain":     500,
}

// Profile holds the biometric inputs used to derive a daily calorie target.
type Profile struct {
	Sex      string  `json:"sex" validate:"required,oneof=male female"`
	Age      int     `json:"age" validate:"required,gt=0,lt=130"`
	WeightKg float64 `json:"weight" validate:"required,gt=0"`
	HeightCm float64 `json:"height" validate:"required,gt=0"`
	Activity string  `json:"activity" validate:"required,oneof=low light moderate high intense"`
	Goal     string  `json:"goal" validate:"omitempty,oneof=lose maintain gain"`
}

var validate = validator.New()

// Validate checks ranges and enumerations.
func (p Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	return nil
}

// BMR uses the Mifflin-St Jeor equation.
func (p Profile) BMR() (float64, error) {
	base := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age)
	switch p.Sex {
	case "male":
		return base + 5, nil
	case "female":
		return base - 161, nil
	default:
		return 0, fmt.Errorf("%w: unknown sex %q", ErrInvalidProfile, p.Sex)
	}
}

// DailyCalories returns the rounded daily target after activity and goal
// adjustments, never below MinDailyCalories.
func (p Profile) DailyCalories() (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	bmr, err := p.BMR()
	if err != nil {
		return 0, err
	}
	mult, ok := activityMultipliers[p.Activity]
	if !ok {
		return 0, fmt.Errorf("%w: unknown activity level %q", ErrInvalidProfile, p.Activity)
	}
	adj, ok := goalAdjustments[p.Goal]
	if !ok && p.Goal != "" {
		return 0, fmt.Errorf("%w: unknown goal %q", ErrInvalidProfile, p.Goal)
	}
	tdee := bmr*mult + adj
	return max(MinDailyCalories, int(math.Round(tdee))), nil
}
