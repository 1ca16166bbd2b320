package planner

import (
	"github.com/go-playground/validator/v10"

	"github.com/remendec/Dozo-diet-planner-2.0/internal/catalog"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/shared"
)

const (
	MinDays = 1
	MaxDays = 30
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("mealslot", func(fl validator.FieldLevel) bool {
		return shared.MealSlot(fl.Field().String()).Valid()
	})
	return v
}

// Request is one plan-generation request as seen by the core.
type Request struct {
	Days       int                 `json:"days" validate:"min=1,max=30"`
	Meals      []shared.MealSlot   `json:"meals" validate:"required,min=1,dive,mealslot"`
	Location   string              `json:"location" validate:"required"`
	DietType   catalog.DietType    `json:"dietType" validate:"omitempty,oneof=omnivore vegetarian vegan"`
	Conditions []catalog.Condition `json:"conditions" validate:"dive,oneof=diabetes celiac lactose"`
	Allergies  []string            `json:"allergies"`
}

// Validate checks field ranges and slot names.
func (r *Request) Validate() error {
	return validate.Struct(r)
}

// Filters converts the dietary part of the request into catalog filters.
func (r *Request) Filters() catalog.Filters {
	diet := r.DietType
	if diet == "" {
		diet = catalog.Omnivore
	}
	return catalog.Filters{
		Diet:       diet,
		Conditions: r.Conditions,
		Allergies:  r.Allergies,
	}
}

// ClampDays bounds a requested day count to [MinDays, MaxDays].
func ClampDays(days int) int {
	return min(MaxDays, max(MinDays, days))
}
