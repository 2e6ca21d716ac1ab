package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// MealDay describes one day's meals. Every field is required for a record to
// be accepted from the generation service.
type MealDay struct {
	Day       string `json:"day"`
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
	Snacks    string `json:"snacks"`
}

// Discriminated failure reasons for record parsing. Records failing any of
// these checks are dropped, not repaired.
var (
	errNotObject    = errors.New("entry is not a JSON object")
	errMissingField = errors.New("missing required field")
	errWrongType    = errors.New("field has wrong type")
)

var mealDayFields = []string{"day", "breakfast", "lunch", "dinner", "snacks"}

// parseMealDay builds a typed MealDay from one decoded array element.
// Required fields are enumerated explicitly; no reflection-style probing.
func parseMealDay(entry interface{}) (MealDay, error) {
	obj, ok := entry.(map[string]interface{})
	if !ok {
		return MealDay{}, errNotObject
	}

	values := make(map[string]string, len(mealDayFields))
	for _, field := range mealDayFields {
		raw, present := obj[field]
		if !present {
			return MealDay{}, fmt.Errorf("%w: %q", errMissingField, field)
		}
		s, ok := raw.(string)
		if !ok {
			return MealDay{}, fmt.Errorf("%w: %q", errWrongType, field)
		}
		values[field] = s
	}

	return MealDay{
		Day:       values["day"],
		Breakfast: values["breakfast"],
		Lunch:     values["lunch"],
		Dinner:    values["dinner"],
		Snacks:    values["snacks"],
	}, nil
}

// FallbackMealPlan returns the fixed 2-entry meal plan used whenever
// generation or validation yields nothing usable. It carries no
// personalization; it exists so the presentation layer always has something
// to render.
func FallbackMealPlan() []MealDay {
	return []MealDay{
		{
			Day:       "Monday",
			Breakfast: "Oatmeal with fruits",
			Lunch:     "Grilled chicken salad",
			Dinner:    "Salmon with vegetables",
			Snacks:    "Greek yogurt",
		},
		{
			Day:       "Tuesday",
			Breakfast: "Whole grain toast with avocado",
			Lunch:     "Quinoa bowl with vegetables",
			Dinner:    "Vegetable stir-fry with tofu",
			Snacks:    "Mixed nuts",
		},
	}
}

// GenerateMealPlan prompts the generation service for a 7-day meal plan and
// validates the response into typed records. It is a pure function of the
// profile: all session state handling lives with the caller.
//
// The returned plan is never empty. Service failures and shape mismatches
// surface as notices alongside the fixed fallback plan; individually malformed
// records are skipped silently.
func GenerateMealPlan(ctx context.Context, gen TextGenerator, profile Profile) ([]MealDay, []Notice) {
	var notices []Notice

	raw, err := gen.GenerateText(ctx, BuildMealPrompt(profile)+jsonOnlyDirective, true)
	if err != nil {
		log.Error().Err(err).Msg("Meal plan generation call failed")
		notices = append(notices, errorNotice("Generation service error: %v", err))
		raw = ""
	}

	value := ExtractJSON(raw)
	entries, ok := value.([]interface{})
	if !ok {
		log.Warn().Msg("Meal plan response is not a JSON array, using default plan")
		notices = append(notices, warningNotice("Invalid meal plan format. Using default plan."))
		return FallbackMealPlan(), notices
	}

	var days []MealDay
	for _, entry := range entries {
		day, err := parseMealDay(entry)
		if err != nil {
			log.Debug().Err(err).Msg("Skipping malformed meal day record")
			continue
		}
		days = append(days, day)
	}

	if len(days) == 0 {
		return FallbackMealPlan(), notices
	}
	return days, notices
}
