package planner

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// WorkoutDay describes one day's training. Every field is required; exercises
// must hold at least one item.
type WorkoutDay struct {
	Day       string   `json:"day"`
	Exercises []string `json:"exercises"`
	Duration  string   `json:"duration"`
	Intensity string   `json:"intensity"`
}

var workoutDayFields = []string{"day", "exercises", "duration", "intensity"}

// parseWorkoutDay builds a typed WorkoutDay from one decoded array element.
// The single deliberate repair rule lives here: a non-array "exercises" value
// is coerced into a one-element list containing its string form. Everything
// else is checked strictly and dropped on mismatch.
func parseWorkoutDay(entry interface{}) (WorkoutDay, error) {
	obj, ok := entry.(map[string]interface{})
	if !ok {
		return WorkoutDay{}, errNotObject
	}

	for _, field := range workoutDayFields {
		if _, present := obj[field]; !present {
			return WorkoutDay{}, fmt.Errorf("%w: %q", errMissingField, field)
		}
	}

	day := WorkoutDay{}

	for _, field := range []string{"day", "duration", "intensity"} {
		s, ok := obj[field].(string)
		if !ok {
			return WorkoutDay{}, fmt.Errorf("%w: %q", errWrongType, field)
		}
		switch field {
		case "day":
			day.Day = s
		case "duration":
			day.Duration = s
		case "intensity":
			day.Intensity = s
		}
	}

	switch raw := obj["exercises"].(type) {
	case []interface{}:
		if len(raw) == 0 {
			return WorkoutDay{}, fmt.Errorf("%w: %q is empty", errWrongType, "exercises")
		}
		for _, item := range raw {
			s, ok := item.(string)
			if !ok {
				return WorkoutDay{}, fmt.Errorf("%w: %q element", errWrongType, "exercises")
			}
			day.Exercises = append(day.Exercises, s)
		}
	default:
		day.Exercises = []string{fmt.Sprint(raw)}
	}

	return day, nil
}

// FallbackWorkoutPlan returns the fixed 2-entry workout plan used whenever
// generation or validation yields nothing usable.
func FallbackWorkoutPlan() []WorkoutDay {
	return []WorkoutDay{
		{
			Day:       "Monday",
			Exercises: []string{"Cardio: 30 min jogging", "Strength: Upper body"},
			Duration:  "60 minutes",
			Intensity: "Moderate",
		},
		{
			Day:       "Tuesday",
			Exercises: []string{"Yoga: 30 min", "Core exercises"},
			Duration:  "45 minutes",
			Intensity: "Light",
		},
	}
}

// GenerateWorkoutPlan prompts the generation service for a 7-day workout plan
// and validates the response into typed records. Semantics mirror
// GenerateMealPlan: never empty, never fatal, notices for anything the user
// should know about.
func GenerateWorkoutPlan(ctx context.Context, gen TextGenerator, profile Profile) ([]WorkoutDay, []Notice) {
	var notices []Notice

	raw, err := gen.GenerateText(ctx, BuildWorkoutPrompt(profile)+jsonOnlyDirective, true)
	if err != nil {
		log.Error().Err(err).Msg("Workout plan generation call failed")
		notices = append(notices, errorNotice("Generation service error: %v", err))
		raw = ""
	}

	value := ExtractJSON(raw)
	entries, ok := value.([]interface{})
	if !ok {
		log.Warn().Msg("Workout plan response is not a JSON array, using default plan")
		notices = append(notices, warningNotice("Invalid workout plan format. Using default plan."))
		return FallbackWorkoutPlan(), notices
	}

	var days []WorkoutDay
	for _, entry := range entries {
		day, err := parseWorkoutDay(entry)
		if err != nil {
			log.Debug().Err(err).Msg("Skipping malformed workout day record")
			continue
		}
		days = append(days, day)
	}

	if len(days) == 0 {
		return FallbackWorkoutPlan(), notices
	}
	return days, notices
}
