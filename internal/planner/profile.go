package planner

import (
	"fmt"
)

// FitnessLevels lists the accepted values for Profile.FitnessLevel.
// These match the options offered by the profile form.
var FitnessLevels = []string{"Beginner", "Intermediate", "Advanced"}

// Profile holds the user's static attributes collected from the profile form.
// It is immutable for the lifetime of a session; re-submitting the form
// replaces the whole record.
type Profile struct {
	Name         string  `json:"name"`
	Age          int     `json:"age"`
	Gender       string  `json:"gender"`
	Weight       float64 `json:"weight"` // kilograms
	Height       float64 `json:"height"` // centimeters
	Goal         string  `json:"goal"`
	DietaryPrefs string  `json:"dietary_prefs"`
	FitnessLevel string  `json:"fitness_level"`
	Injuries     string  `json:"injuries,omitempty"`
}

// Validate checks that every required field is present and within a plausible
// human range. It returns the first violation found.
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Age < 10 || p.Age > 120 {
		return fmt.Errorf("age %d is outside the accepted range (10-120)", p.Age)
	}
	if p.Gender == "" {
		return fmt.Errorf("gender is required")
	}
	if p.Weight <= 0 {
		return fmt.Errorf("weight must be positive, got %.1f", p.Weight)
	}
	if p.Height <= 0 {
		return fmt.Errorf("height must be positive, got %.1f", p.Height)
	}
	if p.Goal == "" {
		return fmt.Errorf("goal is required")
	}
	for _, level := range FitnessLevels {
		if p.FitnessLevel == level {
			return nil
		}
	}
	return fmt.Errorf("fitness level %q is not one of Beginner, Intermediate, Advanced", p.FitnessLevel)
}
