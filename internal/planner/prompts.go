package planner

import "fmt"

/* =================================================================================
						PROMPT ENGINEERING
	The templates spell out the exact JSON array shape expected back, and embed
	every profile field relevant to the plan type. The meal prompt deliberately
	omits injuries; the workout prompt includes them so the model can plan
	around limitations.
=================================================================================*/

// jsonOnlyDirective is appended to every generation prompt. Models still wrap
// output in prose or fences often enough that ExtractJSON stays necessary.
const jsonOnlyDirective = "\n\nIMPORTANT: Respond ONLY with valid JSON. Do not include any other text."

const mealPromptTemplate = `Create a 7-day meal plan as a JSON array. Each item should represent a day with:
- "day": String (e.g., "Monday", "Day 1")
- "breakfast": String description
- "lunch": String description
- "dinner": String description
- "snacks": String description

User profile:
- Name: %s
- Age: %d
- Gender: %s
- Weight: %.1f kg
- Height: %.1f cm
- Goal: %s
- Dietary preferences: %s
- Fitness level: %s

Make meals realistic, varied, and aligned with the user's goals.`

const workoutPromptTemplate = `Create a 7-day workout plan as a JSON array. Each item should be an object with:
- "day": String (e.g., "Monday", "Day 1")
- "exercises": Array of strings
- "duration": String (e.g., "45 minutes")
- "intensity": String (e.g., "Moderate")

User profile:
- Name: %s
- Age: %d
- Gender: %s
- Weight: %.1f kg
- Height: %.1f cm
- Goal: %s
- Fitness level: %s
- Injuries: %s

Make it safe and progressive.`

// BuildMealPrompt renders the meal-plan instruction for a profile.
func BuildMealPrompt(p Profile) string {
	return fmt.Sprintf(mealPromptTemplate,
		p.Name, p.Age, p.Gender, p.Weight, p.Height,
		p.Goal, p.DietaryPrefs, p.FitnessLevel,
	)
}

// BuildWorkoutPrompt renders the workout-plan instruction for a profile.
// A blank injuries field is sent as the literal "None".
func BuildWorkoutPrompt(p Profile) string {
	injuries := p.Injuries
	if injuries == "" {
		injuries = "None"
	}
	return fmt.Sprintf(workoutPromptTemplate,
		p.Name, p.Age, p.Gender, p.Weight, p.Height,
		p.Goal, p.FitnessLevel, injuries,
	)
}
