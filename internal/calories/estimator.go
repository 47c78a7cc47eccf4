// Package calories estimates the energy burned during a workout from MET
// (Metabolic Equivalent of Task) values adjusted for the user's biometrics.
package calories

import (
	"math"
)

// Estimate carries the inputs of one estimation. Weight, Age and Gender are
// optional; without a weight no estimate is possible.
type Estimate struct {
	Duration       int    // minutes
	ExerciseCount  int
	IntensityLevel string // beginner, intermediate, expert/advanced
	ExerciseType   string // strength, cardio, mixed, general fitness
	Weight         *float64 // kg
	Age            *int
	Gender         string
}

// Base MET values by exercise type and intensity. "advanced" and "expert"
// label the same row.
var metTable = map[string]map[string]float64{
	"strength": {
		"beginner":     3.0,
		"intermediate": 4.5,
		"advanced":     6.0,
		"expert":       6.0,
	},
	"cardio": {
		"beginner":     4.0,
		"intermediate": 7.0,
		"advanced":     10.0,
		"expert":       10.0,
	},
	"mixed": {
		"beginner":     3.5,
		"intermediate": 5.5,
		"advanced":     8.0,
		"expert":       8.0,
	},
	"general fitness": {
		"beginner":     3.5,
		"intermediate": 5.0,
		"advanced":     6.5,
		"expert":       6.5,
	},
}

const fallbackType = "general fitness"
const fallbackIntensity = "beginner"

// CaloriesBurned returns the estimated whole-number calorie burn for one
// workout. It returns 0 when no weight is known or the duration is not
// positive: callers treat "no data" and "zero burn" interchangeably, so
// missing body mass is signaled as 0 rather than an error.
func CaloriesBurned(e Estimate) int {
	if e.Weight == nil {
		return 0
	}
	if e.Duration <= 0 {
		return 0
	}

	byIntensity, ok := metTable[e.ExerciseType]
	if !ok {
		byIntensity = metTable[fallbackType]
	}
	met, ok := byIntensity[e.IntensityLevel]
	if !ok {
		met = byIntensity[fallbackIntensity]
	}

	// Variety bonus: +5% per exercise, capped at +100%.
	met *= 1 + math.Min(1.0, float64(e.ExerciseCount)*0.05)

	if e.Age != nil {
		switch {
		case *e.Age > 50:
			met *= 0.90
		case *e.Age > 40:
			met *= 0.95
		}
	}
	if e.Gender == "female" {
		met *= 0.90
	}

	// Calories = MET * weight (kg) * duration (hours).
	hours := float64(e.Duration) / 60
	return int(math.Round(met * *e.Weight * hours))
}
