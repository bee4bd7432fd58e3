package seeder

import "github.com/Lumos-Labs-HQ/gymseed/internal/types"

// ExerciseCatalog is the standard exercise reference list. It is inserted
// with duplicate-skip on name in every mode.
func ExerciseCatalog() []types.Exercise {
	return []types.Exercise{
		{Name: "Push-ups", Description: "Classic bodyweight exercise for chest, shoulders, and triceps"},
		{Name: "Squats", Description: "Fundamental lower body exercise targeting glutes and quads"},
		{Name: "Burpees", Description: "Full-body high-intensity exercise combining squat, push-up, and jump"},
		{Name: "Mountain Climbers", Description: "Cardio exercise targeting core and legs"},
		{Name: "Jumping Jacks", Description: "Basic cardio exercise for warm-up"},
		{Name: "Plank", Description: "Isometric core strengthening exercise"},
		{Name: "Lunges", Description: "Single-leg exercise for glutes, quads, and hamstrings"},
		{Name: "High Knees", Description: "Cardio exercise with knee lifts"},
		{Name: "Butt Kicks", Description: "Cardio exercise with heel kicks"},
		{Name: "Arm Circles", Description: "Shoulder mobility and warm-up exercise"},
		{Name: "Leg Raises", Description: "Core exercise targeting lower abs"},
		{Name: "Russian Twists", Description: "Core exercise with rotational movement"},
		{Name: "Wall Sit", Description: "Isometric exercise for quads and glutes"},
		{Name: "Tricep Dips", Description: "Upper body exercise targeting triceps"},
		{Name: "Bicycle Crunches", Description: "Core exercise with alternating knee-to-elbow movement"},
		{Name: "Bear Crawl", Description: "Full-body exercise on hands and feet"},
		{Name: "Dead Bug", Description: "Core stability exercise"},
		{Name: "Superman", Description: "Back strengthening exercise"},
		{Name: "Glute Bridges", Description: "Hip and glute strengthening exercise"},
		{Name: "Calf Raises", Description: "Lower leg strengthening exercise"},
		{Name: "Jump Squats", Description: "Explosive lower body exercise"},
		{Name: "Pike Push-ups", Description: "Advanced push-up variation targeting shoulders"},
		{Name: "Single-leg Glute Bridges", Description: "Unilateral glute strengthening"},
		{Name: "Side Plank", Description: "Lateral core strengthening exercise"},
		{Name: "Hollow Body Hold", Description: "Advanced core isometric exercise"},
		{Name: "V-ups", Description: "Core exercise combining leg raises and crunches"},
		{Name: "Flutter Kicks", Description: "Core exercise with alternating leg movements"},
		{Name: "Scissor Kicks", Description: "Core exercise with crossing leg movements"},
		{Name: "Reverse Crunches", Description: "Core exercise targeting lower abs"},
		{Name: "Mason Twists", Description: "Core exercise with rotational movement"},
	}
}
