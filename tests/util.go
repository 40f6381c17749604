package testutil

import (
	"time"

	"github.com/trezcool/bulletin/core/provider"
)

var Now = time.Date(2021, time.March, 1, 8, 0, 0, 0, time.UTC)

func Gradebook(courses ...provider.Course) provider.Gradebook {
	q1 := provider.ReportingPeriod{
		Name:  "Q1",
		Index: 0,
		Date:  provider.DateRange{Start: Now.AddDate(0, -1, 0), End: Now.AddDate(0, 1, 0)},
	}
	q2 := provider.ReportingPeriod{
		Name:  "Q2",
		Index: 1,
		Date:  provider.DateRange{Start: Now.AddDate(0, 1, 0), End: Now.AddDate(0, 3, 0)},
	}
	return provider.Gradebook{
		Courses: courses,
		ReportingPeriod: provider.ReportingPeriods{
			Current:   q1,
			Available: []provider.ReportingPeriod{q1, q2},
		},
	}
}

func Course(title string, categories []provider.WeightedCategory, assignments ...provider.Assignment) provider.Course {
	return provider.Course{
		Title: title,
		Staff: provider.Staff{Name: "Mr. " + title, Email: "teacher@school.test"},
		Room:  "101",
		Marks: []provider.Mark{
			{
				Name:               "Q1",
				WeightedCategories: categories,
				Assignments:        assignments,
			},
		},
	}
}

func Categories(typeWeights ...string) []provider.WeightedCategory {
	cats := make([]provider.WeightedCategory, 0, len(typeWeights)/2)
	for i := 0; i+1 < len(typeWeights); i += 2 {
		cats = append(cats, provider.WeightedCategory{
			Type:   typeWeights[i],
			Weight: provider.Weight{Standard: typeWeights[i+1]},
		})
	}
	return cats
}

// Assignment builds a provider assignment; the score value mirrors `points` unless it is a status text.
func Assignment(name, category, points string) provider.Assignment {
	return provider.Assignment{
		Name:   name,
		Type:   category,
		Points: points,
		Score:  provider.Score{Type: "Raw Score", Value: points},
		Date:   provider.AssignmentDate{Start: Now.AddDate(0, 0, -7), Due: Now},
	}
}

// WeightedGradebook is a single course "Math" with categories A (20) and B (80),
// graded 8/10 and 45/50: category values 80 and 90, course value 88.
func WeightedGradebook() provider.Gradebook {
	return Gradebook(
		Course(
			"Math",
			Categories("A", "20", "B", "80", "Total", "100"),
			Assignment("Quiz 1", "A", "8 / 10"),
			Assignment("Test 1", "B", "45 / 50"),
		),
	)
}

// SchoolGradebook mixes graded, ungraded and empty courses.
func SchoolGradebook() provider.Gradebook {
	return Gradebook(
		Course(
			"Math (MAT101)",
			Categories("Homework", "20", "Tests", "80", "TOTAL", "100"),
			Assignment("HW 1", "Homework", "9 / 10"),
			Assignment("HW 2", "Homework", "10 / 10"),
			Assignment("Test 1", "Tests", "47 / 50"),
		),
		Course(
			"History (SOC49351)",
			Categories("Essays", "50", "Quizzes", "50"),
			Assignment("Essay 1", "Essays", "85 / 100"),
			Assignment("Quiz 1", "Quizzes", "17 / 20"),
			Assignment("Quiz 2", "Quizzes", "Not Graded"),
		),
		Course(
			"Art",
			Categories("Projects", "100"),
			Assignment("Project 1", "Projects", "Not Due"),
		),
		provider.Course{Title: "Study Hall", Staff: provider.Staff{Name: "Ms. Hall"}, Room: "Library"},
	)
}
