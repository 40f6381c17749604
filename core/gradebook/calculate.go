package gradebook

import "math"

// CalculatePoints recomputes every derived field of `marks` in place and returns it.
// Recomputation is always total: running it twice yields the same result.
//
// Divisions are unguarded: a zero total gives NaN (±Inf when points are non-zero)
// and NaN propagates into the course value and the GPA.
func CalculatePoints(marks *Snapshot) *Snapshot {
	marks.GPA = 0
	var numOfCourses int

	for i := range marks.Courses {
		course := &marks.Courses[i]
		course.Points, course.Total, course.Value = 0, 0, math.NaN()
		for j := range course.Categories {
			cat := &course.Categories[j]
			cat.Points, cat.Total, cat.Value = 0, 0, math.NaN()
		}

		for _, a := range course.Assignments {
			cat, ok := course.Category(a.Category)
			if ok && !math.IsNaN(a.Points) && !math.IsNaN(a.Total) {
				cat.Points += a.Points
				cat.Total += a.Total
				cat.Value = cat.Points / cat.Total * 100
			}
		}

		for _, cat := range course.Categories {
			if !math.IsNaN(cat.Value) && cat.Show {
				course.Points += cat.Value / 100 * cat.Weight
				course.Total += cat.Weight
			}
		}

		course.Value = course.Points / course.Total * 100
		if !math.IsNaN(course.Value) {
			marks.GPA += GradePoints(LetterGrade(course.Value))
			numOfCourses++
		}
	}

	marks.GPA = Round(marks.GPA/float64(numOfCourses), 2)
	return marks
}

// Round rounds `x` half away from zero to `places` decimals. NaN and ±Inf are returned as is.
func Round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
