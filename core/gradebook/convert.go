package gradebook

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/trezcool/bulletin/core/provider"
)

var (
	pointsRegex      = regexp.MustCompile(`^(\d+\.?\d*|\.\d+) / (\d+\.?\d*|\.\d+)$`)
	floatPrefixRegex = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	numberRegex      = regexp.MustCompile(`^[0-9.]+$`)

	totalCategory = "TOTAL" // the provider's own rollup
)

// Convert builds a fully calculated Snapshot out of the provider's gradebook.
func Convert(gb provider.Gradebook) *Snapshot {
	marks := &Snapshot{
		Courses:          make([]Course, 0, len(gb.Courses)),
		ReportingPeriod:  gb.ReportingPeriod.Current,
		ReportingPeriods: append([]provider.ReportingPeriod(nil), gb.ReportingPeriod.Available...),
	}

	for _, pc := range gb.Courses {
		c := marks.setCourse(Course{
			Name:        pc.Title,
			Period:      gb.CourseIndex(pc.Title) + 1,
			Teacher:     pc.Staff.Name,
			Room:        pc.Room,
			Value:       math.NaN(),
			Categories:  make([]Category, 0),
			Assignments: make([]Assignment, 0),
		})

		mark, ok := pc.CurrentMark()
		if !ok {
			continue
		}
		for _, wc := range mark.WeightedCategories {
			if strings.ToUpper(wc.Type) == totalCategory {
				continue
			}
			c.setCategory(Category{
				Name:   wc.Type,
				Weight: parseFloat(wc.Weight.Standard),
				Value:  math.NaN(),
				Show:   true,
			})
		}
		for _, pa := range mark.Assignments {
			points, total := ParsePoints(pa.Points)
			status := StatusGraded
			if v := Status(pa.Score.Value); v == StatusNotGraded || v == StatusNotDue {
				status = v
			}
			c.Assignments = append(c.Assignments, Assignment{
				Name:     pa.Name,
				Category: pa.Type,
				Points:   points,
				Total:    total,
				Status:   status,
				Notes:    pa.Notes,
				Date: Dates{
					Start: pa.Date.Start,
					Due:   pa.Date.Due,
				},
			})
		}
	}
	return CalculatePoints(marks)
}

// ParsePoints parses a "<points> / <total>" score.
// Anything else yields (NaN, leading number of `s`), ex: "75" -> (NaN, 75), "Not Due" -> (NaN, NaN).
func ParsePoints(s string) (points, total float64) {
	if m := pointsRegex.FindStringSubmatch(s); m != nil {
		return parseFloat(m[1]), parseFloat(m[2])
	}
	return math.NaN(), parseFloat(s)
}

// parseFloat reads the longest numeric prefix of `s` (leading whitespace ignored), NaN if there is none.
func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "Infinity"), strings.HasPrefix(s, "+Infinity"):
		return math.Inf(1)
	case strings.HasPrefix(s, "-Infinity"):
		return math.Inf(-1)
	}
	prefix := floatPrefixRegex.FindString(s)
	if prefix == "" {
		return math.NaN()
	}
	f, _ := strconv.ParseFloat(prefix, 64) // out of range yields ±Inf or 0
	return f
}

// ParseCourseName drops the course ID some providers append to titles, ex: "AP History A (SOC49351)".
func ParseCourseName(name string) string {
	i := strings.LastIndex(name, "(")
	if i < 0 {
		return strings.TrimSpace(name)
	}
	return strings.TrimSpace(name[:i])
}

// IsNumber reports whether `s` only holds digits and dots (score input filter).
func IsNumber(s string) bool {
	return numberRegex.MatchString(s)
}
