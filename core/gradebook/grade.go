package gradebook

import "fmt"

type Letter string

// Letter grades
const (
	A Letter = "A"
	B Letter = "B"
	C Letter = "C"
	D Letter = "D"
	E Letter = "E"
	F Letter = "F"
)

const black = "#000000"

// LetterGrade maps a percentage to its letter. Bands include their lower bound; NaN is an F.
func LetterGrade(mark float64) Letter {
	switch {
	case mark >= 89.5:
		return A
	case mark >= 79.5:
		return B
	case mark >= 69.5:
		return C
	case mark >= 59.5:
		return D
	case mark >= 49.5:
		return E
	default:
		return F
	}
}

// GradePoints is the GPA contribution of a letter.
func GradePoints(l Letter) float64 {
	switch l {
	case A:
		return 4
	case B:
		return 3
	case C:
		return 2
	case D:
		return 1
	case E, F:
		return 0
	}
	panic(fmt.Sprintf("gradebook: unknown letter grade %q", l))
}

// MarkColor is the text/border color of a mark.
func MarkColor(mark float64) string {
	switch l := LetterGrade(mark); l {
	case A:
		return "#378137"
	case B:
		return "#4C59EB"
	case C:
		return "#AD6800"
	case D:
		return "#CC3E3E"
	case E:
		return "#440808"
	case F:
		return black
	default:
		panic(fmt.Sprintf("gradebook: unknown letter grade %q", l))
	}
}

// BarColor is the progress-bar color of a mark.
func BarColor(mark float64) string {
	switch l := LetterGrade(mark); l {
	case A:
		return "#4eba4e"
	case B:
		return "#6f8cf3"
	case C:
		return "#AD6800"
	case D:
		return "#CC3E3E"
	case E:
		return "#440808"
	case F:
		return black
	default:
		panic(fmt.Sprintf("gradebook: unknown letter grade %q", l))
	}
}
