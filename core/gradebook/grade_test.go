package gradebook

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLetterGrade(t *testing.T) {
	tests := []struct {
		mark float64
		want Letter
	}{
		{mark: 100, want: A},
		{mark: 89.5, want: A},
		{mark: 89.49, want: B},
		{mark: 80, want: B},
		{mark: 79.5, want: B},
		{mark: 79.49, want: C},
		{mark: 69.5, want: C},
		{mark: 69.49, want: D},
		{mark: 59.5, want: D},
		{mark: 59.49, want: E},
		{mark: 49.5, want: E},
		{mark: 49.49, want: F},
		{mark: 0, want: F},
		{mark: -10, want: F},
		{mark: math.Inf(1), want: A},
		{mark: math.NaN(), want: F},
	}
	for _, tt := range tests {
		if got := LetterGrade(tt.mark); got != tt.want {
			t.Errorf("LetterGrade(%v) = %v, want %v", tt.mark, got, tt.want)
		}
	}
}

func TestGradePoints(t *testing.T) {
	want := map[Letter]float64{A: 4, B: 3, C: 2, D: 1, E: 0, F: 0}
	for l, pts := range want {
		assert.Equal(t, pts, GradePoints(l), string(l))
	}
	assert.Panics(t, func() { GradePoints(Letter("Z")) })
}

func TestColors(t *testing.T) {
	tests := []struct {
		mark     float64
		wantMark string
		wantBar  string
	}{
		{mark: 95, wantMark: "#378137", wantBar: "#4eba4e"},
		{mark: 85, wantMark: "#4C59EB", wantBar: "#6f8cf3"},
		{mark: 75, wantMark: "#AD6800", wantBar: "#AD6800"},
		{mark: 65, wantMark: "#CC3E3E", wantBar: "#CC3E3E"},
		{mark: 55, wantMark: "#440808", wantBar: "#440808"},
		{mark: 10, wantMark: black, wantBar: black},
		{mark: math.NaN(), wantMark: black, wantBar: black},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.wantMark, MarkColor(tt.mark), "MarkColor(%v)", tt.mark)
		assert.Equal(t, tt.wantBar, BarColor(tt.mark), "BarColor(%v)", tt.mark)
	}
}

func TestParsePoints(t *testing.T) {
	tests := []struct {
		in         string
		wantPoints float64
		wantTotal  float64
	}{
		{in: "8.5 / 10", wantPoints: 8.5, wantTotal: 10},
		{in: "45 / 50", wantPoints: 45, wantTotal: 50},
		{in: ".5 / 1", wantPoints: 0.5, wantTotal: 1},
		{in: "10. / 20", wantPoints: 10, wantTotal: 20},
		{in: "0 / 0", wantPoints: 0, wantTotal: 0},
		{in: "Not Due", wantPoints: math.NaN(), wantTotal: math.NaN()},
		{in: "Not Graded", wantPoints: math.NaN(), wantTotal: math.NaN()},
		{in: "75", wantPoints: math.NaN(), wantTotal: 75},
		{in: "8/10", wantPoints: math.NaN(), wantTotal: 8},
		{in: "-3 / 10", wantPoints: math.NaN(), wantTotal: -3},
		{in: "", wantPoints: math.NaN(), wantTotal: math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			points, total := ParsePoints(tt.in)
			assertFloat(t, tt.wantPoints, points)
			assertFloat(t, tt.wantTotal, total)
		})
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{in: "20", want: 20},
		{in: " 12.5 ", want: 12.5},
		{in: "33.3%", want: 33.3},
		{in: "1e2", want: 100},
		{in: "-4", want: -4},
		{in: "Infinity", want: math.Inf(1)},
		{in: "abc", want: math.NaN()},
		{in: ".", want: math.NaN()},
	}
	for _, tt := range tests {
		assertFloat(t, tt.want, parseFloat(tt.in))
	}
}

func TestParseCourseName(t *testing.T) {
	assert.Equal(t, "AP History A", ParseCourseName("AP History A (SOC49351)"))
	assert.Equal(t, "Chemistry (Honors)", ParseCourseName("Chemistry (Honors) (SCI20011)"))
	assert.Equal(t, "Art", ParseCourseName(" Art "))
}

func TestIsNumber(t *testing.T) {
	assert.True(t, IsNumber("10"))
	assert.True(t, IsNumber("8.5"))
	assert.False(t, IsNumber(""))
	assert.False(t, IsNumber("-1"))
	assert.False(t, IsNumber("1e2"))
}

func TestField(t *testing.T) {
	f, ok := ParseField("earned")
	assert.True(t, ok)
	assert.Equal(t, Earned, f)
	f, ok = ParseField("total")
	assert.True(t, ok)
	assert.Equal(t, Total, f)
	_, ok = ParseField("points")
	assert.False(t, ok)
	assert.Equal(t, "earned", Earned.String())
}

func assertFloat(t *testing.T, want, got float64) {
	t.Helper()
	if math.IsNaN(want) {
		assert.True(t, math.IsNaN(got), "want NaN, got %v", got)
		return
	}
	assert.Equal(t, want, got)
}
