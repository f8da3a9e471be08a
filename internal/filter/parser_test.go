package filter

import (
	"testing"
	"time"

	"github.com/pfrederiksen/swim-archive/internal/result"
)

func TestParseStroke(t *testing.T) {
	tests := []struct {
		in      string
		want    result.Stroke
		wantErr bool
	}{
		{"free", result.StrokeFreestyle, false},
		{"Backstroke", result.StrokeBackstroke, false},
		{"breast", result.StrokeBreaststroke, false},
		{"fly", result.StrokeButterfly, false},
		{"IM", result.StrokeIM, false},
		{"relay", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStroke(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStroke(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseStroke(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseCourse(t *testing.T) {
	tests := []struct {
		in      string
		want    result.Course
		wantErr bool
	}{
		{"scm", result.CourseSCM, false},
		{"LCM", result.CourseLCM, false},
		{" long ", result.CourseLCM, false},
		{"short course", result.CourseSCM, false},
		{"yards", "", true},
	}

	for _, tt := range tests {
		got, err := ParseCourse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCourse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCourse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseDistance(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"100", "100m", false},
		{"100m", "100m", false},
		{"1500 M", "1500m", false},
		{"0", "", true},
		{"far", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDistance(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDistance(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDistance(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2020-03-15", "15/03/2020", "15 Mar 2020", "March 15, 2020"} {
		got, err := ParseDate(in)
		if err != nil {
			t.Errorf("ParseDate(%q) error = %v", in, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseDate(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseDate("last spring"); err == nil {
		t.Error("ParseDate() expected error for free text")
	}
}

func TestParse(t *testing.T) {
	f, err := Parse([]string{"100, 200m"}, []string{"free"}, []string{"lcm"}, "2020-01-01", "2020-12-31")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(f.Distances) != 2 || f.Distances[0] != "100m" || f.Distances[1] != "200m" {
		t.Errorf("Distances = %v", f.Distances)
	}
	if len(f.Strokes) != 1 || f.Strokes[0] != result.StrokeFreestyle {
		t.Errorf("Strokes = %v", f.Strokes)
	}
	if len(f.Courses) != 1 || f.Courses[0] != result.CourseLCM {
		t.Errorf("Courses = %v", f.Courses)
	}

	// The end date covers the whole day
	lastSwim := result.NewRecord("Jane", "100m Freestyle LCM", "1:00.00", "", "", "2020-12-31")
	if !f.Matches(lastSwim) {
		t.Error("record on the end date should match")
	}
}

func TestParseEmpty(t *testing.T) {
	f, err := Parse(nil, []string{""}, nil, "", " ")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !f.IsEmpty() {
		t.Errorf("Parse() with no values = %v, want empty filter", f)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name      string
		distances []string
		strokes   []string
		courses   []string
		from, to  string
	}{
		{name: "bad distance", distances: []string{"far"}},
		{name: "bad stroke", strokes: []string{"doggy paddle"}},
		{name: "bad course", courses: []string{"yards"}},
		{name: "bad from", from: "soon"},
		{name: "bad to", to: "later"},
		{name: "reversed range", from: "2021-01-01", to: "2020-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.distances, tt.strokes, tt.courses, tt.from, tt.to); err == nil {
				t.Error("Parse() expected error")
			}
		})
	}
}
