package page

import "testing"

func TestMapColumns(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    ColumnMapping
	}{
		{
			name:    "swimmer event result club",
			headers: []string{"Swimmer", "Event", "Result", "Club"},
			want:    ColumnMapping{Name: 0, Event: 1, Time: 2, Splits: Unmapped, Club: 3, Date: Unmapped},
		},
		{
			name:    "all six fields",
			headers: []string{"Date", "Athlete", "Team", "Race", "Splits", "Time"},
			want:    ColumnMapping{Name: 1, Event: 3, Time: 5, Splits: 4, Club: 2, Date: 0},
		},
		{
			name:    "no recognised headers",
			headers: []string{"#", "Who", "What", "How fast"},
			want:    DefaultMapping(),
		},
		{
			name:    "empty header row",
			headers: nil,
			want:    DefaultMapping(),
		},
		{
			name:    "only time recognised",
			headers: []string{"A", "B", "C", "Final Time"},
			want:    ColumnMapping{Name: 0, Event: 1, Time: 3, Splits: Unmapped, Club: Unmapped, Date: Unmapped},
		},
		{
			// "meet" is a date keyword; "time" is checked before it
			name:    "meet time header claims time",
			headers: []string{"Name", "Event", "Meet Time", "Meet"},
			want:    ColumnMapping{Name: 0, Event: 1, Time: 2, Splits: Unmapped, Club: Unmapped, Date: 3},
		},
		{
			// "club name" contains "name", which is checked before "club"
			name:    "club name header claims name",
			headers: []string{"Swimmer", "Event", "Time", "Club Name"},
			want:    ColumnMapping{Name: 3, Event: 1, Time: 2, Splits: Unmapped, Club: Unmapped, Date: Unmapped},
		},
		{
			name:    "case and whitespace insensitive",
			headers: []string{"  NAME ", "EVENT", "TIME", "CLUB"},
			want:    ColumnMapping{Name: 0, Event: 1, Time: 2, Splits: Unmapped, Club: 3, Date: Unmapped},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapColumns(tt.headers)
			if got != tt.want {
				t.Errorf("MapColumns(%q) = %+v, want %+v", tt.headers, got, tt.want)
			}
		})
	}
}

func TestColumnMapping_Index(t *testing.T) {
	m := ColumnMapping{Name: 4, Event: 3, Time: 2, Splits: 1, Club: 0, Date: Unmapped}

	want := map[Field]int{
		FieldName:   4,
		FieldEvent:  3,
		FieldTime:   2,
		FieldSplits: 1,
		FieldClub:   0,
		FieldDate:   Unmapped,
		Field("x"):  Unmapped,
	}
	for f, idx := range want {
		if got := m.Index(f); got != idx {
			t.Errorf("Index(%q) = %d, want %d", f, got, idx)
		}
	}
}
