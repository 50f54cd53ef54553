package lineup

import (
	"reflect"
	"testing"
)

func TestParseStagesCSV(t *testing.T) {
	text := "name\nMain Stage\n\nForest Stage\r\n"

	got := ParseStagesCSV(text)
	want := []StageRow{{Name: "Main Stage"}, {Name: "Forest Stage"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseStagesCSV = %+v, want %+v", got, want)
	}
}

func TestParseSetsCSV(t *testing.T) {
	text := `artist_names,stage_name,name,time_start,description
"Shpongle,Ott",Main,,2025-07-04 22:00,late night
Bonobo,Forest,Bonobo Live,,`

	got := ParseSetsCSV(text)
	want := []SetRow{
		{
			ArtistNames: "Shpongle,Ott",
			StageName:   "Main",
			TimeStart:   "2025-07-04 22:00",
			Description: "late night",
		},
		{
			ArtistNames: "Bonobo",
			StageName:   "Forest",
			Name:        "Bonobo Live",
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseSetsCSV = %+v, want %+v", got, want)
	}
}

func TestParseSetsCSVShortRow(t *testing.T) {
	got := ParseSetsCSV("artist_names,stage_name\nShpongle")
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	if got[0].ArtistNames != "Shpongle" || got[0].StageName != "" {
		t.Fatalf("unexpected row: %+v", got[0])
	}
}

func TestSplitCSVLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "plain fields",
			line: "a,b,c",
			want: []string{"a", "b", "c"},
		},
		{
			name: "quoted comma",
			line: `"A, B",c`,
			want: []string{"A, B", "c"},
		},
		{
			name: "empty fields",
			line: "a,,c",
			want: []string{"a", "", "c"},
		},
		{
			name: "unbalanced quote carries to end of line",
			line: `"a,b`,
			want: []string{"a,b"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := splitCSVLine(tc.line); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("splitCSVLine(%q) = %v, want %v", tc.line, got, tc.want)
			}
		})
	}
}
