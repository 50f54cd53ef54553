package imports

import (
	"testing"
	"time"
)

func TestLocalTimeToUTC(t *testing.T) {
	testCases := []struct {
		name     string
		value    string
		timezone string
		want     string
		wantNil  bool
		wantErr  bool
	}{
		{
			name:     "amsterdam summer time",
			value:    "2025-07-04 22:00",
			timezone: "Europe/Amsterdam",
			want:     "2025-07-04T20:00:00Z",
		},
		{
			name:     "iso separator",
			value:    "2025-07-04T22:00",
			timezone: "UTC",
			want:     "2025-07-04T22:00:00Z",
		},
		{
			name:     "with seconds",
			value:    "2025-07-04 22:00:30",
			timezone: "UTC",
			want:     "2025-07-04T22:00:30Z",
		},
		{
			name:     "blank value",
			value:    "   ",
			timezone: "Europe/Amsterdam",
			wantNil:  true,
		},
		{
			name:     "unknown timezone",
			value:    "2025-07-04 22:00",
			timezone: "Mars/Olympus_Mons",
			wantErr:  true,
		},
		{
			name:     "unrecognised format",
			value:    "July 4th, 10pm",
			timezone: "UTC",
			wantErr:  true,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := LocalTimeToUTC(tc.value, tc.timezone)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("LocalTimeToUTC: %v", err)
			}
			if tc.wantNil {
				if got != nil {
					t.Fatalf("got %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("got nil time")
			}
			if formatted := got.Format(time.RFC3339); formatted != tc.want {
				t.Fatalf("got %s, want %s", formatted, tc.want)
			}
		})
	}
}
