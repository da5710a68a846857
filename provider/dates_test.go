package provider

import (
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{
			name:  "rfc3339",
			input: "2026-08-30T10:15:00Z",
			want:  time.Date(2026, 8, 30, 10, 15, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "rfc3339 with offset",
			input: "2026-08-30T10:15:00+02:00",
			want:  time.Date(2026, 8, 30, 10, 15, 0, 0, time.FixedZone("", 2*3600)),
			ok:    true,
		},
		{
			name:  "compact offset",
			input: "2026-08-30T10:15:00+0000",
			want:  time.Date(2026, 8, 30, 10, 15, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "no zone",
			input: "2026-08-30T10:15:00",
			want:  time.Date(2026, 8, 30, 10, 15, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "space separated",
			input: "2026-08-30 10:15:00",
			want:  time.Date(2026, 8, 30, 10, 15, 0, 0, time.UTC),
			ok:    true,
		},
		{
			name:  "date only",
			input: "2026-08-30",
			want:  time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
			ok:    true,
		},
		{name: "empty", input: "", ok: false},
		{name: "garbage", input: "yesterday-ish", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTime(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseTime(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
