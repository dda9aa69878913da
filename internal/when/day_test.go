package when

import (
	"errors"
	"testing"
	"time"
)

// Monday.
var fixedNow = time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)

func TestResolveDay(t *testing.T) {
	tests := []struct {
		name   string
		phrase string
		want   string
	}{
		{"exact name", "среда", "среда"},
		{"exact name any case", "  ПЯТНИЦА ", "пятница"},
		{"english tomorrow", "tomorrow", "вторник"},
		{"russian tomorrow", "завтра", "вторник"},
		{"english today", "today", "понедельник"},
		{"next weekday", "next friday", "пятница"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveDay(tt.phrase, fixedNow)
			if err != nil {
				t.Fatalf("ResolveDay(%q) failed: %v", tt.phrase, err)
			}
			if got != tt.want {
				t.Errorf("ResolveDay(%q) = %q, want %q", tt.phrase, got, tt.want)
			}
		})
	}
}

func TestResolveDay_NoDay(t *testing.T) {
	for _, phrase := range []string{"", "   ", "qwerty"} {
		if _, err := ResolveDay(phrase, fixedNow); !errors.Is(err, ErrNoDay) {
			t.Errorf("ResolveDay(%q) error = %v, want ErrNoDay", phrase, err)
		}
	}
}
