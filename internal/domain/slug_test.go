package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	day := time.Date(2026, 8, 28, 19, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Friday Jam", "friday-jam-2026-08-28"},
		{"punctuation", "Rock & Roll Night!", "rock-roll-night-2026-08-28"},
		{"extra spaces", "  open   mic  ", "open-mic-2026-08-28"},
		{"unicode letters", "Jazzcafé", "jazzcafé-2026-08-28"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in, day))
		})
	}
}

func TestSlugify_TruncatesLongNames(t *testing.T) {
	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	slug := Slugify(strings.Repeat("verylongword ", 20), day)
	assert.LessOrEqual(t, len(slug), MaxSlugLen)
	assert.False(t, strings.HasSuffix(slug, "-"))
}

func TestMakeSlugUnique(t *testing.T) {
	assert.Equal(t, "friday-jam-2026-08-28",
		MakeSlugUnique("friday-jam-2026-08-28", nil))

	existing := []string{"friday-jam-2026-08-28"}
	assert.Equal(t, "friday-jam-2026-08-28-1",
		MakeSlugUnique("friday-jam-2026-08-28", existing))

	existing = append(existing, "friday-jam-2026-08-28-1", "friday-jam-2026-08-28-2")
	assert.Equal(t, "friday-jam-2026-08-28-3",
		MakeSlugUnique("friday-jam-2026-08-28", existing))
}
