package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

const MaxSlugLen = 100

// Slugify builds a URL slug from a jam name and its date: "friday-jam-2026-08-31".
func Slugify(name string, day time.Time) string {
	parts := []string{cleanForSlug(name), day.Format("2006-01-02")}
	slug := strings.Join(parts, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > MaxSlugLen {
		slug = slug[:MaxSlugLen]
		if i := strings.LastIndexByte(slug, '-'); i > 0 {
			slug = slug[:i]
		}
	}
	return slug
}

// MakeSlugUnique appends a numeric suffix until the slug is not taken.
func MakeSlugUnique(base string, existing []string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		taken[s] = struct{}{}
	}
	if _, ok := taken[base]; !ok {
		return base
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}

func cleanForSlug(text string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen && b.Len() > 0:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
