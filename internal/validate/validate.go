package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reEmail  = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID     = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	rePhone  = regexp.MustCompile(`^[0-9+()\- ]{5,50}$`)
	reStatus = regexp.MustCompile(`^(completed|cancelled)$`)
	reSlug   = regexp.MustCompile(`[^a-z0-9]+`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 255 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Text validates a required displayable field with a max length.
func Text(s string, max int) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > max {
		return s, false
	}
	return s, true
}

// OptionalText trims and length-caps a field that may be empty.
func OptionalText(s string, max int) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len(s) <= max
}

// ID validates a simple resource identifier (uuid or seed slug).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePhone.MatchString(s)
}

// Qty clamps a line quantity to [1,50].
func Qty(n int) int {
	if n < 1 {
		return 1
	}
	if n > 50 {
		return 50
	}
	return n
}

func Capacity(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 500 {
		return 0, false
	}
	return n, true
}

func Money(v float64) bool { return v >= 0 && v < 1_000_000 }

// OrderStatus accepts only the terminal states a caller may request.
func OrderStatus(s string) (string, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	return s, reStatus.MatchString(s)
}

// Password enforces a length window plus character classes.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 64 {
		return false
	}
	var hasLower, hasUpper, hasDigit bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		}
	}
	return hasLower && hasUpper && hasDigit
}

// Slug derives a URL-safe slug from a store name.
func Slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = reSlug.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ImageExt whitelists upload extensions (without dot, lowercase).
func ImageExt(ext string) bool {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "jpg", "jpeg", "png", "gif", "webp":
		return true
	}
	return false
}
