package sanitize

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Maximum lengths for user-supplied string fields. Anything longer is
// truncated after trimming, never rejected for length alone.
const (
	MaxTitleLen = 500
	MaxNameLen  = 100
	MaxIconLen  = 50
	MaxIDLen    = 100
)

// Caps on collection sizes for bulk import. Excess entries are dropped
// silently rather than failing the request.
const (
	MaxTodos       = 10000
	MaxCategories  = 100
	MaxTags        = 100
	MaxTagsPerTodo = 20
)

var (
	idPattern        = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	colorPattern     = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	canonicalTimeRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`)
	scriptPattern    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	eventAttrPattern = regexp.MustCompile(`(?i)\bon\w+\s*=`)
)

// fallbackTimeLayouts are tried in order when a date is not in canonical form.
var fallbackTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC822,
}

// CleanString trims the input, strips script tags and inline event-handler
// attributes, and truncates to max runes. This is a conservative denylist,
// not a full HTML sanitizer.
func CleanString(s string, max int) string {
	s = strings.TrimSpace(s)
	s = scriptPattern.ReplaceAllString(s, "")
	s = eventAttrPattern.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) > max {
		s = string(runes[:max])
	}
	return s
}

// ValidID accepts IDs in a restricted charset or canonical UUID form
// (versions 1 through 5). Anything else is rejected, never coerced.
func ValidID(s string) bool {
	if s == "" || len(s) > MaxIDLen {
		return false
	}
	// UUID-shaped IDs take the stricter path: the version must be 1-5, so a
	// nil UUID is rejected even though its charset would pass.
	if len(s) == 36 && strings.Count(s, "-") == 4 {
		u, err := uuid.Parse(s)
		if err != nil {
			return false
		}
		v := u.Version()
		return v >= 1 && v <= 5
	}
	return idPattern.MatchString(s)
}

// ValidColor accepts strict 6-hex-digit #RRGGBB form only. No 3-digit
// shorthand, no named colors.
func ValidColor(s string) bool {
	return colorPattern.MatchString(s)
}

// ParseTime accepts strict ISO-8601 millisecond UTC form directly; otherwise
// it attempts a general parse. The returned time is always UTC so that
// re-serialization yields canonical form. The second return reports success.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if canonicalTimeRe.MatchString(s) {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.UTC(), true
		}
		return time.Time{}, false
	}
	for _, layout := range fallbackTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
