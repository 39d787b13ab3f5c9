// ABOUTME: Duration parsing for configuration values written in several styles
// ABOUTME: Accepts Go durations, bare seconds, and MM:SS or HH:MM:SS clock forms

package duration

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parse converts "90s", "1m30s", "90", "01:30" or "00:01:30" into a duration
func Parse(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	// bare number: seconds
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}

	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		total = total*60 + n
	}
	return time.Duration(total) * time.Second, nil
}

// OrDefault parses s and falls back to def when s is empty or malformed
func OrDefault(s string, def time.Duration) time.Duration {
	if d, err := Parse(s); err == nil {
		return d
	}
	return def
}
