package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration reads durations in the usual 30m/12h forms and additionally
// accepts whole days, e.g. "7d".
func ParseDuration(s string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid day value: %s", days)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}
