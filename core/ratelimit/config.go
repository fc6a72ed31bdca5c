package ratelimit

import (
	"fmt"
	"strconv"
	"strings"
)

// Config holds configuration for the trigger rate limiter.
type Config struct {
	// WindowSeconds is the fixed window length.
	WindowSeconds int `mapstructure:"window_seconds" default:"300"`
	// DefaultThreshold applies to actions missing from Thresholds.
	DefaultThreshold int `mapstructure:"default_threshold" default:"10"`
	// Thresholds is a comma separated "action:limit" table.
	Thresholds string `mapstructure:"thresholds" default:"sync.trigger:10"`
}

// ParseThresholds parses an "action:limit,action:limit" table.
func ParseThresholds(raw string) (map[string]int, error) {
	table := make(map[string]int)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		// Action names contain dots, so split on the last colon only.
		idx := strings.LastIndex(part, ":")
		if idx <= 0 || idx == len(part)-1 {
			return nil, fmt.Errorf("invalid threshold entry %q", part)
		}

		limit, err := strconv.Atoi(strings.TrimSpace(part[idx+1:]))
		if err != nil || limit < 0 {
			return nil, fmt.Errorf("invalid threshold for %q", part)
		}
		table[strings.TrimSpace(part[:idx])] = limit
	}
	return table, nil
}
