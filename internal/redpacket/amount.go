package redpacket

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAmount converts a decimal string with up to 2 fractional digits into
// minor units. Only positive amounts are accepted.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("amount required")
	}

	s = strings.TrimPrefix(s, "+")
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("amount must be > 0")
	}

	if strings.HasPrefix(s, "+") {
		return 0, fmt.Errorf("invalid amount sign")
	}

	intPart, frac, hasFrac := strings.Cut(s, ".")
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("amount supports up to 2 decimals")
		}

		frac += strings.Repeat("0", 2-len(frac))
	} else {
		frac = "00"
	}

	ip, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount integer")
	}

	fp, err := strconv.ParseUint(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount fractional")
	}

	if ip > (1<<63-1-int64(fp))/100 {
		return 0, fmt.Errorf("amount too large")
	}

	total := ip*100 + int64(fp)
	if total <= 0 {
		return 0, fmt.Errorf("amount must be > 0")
	}

	return total, nil
}

// FormatAmount renders minor units as a decimal string with two digits.
func FormatAmount(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
