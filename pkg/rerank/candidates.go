package rerank

import (
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultTopK is the clamp basis when the requested count is not usable.
	DefaultTopK = 5

	// MaxDisplayLen is the number of characters of a candidate shown per line.
	MaxDisplayLen = 50

	// Ellipsis marks a truncated candidate.
	Ellipsis = "..."
)

// TopK is a requested result count. The zero value means "not given".
type TopK struct {
	Value int
	Set   bool
}

// RequestTopK returns a TopK holding n.
func RequestTopK(n int) TopK {
	return TopK{Value: n, Set: true}
}

// TopKFromFloat converts a numeric request, truncating toward zero. NaN and
// infinities are not usable and yield the zero TopK.
func TopKFromFloat(f float64) TopK {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return TopK{}
	}
	f = math.Trunc(f)
	switch {
	case f > math.MaxInt32:
		f = math.MaxInt32
	case f < math.MinInt32:
		f = math.MinInt32
	}
	return RequestTopK(int(f))
}

// ParseTopK parses a form value such as "5" or "5.0". Anything that is not
// a number yields the zero TopK.
func ParseTopK(s string) TopK {
	s = strings.TrimSpace(s)
	if s == "" {
		return TopK{}
	}
	if n, err := strconv.Atoi(s); err == nil {
		return RequestTopK(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return TopK{}
	}
	return TopKFromFloat(f)
}

// ParseCandidates splits block on line breaks, trims each line and drops
// the empty ones. Order is preserved and duplicates are kept.
func ParseCandidates(block string) []string {
	lines := strings.Split(block, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// ClampTopK bounds the requested count to [1, n].
func ClampTopK(requested TopK, n int) int {
	basis := DefaultTopK
	if requested.Set {
		basis = requested.Value
	}
	return max(1, min(n, basis))
}

// Truncate cuts s to MaxDisplayLen characters and appends Ellipsis when
// anything was removed. It reports whether s was cut.
func Truncate(s string) (string, bool) {
	runes := []rune(s)
	if len(runes) <= MaxDisplayLen {
		return s, false
	}
	return string(runes[:MaxDisplayLen]) + Ellipsis, true
}
