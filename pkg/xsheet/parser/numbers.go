package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	decimalLiteral = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)
	radixLiteral   = regexp.MustCompile(`^0(?:[xX][0-9a-fA-F]+|[oO][0-7]+|[bB][01]+)$`)
	infinity       = regexp.MustCompile(`^[+-]?Infinity$`)
	thousandsSep   = regexp.MustCompile(`(\d),(\d)`)
	parenthesized  = regexp.MustCompile(`\((.*)\)`)
	hasDigit       = regexp.MustCompile(`\d`)
)

// strictNumber converts a whole numeric literal: optional surrounding
// whitespace, decimal with optional exponent, or a 0x/0o/0b integer. An
// all-whitespace string is zero.
func strictNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return 0, true
	case decimalLiteral.MatchString(s):
		// Out of range literals come back as ±Inf with ErrRange.
		v, _ := strconv.ParseFloat(s, 64)
		return v, true
	case radixLiteral.MatchString(s):
		base := 16.0
		switch s[1] {
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		v := 0.0
		for _, c := range strings.ToLower(s[2:]) {
			d := float64(strings.IndexRune("0123456789abcdef", c))
			v = v*base + d
		}
		return v, true
	case infinity.MatchString(s):
		if s[0] == '-' {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}
	return math.NaN(), false
}

// ParseNumber is the forgiving numeric parse used for cell text. Besides
// plain literals it accepts thousands separators between digits, '$'
// currency marks, '%' (each divides by 100) and a parenthesized value,
// which is negated. Only finite results are accepted.
func ParseNumber(s string) (float64, bool) {
	if strings.TrimSpace(s) == "" {
		return 0, false
	}
	if v, ok := strictNumber(s); ok {
		if math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	}
	if !hasDigit.MatchString(s) {
		return 0, false
	}

	wt := 1.0
	ss := thousandsSep.ReplaceAllString(s, "$1$2")
	ss = strings.ReplaceAll(ss, "$", "")
	if n := strings.Count(ss, "%"); n > 0 {
		wt = math.Pow(100, float64(n))
		ss = strings.ReplaceAll(ss, "%", "")
	}
	if v, ok := strictNumber(ss); ok {
		return finite(v / wt)
	}

	if loc := parenthesized.FindStringSubmatchIndex(ss); loc != nil {
		ss = ss[:loc[0]] + ss[loc[2]:loc[3]] + ss[loc[1]:]
		wt = -wt
	}
	if v, ok := strictNumber(ss); ok {
		return finite(v / wt)
	}
	return 0, false
}

func finite(v float64) (float64, bool) {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
