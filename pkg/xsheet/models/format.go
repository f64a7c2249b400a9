package models

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultDateFormat is the number format applied to dates that carry none.
const DefaultDateFormat = "m/d/yy"

// dateEpoch is day zero of the serial day-number.
var dateEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// DateFromTime converts a calendar instant to its serial day-number. The
// wall clock of t is used as is, whatever its location.
func DateFromTime(t time.Time) Date {
	t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	secs := t.Unix() - dateEpoch.Unix()
	return Date(float64(secs)/86400 + float64(t.Nanosecond())/(86400*1e9))
}

// Time converts the serial day-number back to a UTC instant, rounded to the
// millisecond.
func (d Date) Time() time.Time {
	days := math.Floor(float64(d))
	millis := math.Round((float64(d) - days) * 86400000)
	return dateEpoch.AddDate(0, 0, int(days)).Add(time.Duration(millis) * time.Millisecond)
}

// Display returns the text shown for the cell. Dates are formatted with the
// cell's number format. Numbers and booleans show the text they were read
// from when there is one, so typed text survives a round trip.
func (c Cell) Display() (string, error) {
	switch v := c.Value.(type) {
	case nil, Empty:
		return "", nil
	case Text:
		return string(v), nil
	case Number:
		if c.Raw != "" {
			return c.Raw, nil
		}
		return FormatGeneral(float64(v)), nil
	case Boolean:
		if c.Raw != "" {
			return c.Raw, nil
		}
		if v {
			return "TRUE", nil
		}
		return "FALSE", nil
	case Date:
		format := c.Format
		if format == "" {
			format = DefaultDateFormat
		}
		return FormatDate(v, format), nil
	case Formula:
		return "=" + v.Body, nil
	default:
		return "", &TypeError{Value: v}
	}
}

// FormatGeneral renders a number the way the General format does: up to 15
// significant digits and an upper-case exponent for very large or small
// magnitudes.
func FormatGeneral(v float64) string {
	if v == 0 {
		return "0"
	}
	return strings.ToUpper(strconv.FormatFloat(v, 'g', 15, 64))
}

var (
	monthAbbr = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	dayAbbr   = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
)

// dateToken is one element of a parsed date format code.
type dateToken struct {
	kind byte // y, m, d, h, H (elapsed hours), M (minutes), s, a (am/pm), or 0 for a literal
	n    int
	text string
}

// FormatDate renders d with an Excel style date/time format code such as
// "m/d/yy", "yyyy-mm-dd hh:mm:ss" or "mmm d, yyyy h:mm AM/PM". Only the
// first section of the code is used. Quoted text and backslash escapes are
// copied through; bracketed sections other than [h] are dropped.
func FormatDate(d Date, format string) string {
	t := d.Time()
	tokens := tokenizeDate(format)

	twelveHour := false
	for _, tok := range tokens {
		if tok.kind == 'a' {
			twelveHour = true
		}
	}

	var b strings.Builder
	for _, tok := range tokens {
		switch tok.kind {
		case 0:
			b.WriteString(tok.text)
		case 'y':
			if tok.n <= 2 {
				b.WriteString(pad(t.Year()%100, 2))
			} else {
				b.WriteString(pad(t.Year(), 4))
			}
		case 'm':
			switch {
			case tok.n == 1:
				b.WriteString(strconv.Itoa(int(t.Month())))
			case tok.n == 2:
				b.WriteString(pad(int(t.Month()), 2))
			case tok.n == 3:
				b.WriteString(monthAbbr[t.Month()-1])
			case tok.n == 5:
				b.WriteString(t.Month().String()[:1])
			default:
				b.WriteString(t.Month().String())
			}
		case 'd':
			switch {
			case tok.n == 1:
				b.WriteString(strconv.Itoa(t.Day()))
			case tok.n == 2:
				b.WriteString(pad(t.Day(), 2))
			case tok.n == 3:
				b.WriteString(dayAbbr[t.Weekday()])
			default:
				b.WriteString(t.Weekday().String())
			}
		case 'h':
			h := t.Hour()
			if twelveHour {
				h %= 12
				if h == 0 {
					h = 12
				}
			}
			b.WriteString(padN(h, tok.n))
		case 'H':
			b.WriteString(padN(int(math.Floor(float64(d)*24+1e-9)), tok.n))
		case 'M':
			b.WriteString(padN(t.Minute(), tok.n))
		case 's':
			b.WriteString(padN(t.Second(), tok.n))
		case 'a':
			pm := t.Hour() >= 12
			switch strings.ToUpper(tok.text) {
			case "A/P":
				b.WriteString(pick(pm, "P", "A", tok.text[0] == 'a'))
			default:
				b.WriteString(pick(pm, "PM", "AM", tok.text[0] == 'a'))
			}
		}
	}
	return b.String()
}

// IsDateFormat reports whether a number format code prints any date or
// time field.
func IsDateFormat(format string) bool {
	for _, tok := range tokenizeDate(format) {
		if tok.kind != 0 && tok.kind != 'a' {
			return true
		}
	}
	return false
}

// tokenizeDate splits a format code into tokens, resolving whether each m
// run means months or minutes: it is minutes right after an hour token or
// right before a seconds token.
func tokenizeDate(format string) []dateToken {
	if i := strings.IndexByte(format, ';'); i >= 0 {
		format = format[:i]
	}

	var tokens []dateToken
	literal := func(s string) {
		if n := len(tokens); n > 0 && tokens[n-1].kind == 0 {
			tokens[n-1].text += s
			return
		}
		tokens = append(tokens, dateToken{text: s})
	}

	lower := strings.ToLower(format)
	for i := 0; i < len(format); {
		c := lower[i]
		switch {
		case c == '"':
			j := strings.IndexByte(format[i+1:], '"')
			if j < 0 {
				literal(format[i+1:])
				i = len(format)
				continue
			}
			literal(format[i+1 : i+1+j])
			i += j + 2
		case c == '\\' && i+1 < len(format):
			literal(format[i+1 : i+2])
			i += 2
		case c == '[':
			j := strings.IndexByte(format[i:], ']')
			if j < 0 {
				i = len(format)
				continue
			}
			// [h] counts elapsed hours; other bracketed codes (locale,
			// color, condition) do not print.
			if inner := lower[i+1 : i+j]; inner != "" && strings.Trim(inner, "h") == "" {
				tokens = append(tokens, dateToken{kind: 'H', n: len(inner)})
			}
			i += j + 1
		case strings.HasPrefix(lower[i:], "am/pm"):
			tokens = append(tokens, dateToken{kind: 'a', text: format[i : i+5]})
			i += 5
		case strings.HasPrefix(lower[i:], "a/p"):
			tokens = append(tokens, dateToken{kind: 'a', text: format[i : i+3]})
			i += 3
		case c == 'y' || c == 'm' || c == 'd' || c == 'h' || c == 's':
			j := i
			for j < len(lower) && lower[j] == c {
				j++
			}
			tokens = append(tokens, dateToken{kind: c, n: j - i})
			i = j
		default:
			literal(format[i : i+1])
			i++
		}
	}

	for i, tok := range tokens {
		if tok.kind != 'm' || tok.n > 2 {
			continue
		}
		if prev := prevField(tokens, i); prev == 'h' || prev == 'H' {
			tokens[i].kind = 'M'
		} else if next := nextField(tokens, i); next == 's' {
			tokens[i].kind = 'M'
		}
	}
	return tokens
}

func prevField(tokens []dateToken, i int) byte {
	for j := i - 1; j >= 0; j-- {
		if tokens[j].kind != 0 {
			return tokens[j].kind
		}
	}
	return 0
}

func nextField(tokens []dateToken, i int) byte {
	for j := i + 1; j < len(tokens); j++ {
		if tokens[j].kind != 0 {
			return tokens[j].kind
		}
	}
	return 0
}

func pad(v, width int) string {
	s := strconv.Itoa(v)
	for len(s) < width {
		s = "0" + s
	}
	return s
}

func padN(v, n int) string {
	if n >= 2 {
		return pad(v, 2)
	}
	return strconv.Itoa(v)
}

func pick(cond bool, yes, no string, lower bool) string {
	s := no
	if cond {
		s = yes
	}
	if lower {
		return strings.ToLower(s)
	}
	return s
}
