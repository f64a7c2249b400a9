package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/p455555555/x-spreadsheet/pkg/xsheet/models"
)

// DefaultDateFormat is the number format given to inferred dates.
const DefaultDateFormat = models.DefaultDateFormat

// defaultYear is the year assumed when a date omits it.
const defaultYear = 2001

const (
	minDateYear = 1900
	maxDateYear = 8099
)

var monthNames = [12]string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var (
	monthToken    = regexp.MustCompile(`jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec`)
	anyLetter     = regexp.MustCompile(`[a-z]`)
	nonLetter     = regexp.MustCompile(`[^a-z]`)
	meridiemToken = regexp.MustCompile(`(^|[^a-z])[ap]\.?m?\.?([^a-z]|$)`)
	nonYearChar   = regexp.MustCompile(`[^-0-9:,/\\]`)
)

// calendar is the result of the lenient calendar parse.
type calendar struct {
	year, month, day     int
	hour, minute, second int
	millis               int
}

func (c calendar) time() time.Time {
	return time.Date(c.year, time.Month(c.month), c.day, c.hour, c.minute, c.second, c.millis*int(time.Millisecond), time.UTC)
}

// numberToken is a run of digits.
type numberToken struct {
	value  int
	digits int
}

func (n numberToken) yearLike() bool {
	return n.digits >= 3 || n.value > 31
}

// parseCalendar reads month names, day/month/year numbers and an optional
// h:mm[:ss[.fff]] time with an am/pm marker. It accepts the layouts a
// browser date parser commonly does: M/D/Y, Y-M-D, D Mon Y, Mon D, Y, M/D.
func parseCalendar(s string) (calendar, bool) {
	var (
		nums      []numberToken
		month     int
		clock     []int
		millis    int
		meridiem  byte
		haveClock bool
	)

	lower := strings.ToLower(s)
	for i := 0; i < len(lower); {
		c := lower[i]
		switch {
		case c >= '0' && c <= '9':
			j := i
			for j < len(lower) && lower[j] >= '0' && lower[j] <= '9' {
				j++
			}
			tok := numberToken{digits: j - i}
			for _, d := range lower[i:j] {
				tok.value = tok.value*10 + int(d-'0')
				if tok.value > 1e7 {
					return calendar{}, false
				}
			}
			prevColon := i > 0 && lower[i-1] == ':'
			nextColon := j < len(lower) && lower[j] == ':'
			if !prevColon && !nextColon {
				nums = append(nums, tok)
				i = j
				continue
			}
			if !prevColon && haveClock {
				return calendar{}, false
			}
			haveClock = true
			clock = append(clock, tok.value)
			if len(clock) > 3 {
				return calendar{}, false
			}
			if nextColon {
				j++
			} else if len(clock) == 3 && j < len(lower) && lower[j] == '.' {
				k := j + 1
				for k < len(lower) && lower[k] >= '0' && lower[k] <= '9' {
					k++
				}
				frac := lower[j+1 : k]
				for len(frac) < 3 {
					frac += "0"
				}
				for _, d := range frac[:3] {
					millis = millis*10 + int(d-'0')
				}
				j = k
			}
			i = j
		case c >= 'a' && c <= 'z':
			j := i
			for j < len(lower) && lower[j] >= 'a' && lower[j] <= 'z' {
				j++
			}
			word := lower[i:j]
			if j < len(lower) && lower[j] == '.' {
				j++
			}
			switch {
			case word == "am" || word == "a" || word == "pm" || word == "p":
				if meridiem != 0 {
					return calendar{}, false
				}
				meridiem = word[0]
			case len(word) >= 3 && month == 0 && monthIndex(word[:3]) > 0:
				month = monthIndex(word[:3])
			default:
				return calendar{}, false
			}
			i = j
		case strings.IndexByte(" \t\r\n,/-.\\", c) >= 0:
			i++
		default:
			return calendar{}, false
		}
	}

	cal, ok := composeDate(nums, month)
	if !ok {
		return calendar{}, false
	}

	if haveClock {
		if len(clock) < 2 {
			return calendar{}, false
		}
		cal.hour, cal.minute = clock[0], clock[1]
		if len(clock) > 2 {
			cal.second = clock[2]
		}
		cal.millis = millis
	}
	switch meridiem {
	case 'a', 'p':
		if cal.hour < 1 || cal.hour > 12 {
			return calendar{}, false
		}
		if cal.hour == 12 {
			cal.hour = 0
		}
		if meridiem == 'p' {
			cal.hour += 12
		}
	}
	if cal.hour > 23 || cal.minute > 59 || cal.second > 59 {
		return calendar{}, false
	}
	return cal, true
}

// composeDate assigns the numeric tokens to year, month and day.
func composeDate(nums []numberToken, month int) (calendar, bool) {
	var (
		cal  = calendar{year: defaultYear, month: month, day: 1}
		year numberToken
		has  bool
	)

	if month > 0 {
		switch len(nums) {
		case 1:
			if nums[0].yearLike() {
				year, has = nums[0], true
			} else {
				cal.day = nums[0].value
			}
		case 2:
			if nums[0].yearLike() {
				year, has = nums[0], true
				cal.day = nums[1].value
			} else {
				cal.day = nums[0].value
				year, has = nums[1], true
			}
		default:
			return calendar{}, false
		}
	} else {
		switch len(nums) {
		case 1:
			if nums[0].yearLike() {
				year, has = nums[0], true
				cal.month = 1
			} else {
				cal.month = nums[0].value
			}
		case 2:
			switch {
			case nums[0].yearLike():
				year, has = nums[0], true
				cal.month = nums[1].value
			case nums[1].yearLike():
				cal.month = nums[0].value
				year, has = nums[1], true
			default:
				cal.month, cal.day = nums[0].value, nums[1].value
			}
		case 3:
			if nums[0].yearLike() {
				year, has = nums[0], true
				cal.month, cal.day = nums[1].value, nums[2].value
			} else {
				cal.month, cal.day = nums[0].value, nums[1].value
				year, has = nums[2], true
			}
		default:
			return calendar{}, false
		}
	}

	if has {
		cal.year = year.value
		if year.digits <= 2 {
			if year.value < 50 {
				cal.year += 2000
			} else {
				cal.year += 1900
			}
		}
	}

	if cal.month < 1 || cal.month > 12 || cal.day < 1 || cal.day > daysIn(cal.year, cal.month) {
		return calendar{}, false
	}
	return cal, true
}

func monthIndex(abbr string) int {
	for i, name := range monthNames {
		if name[:3] == abbr {
			return i + 1
		}
	}
	return 0
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseDate reports whether s reads as a date and returns it. Besides a
// successful calendar parse it requires:
//   - a month word, if present, is the only word left once am/pm markers are
//     dropped, spelled as the full month name or its three-letter form;
//   - no letters at all when there is no month word;
//   - a year in [1900, 8099];
//   - a string that only pins down January 1st (a bare year) or uses the
//     default year holds nothing but digits and - : , / \.
func ParseDate(s string) (time.Time, bool) {
	cal, ok := parseCalendar(s)
	if !ok {
		return time.Time{}, false
	}

	lower := strings.ToLower(s)
	if monthToken.MatchString(lower) {
		residue := meridiemToken.ReplaceAllString(lower, "$1$2")
		residue = nonLetter.ReplaceAllString(residue, "")
		if len(residue) > 3 && !isMonthName(residue) {
			return time.Time{}, false
		}
	} else if anyLetter.MatchString(lower) {
		return time.Time{}, false
	}

	if cal.year < minDateYear || cal.year > maxDateYear {
		return time.Time{}, false
	}
	if (cal.month > 1 || cal.day > 1) && cal.year != defaultYear {
		return cal.time(), true
	}
	if nonYearChar.MatchString(s) {
		return time.Time{}, false
	}
	return cal.time(), true
}

func isMonthName(s string) bool {
	for _, name := range monthNames {
		if name == s {
			return true
		}
	}
	return false
}
