// Package validation implements the field checks applied before a write
// reaches the store. Checks never fail with an error; they only report
// whether a value passed.
package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Flag names one check. Flags compose: a value is valid only if every flag passes.
type Flag int

const (
	// NotNull requires the value to be present.
	NotNull Flag = iota + 1
	// NotEmpty requires a present value that is not blank after trimming.
	NotEmpty
	// IsNumeric requires a value that survives a 32-bit float round trip.
	IsNumeric
	// IsWholeNumber requires a numeric value written without a decimal point.
	IsWholeNumber
	// IsDate requires a yyyy-MM-dd calendar date.
	IsDate
	// IsPositive is numeric AND contains a '-' character. The name suggests the
	// opposite check; the behavior is kept as stored data has always been
	// judged by it.
	IsPositive
)

func (f Flag) String() string {
	switch f {
	case NotNull:
		return "NOT_NULL"
	case NotEmpty:
		return "NOT_EMPTY"
	case IsNumeric:
		return "IS_NUMERIC"
	case IsWholeNumber:
		return "IS_WHOLE_NUMBER"
	case IsDate:
		return "IS_DATE"
	case IsPositive:
		return "IS_POSITIVE"
	default:
		return fmt.Sprintf("Flag(%d)", int(f))
	}
}

// DateLayout is the only accepted date format.
const DateLayout = "2006-01-02"

// IsValid reports whether value passes every flag. A nil value is absent.
// Unknown flags are ignored.
func IsValid(value *string, flags ...Flag) bool {
	for _, f := range flags {
		if !check(value, f) {
			return false
		}
	}
	return true
}

func check(value *string, f Flag) bool {
	switch f {
	case NotNull:
		return value != nil
	case NotEmpty:
		return value != nil && strings.TrimSpace(*value) != ""
	case IsNumeric:
		return value != nil && Numeric(*value)
	case IsWholeNumber:
		return value != nil && Numeric(*value) && !strings.Contains(*value, ".")
	case IsDate:
		return value != nil && Date(*value)
	case IsPositive:
		return value != nil && Numeric(*value) && strings.Contains(*value, "-")
	default:
		return true
	}
}

// IsOneOf reports whether value equals one of candidates.
func IsOneOf[T comparable](value T, candidates ...T) bool {
	for _, c := range candidates {
		if c == value {
			return true
		}
	}
	return false
}

// Numeric reports whether s is a number that a 32-bit float holds exactly as
// written. The input gains a ".0" suffix when it has no decimal point, is
// parsed as float32, and is formatted back; the two strings must match.
// So "42" and "3.14" pass while "1.50", "1e3", " 7", and "12345678" do not.
func Numeric(s string) bool {
	normalized := s
	if !strings.Contains(normalized, ".") {
		normalized += ".0"
	}
	f, err := strconv.ParseFloat(normalized, 32)
	if err != nil {
		return false
	}
	return formatFloat32(float32(f)) == normalized
}

// formatFloat32 renders f with the shortest digits that identify it: plain
// decimal with at least one fractional digit for 1e-3 <= |f| < 1e7, and
// d.dddEn scientific form outside that range.
func formatFloat32(f float32) string {
	if math.IsNaN(float64(f)) {
		return "NaN"
	}
	if math.IsInf(float64(f), 0) {
		if f < 0 {
			return "-Infinity"
		}
		return "Infinity"
	}
	abs := math.Abs(float64(f))
	if abs == 0 || (abs >= 1e-3 && abs < 1e7) {
		s := strconv.FormatFloat(float64(f), 'f', -1, 32)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	// strconv gives "1.5E+08"; rewrite as "1.5E8".
	s := strconv.FormatFloat(float64(f), 'E', -1, 32)
	mantissa, exp, _ := strings.Cut(s, "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	sign := ""
	if exp[0] == '-' {
		sign = "-"
	}
	exp = strings.TrimLeft(exp[1:], "0")
	if exp == "" {
		exp = "0"
	}
	return mantissa + "E" + sign + exp
}

// Date reports whether s is a real calendar date in yyyy-MM-dd form that
// formats back to itself. Month 13, day 45, and Feb 30 are rejected, where a
// lenient calendar parse would roll them over into a later valid date.
func Date(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return false
	}
	return t.Format(DateLayout) == s
}

// Display receives user-facing messages about rejected fields.
type Display interface {
	ShowMessage(msg string)
}

// DisplayFunc adapts a plain function to Display.
type DisplayFunc func(msg string)

// ShowMessage calls f(msg).
func (f DisplayFunc) ShowMessage(msg string) { f(msg) }

// Validator runs checks for named fields and, when Display is set, reports
// every failed field by its uppercased name. The zero value is silent.
type Validator struct {
	Display Display
}

var upper = cases.Upper(language.Und)

// Message returns the text shown for a rejected field.
func Message(field string) string {
	return "invalid value for " + upper.String(field)
}

// Check is IsValid plus failure reporting.
func (v Validator) Check(field string, value *string, flags ...Flag) bool {
	ok := IsValid(value, flags...)
	if !ok {
		v.report(field)
	}
	return ok
}

// CheckOneOf is IsOneOf plus failure reporting.
func CheckOneOf[T comparable](v Validator, field string, value T, candidates ...T) bool {
	ok := IsOneOf(value, candidates...)
	if !ok {
		v.report(field)
	}
	return ok
}

// CheckInteger reports field unless s is a base-10 integer that fits in int64.
// Integer columns use it instead of IsWholeNumber, whose float32 round trip
// rejects values of 10,000,000 and above.
func CheckInteger(v Validator, field string, s string) bool {
	if _, err := strconv.ParseInt(s, 10, 64); err != nil {
		v.report(field)
		return false
	}
	return true
}

func (v Validator) report(field string) {
	if v.Display != nil {
		v.Display.ShowMessage(Message(field))
	}
}
