package atomic

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// String renders the canonical XSD lexical form of a, the form CastToString
// and error messages use (spec.md §8 invariant 8: casting a value to string
// and back must round-trip).
func (a Atomic) String() string {
	switch a.kind {
	case KindUntyped:
		return a.UntypedText()
	case KindString:
		return a.StringValue()
	case KindBoolean:
		if a.BoolValue() {
			return "true"
		}
		return "false"
	case KindInteger:
		return a.IntegerValue().String()
	case KindDecimal:
		return a.DecimalValue().String()
	case KindFloat:
		return formatXSDFloat(float64(a.FloatValue()), 32)
	case KindDouble:
		return formatXSDFloat(a.DoubleValue(), 64)
	case KindDate:
		return formatDate(a.TemporalValue())
	case KindTime:
		return formatTime(a.TemporalValue())
	case KindDateTime, KindDateTimeStamp:
		t := a.TemporalValue()
		return formatDate(t) + "T" + formatTime(t)
	case KindGYear:
		t := a.TemporalValue()
		return formatYear(t.Year) + t.TZ.String()
	case KindGYearMonth:
		t := a.TemporalValue()
		return fmt.Sprintf("%s-%02d%s", formatYear(t.Year), t.Month, t.TZ.String())
	case KindGMonthDay:
		t := a.TemporalValue()
		return fmt.Sprintf("--%02d-%02d%s", t.Month, t.Day, t.TZ.String())
	case KindGMonth:
		t := a.TemporalValue()
		return fmt.Sprintf("--%02d%s", t.Month, t.TZ.String())
	case KindGDay:
		t := a.TemporalValue()
		return fmt.Sprintf("---%02d%s", t.Day, t.TZ.String())
	case KindDuration:
		return formatDuration(a.DurationOf(), true, true)
	case KindYearMonthDuration:
		return formatDuration(a.DurationOf(), true, false)
	case KindDayTimeDuration:
		return formatDuration(a.DurationOf(), false, true)
	case KindBinary:
		p := a.data.(binaryPayload)
		if p.encoding == Hex {
			return strings.ToUpper(hex.EncodeToString(p.bytes))
		}
		return base64.StdEncoding.EncodeToString(p.bytes)
	case KindQName:
		return a.QNameOf().String()
	}
	return fmt.Sprintf("<unprintable atomic kind %s>", a.kind)
}

// formatXSDFloat renders the XSD canonical lexical form for xs:float
// (bits=32) and xs:double (bits=64): "NaN", "INF", "-INF", or a decimal
// form without a mandatory exponent for typical magnitudes.
func formatXSDFloat(f float64, bits int) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "INF"
	}
	if math.IsInf(f, -1) {
		return "-INF"
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mantissa, exp := s[:i], s[i+1:]
		if !strings.Contains(mantissa, ".") {
			mantissa += ".0"
		}
		if !strings.HasPrefix(exp, "+") && !strings.HasPrefix(exp, "-") {
			exp = "+" + exp
		}
		return mantissa + "E" + exp
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatYear(year int64) string {
	if year < 0 {
		return fmt.Sprintf("-%04d", -year)
	}
	return fmt.Sprintf("%04d", year)
}

func formatDate(t Temporal) string {
	return fmt.Sprintf("%s-%02d-%02d%s", formatYear(t.Year), t.Month, t.Day, t.TZ.String())
}

func formatTime(t Temporal) string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if t.Nanosecond != 0 {
		frac := fmt.Sprintf("%09d", t.Nanosecond)
		frac = strings.TrimRight(frac, "0")
		s += "." + frac
	}
	return s + t.TZ.String()
}

// formatDuration renders the ISO 8601 PnYnMnDTnHnMnS form, omitting the
// year/month or day/time halves entirely for YearMonthDuration and
// DayTimeDuration respectively, per spec.md §3.
func formatDuration(d Duration, showYM, showDT bool) string {
	var b strings.Builder
	if d.Negative {
		b.WriteByte('-')
	}
	b.WriteByte('P')
	if showYM {
		years := d.Months / 12
		months := d.Months % 12
		if years != 0 {
			fmt.Fprintf(&b, "%dY", years)
		}
		if months != 0 {
			fmt.Fprintf(&b, "%dM", months)
		}
	}
	if showDT {
		days := d.Seconds / 86400
		rem := d.Seconds % 86400
		hours := rem / 3600
		rem %= 3600
		minutes := rem / 60
		seconds := rem % 60
		if days != 0 {
			fmt.Fprintf(&b, "%dD", days)
		}
		if hours != 0 || minutes != 0 || seconds != 0 || d.Nanosecond != 0 {
			b.WriteByte('T')
			if hours != 0 {
				fmt.Fprintf(&b, "%dH", hours)
			}
			if minutes != 0 {
				fmt.Fprintf(&b, "%dM", minutes)
			}
			if seconds != 0 || d.Nanosecond != 0 {
				if d.Nanosecond != 0 {
					frac := fmt.Sprintf("%09d", d.Nanosecond)
					frac = strings.TrimRight(frac, "0")
					fmt.Fprintf(&b, "%d.%sS", seconds, frac)
				} else {
					fmt.Fprintf(&b, "%dS", seconds)
				}
			}
		}
	}
	s := b.String()
	if s == "P" || s == "-P" {
		// Zero-length duration still needs a visible unit; XSD canonical
		// form for a zero dayTimeDuration is "PT0S", for yearMonth "P0M".
		if showDT {
			return strings.TrimPrefix(s, "-") + "T0S"
		}
		return strings.TrimPrefix(s, "-") + "0M"
	}
	return s
}
