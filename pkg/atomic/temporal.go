package atomic

import "fmt"

// TZOffset is an explicit timezone offset in minutes east of UTC, used by
// every temporal kind. A value with HasTZ false is "offset-naive" per
// spec.md §4.1 and is compared using the dynamic context's implicit
// timezone.
type TZOffset struct {
	Minutes int
	HasTZ   bool
}

func (t TZOffset) String() string {
	if !t.HasTZ {
		return ""
	}
	if t.Minutes == 0 {
		return "Z"
	}
	sign := "+"
	m := t.Minutes
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s%02d:%02d", sign, m/60, m%60)
}

// Temporal is the shared representation for Date, Time, DateTime,
// DateTimeStamp and the gregorian-fragment kinds (GYear, GYearMonth,
// GMonthDay, GMonth, GDay). Unused fields for a given kind are zero; which
// fields are meaningful is determined by the Atomic's Kind, matching the
// original xee-interpreter's approach of one calendar value type shared by
// every temporal kind (xee-interpreter/src/atomic/types.rs).
type Temporal struct {
	Year      int64 // may be negative; 0 is valid (proleptic)
	Month     int   // 1-12
	Day       int   // 1-31
	Hour      int   // 0-24 (24 only for the canonical end-of-day 24:00:00)
	Minute    int   // 0-59
	Second    int   // 0-59
	Nanosecond int  // 0-999999999
	TZ        TZOffset
}

// Duration is the shared representation for Duration, YearMonthDuration and
// DayTimeDuration: a signed month count plus a signed seconds-with-nanos
// count, kept separate because year/month duration and day/time duration do
// not convert into each other (spec.md §3).
type Duration struct {
	Negative   bool
	Months     int64 // 0 for DayTimeDuration
	Seconds    int64 // whole seconds, 0 for YearMonthDuration
	Nanosecond int   // fractional seconds, 0 for YearMonthDuration
}

// QName is a resolved qualified name: namespace URI (empty for no
// namespace), local part, and the original prefix (kept only for lexical
// round-tripping; equality ignores it).
type QName struct {
	NamespaceURI string
	Local        string
	Prefix       string
}

func (q QName) String() string {
	if q.Prefix != "" {
		return q.Prefix + ":" + q.Local
	}
	return q.Local
}

// Equal compares QNames by namespace URI and local name, per W3C QName
// equality (prefixes are cosmetic).
func (q QName) Equal(o QName) bool {
	return q.NamespaceURI == o.NamespaceURI && q.Local == o.Local
}
