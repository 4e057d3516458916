package atomic

// daysFromCivil and civilFromDays implement Howard Hinnant's proleptic
// Gregorian day-number algorithm, used to do calendar arithmetic (temporal
// +/- duration, temporal - temporal) without pulling in time.Time, whose
// range is too narrow for the proleptic xs:date year range XPath allows.
func daysFromCivil(y int64, m, d int) int64 {
	y -= boolToInt64(m <= 2)
	era := floorDiv(y, 400)
	yoe := y - era*400
	mp := (int64(m) + 9) % 12
	doy := (153*mp+2)/5 + int64(d) - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

func civilFromDays(z int64) (y int64, m, d int) {
	z += 719468
	era := floorDiv(z, 146097)
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y = yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d = int(doy - (153*mp+2)/5 + 1)
	m = int(mp + 3)
	if m > 12 {
		m -= 12
		y++
	}
	return y, m, d
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// addMonths adds a signed month count to a Temporal's year/month, clamping
// the day to the resulting month's length per XSD's "end of month" rule.
func addMonths(t Temporal, months int64) Temporal {
	total := (t.Year)*12 + int64(t.Month-1) + months
	y := floorDiv(total, 12)
	m := int(total-y*12) + 1
	t.Year, t.Month = y, m
	if maxDay := daysInMonth(y, m); t.Day > maxDay {
		t.Day = maxDay
	}
	return t
}

func daysInMonth(y int64, m int) int {
	switch m {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(y) {
			return 29
		}
		return 28
	}
	return 30
}

func isLeapYear(y int64) bool {
	return (y%4 == 0 && y%100 != 0) || y%400 == 0
}

// addSeconds adds a signed (seconds, nanoseconds) offset to a Temporal,
// normalizing across day boundaries via the day-number conversion above.
func addSeconds(t Temporal, seconds int64, nanos int) Temporal {
	totalNanos := int64(t.Nanosecond) + int64(nanos)
	extraSec := floorDiv(totalNanos, 1_000_000_000)
	t.Nanosecond = int(totalNanos - extraSec*1_000_000_000)
	totalSec := int64(t.Hour)*3600 + int64(t.Minute)*60 + int64(t.Second) + seconds + extraSec
	days := floorDiv(totalSec, 86400)
	rem := totalSec - days*86400
	t.Hour = int(rem / 3600)
	rem %= 3600
	t.Minute = int(rem / 60)
	t.Second = int(rem % 60)
	if days != 0 {
		z := daysFromCivil(t.Year, t.Month, t.Day) + days
		t.Year, t.Month, t.Day = civilFromDays(z)
	}
	return t
}

// secondsBetween returns a-b expressed as (days, seconds, nanoseconds),
// used by DateTime subtraction to produce a dayTimeDuration.
func secondsBetween(a, b Temporal) (days int64, seconds int64, nanos int) {
	da := daysFromCivil(a.Year, a.Month, a.Day)
	db := daysFromCivil(b.Year, b.Month, b.Day)
	days = da - db
	sa := int64(a.Hour)*3600 + int64(a.Minute)*60 + int64(a.Second)
	sb := int64(b.Hour)*3600 + int64(b.Minute)*60 + int64(b.Second)
	seconds = sa - sb
	nanos = a.Nanosecond - b.Nanosecond
	if nanos < 0 {
		nanos += 1_000_000_000
		seconds--
	}
	return days, seconds, nanos
}
