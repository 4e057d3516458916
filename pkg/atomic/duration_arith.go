package atomic

import (
	"math/big"

	"xpath31/pkg/xdmerr"
)

// signedMonths and signedNanos expose a Duration's two magnitudes as signed
// quantities sharing the Duration's single sign bit.
func signedMonths(d Duration) int64 {
	if d.Negative {
		return -d.Months
	}
	return d.Months
}

func signedNanos(d Duration) *big.Int {
	total := new(big.Int).Mul(big.NewInt(d.Seconds), big.NewInt(1_000_000_000))
	total.Add(total, big.NewInt(int64(d.Nanosecond)))
	if d.Negative {
		total.Neg(total)
	}
	return total
}

// durationFromSigned reconstructs a Duration from signed months and signed
// nanoseconds. When the two disagree in sign (e.g. "P1Y" minus "P40D"),
// the result's sign follows whichever magnitude is non-zero, preferring
// the months component — a simplification, since
// xs:duration's wire representation carries only one sign for both halves.
func durationFromSigned(months int64, nanos *big.Int) Duration {
	neg := false
	switch {
	case months != 0:
		neg = months < 0
	case nanos.Sign() != 0:
		neg = nanos.Sign() < 0
	}
	if months < 0 {
		months = -months
	}
	if nanos.Sign() < 0 {
		nanos = new(big.Int).Neg(nanos)
	}
	billion := big.NewInt(1_000_000_000)
	secs := new(big.Int).Quo(nanos, billion)
	rem := new(big.Int).Rem(nanos, billion)
	return Duration{Negative: neg, Months: months, Seconds: secs.Int64(), Nanosecond: int(rem.Int64())}
}

func addDurations(a, b Atomic) (Atomic, *xdmerr.Error) {
	if a.kind != b.kind {
		return Atomic{}, xdmerr.Typef("cannot add %s and %s", a.kind, b.kind)
	}
	da, db := a.DurationOf(), b.DurationOf()
	d := durationFromSigned(signedMonths(da)+signedMonths(db), new(big.Int).Add(signedNanos(da), signedNanos(db)))
	return Atomic{kind: a.kind, data: d}, nil
}

func scaleDuration(dur, factor Atomic) (Atomic, *xdmerr.Error) {
	f, ferr := factor.CastToDouble()
	if ferr != nil {
		return Atomic{}, ferr
	}
	scale := f.DoubleValue()
	d := dur.DurationOf()
	months := int64(float64(signedMonths(d)) * scale)
	nanosF := new(big.Float).SetInt(signedNanos(d))
	nanosF.Mul(nanosF, big.NewFloat(scale))
	nanosI, _ := nanosF.Int(nil)
	return Atomic{kind: dur.kind, data: durationFromSigned(months, nanosI)}, nil
}

func divideDurations(a, b Atomic) (Atomic, *xdmerr.Error) {
	if a.kind != b.kind {
		return Atomic{}, xdmerr.Typef("cannot divide %s by %s", a.kind, b.kind)
	}
	da, db := a.DurationOf(), b.DurationOf()
	switch a.kind {
	case KindYearMonthDuration:
		if db.Months == 0 {
			return Atomic{}, xdmerr.DivisionByZero("yearMonthDuration division")
		}
		return Decimal(decimalFromRatio(signedMonths(da), signedMonths(db))), nil
	case KindDayTimeDuration:
		nb := signedNanos(db)
		if nb.Sign() == 0 {
			return Atomic{}, xdmerr.DivisionByZero("dayTimeDuration division")
		}
		na := signedNanos(da)
		return Decimal(decimalFromBigRatio(na, nb)), nil
	}
	return Atomic{}, xdmerr.Typef("cannot divide %s", a.kind)
}

func addTemporalDuration(t, d Atomic) (Atomic, *xdmerr.Error) {
	dur := d.DurationOf()
	temporal := t.TemporalValue()
	temporal = addMonths(temporal, signedMonths(dur))
	nanos := signedNanos(dur)
	billion := big.NewInt(1_000_000_000)
	secs := new(big.Int).Quo(nanos, billion)
	rem := new(big.Int).Rem(nanos, billion)
	temporal = addSeconds(temporal, secs.Int64(), int(rem.Int64()))
	return Atomic{kind: t.kind, data: temporal}, nil
}

func subtractTemporals(a, b Atomic) (Atomic, *xdmerr.Error) {
	ta, tb := a.TemporalValue(), b.TemporalValue()
	days, secs, nanos := secondsBetween(ta, tb)
	total := days*86400 + secs
	d := Duration{Negative: total < 0 || (total == 0 && nanos < 0)}
	if d.Negative {
		total = -total
		nanos = -nanos
		if nanos < 0 {
			nanos += 1_000_000_000
			total--
		}
	}
	d.Seconds = total
	d.Nanosecond = nanos
	return DayTimeDurationValue(d), nil
}
