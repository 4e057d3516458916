package library

import (
	"time"

	"github.com/shopspring/decimal"

	"xpath31/pkg/atomic"
	"xpath31/pkg/sequence"
	"xpath31/pkg/xdmerr"
)

func decimalFromInt64(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func decimalFromSeconds(whole int64, nanos int) decimal.Decimal {
	return decimal.NewFromInt(whole).Add(decimal.New(int64(nanos), -9))
}

// RegisterDateTime registers a representative subset of the date/time
// component accessors and current-* functions (spec.md §3's temporal
// kinds; xee-interpreter/src/library/datetime.rs supplements the
// distilled spec with the full accessor family this mirrors).
func RegisterDateTime(r *Registry) {
	r.Register(FnNamespace, "year-from-dateTime", 1, "fn:year-from-dateTime($arg as xs:dateTime?) as xs:integer?", KindPlain, temporalField(func(t atomic.Temporal) atomic.Atomic {
		return atomic.IntegerFromInt64(t.Year)
	}))
	r.Register(FnNamespace, "month-from-dateTime", 1, "fn:month-from-dateTime($arg as xs:dateTime?) as xs:integer?", KindPlain, temporalField(func(t atomic.Temporal) atomic.Atomic {
		return atomic.IntegerFromInt64(int64(t.Month))
	}))
	r.Register(FnNamespace, "day-from-dateTime", 1, "fn:day-from-dateTime($arg as xs:dateTime?) as xs:integer?", KindPlain, temporalField(func(t atomic.Temporal) atomic.Atomic {
		return atomic.IntegerFromInt64(int64(t.Day))
	}))
	r.Register(FnNamespace, "hours-from-dateTime", 1, "fn:hours-from-dateTime($arg as xs:dateTime?) as xs:integer?", KindPlain, temporalField(func(t atomic.Temporal) atomic.Atomic {
		return atomic.IntegerFromInt64(int64(t.Hour))
	}))
	r.Register(FnNamespace, "minutes-from-dateTime", 1, "fn:minutes-from-dateTime($arg as xs:dateTime?) as xs:integer?", KindPlain, temporalField(func(t atomic.Temporal) atomic.Atomic {
		return atomic.IntegerFromInt64(int64(t.Minute))
	}))
	r.Register(FnNamespace, "seconds-from-dateTime", 1, "fn:seconds-from-dateTime($arg as xs:dateTime?) as xs:decimal?", KindPlain, temporalField(secondsField))

	r.Register(FnNamespace, "year-from-date", 1, "fn:year-from-date($arg as xs:date?) as xs:integer?", KindPlain, temporalField(func(t atomic.Temporal) atomic.Atomic {
		return atomic.IntegerFromInt64(t.Year)
	}))
	r.Register(FnNamespace, "month-from-date", 1, "fn:month-from-date($arg as xs:date?) as xs:integer?", KindPlain, temporalField(func(t atomic.Temporal) atomic.Atomic {
		return atomic.IntegerFromInt64(int64(t.Month))
	}))
	r.Register(FnNamespace, "day-from-date", 1, "fn:day-from-date($arg as xs:date?) as xs:integer?", KindPlain, temporalField(func(t atomic.Temporal) atomic.Atomic {
		return atomic.IntegerFromInt64(int64(t.Day))
	}))

	r.Register(FnNamespace, "hours-from-time", 1, "fn:hours-from-time($arg as xs:time?) as xs:integer?", KindPlain, temporalField(func(t atomic.Temporal) atomic.Atomic {
		return atomic.IntegerFromInt64(int64(t.Hour))
	}))
	r.Register(FnNamespace, "minutes-from-time", 1, "fn:minutes-from-time($arg as xs:time?) as xs:integer?", KindPlain, temporalField(func(t atomic.Temporal) atomic.Atomic {
		return atomic.IntegerFromInt64(int64(t.Minute))
	}))
	r.Register(FnNamespace, "seconds-from-time", 1, "fn:seconds-from-time($arg as xs:time?) as xs:decimal?", KindPlain, temporalField(secondsField))

	r.Register(FnNamespace, "timezone-from-dateTime", 1, "fn:timezone-from-dateTime($arg as xs:dateTime?) as xs:dayTimeDuration?", KindPlain, timezoneField)
	r.Register(FnNamespace, "timezone-from-date", 1, "fn:timezone-from-date($arg as xs:date?) as xs:dayTimeDuration?", KindPlain, timezoneField)
	r.Register(FnNamespace, "timezone-from-time", 1, "fn:timezone-from-time($arg as xs:time?) as xs:dayTimeDuration?", KindPlain, timezoneField)

	r.Register(FnNamespace, "current-dateTime", 0, "fn:current-dateTime() as xs:dateTime", KindPlain, fnCurrentDateTime)
	r.Register(FnNamespace, "current-date", 0, "fn:current-date() as xs:date", KindPlain, fnCurrentDate)
	r.Register(FnNamespace, "current-time", 0, "fn:current-time() as xs:time", KindPlain, fnCurrentTime)
}

func secondsField(t atomic.Temporal) atomic.Atomic {
	whole := int64(t.Second)
	if t.Nanosecond == 0 {
		return atomic.Decimal(decimalFromInt64(whole))
	}
	return atomic.Decimal(decimalFromSeconds(whole, t.Nanosecond))
}

func temporalField(extract func(atomic.Temporal) atomic.Atomic) Callable {
	return func(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
		a, ok, err := optionalAtomic(args, 0)
		if err != nil || !ok {
			return sequence.Empty, err
		}
		if !a.Kind().IsTemporal() {
			return sequence.Empty, xdmerr.Typef("argument must be a temporal value")
		}
		return one(extract(a.TemporalValue()))
	}
}

func timezoneField(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	a, ok, err := optionalAtomic(args, 0)
	if err != nil || !ok {
		return sequence.Empty, err
	}
	if !a.Kind().IsTemporal() {
		return sequence.Empty, xdmerr.Typef("argument must be a temporal value")
	}
	tz := a.TemporalValue().TZ
	if !tz.HasTZ {
		return sequence.Empty, nil
	}
	return one(atomic.DayTimeDurationValue(atomic.Duration{
		Negative: tz.Minutes < 0,
		Seconds:  int64(abs(tz.Minutes)) * 60,
	}))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func fnCurrentDateTime(env Env, _ []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	now := currentInstant(env)
	return one(atomic.DateTime(temporalFromGoTime(now)))
}

func fnCurrentDate(env Env, _ []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	now := currentInstant(env)
	t := temporalFromGoTime(now)
	t.Hour, t.Minute, t.Second, t.Nanosecond = 0, 0, 0, 0
	return one(atomic.Date(t))
}

func fnCurrentTime(env Env, _ []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	now := currentInstant(env)
	t := temporalFromGoTime(now)
	t.Year, t.Month, t.Day = 0, 0, 0
	return one(atomic.Time(t))
}

func currentInstant(env Env) time.Time {
	if env.Now.IsZero() {
		return time.Now()
	}
	return env.Now
}

func temporalFromGoTime(t time.Time) atomic.Temporal {
	_, offset := t.Zone()
	return atomic.Temporal{
		Year:       int64(t.Year()),
		Month:      int(t.Month()),
		Day:        t.Day(),
		Hour:       t.Hour(),
		Minute:     t.Minute(),
		Second:     t.Second(),
		Nanosecond: t.Nanosecond(),
		TZ:         atomic.TZOffset{Minutes: offset / 60, HasTZ: true},
	}
}
