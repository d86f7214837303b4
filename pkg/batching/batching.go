// Package batching classifies cron schedules into coarse batch sizes.
package batching

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/bollhav/pkg/core"
	"github.com/robfig/cron/v3"
)

// scheduleParser accepts standard 5-field expressions only: no seconds field
// and no @descriptors.
var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Validate reports whether expr is a syntactically valid 5-field cron expression.
func Validate(expr string) error {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return &core.InvalidScheduleError{
			Expr: expr,
			Err:  fmt.Errorf("expected exactly 5 fields, found %d", len(fields)),
		}
	}
	fields[4] = sundayAsZero(fields[4])
	if _, err := scheduleParser.Parse(strings.Join(fields, " ")); err != nil {
		return &core.InvalidScheduleError{Expr: expr, Err: err}
	}
	return nil
}

// Infer maps a cron expression to a batch size.
//
// Rules are evaluated in order and the first match wins:
//
//	month        != "*"                  -> YEARLY
//	day-of-month != "*" && weekday == "*" -> MONTHLY
//	weekday      != "*"                  -> WEEKLY
//	hour         != "*"                  -> DAILY
//	minute       == "0"                  -> HOURLY
//
// Anything else is left unclassified and Infer returns the zero BatchSize.
// SUBHOURLY is never produced.
func Infer(expr string) (core.BatchSize, error) {
	if err := Validate(expr); err != nil {
		return "", err
	}

	fields := strings.Fields(expr)
	minute, hour, day, month, weekday := fields[0], fields[1], fields[2], fields[3], fields[4]

	switch {
	case month != "*":
		return core.BatchSizeYearly, nil
	case day != "*" && weekday == "*":
		return core.BatchSizeMonthly, nil
	case weekday != "*":
		return core.BatchSizeWeekly, nil
	case hour != "*":
		return core.BatchSizeDaily, nil
	case minute == "0":
		return core.BatchSizeHourly, nil
	default:
		return "", nil
	}
}

// sundayAsZero rewrites 7 in a weekday field to 0, so "7" and "5-7" read as
// Sunday the way most cron implementations do. The parser only knows 0-6.
func sundayAsZero(field string) string {
	parts := strings.Split(field, ",")
	for i, part := range parts {
		if strings.Contains(part, "/") {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		switch {
		case !isRange && part == "7":
			parts[i] = "0"
		case isRange && hi == "7" && lo == "7":
			parts[i] = "0"
		case isRange && hi == "7":
			parts[i] = lo + "-6,0"
		}
	}
	return strings.Join(parts, ",")
}
