package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Period selects how Summarize buckets transaction dates.
type Period string

const (
	PeriodNone    Period = "none"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"

	// BucketAll labels the single bucket produced by PeriodNone.
	BucketAll = "all"
)

var ErrInvalidPeriod = errors.New("period must be none, weekly or monthly")

// ParsePeriod accepts the canonical names and the legacy semanal/mensual aliases.
// An empty value means no bucketing.
func ParsePeriod(raw string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none":
		return PeriodNone, nil
	case "weekly", "semanal":
		return PeriodWeekly, nil
	case "monthly", "mensual":
		return PeriodMonthly, nil
	default:
		return "", ErrInvalidPeriod
	}
}

// Bucket returns the label of the bucket containing date: "all", ISO "2024-W02" or "2024-01".
func (p Period) Bucket(date time.Time) string {
	switch p {
	case PeriodWeekly:
		year, week := date.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case PeriodMonthly:
		return date.Format("2006-01")
	default:
		return BucketAll
	}
}
