// Package dates canonicalizes free-form date input into the strict
// DD/MM/YYYY wire format used across the job store. Bad input is never
// rejected: known-bad sentinels, unparseable strings and reversed ranges
// are silently replaced with a safe fallback and logged, so a malformed
// client date can never block a job mutation or reach the database.
package dates

import (
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"
)

// Layout is the canonical DD/MM/YYYY form.
const Layout = "02/01/2006"

// ZeroDate is the degenerate sentinel some stores hand back as a column
// default. It must never survive normalization.
const ZeroDate = "0000-00-00"

var (
	strictRe = regexp.MustCompile(`^(0[1-9]|[12][0-9]|3[01])/(0[1-9]|1[0-2])/[0-9]{4}$`)
	isoRe    = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}$`)
)

// Fallback selects which substitute a repaired value receives.
type Fallback int

const (
	// FallbackToday substitutes the current date (start values).
	FallbackToday Fallback = iota
	// FallbackTomorrow substitutes the next date (end values).
	FallbackTomorrow
)

// Normalizer repairs raw date strings against an injected clock. Given the
// same input and the same "now", the output is identical.
type Normalizer struct {
	now    func() time.Time
	logger *zap.Logger
}

// NewNormalizer constructs a Normalizer. A nil now falls back to time.Now.
func NewNormalizer(now func() time.Time, logger *zap.Logger) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{
		now:    now,
		logger: logger.Named("date_normalizer"),
	}
}

// Normalize canonicalizes a single raw value into DD/MM/YYYY.
// Rules, in order: zero-date sentinel -> fallback; ISO YYYY-MM-DD ->
// rewritten; anything not matching the strict format -> fallback; a value
// that matches the format but is not a real calendar date -> fallback.
func (n *Normalizer) Normalize(raw string, fb Fallback) string {
	value := raw
	if value == ZeroDate {
		value = n.fallback(fb)
		n.logger.Warn("repaired zero-date sentinel",
			zap.String("raw", raw),
			zap.String("substituted", value),
		)
		return value
	}

	if isoRe.MatchString(value) {
		value = value[8:10] + "/" + value[5:7] + "/" + value[0:4]
	}

	if !strictRe.MatchString(value) {
		substituted := n.fallback(fb)
		n.logger.Warn("repaired malformed date",
			zap.String("raw", raw),
			zap.String("substituted", substituted),
		)
		return substituted
	}

	// Reject impossible calendar dates (Feb 30 and friends).
	if _, err := Parse(value); err != nil {
		substituted := n.fallback(fb)
		n.logger.Warn("repaired invalid calendar date",
			zap.String("raw", raw),
			zap.String("substituted", substituted),
		)
		return substituted
	}

	return value
}

// NormalizePair normalizes start and end independently, then enforces
// start <= end: a reversed pair is discarded wholesale and replaced with
// (today, tomorrow).
func (n *Normalizer) NormalizePair(rawStart, rawEnd string) (string, string) {
	start := n.Normalize(rawStart, FallbackToday)
	end := n.Normalize(rawEnd, FallbackTomorrow)

	startT, _ := Parse(start)
	endT, _ := Parse(end)
	if startT.After(endT) {
		n.logger.Warn("repaired reversed date range",
			zap.String("start", start),
			zap.String("end", end),
		)
		return n.fallback(FallbackToday), n.fallback(FallbackTomorrow)
	}
	return start, end
}

// Today returns the current date in canonical form.
func (n *Normalizer) Today() string {
	return n.now().Format(Layout)
}

// Tomorrow returns the next date in canonical form.
func (n *Normalizer) Tomorrow() string {
	return n.now().AddDate(0, 0, 1).Format(Layout)
}

func (n *Normalizer) fallback(fb Fallback) string {
	if fb == FallbackTomorrow {
		return n.Tomorrow()
	}
	return n.Today()
}

// Parse parses a canonical DD/MM/YYYY string into a time. Strict: the
// input must already be in canonical form.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Range expands an inclusive [start, end] pair into one DD/MM/YYYY string
// per calendar day.
func Range(start, end string) ([]string, error) {
	startT, err := Parse(start)
	if err != nil {
		return nil, err
	}
	endT, err := Parse(end)
	if err != nil {
		return nil, err
	}
	if startT.After(endT) {
		return nil, fmt.Errorf("start %s after end %s", start, end)
	}

	var days []string
	for d := startT; !d.After(endT); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(Layout))
	}
	return days, nil
}
