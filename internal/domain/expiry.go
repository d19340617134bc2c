package domain

import (
	"fmt"
	"strings"
	"time"
)

// ExpiringSoonWindow is the number of days ahead of the reference date that
// still count as expiring soon. Both ends are inclusive.
const ExpiringSoonWindow = 7

// Classification is the expiry state of a license or contract on a given day.
type Classification string

const (
	ClassificationActive       Classification = "active"
	ClassificationExpiringSoon Classification = "expiring_soon"
	ClassificationExpired      Classification = "expired"
)

func (c Classification) String() string { return string(c) }

func (c Classification) IsValid() bool {
	switch c {
	case ClassificationActive, ClassificationExpiringSoon, ClassificationExpired:
		return true
	}
	return false
}

// Reportable reports whether the state produces a notification.
func (c Classification) Reportable() bool {
	return c == ClassificationExpiringSoon || c == ClassificationExpired
}

func ParseClassificationFromString(s string) (Classification, error) {
	c := Classification(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: invalid classification %q", ErrValidation, s)
	}
	return c, nil
}

// Classify compares the calendar days of reference and target. The clock part
// of either value is ignored, so a target due today is expiring soon, not expired.
func Classify(reference, target time.Time) Classification {
	ref := CivilDate(reference)
	day := CivilDate(target)

	switch {
	case day.Before(ref):
		return ClassificationExpired
	case day.After(ref.AddDate(0, 0, ExpiringSoonWindow)):
		return ClassificationActive
	default:
		return ClassificationExpiringSoon
	}
}

// CivilDate truncates t to midnight UTC of the calendar day t falls on in its
// own location.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
