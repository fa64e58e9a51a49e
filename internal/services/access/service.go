// Package access computes the access level a tenant currently has, based
// on its eligibility status and deadline. Evaluation is pure and cheap
// enough to run on every request.
package access

import (
	"fmt"
	"time"

	"verity/internal/models"
)

// Access levels.
const (
	LevelFull        = "FULL"
	LevelGracePeriod = "GRACE_PERIOD"
	LevelRestricted  = "RESTRICTED"
)

// GraceWindowDays is the warning window before restriction takes effect.
const GraceWindowDays = 7

// Result is the outcome of a policy evaluation.
type Result struct {
	AccessLevel   string   `json:"accessLevel"`
	DaysRemaining *int     `json:"daysRemaining"`
	Warnings      []string `json:"warnings"`
}

// Evaluate maps (status, deadline, now) to an access level.
//
// A VERIFIED tenant always has full access. A nil deadline means
// enforcement has not started yet and also grants full access. Otherwise
// days remaining decide: negative is restricted, zero through the grace
// window is a warning state, and anything beyond is full access. The
// deadline day itself belongs to the grace period, not restriction.
func Evaluate(status string, deadline *time.Time, now time.Time) Result {
	if status == models.StatusVerified {
		return Result{AccessLevel: LevelFull, Warnings: []string{}}
	}
	if deadline == nil {
		return Result{AccessLevel: LevelFull, Warnings: []string{}}
	}

	days := DaysRemaining(*deadline, now)
	switch {
	case days < 0:
		return Result{
			AccessLevel:   LevelRestricted,
			DaysRemaining: &days,
			Warnings:      []string{"Your verification deadline has passed. Access is restricted until verification completes."},
		}
	case days <= GraceWindowDays:
		return Result{
			AccessLevel:   LevelGracePeriod,
			DaysRemaining: &days,
			Warnings:      []string{fmt.Sprintf("Your verification deadline is in %d day(s). Submit your documents to avoid restrictions.", days)},
		}
	default:
		return Result{AccessLevel: LevelFull, DaysRemaining: &days, Warnings: []string{}}
	}
}

// DaysRemaining is the number of whole days between now and the deadline,
// rounded down. It is negative once the deadline has passed.
func DaysRemaining(deadline, now time.Time) int {
	diff := deadline.Sub(now)
	days := int(diff.Hours() / 24)
	if diff < 0 && diff.Hours()/24 != float64(days) {
		days-- // floor, not truncation, for partial days past the deadline
	}
	return days
}
