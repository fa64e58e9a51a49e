package verification

import "verity/internal/models"

// transitions is the full edge set of the eligibility state machine.
//
//	PENDING -> UNDER_REVIEW                (first document uploaded)
//	UNDER_REVIEW -> REQUIRES_MORE_INFO     (admin requests more info)
//	REQUIRES_MORE_INFO -> UNDER_REVIEW     (tenant uploads document)
//	UNDER_REVIEW -> VERIFIED               (admin approves)
//	UNDER_REVIEW -> REJECTED               (admin rejects)
//	REJECTED -> PENDING                    (appeal approved)
var transitions = map[string][]string{
	models.StatusPending:          {models.StatusUnderReview},
	models.StatusUnderReview:      {models.StatusRequiresMoreInfo, models.StatusVerified, models.StatusRejected},
	models.StatusRequiresMoreInfo: {models.StatusUnderReview},
	models.StatusRejected:         {models.StatusPending},
	models.StatusVerified:         {},
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// uploadStatuses are the only states in which document intake is accepted.
var uploadStatuses = []string{
	models.StatusPending,
	models.StatusRequiresMoreInfo,
	models.StatusUnderReview,
}

// CanUpload reports whether a tenant in the given status may upload.
func CanUpload(status string) bool {
	for _, s := range uploadStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// latchStatuses are the states an upload advances to UNDER_REVIEW. The
// update is a one-way latch, so concurrent uploads are safe.
var latchStatuses = []string{
	models.StatusPending,
	models.StatusRequiresMoreInfo,
}
