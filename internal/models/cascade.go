package models

import "fmt"

// The store offers no multi-document transactions, so secondary writes can
// fail after a primary write has committed. Such outcomes are reported as
// values alongside the success result, never as fatal errors: the primary
// mutation is not rolled back.

// DanglingOwnerWarning reports that a primary write succeeded but the
// linkage write to the owning record failed or the owner vanished.
type DanglingOwnerWarning struct {
	OwnerID string `json:"ownerId"`
	Reason  string `json:"reason"`
}

func (w *DanglingOwnerWarning) String() string {
	return fmt.Sprintf("owner %s not linked: %s", w.OwnerID, w.Reason)
}

// Cascade step identifiers reported in CascadeStepFailure.
const (
	CascadeStepScrubFriends   = "scrub_friend_refs"
	CascadeStepDeleteThoughts = "delete_thoughts"
	CascadeStepScrubOwners    = "scrub_owner_refs"
)

// CascadeStepFailure identifies a cleanup step that failed after the
// primary deletion committed. Residue named by a failed step stays in the
// store until a repair pass retries the step.
type CascadeStepFailure struct {
	Step  string `json:"step"`
	Error string `json:"error"`
}

func (f CascadeStepFailure) String() string {
	return fmt.Sprintf("cascade step %s failed: %s", f.Step, f.Error)
}
