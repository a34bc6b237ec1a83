// Package policy implements the submission lifecycle state machine.
// It is pure: every decision is computed from the inputs alone, which keeps
// the transition rules testable without a database or HTTP layer.
package policy

import (
	"fmt"
	"time"
)

// Status enumerates the lifecycle states of a submission.
type Status string

const (
	StatusSubmitted    Status = "submitted"
	StatusResubmission Status = "resubmission"
	StatusApproved     Status = "approved"
	StatusRejected     Status = "rejected"
	StatusCompleted    Status = "completed"
)

// Role enumerates the global user roles known to the system.
type Role string

const (
	RoleStudent Role = "student"
	RoleAlumni  Role = "alumni"
	RoleFaculty Role = "faculty"
	RoleAdmin   Role = "admin"
)

// ValidStatus reports whether s is a member of the closed status set.
func ValidStatus(s Status) bool {
	switch s {
	case StatusSubmitted, StatusResubmission, StatusApproved, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// ValidRole reports whether r is a member of the closed role set.
func ValidRole(r Role) bool {
	switch r {
	case RoleStudent, RoleAlumni, RoleFaculty, RoleAdmin:
		return true
	}
	return false
}

// allowedTransitions is the single source of truth for status transitions.
// Terminal states map to empty sets.
var allowedTransitions = map[Status][]Status{
	StatusSubmitted:    {StatusResubmission, StatusApproved, StatusRejected},
	StatusResubmission: {StatusSubmitted},
	StatusApproved:     {StatusCompleted},
	StatusRejected:     {},
	StatusCompleted:    {},
}

// AllowedTargets returns the set of statuses reachable from the given status.
func AllowedTargets(from Status) []Status {
	targets, ok := allowedTransitions[from]
	if !ok {
		return nil
	}
	out := make([]Status, len(targets))
	copy(out, targets)
	return out
}

// IsTerminal reports whether no further transitions are permitted from s.
func IsTerminal(s Status) bool {
	return s == StatusRejected || s == StatusCompleted
}

// TransitionError explains why a requested transition was rejected.
// The message is safe to surface to the client verbatim. Forbidden marks
// rejections caused by the actor rather than the transition itself.
type TransitionError struct {
	From      Status
	To        Status
	Reason    string
	Forbidden bool
}

func (e *TransitionError) Error() string {
	return e.Reason
}

// Request carries every fact the engine needs to decide a transition.
type Request struct {
	CurrentStatus Status
	NewStatus     Status
	ActorRole     Role
	ActorUserID   uint
	// Resolved global user ids of the submission's owners, profile → user.
	StudentUserID uint
	FacultyUserID uint
	Remark        string
}

// AuditEntry records one accepted status transition.
type AuditEntry struct {
	At         time.Time `json:"at"`
	ActorID    uint      `json:"actorId"`
	FromStatus *Status   `json:"fromStatus"`
	ToStatus   Status    `json:"toStatus"`
	Remark     string    `json:"remark,omitempty"`
}

// GenesisEntry builds the first audit entry of a submission. Its FromStatus
// is always nil and its ToStatus always submitted.
func GenesisEntry(actorUserID uint, at time.Time) AuditEntry {
	return AuditEntry{
		At:       at,
		ActorID:  actorUserID,
		ToStatus: StatusSubmitted,
	}
}

// Decide validates the requested transition and, when accepted, returns the
// audit entry to append. Checks run in a fixed order and the first violation
// wins:
//
//  1. terminal current status is immutable, regardless of the target
//  2. the (from, to) pair must be in the transition table
//  3. role-specific ownership and capability rules
func Decide(req Request, now time.Time) (AuditEntry, error) {
	if IsTerminal(req.CurrentStatus) {
		return AuditEntry{}, &TransitionError{
			From:   req.CurrentStatus,
			To:     req.NewStatus,
			Reason: "completed/rejected submissions are immutable",
		}
	}

	if !transitionAllowed(req.CurrentStatus, req.NewStatus) {
		return AuditEntry{}, &TransitionError{
			From:   req.CurrentStatus,
			To:     req.NewStatus,
			Reason: fmt.Sprintf("invalid transition: %s → %s", req.CurrentStatus, req.NewStatus),
		}
	}

	switch req.ActorRole {
	case RoleStudent, RoleAlumni:
		if req.ActorUserID != req.StudentUserID {
			return AuditEntry{}, &TransitionError{
				From:      req.CurrentStatus,
				To:        req.NewStatus,
				Reason:    "students can only manage their own submissions",
				Forbidden: true,
			}
		}
		// The only student-side transition is resubmitting a revised draft.
		if req.CurrentStatus != StatusResubmission || req.NewStatus != StatusSubmitted {
			return AuditEntry{}, &TransitionError{
				From:      req.CurrentStatus,
				To:        req.NewStatus,
				Reason:    "students can only resubmit revised drafts",
				Forbidden: true,
			}
		}

	case RoleFaculty:
		if req.ActorUserID != req.FacultyUserID {
			return AuditEntry{}, &TransitionError{
				From:      req.CurrentStatus,
				To:        req.NewStatus,
				Reason:    "faculty can only manage assigned submissions",
				Forbidden: true,
			}
		}

	case RoleAdmin:
		// Admin bypasses ownership; any table-legal transition is allowed.

	default:
		return AuditEntry{}, &TransitionError{
			From:      req.CurrentStatus,
			To:        req.NewStatus,
			Reason:    "invalid role",
			Forbidden: true,
		}
	}

	from := req.CurrentStatus
	return AuditEntry{
		At:         now,
		ActorID:    req.ActorUserID,
		FromStatus: &from,
		ToStatus:   req.NewStatus,
		Remark:     req.Remark,
	}, nil
}

// IsResubmit reports whether the pair is the one transition that bumps the
// submission's current version.
func IsResubmit(from, to Status) bool {
	return from == StatusResubmission && to == StatusSubmitted
}

func transitionAllowed(from, to Status) bool {
	for _, target := range allowedTransitions[from] {
		if target == to {
			return true
		}
	}
	return false
}
