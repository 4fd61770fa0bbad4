package domain

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// DenyReason enumerates every way a redirect can be refused.
// It is a closed set so callers can handle each case exhaustively.
type DenyReason int

const (
	DenyNone DenyReason = iota
	DenyNotFound
	DenyInactive
	DenyExpired
	DenyClickLimit
	DenyPasswordRequired
	DenyPasswordIncorrect
)

// String returns a stable machine-readable name for logging and responses
func (r DenyReason) String() string {
	switch r {
	case DenyNone:
		return "none"
	case DenyNotFound:
		return "not_found"
	case DenyInactive:
		return "inactive"
	case DenyExpired:
		return "expired"
	case DenyClickLimit:
		return "click_limit_reached"
	case DenyPasswordRequired:
		return "password_required"
	case DenyPasswordIncorrect:
		return "password_incorrect"
	default:
		return "unknown"
	}
}

// Decision is the outcome of an access evaluation
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Permit is the single allowed decision
func Permit() Decision {
	return Decision{Allowed: true, Reason: DenyNone}
}

// Deny refuses access with the given reason
func Deny(reason DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// EvaluateAccess decides whether a redirect through the given link is
// permitted at the given moment. It is a pure function of its inputs:
// no clock reads, no store access, no mutation.
//
// The evaluation order is fixed and reports the first failing condition:
// existence, active flag, expiry, click limit, password. A nil link stands
// for "no matching non-deleted record".
func EvaluateAccess(link *Link, now time.Time, password string) Decision {
	if link == nil || link.IsDeleted {
		return Deny(DenyNotFound)
	}
	if !link.IsActive {
		return Deny(DenyInactive)
	}
	if link.IsExpired(now) {
		return Deny(DenyExpired)
	}
	if link.HasReachedMaxClicks() {
		return Deny(DenyClickLimit)
	}
	if link.PasswordHash != "" {
		if password == "" {
			return Deny(DenyPasswordRequired)
		}
		if bcrypt.CompareHashAndPassword([]byte(link.PasswordHash), []byte(password)) != nil {
			return Deny(DenyPasswordIncorrect)
		}
	}
	return Permit()
}

// HashPassword derives the stored hash for a link password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
