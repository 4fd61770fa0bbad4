package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func activeLink() *Link {
	return &Link{
		ID:          "id-1",
		ShortCode:   "abc1234",
		OriginalURL: "https://example.com/a",
		IsActive:    true,
	}
}

func TestEvaluateAccess_Permit(t *testing.T) {
	decision := EvaluateAccess(activeLink(), time.Now(), "")
	assert.True(t, decision.Allowed)
	assert.Equal(t, DenyNone, decision.Reason)
}

func TestEvaluateAccess_NotFound(t *testing.T) {
	now := time.Now()

	decision := EvaluateAccess(nil, now, "")
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyNotFound, decision.Reason)

	deleted := activeLink()
	deleted.IsDeleted = true
	decision = EvaluateAccess(deleted, now, "")
	assert.Equal(t, DenyNotFound, decision.Reason)
}

func TestEvaluateAccess_Inactive(t *testing.T) {
	link := activeLink()
	link.IsActive = false

	decision := EvaluateAccess(link, time.Now(), "")
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyInactive, decision.Reason)
}

func TestEvaluateAccess_Expired(t *testing.T) {
	now := time.Now()
	expiry := now.Add(-time.Second)

	link := activeLink()
	link.ExpiresAt = &expiry

	decision := EvaluateAccess(link, now, "")
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyExpired, decision.Reason)

	// Expiry wins regardless of click budget remaining
	maxClicks := int64(100)
	link.MaxClicks = &maxClicks
	link.ClickCount = 0
	decision = EvaluateAccess(link, now, "")
	assert.Equal(t, DenyExpired, decision.Reason)
}

func TestEvaluateAccess_ClickLimit(t *testing.T) {
	maxClicks := int64(5)

	link := activeLink()
	link.MaxClicks = &maxClicks
	link.ClickCount = 5

	decision := EvaluateAccess(link, time.Now(), "")
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyClickLimit, decision.Reason)

	// One click of budget left is still permitted
	link.ClickCount = 4
	assert.True(t, EvaluateAccess(link, time.Now(), "").Allowed)
}

func TestEvaluateAccess_Password(t *testing.T) {
	hash, err := HashPassword("secret")
	assert.NoError(t, err)

	link := activeLink()
	link.PasswordHash = hash
	now := time.Now()

	decision := EvaluateAccess(link, now, "")
	assert.Equal(t, DenyPasswordRequired, decision.Reason)

	decision = EvaluateAccess(link, now, "wrong")
	assert.Equal(t, DenyPasswordIncorrect, decision.Reason)

	decision = EvaluateAccess(link, now, "secret")
	assert.True(t, decision.Allowed)
}

// The evaluator reports the first failing condition in its fixed order,
// never several at once.
func TestEvaluateAccess_OrderIsFixed(t *testing.T) {
	now := time.Now()
	expiry := now.Add(-time.Hour)
	maxClicks := int64(1)
	hash, _ := HashPassword("secret")

	link := activeLink()
	link.IsActive = false
	link.ExpiresAt = &expiry
	link.MaxClicks = &maxClicks
	link.ClickCount = 1
	link.PasswordHash = hash

	// Everything fails; inactive is reported first
	assert.Equal(t, DenyInactive, EvaluateAccess(link, now, "").Reason)

	// With the link re-enabled, expiry is next
	link.IsActive = true
	assert.Equal(t, DenyExpired, EvaluateAccess(link, now, "").Reason)

	// Then the click limit
	link.ExpiresAt = nil
	assert.Equal(t, DenyClickLimit, EvaluateAccess(link, now, "").Reason)

	// And finally the password
	link.ClickCount = 0
	assert.Equal(t, DenyPasswordRequired, EvaluateAccess(link, now, "").Reason)
}

func TestEvaluateAccess_Deterministic(t *testing.T) {
	hash, _ := HashPassword("secret")
	link := activeLink()
	link.PasswordHash = hash
	now := time.Now()

	first := EvaluateAccess(link, now, "wrong")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, EvaluateAccess(link, now, "wrong"))
	}
}

func TestDenyReason_String(t *testing.T) {
	assert.Equal(t, "not_found", DenyNotFound.String())
	assert.Equal(t, "click_limit_reached", DenyClickLimit.String())
	assert.Equal(t, "password_required", DenyPasswordRequired.String())
}
