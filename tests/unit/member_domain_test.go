package unit

import (
	"testing"
	"time"

	"folio_service/internal/member/domain"
	"folio_service/pkg/encrypt"
	"folio_service/pkg/token"

	"github.com/stretchr/testify/assert"
)

func TestMemberPasswordMatch(t *testing.T) {
	hashed, err := encrypt.HashPassword("!!Securepassword111")
	assert.NoError(t, err)

	member := domain.Member{
		ID:       1,
		Email:    "user@example.com",
		Password: hashed,
	}

	assert.NoError(t, member.IsPasswordMatch("!!Securepassword111"))
	assert.Error(t, member.IsPasswordMatch("wrongpass"))
}

func TestMemberSessionExpiration(t *testing.T) {
	session := domain.MemberSession{
		Token:        "abcd1234",
		MemberID:     "1",
		CreatedAt:    time.Now(),
		LastActivity: time.Now(),
		ExpiredAt:    time.Now().Add(-1 * time.Minute),
	}

	assert.True(t, session.IsExpired(), "session should be expired")
}

func TestSubscriptionActivePlan(t *testing.T) {
	assert.Equal(t, token.PlanFree, (*domain.Subscription)(nil).ActivePlan(), "no row means free")

	future := time.Now().Add(24 * time.Hour)
	active := &domain.Subscription{MemberID: "m1", Plan: string(token.PlanPro), ExpiresAt: &future}
	assert.Equal(t, token.PlanPro, active.ActivePlan())

	past := time.Now().Add(-24 * time.Hour)
	lapsed := &domain.Subscription{MemberID: "m1", Plan: string(token.PlanPro), ExpiresAt: &past}
	assert.Equal(t, token.PlanFree, lapsed.ActivePlan(), "lapsed subscription falls back to free")

	open := &domain.Subscription{MemberID: "m1", Plan: string(token.PlanPro)}
	assert.Equal(t, token.PlanPro, open.ActivePlan(), "no expiry means active")
}
