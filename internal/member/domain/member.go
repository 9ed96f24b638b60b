package domain

import (
	"time"

	"folio_service/pkg/encrypt"
	"folio_service/pkg/token"
)

// MemberStatus member account state
type MemberStatus int

// states: 0=offline, 1=online, 2=ban, 3=delete
const (
	// MemberStatusOffLine logged out
	MemberStatusOffLine MemberStatus = iota
	// MemberStatusOnLine has an active session
	MemberStatusOnLine
	// MemberStatusBan blocked by an operator
	MemberStatusBan
	// MemberStatusDelete soft deleted
	MemberStatusDelete
)

// Member one registered account
type Member struct {
	ID          int64
	MemberID    string
	Email       string
	Password    string
	DisplayName string
	Status      MemberStatus
}

// MemberSession session state cached in redis, keyed by member id
type MemberSession struct {
	Token        string    `json:"Token"`
	MemberID     string    `json:"MemberID"`
	Plan         string    `json:"Plan"`
	CreatedAt    time.Time `json:"CreatedAt"`
	LastActivity time.Time `json:"LastActivity"`
	ExpiredAt    time.Time `json:"ExpiredAt"`
}

// IsPasswordMatch compares the stored hash with the supplied password.
func (m *Member) IsPasswordMatch(inputPwd string) error {
	return encrypt.CheckPassword(m.Password, inputPwd)
}

// IsExpired reports whether the session passed its deadline.
func (s *MemberSession) IsExpired() bool {
	return time.Now().After(s.ExpiredAt)
}

// MemberQuery join conditions are used to query members
type MemberQuery struct {
	ID       *int64  `db:"id"`
	MemberID *string `db:"member_id"`
	Email    *string `db:"email"`
}

// Subscription the paid-plan row of one member. Free members simply have no
// row; the paywall reads the active plan at login and bakes it into the JWT.
type Subscription struct {
	ID        uint      `gorm:"primaryKey"`
	MemberID  string    `gorm:"uniqueIndex;size:64"`
	Plan      string    `gorm:"size:16"`
	StartedAt time.Time `gorm:"autoCreateTime"`
	ExpiresAt *time.Time
}

// ActivePlan resolves the plan the subscription grants right now.
func (s *Subscription) ActivePlan() token.PlanType {
	if s == nil {
		return token.PlanFree
	}
	if s.ExpiresAt != nil && time.Now().After(*s.ExpiresAt) {
		return token.PlanFree
	}
	if s.Plan == string(token.PlanPro) {
		return token.PlanPro
	}
	return token.PlanFree
}
