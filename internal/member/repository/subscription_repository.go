package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"folio_service/internal/member/domain"
	"folio_service/pkg/token"
)

// SubscriptionRepo paid-plan rows
type SubscriptionRepo interface {
	AutoMigrate() error
	GetByMemberID(memberID string) (*domain.Subscription, error)
	Upsert(memberID string, plan token.PlanType, expiresAt *time.Time) error
}

type subscriptionRepo struct {
	db *gorm.DB
}

// NewSubscriptionRepo create SubscriptionRepo
func NewSubscriptionRepo(db *gorm.DB) SubscriptionRepo {
	return &subscriptionRepo{db: db}
}

func (r *subscriptionRepo) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Subscription{})
}

// GetByMemberID returns nil without error when the member has no row;
// callers treat that as the free plan.
func (r *subscriptionRepo) GetByMemberID(memberID string) (*domain.Subscription, error) {
	var sub domain.Subscription
	if err := r.db.Where("member_id = ?", memberID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepo) Upsert(memberID string, plan token.PlanType, expiresAt *time.Time) error {
	var existing domain.Subscription
	err := r.db.Where("member_id = ?", memberID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(&domain.Subscription{
			MemberID:  memberID,
			Plan:      string(plan),
			ExpiresAt: expiresAt,
		}).Error
	}
	if err != nil {
		return err
	}

	existing.Plan = string(plan)
	existing.ExpiresAt = expiresAt
	return r.db.Save(&existing).Error
}
