package repository

import (
	"gorm.io/gorm"

	"folio_service/internal/portfolio/domain"
)

// CreditRepo production credits on members' resumes
type CreditRepo interface {
	AutoMigrate() error
	Create(credit *domain.Credit) error
	ListByMemberID(memberID string) ([]domain.Credit, error)
	Delete(memberID string, creditID uint) error
}

type creditRepo struct {
	db *gorm.DB
}

// NewCreditRepo create CreditRepo
func NewCreditRepo(db *gorm.DB) CreditRepo {
	return &creditRepo{db: db}
}

func (r *creditRepo) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Credit{})
}

func (r *creditRepo) Create(credit *domain.Credit) error {
	return r.db.Create(credit).Error
}

func (r *creditRepo) ListByMemberID(memberID string) ([]domain.Credit, error) {
	var credits []domain.Credit
	err := r.db.Where("member_id = ?", memberID).Order("year DESC").Find(&credits).Error
	return credits, err
}

// Delete is scoped to the owner so one member can never remove another's credit.
func (r *creditRepo) Delete(memberID string, creditID uint) error {
	return r.db.Where("member_id = ? AND id = ?", memberID, creditID).Delete(&domain.Credit{}).Error
}
