package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mediarepo "folio_service/internal/media/repository"
	"folio_service/internal/portfolio/domain"
	"folio_service/internal/portfolio/repository"
	errprocess "folio_service/pkg/err"
	"folio_service/pkg/logger"

	mediadomain "folio_service/internal/media/domain"

	"github.com/segmentio/kafka-go"
)

// ViewEventWriter the slice of kafka.Writer the usecase needs
type ViewEventWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// PortfolioUseCase application services of the portfolio service
type PortfolioUseCase interface {
	UpsertProfile(ctx context.Context, profile *domain.Profile) error
	GetProfile(ctx context.Context, memberID string) (*domain.Profile, error)
	SearchProfiles(ctx context.Context, keyword string) ([]domain.Profile, error)
	AddCredit(ctx context.Context, credit *domain.Credit) error
	ListCredits(ctx context.Context, memberID string) ([]domain.Credit, error)
	DeleteCredit(ctx context.Context, memberID string, creditID uint) error
	SearchMedia(ctx context.Context, keyword string) ([]mediadomain.MediaRecord, error)
	RecommendMedia(ctx context.Context, limit int) ([]mediadomain.MediaRecord, error)
	RecordView(ctx context.Context, mediaID, viewerID string) error
}

type portfolioUseCase struct {
	profileRepo repository.ProfileRepo
	creditRepo  repository.CreditRepo
	mediaRepo   mediarepo.MediaRepo
	viewWriter  ViewEventWriter
}

// NewPortfolioUseCase create a new PortfolioUseCase
func NewPortfolioUseCase(profileRepo repository.ProfileRepo,
	creditRepo repository.CreditRepo,
	mediaRepo mediarepo.MediaRepo,
	viewWriter ViewEventWriter,
) PortfolioUseCase {
	return &portfolioUseCase{
		profileRepo: profileRepo,
		creditRepo:  creditRepo,
		mediaRepo:   mediaRepo,
		viewWriter:  viewWriter,
	}
}

// UpsertProfile saves the caller's portfolio page.
func (p *portfolioUseCase) UpsertProfile(ctx context.Context, profile *domain.Profile) error {
	if profile.MemberID == "" {
		return errprocess.New(errprocess.CodeUnauthenticated, "no verified caller identity")
	}
	if profile.DisplayName == "" {
		return errprocess.New(errprocess.CodeInvalidArgument, "displayName is required")
	}
	return p.profileRepo.Upsert(ctx, profile)
}

// GetProfile get one public portfolio page
func (p *portfolioUseCase) GetProfile(ctx context.Context, memberID string) (*domain.Profile, error) {
	profile, err := p.profileRepo.GetByMemberID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, errprocess.New(errprocess.CodeNotFound,
				fmt.Sprintf("memberId[%s] has no profile", memberID))
		}
		return nil, err
	}
	return profile, nil
}

// SearchProfiles keyword search over portfolio pages
func (p *portfolioUseCase) SearchProfiles(ctx context.Context, keyword string) ([]domain.Profile, error) {
	if keyword == "" {
		return nil, errprocess.New(errprocess.CodeInvalidArgument, "keyword is required")
	}
	return p.profileRepo.SearchProfiles(ctx, keyword)
}

// AddCredit append a production credit to the caller's resume.
func (p *portfolioUseCase) AddCredit(ctx context.Context, credit *domain.Credit) error {
	if credit.MemberID == "" {
		return errprocess.New(errprocess.CodeUnauthenticated, "no verified caller identity")
	}
	if credit.Production == "" || credit.Role == "" {
		return errprocess.New(errprocess.CodeInvalidArgument, "production and role are required")
	}
	return p.creditRepo.Create(credit)
}

// ListCredits list a member's production credits, newest year first
func (p *portfolioUseCase) ListCredits(ctx context.Context, memberID string) ([]domain.Credit, error) {
	return p.creditRepo.ListByMemberID(memberID)
}

// DeleteCredit remove one of the caller's own credits
func (p *portfolioUseCase) DeleteCredit(ctx context.Context, memberID string, creditID uint) error {
	if memberID == "" {
		return errprocess.New(errprocess.CodeUnauthenticated, "no verified caller identity")
	}
	return p.creditRepo.Delete(memberID, creditID)
}

// SearchMedia keyword search over ready portfolio videos
func (p *portfolioUseCase) SearchMedia(ctx context.Context, keyword string) ([]mediadomain.MediaRecord, error) {
	if keyword == "" {
		return nil, errprocess.New(errprocess.CodeInvalidArgument, "keyword is required")
	}
	return p.mediaRepo.SearchMedia(ctx, keyword)
}

// RecommendMedia most viewed videos first
func (p *portfolioUseCase) RecommendMedia(ctx context.Context, limit int) ([]mediadomain.MediaRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return p.mediaRepo.RecommendMedia(ctx, limit)
}

// RecordView bumps the record's view counter and emits a view event. A kafka
// failure is logged but never blocks the viewer.
func (p *portfolioUseCase) RecordView(ctx context.Context, mediaID, viewerID string) error {
	if mediaID == "" {
		return errprocess.New(errprocess.CodeInvalidArgument, "mediaId is required")
	}

	if err := p.mediaRepo.IncrementViewCount(ctx, mediaID); err != nil {
		if errors.Is(err, mediarepo.ErrRecordNotFound) {
			return errprocess.New(errprocess.CodeNotFound,
				fmt.Sprintf("mediaId[%s] does not exist", mediaID))
		}
		return err
	}

	event := domain.ViewEvent{
		MediaID:  mediaID,
		ViewerID: viewerID,
		ViewedAt: time.Now(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.viewWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(mediaID),
		Value: body,
	}); err != nil {
		logger.Log.Errorf(fmt.Sprintf("mediaId[%s] view event publish failed :", mediaID), err)
	}
	return nil
}
