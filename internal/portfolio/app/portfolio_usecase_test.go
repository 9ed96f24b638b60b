package app

import (
	"context"
	"errors"
	"testing"

	mediadomain "folio_service/internal/media/domain"
	mediarepo "folio_service/internal/media/repository"
	"folio_service/internal/portfolio/domain"
	"folio_service/internal/portfolio/repository"
	errprocess "folio_service/pkg/err"
	"folio_service/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProfileRepo mock repository.ProfileRepo
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Upsert(ctx context.Context, profile *domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}
func (m *MockProfileRepo) GetByMemberID(ctx context.Context, memberID string) (*domain.Profile, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockProfileRepo) SearchProfiles(ctx context.Context, keyword string) ([]domain.Profile, error) {
	args := m.Called(ctx, keyword)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockCreditRepo mock repository.CreditRepo
type MockCreditRepo struct {
	mock.Mock
}

func (m *MockCreditRepo) AutoMigrate() error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockCreditRepo) Create(credit *domain.Credit) error {
	args := m.Called(credit)
	return args.Error(0)
}
func (m *MockCreditRepo) ListByMemberID(memberID string) ([]domain.Credit, error) {
	args := m.Called(memberID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Credit), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockCreditRepo) Delete(memberID string, creditID uint) error {
	args := m.Called(memberID, creditID)
	return args.Error(0)
}

// MockMediaRepo mock mediarepo.MediaRepo
type MockMediaRepo struct {
	mock.Mock
}

func (m *MockMediaRepo) Create(ctx context.Context, record *mediadomain.MediaRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
func (m *MockMediaRepo) GetByID(ctx context.Context, id string) (*mediadomain.MediaRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*mediadomain.MediaRecord), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockMediaRepo) UpdateSource(ctx context.Context, id, fileName, sourceURL string) error {
	args := m.Called(ctx, id, fileName, sourceURL)
	return args.Error(0)
}
func (m *MockMediaRepo) UpdatePoster(ctx context.Context, id, posterURL string) error {
	args := m.Called(ctx, id, posterURL)
	return args.Error(0)
}
func (m *MockMediaRepo) UpdateStatus(ctx context.Context, id string, status mediadomain.MediaStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockMediaRepo) FinalizeReady(ctx context.Context, id string, durationSeconds float64, posterURL string) error {
	args := m.Called(ctx, id, durationSeconds, posterURL)
	return args.Error(0)
}
func (m *MockMediaRepo) SearchMedia(ctx context.Context, keyword string) ([]mediadomain.MediaRecord, error) {
	args := m.Called(ctx, keyword)
	if args.Get(0) != nil {
		return args.Get(0).([]mediadomain.MediaRecord), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockMediaRepo) RecommendMedia(ctx context.Context, limit int) ([]mediadomain.MediaRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]mediadomain.MediaRecord), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockMediaRepo) IncrementViewCount(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockViewWriter mock ViewEventWriter
type MockViewWriter struct {
	mock.Mock
}

func (m *MockViewWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func newTestUseCase(profile *MockProfileRepo, credit *MockCreditRepo, media *MockMediaRepo, writer *MockViewWriter) PortfolioUseCase {
	return NewPortfolioUseCase(profile, credit, media, writer)
}

func TestPortfolioUseCase_Profiles(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	t.Run("upsert success", func(t *testing.T) {
		mockProfile := new(MockProfileRepo)
		mockProfile.On("Upsert", ctx, mock.Anything).Return(nil).Once()

		uc := newTestUseCase(mockProfile, new(MockCreditRepo), new(MockMediaRepo), new(MockViewWriter))
		err := uc.UpsertProfile(ctx, &domain.Profile{MemberID: "member-1", DisplayName: "Jo Lin"})

		assert.NoError(t, err)
		mockProfile.AssertExpectations(t)
	})

	t.Run("upsert without display name", func(t *testing.T) {
		uc := newTestUseCase(new(MockProfileRepo), new(MockCreditRepo), new(MockMediaRepo), new(MockViewWriter))
		err := uc.UpsertProfile(ctx, &domain.Profile{MemberID: "member-1"})

		code, _ := errprocess.CodeOf(err)
		assert.Equal(t, errprocess.CodeInvalidArgument, code)
	})

	t.Run("get missing profile", func(t *testing.T) {
		mockProfile := new(MockProfileRepo)
		mockProfile.On("GetByMemberID", ctx, "ghost").Return(nil, repository.ErrProfileNotFound).Once()

		uc := newTestUseCase(mockProfile, new(MockCreditRepo), new(MockMediaRepo), new(MockViewWriter))
		_, err := uc.GetProfile(ctx, "ghost")

		code, _ := errprocess.CodeOf(err)
		assert.Equal(t, errprocess.CodeNotFound, code)
	})

	t.Run("search requires keyword", func(t *testing.T) {
		uc := newTestUseCase(new(MockProfileRepo), new(MockCreditRepo), new(MockMediaRepo), new(MockViewWriter))
		_, err := uc.SearchProfiles(ctx, "")

		code, _ := errprocess.CodeOf(err)
		assert.Equal(t, errprocess.CodeInvalidArgument, code)
	})
}

func TestPortfolioUseCase_Credits(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	t.Run("add credit", func(t *testing.T) {
		mockCredit := new(MockCreditRepo)
		mockCredit.On("Create", mock.Anything).Return(nil).Once()

		uc := newTestUseCase(new(MockProfileRepo), mockCredit, new(MockMediaRepo), new(MockViewWriter))
		err := uc.AddCredit(ctx, &domain.Credit{
			MemberID: "member-1", Production: "Night Shoot", Role: "Gaffer", Year: 2025,
		})

		assert.NoError(t, err)
		mockCredit.AssertExpectations(t)
	})

	t.Run("credit needs production and role", func(t *testing.T) {
		uc := newTestUseCase(new(MockProfileRepo), new(MockCreditRepo), new(MockMediaRepo), new(MockViewWriter))
		err := uc.AddCredit(ctx, &domain.Credit{MemberID: "member-1", Production: "Night Shoot"})

		code, _ := errprocess.CodeOf(err)
		assert.Equal(t, errprocess.CodeInvalidArgument, code)
	})
}

func TestPortfolioUseCase_RecordView(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	t.Run("counts the view and emits an event", func(t *testing.T) {
		mockMedia := new(MockMediaRepo)
		mockWriter := new(MockViewWriter)
		mockMedia.On("IncrementViewCount", ctx, "rec1").Return(nil).Once()
		mockWriter.On("WriteMessages", ctx, mock.Anything).Return(nil).Once()

		uc := newTestUseCase(new(MockProfileRepo), new(MockCreditRepo), mockMedia, mockWriter)
		err := uc.RecordView(ctx, "rec1", "viewer-9")

		assert.NoError(t, err)
		mockMedia.AssertExpectations(t)
		mockWriter.AssertExpectations(t)
	})

	t.Run("kafka failure never blocks the viewer", func(t *testing.T) {
		mockMedia := new(MockMediaRepo)
		mockWriter := new(MockViewWriter)
		mockMedia.On("IncrementViewCount", ctx, "rec1").Return(nil).Once()
		mockWriter.On("WriteMessages", ctx, mock.Anything).Return(errors.New("broker down")).Once()

		uc := newTestUseCase(new(MockProfileRepo), new(MockCreditRepo), mockMedia, mockWriter)
		err := uc.RecordView(ctx, "rec1", "")

		assert.NoError(t, err)
	})

	t.Run("unknown media id", func(t *testing.T) {
		mockMedia := new(MockMediaRepo)
		mockMedia.On("IncrementViewCount", ctx, "missing").Return(mediarepo.ErrRecordNotFound).Once()

		uc := newTestUseCase(new(MockProfileRepo), new(MockCreditRepo), mockMedia, new(MockViewWriter))
		err := uc.RecordView(ctx, "missing", "")

		code, _ := errprocess.CodeOf(err)
		assert.Equal(t, errprocess.CodeNotFound, code)
	})

	t.Run("recommend defaults the limit", func(t *testing.T) {
		mockMedia := new(MockMediaRepo)
		mockMedia.On("RecommendMedia", ctx, 10).Return([]mediadomain.MediaRecord{}, nil).Once()

		uc := newTestUseCase(new(MockProfileRepo), new(MockCreditRepo), mockMedia, new(MockViewWriter))
		_, err := uc.RecommendMedia(ctx, 0)

		assert.NoError(t, err)
		mockMedia.AssertExpectations(t)
	})
}
