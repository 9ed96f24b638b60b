package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"folio_service/internal/media/domain"
	"folio_service/internal/media/repository"
	errprocess "folio_service/pkg/err"
	"folio_service/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockMediaRepo mock repository.MediaRepo
type MockMediaRepo struct {
	mock.Mock
}

func (m *MockMediaRepo) Create(ctx context.Context, record *domain.MediaRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
func (m *MockMediaRepo) GetByID(ctx context.Context, id string) (*domain.MediaRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.MediaRecord), args.Error(1)
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
func (m *MockMediaRepo) UpdateStatus(ctx context.Context, id string, status domain.MediaStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockMediaRepo) FinalizeReady(ctx context.Context, id string, durationSeconds float64, posterURL string) error {
	args := m.Called(ctx, id, durationSeconds, posterURL)
	return args.Error(0)
}
func (m *MockMediaRepo) SearchMedia(ctx context.Context, keyword string) ([]domain.MediaRecord, error) {
	args := m.Called(ctx, keyword)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.MediaRecord), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockMediaRepo) RecommendMedia(ctx context.Context, limit int) ([]domain.MediaRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.MediaRecord), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockMediaRepo) IncrementViewCount(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMinIOClient mock database.MinIOClientRepo
type MockMinIOClient struct {
	mock.Mock
}

func (m *MockMinIOClient) UploadFile(ctx context.Context, objectName, filePath, contentType string) error {
	args := m.Called(ctx, objectName, filePath, contentType)
	return args.Error(0)
}
func (m *MockMinIOClient) UploadImmutable(ctx context.Context, objectName, filePath, contentType string) error {
	args := m.Called(ctx, objectName, filePath, contentType)
	return args.Error(0)
}
func (m *MockMinIOClient) DownloadFile(ctx context.Context, objectName, destPath string) error {
	args := m.Called(ctx, objectName, destPath)
	return args.Error(0)
}
func (m *MockMinIOClient) GetObject(ctx context.Context, objectName string, opts minio.GetObjectOptions) (io.Reader, error) {
	args := m.Called(ctx, objectName, opts)
	if args.Get(0) != nil {
		return args.Get(0).(io.Reader), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockMinIOClient) PresignGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}
func (m *MockMinIOClient) PublicURL(objectName string) string {
	args := m.Called(objectName)
	return args.String(0)
}

// pipelineStub swaps the package I/O wrappers for in-memory fakes and records
// what the pipeline did with them.
type pipelineStub struct {
	fetchedURLs []string
	removedDirs []string
	extractedAt []float64
	profiles    []domain.TierProfile
}

func stubPipelineIO(t *testing.T) *pipelineStub {
	st := &pipelineStub{}

	origCreateDir := createDir
	origCreateScratchDir := createScratchDir
	origFetchURL := fetchURL
	origExtractFrame := extractFrame
	origRemoveAll := removeAll
	origNewNonce := newNonce
	t.Cleanup(func() {
		createDir = origCreateDir
		createScratchDir = origCreateScratchDir
		fetchURL = origFetchURL
		extractFrame = origExtractFrame
		removeAll = origRemoveAll
		newNonce = origNewNonce
	})

	createDir = func(path string) error { return nil }
	createScratchDir = func(dir, pattern string) (string, error) {
		return t.TempDir(), nil
	}
	fetchURL = func(url string) (*http.Response, error) {
		st.fetchedURLs = append(st.fetchedURLs, url)
		return &http.Response{
			StatusCode: http.StatusOK,
			Status:     "200 OK",
			Body:       io.NopCloser(strings.NewReader("fake video bytes")),
		}, nil
	}
	extractFrame = func(inputPath, outputPath string, timestampSeconds float64, profile domain.TierProfile) error {
		st.extractedAt = append(st.extractedAt, timestampSeconds)
		st.profiles = append(st.profiles, profile)
		return nil
	}
	removeAll = func(path string) error {
		st.removedDirs = append(st.removedDirs, path)
		return nil
	}
	newNonce = func() string { return "nonce1234" }

	return st
}

func durationPtr(d float64) *float64 { return &d }

func ownedRecord() *domain.MediaRecord {
	return &domain.MediaRecord{
		ID:              "rec1",
		OwnerID:         "caller1",
		SourceURL:       "http://minio/folio/originals/rec1/a.mp4",
		DurationSeconds: durationPtr(120),
		Status:          string(domain.MediaReady),
	}
}

func TestExtractThumbnail_Guards(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	mockRepo := new(MockMediaRepo)
	uc := NewMediaUseCase(new(MockMinIOClient), mockRepo, nil)

	t.Run("no verified identity", func(t *testing.T) {
		_, err := uc.ExtractThumbnail(ctx, "", domain.ExtractThumbnailReq{RecordID: "rec1", CallerID: "caller1"})
		code, ok := errprocess.CodeOf(err)
		assert.True(t, ok)
		assert.Equal(t, errprocess.CodeUnauthenticated, code)
	})

	t.Run("missing record id", func(t *testing.T) {
		_, err := uc.ExtractThumbnail(ctx, "caller1", domain.ExtractThumbnailReq{CallerID: "caller1"})
		code, _ := errprocess.CodeOf(err)
		assert.Equal(t, errprocess.CodeInvalidArgument, code)
	})

	t.Run("missing caller id", func(t *testing.T) {
		_, err := uc.ExtractThumbnail(ctx, "caller1", domain.ExtractThumbnailReq{RecordID: "rec1"})
		code, _ := errprocess.CodeOf(err)
		assert.Equal(t, errprocess.CodeInvalidArgument, code)
	})

	t.Run("unknown quality tier", func(t *testing.T) {
		_, err := uc.ExtractThumbnail(ctx, "caller1", domain.ExtractThumbnailReq{
			RecordID: "rec1", CallerID: "caller1", QualityTier: "ultra",
		})
		code, _ := errprocess.CodeOf(err)
		assert.Equal(t, errprocess.CodeInvalidArgument, code)
	})

	t.Run("caller id mismatch", func(t *testing.T) {
		_, err := uc.ExtractThumbnail(ctx, "caller1", domain.ExtractThumbnailReq{
			RecordID: "rec1", CallerID: "someone-else",
		})
		code, _ := errprocess.CodeOf(err)
		assert.Equal(t, errprocess.CodeIdentityMismatch, code)
	})

	// Guards fire before any lookup.
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestExtractThumbnail_Lookup(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	t.Run("record not found", func(t *testing.T) {
		mockRepo := new(MockMediaRepo)
		mockRepo.On("GetByID", ctx, "missing").Return(nil, repository.ErrRecordNotFound).Once()

		uc := NewMediaUseCase(new(MockMinIOClient), mockRepo, nil)
		_, err := uc.ExtractThumbnail(ctx, "caller1", domain.ExtractThumbnailReq{
			RecordID: "missing", CallerID: "caller1",
		})

		code, _ := errprocess.CodeOf(err)
		assert.Equal(t, errprocess.CodeNotFound, code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("record owned by someone else", func(t *testing.T) {
		record := ownedRecord()
		record.OwnerID = "other"
		mockRepo := new(MockMediaRepo)
		mockRepo.On("GetByID", ctx, "rec1").Return(record, nil).Once()

		uc := NewMediaUseCase(new(MockMinIOClient), mockRepo, nil)
		_, err := uc.ExtractThumbnail(ctx, "caller1", domain.ExtractThumbnailReq{
			RecordID: "rec1", CallerID: "caller1",
		})

		code, _ := errprocess.CodeOf(err)
		assert.Equal(t, errprocess.CodePermissionDenied, code)
	})

	t.Run("timestamp beyond duration", func(t *testing.T) {
		mockRepo := new(MockMediaRepo)
		mockRepo.On("GetByID", ctx, "rec1").Return(ownedRecord(), nil).Once()

		uc := NewMediaUseCase(new(MockMinIOClient), mockRepo, nil)
		_, err := uc.ExtractThumbnail(ctx, "caller1", domain.ExtractThumbnailReq{
			RecordID: "rec1", CallerID: "caller1", TimestampSeconds: 500,
		})

		code, _ := errprocess.CodeOf(err)
		assert.Equal(t, errprocess.CodeInvalidArgument, code)
	})

	t.Run("negative timestamp", func(t *testing.T) {
		mockRepo := new(MockMediaRepo)
		mockRepo.On("GetByID", ctx, "rec1").Return(ownedRecord(), nil).Once()

		uc := NewMediaUseCase(new(MockMinIOClient), mockRepo, nil)
		_, err := uc.ExtractThumbnail(ctx, "caller1", domain.ExtractThumbnailReq{
			RecordID: "rec1", CallerID: "caller1", TimestampSeconds: -3,
		})

		code, _ := errprocess.CodeOf(err)
		assert.Equal(t, errprocess.CodeInvalidArgument, code)
	})
}

func TestExtractThumbnail_Pipeline(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	t.Run("success publishes then patches", func(t *testing.T) {
		st := stubPipelineIO(t)

		mockRepo := new(MockMediaRepo)
		mockMinio := new(MockMinIOClient)
		mockRepo.On("GetByID", ctx, "rec1").Return(ownedRecord(), nil).Once()

		wantKey := "thumbnails/rec1/thumb_2.5_nonce1234.jpg"
		wantURL := "http://minio/folio/" + wantKey
		mockMinio.On("UploadImmutable", ctx, wantKey, mock.Anything, "image/jpeg").Return(nil).Once()
		mockMinio.On("PublicURL", wantKey).Return(wantURL).Once()
		mockRepo.On("UpdatePoster", ctx, "rec1", wantURL).Return(nil).Once()

		uc := NewMediaUseCase(mockMinio, mockRepo, nil)
		res, err := uc.ExtractThumbnail(ctx, "caller1", domain.ExtractThumbnailReq{
			RecordID: "rec1", CallerID: "caller1", TimestampSeconds: 2.5, QualityTier: "medium",
		})

		assert.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, wantURL, res.ThumbnailURL)
		assert.Empty(t, res.Error)
		assert.GreaterOrEqual(t, res.ProcessingTimeMs, int64(0))

		assert.Equal(t, []string{ownedRecord().SourceURL}, st.fetchedURLs)
		assert.Equal(t, []float64{2.5}, st.extractedAt)
		assert.Equal(t, []domain.TierProfile{domain.TierMedium.Profile()}, st.profiles)
		assert.Len(t, st.removedDirs, 1, "scratch dir removed exactly once")

		mockRepo.AssertExpectations(t)
		mockMinio.AssertExpectations(t)
	})

	t.Run("empty tier defaults to high", func(t *testing.T) {
		st := stubPipelineIO(t)

		mockRepo := new(MockMediaRepo)
		mockMinio := new(MockMinIOClient)
		mockRepo.On("GetByID", ctx, "rec1").Return(ownedRecord(), nil).Once()
		mockMinio.On("UploadImmutable", ctx, mock.Anything, mock.Anything, "image/jpeg").Return(nil).Once()
		mockMinio.On("PublicURL", mock.Anything).Return("http://minio/folio/x.jpg").Once()
		mockRepo.On("UpdatePoster", ctx, "rec1", mock.Anything).Return(nil).Once()

		uc := NewMediaUseCase(mockMinio, mockRepo, nil)
		res, err := uc.ExtractThumbnail(ctx, "caller1", domain.ExtractThumbnailReq{
			RecordID: "rec1", CallerID: "caller1", TimestampSeconds: 10,
		})

		assert.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, []domain.TierProfile{domain.TierHigh.Profile()}, st.profiles)
	})

	t.Run("source fetch failure is reported not raised", func(t *testing.T) {
		st := stubPipelineIO(t)
		fetchURL = func(url string) (*http.Response, error) {
			return nil, errors.New("connection refused")
		}

		mockRepo := new(MockMediaRepo)
		mockMinio := new(MockMinIOClient)
		mockRepo.On("GetByID", ctx, "rec1").Return(ownedRecord(), nil).Once()

		uc := NewMediaUseCase(mockMinio, mockRepo, nil)
		res, err := uc.ExtractThumbnail(ctx, "caller1", domain.ExtractThumbnailReq{
			RecordID: "rec1", CallerID: "caller1", TimestampSeconds: 1,
		})

		assert.NoError(t, err)
		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "media fetch failed")
		assert.Len(t, st.removedDirs, 1, "scratch removed on the failure path too")
		mockMinio.AssertNotCalled(t, "UploadImmutable", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-2xx source response aborts", func(t *testing.T) {
		stubPipelineIO(t)
		fetchURL = func(url string) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusNotFound,
				Status:     "404 Not Found",
				Body:       io.NopCloser(strings.NewReader("")),
			}, nil
		}

		mockRepo := new(MockMediaRepo)
		mockRepo.On("GetByID", ctx, "rec1").Return(ownedRecord(), nil).Once()

		uc := NewMediaUseCase(new(MockMinIOClient), mockRepo, nil)
		res, _ := uc.ExtractThumbnail(ctx, "caller1", domain.ExtractThumbnailReq{
			RecordID: "rec1", CallerID: "caller1", TimestampSeconds: 1,
		})

		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "404")
	})

	t.Run("decode failure is reported", func(t *testing.T) {
		st := stubPipelineIO(t)
		extractFrame = func(inputPath, outputPath string, timestampSeconds float64, profile domain.TierProfile) error {
			return errors.New("moov atom not found")
		}

		mockRepo := new(MockMediaRepo)
		mockMinio := new(MockMinIOClient)
		mockRepo.On("GetByID", ctx, "rec1").Return(ownedRecord(), nil).Once()

		uc := NewMediaUseCase(mockMinio, mockRepo, nil)
		res, err := uc.ExtractThumbnail(ctx, "caller1", domain.ExtractThumbnailReq{
			RecordID: "rec1", CallerID: "caller1", TimestampSeconds: 1,
		})

		assert.NoError(t, err)
		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "media decode failed")
		assert.Len(t, st.removedDirs, 1)
		mockMinio.AssertNotCalled(t, "UploadImmutable", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("upload failure leaves the record untouched", func(t *testing.T) {
		stubPipelineIO(t)

		mockRepo := new(MockMediaRepo)
		mockMinio := new(MockMinIOClient)
		mockRepo.On("GetByID", ctx, "rec1").Return(ownedRecord(), nil).Once()
		mockMinio.On("UploadImmutable", ctx, mock.Anything, mock.Anything, "image/jpeg").
			Return(errors.New("bucket unreachable")).Once()

		uc := NewMediaUseCase(mockMinio, mockRepo, nil)
		res, _ := uc.ExtractThumbnail(ctx, "caller1", domain.ExtractThumbnailReq{
			RecordID: "rec1", CallerID: "caller1", TimestampSeconds: 1,
		})

		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "storage upload failed")
		mockRepo.AssertNotCalled(t, "UpdatePoster", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("patch failure after upload reports failure", func(t *testing.T) {
		stubPipelineIO(t)

		mockRepo := new(MockMediaRepo)
		mockMinio := new(MockMinIOClient)
		mockRepo.On("GetByID", ctx, "rec1").Return(ownedRecord(), nil).Once()
		mockMinio.On("UploadImmutable", ctx, mock.Anything, mock.Anything, "image/jpeg").Return(nil).Once()
		mockMinio.On("PublicURL", mock.Anything).Return("http://minio/folio/x.jpg").Once()
		mockRepo.On("UpdatePoster", ctx, "rec1", mock.Anything).Return(errors.New("write conflict")).Once()

		uc := NewMediaUseCase(mockMinio, mockRepo, nil)
		res, _ := uc.ExtractThumbnail(ctx, "caller1", domain.ExtractThumbnailReq{
			RecordID: "rec1", CallerID: "caller1", TimestampSeconds: 1,
		})

		// The uploaded object stays orphaned; the caller just sees the failure.
		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "record update failed")
		mockMinio.AssertExpectations(t)
	})

	t.Run("record without source media", func(t *testing.T) {
		st := stubPipelineIO(t)

		record := ownedRecord()
		record.SourceURL = ""
		mockRepo := new(MockMediaRepo)
		mockRepo.On("GetByID", ctx, "rec1").Return(record, nil).Once()

		uc := NewMediaUseCase(new(MockMinIOClient), mockRepo, nil)
		res, _ := uc.ExtractThumbnail(ctx, "caller1", domain.ExtractThumbnailReq{
			RecordID: "rec1", CallerID: "caller1", TimestampSeconds: 1,
		})

		assert.False(t, res.Success)
		assert.Contains(t, res.Error, "no source media")
		assert.Empty(t, st.fetchedURLs)
	})
}
