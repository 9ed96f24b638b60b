package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"folio_service/internal/media/domain"
	"folio_service/internal/media/repository"
	"folio_service/pkg/database"
	errprocess "folio_service/pkg/err"
	"folio_service/pkg/logger"

	"github.com/google/uuid"
)

// MediaUseCase application services of the media service
type MediaUseCase interface {
	ExtractThumbnail(ctx context.Context, verifiedCallerID string, req domain.ExtractThumbnailReq) (*domain.ExtractThumbnailRes, error)
	UploadMedia(ctx context.Context, up domain.UploadMediaReq) (*domain.UploadMediaRes, error)
	GetMedia(ctx context.Context, mediaID string) (*domain.GetMediaRes, error)
}

type mediaUseCase struct {
	MinioClient   database.MinIOClientRepo
	MediaRepo     repository.MediaRepo
	RabbitChannel database.RabbitRepo // publishes finalize jobs after upload
}

// NewMediaUseCase create a new MediaUseCase
func NewMediaUseCase(minIO database.MinIOClientRepo,
	repo repository.MediaRepo,
	rabbitChannel database.RabbitRepo,
) MediaUseCase {
	return &mediaUseCase{
		MinioClient:   minIO,
		MediaRepo:     repo,
		RabbitChannel: rabbitChannel,
	}
}

const tmpRoot = "./tmp"

// Wrapper functions so tests can stub filesystem, network and decoder I/O.
var (
	createDir = func(path string) error {
		return os.MkdirAll(path, 0755)
	}

	createScratchDir = func(dir, pattern string) (string, error) {
		return os.MkdirTemp(dir, pattern)
	}

	createFile = func(name string) (*os.File, error) {
		return os.Create(name)
	}

	copyFile = func(dst *os.File, src io.Reader) (written int64, err error) {
		return io.Copy(dst, src)
	}

	removeAll = func(path string) error {
		return os.RemoveAll(path)
	}

	fetchURL = func(url string) (*http.Response, error) {
		return http.Get(url)
	}

	extractFrame = ExtractFrame

	probeDuration = ProbeDuration

	newNonce = func() string {
		return uuid.New().String()
	}
)

// ExtractThumbnail renders one frame of the caller's video at the requested
// timestamp, publishes it, and points the record's poster at it.
//
// Request-level failures (auth, arguments, lookup) are raised as typed errors
// before any processing I/O. Failures inside the extract/publish work are
// caught and reported in the response body so the UI can render them.
func (s *mediaUseCase) ExtractThumbnail(ctx context.Context, verifiedCallerID string, req domain.ExtractThumbnailReq) (*domain.ExtractThumbnailRes, error) {
	start := time.Now()

	// 1. Guard: identity and payload shape, no side effects.
	if verifiedCallerID == "" {
		return nil, errprocess.New(errprocess.CodeUnauthenticated, "no verified caller identity")
	}
	if req.RecordID == "" {
		return nil, errprocess.New(errprocess.CodeInvalidArgument, "recordId is required")
	}
	if req.CallerID == "" {
		return nil, errprocess.New(errprocess.CodeInvalidArgument, "callerId is required")
	}
	tier, err := domain.ParseTier(req.QualityTier)
	if err != nil {
		return nil, err
	}
	if req.CallerID != verifiedCallerID {
		return nil, errprocess.New(errprocess.CodeIdentityMismatch,
			fmt.Sprintf("callerId[%s] does not match the verified identity", req.CallerID))
	}

	// 2. Lookup and ownership.
	record, err := s.MediaRepo.GetByID(ctx, req.RecordID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, errprocess.New(errprocess.CodeNotFound,
				fmt.Sprintf("recordId[%s] does not exist", req.RecordID))
		}
		return nil, errprocess.Set(fmt.Sprintf("recordId[%s] lookup failed : %v", req.RecordID, err))
	}
	if record.OwnerID != req.CallerID {
		return nil, errprocess.New(errprocess.CodePermissionDenied,
			fmt.Sprintf("recordId[%s] is not owned by caller[%s]", req.RecordID, req.CallerID))
	}

	// 3. Timestamp bounds, still before any network I/O.
	if err := domain.ValidateTimestamp(req.TimestampSeconds, record.DurationSeconds); err != nil {
		return nil, err
	}

	// 4.-6. Extract, publish, clean up.
	thumbnailURL, procErr := s.extractAndPublish(ctx, record, req.TimestampSeconds, tier)

	elapsed := time.Since(start).Milliseconds()
	if procErr != nil {
		logger.Log.Errorf(fmt.Sprintf("recordId[%s] thumbnail processing failed :", req.RecordID), procErr)
		return &domain.ExtractThumbnailRes{
			Success:          false,
			Error:            procErr.Error(),
			ProcessingTimeMs: elapsed,
		}, nil
	}

	return &domain.ExtractThumbnailRes{
		Success:          true,
		ThumbnailURL:     thumbnailURL,
		ProcessingTimeMs: elapsed,
	}, nil
}

// extractAndPublish downloads the source into a scratch dir, renders and
// encodes the frame, uploads it under a per-invocation key, then patches the
// owning record. The scratch dir is removed on every exit path.
func (s *mediaUseCase) extractAndPublish(ctx context.Context, record *domain.MediaRecord, timestampSeconds float64, tier domain.QualityTier) (string, error) {
	if record.SourceURL == "" {
		return "", fmt.Errorf("recordId[%s] has no source media yet", record.ID)
	}

	if err := createDir(tmpRoot); err != nil {
		return "", fmt.Errorf("create scratch root failed : %w", err)
	}
	workDir, err := createScratchDir(tmpRoot, "thumb_"+record.ID+"_")
	if err != nil {
		return "", fmt.Errorf("create scratch dir failed : %w", err)
	}
	defer func() {
		// Cleanup failure is logged, never surfaced as the outcome.
		if err := removeAll(workDir); err != nil {
			logger.Log.Errorf(fmt.Sprintf("recordId[%s] scratch cleanup failed :", record.ID), err)
		}
	}()

	sourcePath := filepath.Join(workDir, "source.mp4")
	if err := downloadToFile(record.SourceURL, sourcePath); err != nil {
		return "", fmt.Errorf("media fetch failed : %w", err)
	}

	framePath := filepath.Join(workDir, "frame.jpg")
	if err := extractFrame(sourcePath, framePath, timestampSeconds, tier.Profile()); err != nil {
		return "", fmt.Errorf("media decode failed : %w", err)
	}

	// The nonce keeps concurrent extractions for one record from
	// overwriting each other's artifact.
	objectName := fmt.Sprintf("thumbnails/%s/thumb_%s_%s.jpg",
		record.ID, formatTimestamp(timestampSeconds), newNonce())
	if err := s.MinioClient.UploadImmutable(ctx, objectName, framePath, "image/jpeg"); err != nil {
		return "", fmt.Errorf("storage upload failed : %w", err)
	}

	publicURL := s.MinioClient.PublicURL(objectName)

	// Patch strictly after upload confirmation so poster_url never points
	// at bytes that were not stored. If the patch fails the uploaded
	// object stays orphaned; there is no compensating delete.
	if err := s.MediaRepo.UpdatePoster(ctx, record.ID, publicURL); err != nil {
		return "", fmt.Errorf("record update failed : %w", err)
	}

	return publicURL, nil
}

// downloadToFile streams the source bytes to destPath; any transfer error or
// non-2xx status aborts the extraction.
func downloadToFile(url, destPath string) error {
	resp, err := fetchURL(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	dest, err := createFile(destPath)
	if err != nil {
		return err
	}
	defer dest.Close()

	if _, err := copyFile(dest, resp.Body); err != nil {
		return err
	}
	return nil
}

func formatTimestamp(timestampSeconds float64) string {
	return strconv.FormatFloat(timestampSeconds, 'f', -1, 64)
}
