package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"folio_service/internal/media/domain"
	"folio_service/internal/media/repository"
	errprocess "folio_service/pkg/err"

	"github.com/streadway/amqp"
)

// playbackExpiry how long a presigned playback URL stays valid
const playbackExpiry = 15 * time.Minute

// UploadMedia stores the original bytes, creates the owning record and queues
// a finalize job. The record stays in uploaded status until the worker probes
// it and publishes a default poster.
func (s *mediaUseCase) UploadMedia(ctx context.Context, up domain.UploadMediaReq) (*domain.UploadMediaRes, error) {
	if up.OwnerID == "" {
		return nil, errprocess.New(errprocess.CodeUnauthenticated, "no verified caller identity")
	}
	if up.Title == "" {
		return nil, errprocess.New(errprocess.CodeInvalidArgument, "title is required")
	}
	if up.FileName == "" || up.File == nil {
		return nil, errprocess.New(errprocess.CodeInvalidArgument, "video file is required")
	}

	mediaID := newNonce()
	objectName := fmt.Sprintf("originals/%s/%s", mediaID, filepath.Base(up.FileName))

	// Spool the stream to scratch so minio can retry the put from a file.
	if err := createDir(tmpRoot); err != nil {
		return nil, errprocess.Set(fmt.Sprintf("create scratch root failed : %v", err))
	}
	workDir, err := createScratchDir(tmpRoot, "upload_"+mediaID+"_")
	if err != nil {
		return nil, errprocess.Set(fmt.Sprintf("create scratch dir failed : %v", err))
	}
	defer removeAll(workDir)

	spoolPath := filepath.Join(workDir, filepath.Base(up.FileName))
	spool, err := createFile(spoolPath)
	if err != nil {
		return nil, errprocess.Set(fmt.Sprintf("spool upload failed : %v", err))
	}
	if _, err := copyFile(spool, up.File); err != nil {
		spool.Close()
		return nil, errprocess.Set(fmt.Sprintf("spool upload failed : %v", err))
	}
	spool.Close()

	record := &domain.MediaRecord{
		ID:          mediaID,
		OwnerID:     up.OwnerID,
		Title:       up.Title,
		Description: up.Description,
		Tags:        up.Tags,
		FileName:    objectName,
		Status:      string(domain.MediaUploaded),
	}
	if err := s.MediaRepo.Create(ctx, record); err != nil {
		return nil, errprocess.Set(fmt.Sprintf("create media record failed : %v", err))
	}

	if err := s.MinioClient.UploadFile(ctx, objectName, spoolPath, "video/mp4"); err != nil {
		return nil, errprocess.Set(fmt.Sprintf("mediaId[%s] store original failed : %v", mediaID, err))
	}
	if err := s.MediaRepo.UpdateSource(ctx, mediaID, objectName, s.MinioClient.PublicURL(objectName)); err != nil {
		return nil, errprocess.Set(fmt.Sprintf("mediaId[%s] record source failed : %v", mediaID, err))
	}

	if err := s.publishFinalizeJob(mediaID, objectName); err != nil {
		return nil, errprocess.Set(fmt.Sprintf("mediaId[%s] queue finalize failed : %v", mediaID, err))
	}

	return &domain.UploadMediaRes{
		Message: "upload accepted, processing",
		MediaID: mediaID,
	}, nil
}

func (s *mediaUseCase) publishFinalizeJob(mediaID, objectName string) error {
	body, err := json.Marshal(domain.FinalizeJob{MediaID: mediaID, FileName: objectName})
	if err != nil {
		return err
	}
	return s.RabbitChannel.Publish("", domain.FinalizeQueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// GetMedia returns the record's public metadata plus a short-lived presigned
// playback URL for the original.
func (s *mediaUseCase) GetMedia(ctx context.Context, mediaID string) (*domain.GetMediaRes, error) {
	if mediaID == "" {
		return nil, errprocess.New(errprocess.CodeInvalidArgument, "mediaId is required")
	}

	record, err := s.MediaRepo.GetByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, errprocess.New(errprocess.CodeNotFound,
				fmt.Sprintf("mediaId[%s] does not exist", mediaID))
		}
		return nil, errprocess.Set(fmt.Sprintf("mediaId[%s] lookup failed : %v", mediaID, err))
	}

	playbackURL, err := s.MinioClient.PresignGetURL(ctx, record.FileName, playbackExpiry)
	if err != nil {
		return nil, errprocess.Set(fmt.Sprintf("mediaId[%s] presign playback failed : %v", mediaID, err))
	}

	return &domain.GetMediaRes{
		MediaID:         record.ID,
		Title:           record.Title,
		PosterURL:       record.PosterURL,
		PlaybackURL:     playbackURL,
		DurationSeconds: record.DurationSeconds,
	}, nil
}
