package app

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"folio_service/internal/media/domain"
	"folio_service/pkg/logger"

	"github.com/streadway/amqp"
)

// FinalizeWorker consumes finalize jobs queued at upload time and promotes
// records to ready.
type FinalizeWorker struct {
	usecase *mediaUseCase
}

// NewFinalizeWorker create a FinalizeWorker sharing the usecase's clients
func NewFinalizeWorker(uc MediaUseCase) (*FinalizeWorker, error) {
	impl, ok := uc.(*mediaUseCase)
	if !ok {
		return nil, fmt.Errorf("unsupported MediaUseCase implementation %T", uc)
	}
	return &FinalizeWorker{usecase: impl}, nil
}

// Run declares the finalize queue and consumes it until the channel closes.
// Malformed payloads are dropped; transient failures are requeued.
func (w *FinalizeWorker) Run(ctx context.Context) error {
	ch := w.usecase.RabbitChannel.GetRabbit()

	queue, err := ch.QueueDeclare(domain.FinalizeQueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue[%s] failed : %w", domain.FinalizeQueueName, err)
	}

	msgs, err := ch.Consume(queue.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume queue[%s] failed : %w", queue.Name, err)
	}

	logger.Log.Infof("finalize worker consuming queue :", queue.Name)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("queue[%s] delivery channel closed", queue.Name)
			}
			w.handle(ctx, msg)
		}
	}
}

func (w *FinalizeWorker) handle(ctx context.Context, msg amqp.Delivery) {
	var job domain.FinalizeJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		logger.Log.Errorf("finalize job unmarshal failed, dropping :", err)
		msg.Nack(false, false)
		return
	}

	if err := w.usecase.finalizeMedia(ctx, job); err != nil {
		logger.Log.Errorf(fmt.Sprintf("mediaId[%s] finalize failed, requeueing :", job.MediaID), err)
		msg.Nack(false, true)
		return
	}
	msg.Ack(false)
}

// finalizeMedia probes the original's duration, renders the default poster
// from the first frame at the high tier, and flips the record to ready.
func (s *mediaUseCase) finalizeMedia(ctx context.Context, job domain.FinalizeJob) error {
	if err := s.MediaRepo.UpdateStatus(ctx, job.MediaID, domain.MediaProcessing); err != nil {
		return fmt.Errorf("mark processing failed : %w", err)
	}

	if err := createDir(tmpRoot); err != nil {
		return fmt.Errorf("create scratch root failed : %w", err)
	}
	workDir, err := createScratchDir(tmpRoot, "finalize_"+job.MediaID+"_")
	if err != nil {
		return fmt.Errorf("create scratch dir failed : %w", err)
	}
	defer func() {
		if err := removeAll(workDir); err != nil {
			logger.Log.Errorf(fmt.Sprintf("mediaId[%s] scratch cleanup failed :", job.MediaID), err)
		}
	}()

	sourcePath := filepath.Join(workDir, "source.mp4")
	if err := s.MinioClient.DownloadFile(ctx, job.FileName, sourcePath); err != nil {
		return fmt.Errorf("fetch original failed : %w", err)
	}

	duration, err := probeDuration(sourcePath)
	if err != nil {
		return fmt.Errorf("probe duration failed : %w", err)
	}

	posterPath := filepath.Join(workDir, "poster.jpg")
	if err := extractFrame(sourcePath, posterPath, 0, domain.TierHigh.Profile()); err != nil {
		return fmt.Errorf("default poster decode failed : %w", err)
	}

	objectName := fmt.Sprintf("thumbnails/%s/thumb_0_%s.jpg", job.MediaID, newNonce())
	if err := s.MinioClient.UploadImmutable(ctx, objectName, posterPath, "image/jpeg"); err != nil {
		return fmt.Errorf("store default poster failed : %w", err)
	}

	if err := s.MediaRepo.FinalizeReady(ctx, job.MediaID, duration, s.MinioClient.PublicURL(objectName)); err != nil {
		return fmt.Errorf("mark ready failed : %w", err)
	}

	logger.Log.Info(fmt.Sprintf("mediaId[%s] finalized, duration %.2fs", job.MediaID, duration))
	return nil
}
