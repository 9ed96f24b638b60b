package domain

import (
	"fmt"
	"io"
	"time"

	errprocess "folio_service/pkg/err"
)

// MediaStatus definition media record status
type MediaStatus string

const (
	// MediaUploaded original bytes stored, not yet finalized
	MediaUploaded MediaStatus = "uploaded"
	// MediaProcessing finalize worker is running
	MediaProcessing MediaStatus = "processing"
	// MediaReady duration probed and default poster published
	MediaReady MediaStatus = "ready"
)

// FinalizeQueueName queue for upload finalize jobs
const FinalizeQueueName = "media.finalize"

// MediaRecord is the persisted document describing one uploaded video.
// The extraction pipeline mutates only PosterURL and UpdatedAt.
type MediaRecord struct {
	ID              string    `bson:"_id"`
	OwnerID         string    `bson:"owner_id"`
	Title           string    `bson:"title"`
	Description     string    `bson:"description,omitempty"`
	Tags            []string  `bson:"tags,omitempty"`
	FileName        string    `bson:"file_name"` // object key of the original in MinIO
	SourceURL       string    `bson:"source_url,omitempty"`
	DurationSeconds *float64  `bson:"duration_seconds,omitempty"`
	PosterURL       string    `bson:"poster_url,omitempty"`
	Status          string    `bson:"status"`
	ViewCount       uint      `bson:"view_count"`
	CreatedAt       time.Time `bson:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at"`
}

// QualityTier selects the target resolution and compression of an
// extracted frame.
type QualityTier string

const (
	// TierHigh 1280x720, low-loss compression
	TierHigh QualityTier = "high"
	// TierMedium 854x480, moderate compression
	TierMedium QualityTier = "medium"
	// TierLow 640x360, high compression
	TierLow QualityTier = "low"
)

// TierProfile fixed output parameters of a quality tier
type TierProfile struct {
	Width       int
	Height      int
	JPEGQuality int // ffmpeg -q:v scale, lower is better
}

var tierProfiles = map[QualityTier]TierProfile{
	TierHigh:   {Width: 1280, Height: 720, JPEGQuality: 2},
	TierMedium: {Width: 854, Height: 480, JPEGQuality: 5},
	TierLow:    {Width: 640, Height: 360, JPEGQuality: 8},
}

// Profile returns the fixed output parameters of the tier.
func (q QualityTier) Profile() TierProfile {
	return tierProfiles[q]
}

// ParseTier validates the tier name; empty defaults to high.
func ParseTier(s string) (QualityTier, error) {
	if s == "" {
		return TierHigh, nil
	}
	q := QualityTier(s)
	if _, ok := tierProfiles[q]; !ok {
		return "", errprocess.New(errprocess.CodeInvalidArgument,
			fmt.Sprintf("unknown quality tier %q", s))
	}
	return q, nil
}

// ValidateTimestamp rejects timestamps outside [0, duration]. When the
// duration is unknown any non-negative timestamp is accepted.
func ValidateTimestamp(timestampSeconds float64, durationSeconds *float64) error {
	if timestampSeconds < 0 {
		return errprocess.New(errprocess.CodeInvalidArgument,
			fmt.Sprintf("timestampSeconds[%v] must be >= 0", timestampSeconds))
	}
	if durationSeconds != nil && timestampSeconds > *durationSeconds {
		return errprocess.New(errprocess.CodeInvalidArgument,
			fmt.Sprintf("timestampSeconds[%v] exceeds duration[%v]", timestampSeconds, *durationSeconds))
	}
	return nil
}

// ExtractThumbnailReq usecase extract thumbnail request
type ExtractThumbnailReq struct {
	RecordID         string  `json:"recordId"`
	TimestampSeconds float64 `json:"timestampSeconds"`
	CallerID         string  `json:"callerId"`
	QualityTier      string  `json:"qualityTier"`
}

// ExtractThumbnailRes usecase extract thumbnail response
type ExtractThumbnailRes struct {
	Success          bool   `json:"success"`
	ThumbnailURL     string `json:"thumbnailUrl,omitempty"`
	Error            string `json:"error,omitempty"`
	ProcessingTimeMs int64  `json:"processingTimeMs"`
}

// UploadMediaReq usecase upload media request
type UploadMediaReq struct {
	OwnerID     string
	Title       string
	Description string
	Tags        []string
	FileName    string
	File        io.Reader
}

// UploadMediaRes usecase upload media response
type UploadMediaRes struct {
	Message string
	MediaID string
}

// GetMediaRes usecase get media response
type GetMediaRes struct {
	MediaID         string   `json:"mediaId"`
	Title           string   `json:"title"`
	PosterURL       string   `json:"posterUrl,omitempty"`
	PlaybackURL     string   `json:"playbackUrl"`
	DurationSeconds *float64 `json:"durationSeconds,omitempty"`
}

// FinalizeJob message published to the finalize queue after upload
type FinalizeJob struct {
	MediaID  string `json:"media_id"`
	FileName string `json:"file_name"`
}
