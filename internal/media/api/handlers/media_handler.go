package handlers

import (
	"strings"

	"folio_service/internal/media/app"
	"folio_service/internal/media/domain"
	"folio_service/pkg"
	errprocess "folio_service/pkg/err"
	"folio_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// MediaHandler media service http handlers
type MediaHandler struct {
	usecase app.MediaUseCase
}

// NewMediaHandler create MediaHandler
func NewMediaHandler(usecase app.MediaUseCase) *MediaHandler {
	return &MediaHandler{usecase: usecase}
}

type extractThumbnailBody struct {
	TimestampSeconds float64 `json:"timestampSeconds"`
	CallerID         string  `json:"callerId"`
	QualityTier      string  `json:"qualityTier"`
}

// ExtractThumbnail handles thumbnail extraction
// @Summary Extract a thumbnail frame from an uploaded video
// @Description Renders one frame at the requested timestamp, publishes it and sets it as the record's poster. Processing failures come back as 200 with success=false.
// @Tags media
// @Accept json
// @Produce json
// @Param id path string true "media record id"
// @Param request body extractThumbnailBody true "timestamp, caller id and optional quality tier"
// @Success 200 {object} domain.ExtractThumbnailRes
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /media/{id}/thumbnail [post]
func (h *MediaHandler) ExtractThumbnail(c *fiber.Ctx) error {
	var body extractThumbnailBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	verifiedCallerID, _ := c.Locals(middlewares.TokenAccountID).(string)

	res, err := h.usecase.ExtractThumbnail(c.UserContext(), verifiedCallerID, domain.ExtractThumbnailReq{
		RecordID:         c.Params("id"),
		TimestampSeconds: body.TimestampSeconds,
		CallerID:         body.CallerID,
		QualityTier:      body.QualityTier,
	})
	if err != nil {
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(res)
}

// UploadMedia handles video upload
// @Summary Upload a video
// @Description Stores the original, creates the media record and queues finalize processing.
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "title"
// @Param description formData string false "description"
// @Param tags formData string false "comma separated tags"
// @Param video formData file true "video file"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /media/upload [post]
func (h *MediaHandler) UploadMedia(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("video")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "video file is required"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unreadable video file"})
	}
	defer file.Close()

	ownerID, _ := c.Locals(middlewares.TokenAccountID).(string)

	var tags []string
	if raw := c.FormValue("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" && !pkg.Contains(tags, tag) {
				tags = append(tags, tag)
			}
		}
	}

	res, err := h.usecase.UploadMedia(c.UserContext(), domain.UploadMediaReq{
		OwnerID:     ownerID,
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Tags:        tags,
		FileName:    fileHeader.Filename,
		File:        file,
	})
	if err != nil {
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":  res.Message,
		"media_id": res.MediaID,
	})
}

// GetMedia handles playback lookup
// @Summary Get one media record with a presigned playback URL
// @Tags media
// @Produce json
// @Param id path string true "media record id"
// @Success 200 {object} domain.GetMediaRes
// @Failure 404 {object} map[string]string
// @Router /media/{id} [get]
func (h *MediaHandler) GetMedia(c *fiber.Ctx) error {
	res, err := h.usecase.GetMedia(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(res)
}
