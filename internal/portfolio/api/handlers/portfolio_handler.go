package handlers

import (
	"strconv"

	"folio_service/internal/portfolio/app"
	"folio_service/internal/portfolio/domain"
	errprocess "folio_service/pkg/err"
	"folio_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// PortfolioHandler portfolio service http handlers
type PortfolioHandler struct {
	usecase app.PortfolioUseCase
}

// NewPortfolioHandler create PortfolioHandler
func NewPortfolioHandler(usecase app.PortfolioUseCase) *PortfolioHandler {
	return &PortfolioHandler{usecase: usecase}
}

// UpsertProfile save the caller's portfolio page
// @Summary Create or update the caller's profile
// @Tags Portfolio
// @Accept json
// @Produce json
// @Param request body domain.Profile true "profile fields"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /portfolio/profile [put]
func (h *PortfolioHandler) UpsertProfile(c *fiber.Ctx) error {
	var profile domain.Profile
	if err := c.BodyParser(&profile); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	// Identity always comes from the token, never from the payload.
	profile.MemberID, _ = c.Locals(middlewares.TokenAccountID).(string)

	if err := h.usecase.UpsertProfile(c.UserContext(), &profile); err != nil {
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "profile saved"})
}

// GetProfile get one public portfolio page
// @Summary Get a member's profile
// @Tags Portfolio
// @Produce json
// @Param id path string true "member id"
// @Success 200 {object} domain.Profile
// @Failure 404 {object} map[string]string
// @Router /portfolio/profile/{id} [get]
func (h *PortfolioHandler) GetProfile(c *fiber.Ctx) error {
	profile, err := h.usecase.GetProfile(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(profile)
}

// SearchProfiles keyword search over portfolio pages
// @Summary Search profiles
// @Tags Portfolio
// @Produce json
// @Param q query string true "keyword"
// @Success 200 {array} domain.Profile
// @Router /portfolio/search [get]
func (h *PortfolioHandler) SearchProfiles(c *fiber.Ctx) error {
	profiles, err := h.usecase.SearchProfiles(c.UserContext(), c.Query("q"))
	if err != nil {
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(profiles)
}

// AddCredit append a production credit
// @Summary Add a production credit to the caller's resume
// @Tags Portfolio
// @Accept json
// @Produce json
// @Param request body domain.Credit true "credit fields"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /portfolio/credits [post]
func (h *PortfolioHandler) AddCredit(c *fiber.Ctx) error {
	var credit domain.Credit
	if err := c.BodyParser(&credit); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	credit.MemberID, _ = c.Locals(middlewares.TokenAccountID).(string)

	if err := h.usecase.AddCredit(c.UserContext(), &credit); err != nil {
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "credit added"})
}

// ListCredits list a member's credits
// @Summary List a member's production credits
// @Tags Portfolio
// @Produce json
// @Param id path string true "member id"
// @Success 200 {array} domain.Credit
// @Router /portfolio/credits/{id} [get]
func (h *PortfolioHandler) ListCredits(c *fiber.Ctx) error {
	credits, err := h.usecase.ListCredits(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(credits)
}

// DeleteCredit remove one of the caller's credits
// @Summary Delete one of the caller's credits
// @Tags Portfolio
// @Produce json
// @Param id path int true "credit id"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /portfolio/credits/{id} [delete]
func (h *PortfolioHandler) DeleteCredit(c *fiber.Ctx) error {
	creditID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid credit id"})
	}

	memberID, _ := c.Locals(middlewares.TokenAccountID).(string)

	if err := h.usecase.DeleteCredit(c.UserContext(), memberID, uint(creditID)); err != nil {
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "credit deleted"})
}

// SearchMedia keyword search over ready videos
// @Summary Search portfolio videos
// @Tags Portfolio
// @Produce json
// @Param q query string true "keyword"
// @Success 200 {array} object
// @Router /portfolio/media/search [get]
func (h *PortfolioHandler) SearchMedia(c *fiber.Ctx) error {
	records, err := h.usecase.SearchMedia(c.UserContext(), c.Query("q"))
	if err != nil {
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(records)
}

// RecommendMedia most viewed videos
// @Summary Recommend portfolio videos by view count
// @Tags Portfolio
// @Produce json
// @Param limit query int false "max results"
// @Success 200 {array} object
// @Router /portfolio/media/recommend [get]
func (h *PortfolioHandler) RecommendMedia(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	records, err := h.usecase.RecommendMedia(c.UserContext(), limit)
	if err != nil {
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(records)
}

// RecordView count one view of a video
// @Summary Record a view of a portfolio video
// @Tags Portfolio
// @Produce json
// @Param id path string true "media record id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /portfolio/media/{id}/view [post]
func (h *PortfolioHandler) RecordView(c *fiber.Ctx) error {
	viewerID, _ := c.Locals(middlewares.TokenAccountID).(string)

	if err := h.usecase.RecordView(c.UserContext(), c.Params("id"), viewerID); err != nil {
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "view recorded"})
}
