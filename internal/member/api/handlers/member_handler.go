package handlers

import (
	"time"

	"folio_service/internal/member/app"
	errprocess "folio_service/pkg/err"
	"folio_service/pkg/logger"
	"folio_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// MemberHandler member service http handlers
type MemberHandler struct {
	usecase app.MemberUseCase
}

// NewMemberHandler create MemberHandler
func NewMemberHandler(usecase app.MemberUseCase) *MemberHandler {
	return &MemberHandler{usecase: usecase}
}

// Register create a new account
// @Summary Register a new account
// @Description Creates an account on the free plan
// @Tags Members
// @Accept json
// @Produce json
// @Param request body object true "email, password and display name"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /member/register [post]
func (h *MemberHandler) Register(c *fiber.Ctx) error {
	type request struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	logger.Log.Debug("Register request", zap.String("email", req.Email))

	if err := h.usecase.Register(c.UserContext(), req.Email, req.Password, req.DisplayName); err != nil {
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "register success"})
}

// Login sign in and receive a token
// @Summary Log in with email and password
// @Description Issues a JWT carrying the account's active subscription plan
// @Tags Members
// @Accept json
// @Produce json
// @Param request body object true "email and password"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /member/login [post]
func (h *MemberHandler) Login(c *fiber.Ctx) error {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	logger.Log.Debug("Login", zap.String("Email", req.Email))

	t, err := h.usecase.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middlewares.CookieToken,
		Value:    t,
		Expires:  time.Now().Add(time.Hour),
		HTTPOnly: true,
	})

	return c.JSON(fiber.Map{"token": t, "message": "login success"})
}

// Logout end the session
// @Summary Log out
// @Tags Members
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /member/logout [post]
func (h *MemberHandler) Logout(c *fiber.Ctx) error {
	t := c.Query(middlewares.QueryToken)
	if t == "" {
		t = c.Cookies(middlewares.CookieToken)
	}

	if err := h.usecase.Logout(c.UserContext(), t); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.ClearCookie(middlewares.CookieToken)
	return c.JSON(fiber.Map{"message": "logout success"})
}

// Subscribe upgrade to the pro plan
// @Summary Subscribe to the pro plan
// @Description Upgrades the verified account and returns a fresh token carrying the new plan
// @Tags Members
// @Accept json
// @Produce json
// @Param request body object true "months"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /member/subscribe [post]
func (h *MemberHandler) Subscribe(c *fiber.Ctx) error {
	type request struct {
		Months int `json:"months"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	memberID, _ := c.Locals(middlewares.TokenAccountID).(string)

	t, err := h.usecase.Subscribe(c.UserContext(), memberID, req.Months)
	if err != nil {
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middlewares.CookieToken,
		Value:    t,
		Expires:  time.Now().Add(time.Hour),
		HTTPOnly: true,
	})

	return c.JSON(fiber.Map{"token": t, "message": "subscribe success"})
}
