package middlewares

import (
	t_token "folio_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	//QueryToken token in query name
	QueryToken = "auth"

	//CookieToken token in cookie name
	CookieToken = "auth_token"

	//TokenAccountID get account id from token, set c.locals name
	TokenAccountID = "AccountID"
	//TokenPlan get subscription plan from token, set c.locals name
	TokenPlan = "plan"
)

// JWTMiddleware validates the JWT and stores the verified caller identity
// in Locals; downstream handlers never trust identity fields in the payload.
func JWTMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Query(QueryToken)

		if tokenStr == "" {
			tokenStr = c.Cookies(CookieToken)
		}

		// Bearer header as the last fallback.
		if auth := c.Get(fiber.HeaderAuthorization); tokenStr == "" && auth != "" {
			notExpired, err := t_token.CheckJWTNotExpire(auth)
			if err != nil || !notExpired {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid token",
				})
			}
			tokenStr = auth[len("Bearer "):]
		}

		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing token",
			})
		}

		token, err := jwt.ParseWithClaims(tokenStr, &t_token.Claims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Unexpected signing method")
			}
			return t_token.JWTSecret, nil
		})

		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		if claims, ok := token.Claims.(*t_token.Claims); ok && token.Valid {
			c.Locals(TokenAccountID, claims.AccountID)
			c.Locals(TokenPlan, claims.Plan)
		} else {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token claims",
			})
		}

		return c.Next()
	}
}

// RequirePlan gates a route on the subscription plan carried in the token.
func RequirePlan(plan t_token.PlanType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals(TokenPlan) != string(plan) {
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"error": "Subscription required",
			})
		}
		return c.Next()
	}
}
