package token

import "folio_service/pkg/config"

// Function variables so usecase tests can swap the JWT handling out.
var (
	GenerateJWTFunc = GenerateJWT
	ParseJWTFunc    = ParseJWT
)

// GenerateJWTWrapper wraps GenerateJWT for test mocking
func GenerateJWTWrapper(accountID, plan string) (string, error) {
	return GenerateJWTFunc(accountID, plan, config.EnvConfig.MemberService)
}

// ParseJWTWrapper wraps ParseJWT for test mocking
func ParseJWTWrapper(t string) (*Claims, error) {
	return ParseJWTFunc(t)
}
