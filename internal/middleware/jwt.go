package middleware

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/flashmind-analytics-api/internal/quizsource"
	"github.com/noah-isme/flashmind-analytics-api/internal/utils"
)

var (
	errMissingAuthorization = errors.New("authorization header missing")
	errMalformedBearer      = errors.New("invalid authorization header")
)

// Claim names the quiz backend has used for the caller id and role.
var (
	userIDClaims = []string{"user_id", "userId", "id", "sub"}
	roleClaims   = []string{"role", "roles", "authorities"}
)

// caller is the authenticated principal carried by a quiz backend token.
type caller struct {
	id   uint
	role string
}

// JWTProtected validates the bearer token issued by the quiz backend. The
// caller's id and role become fiber locals; the raw token and id are put on the
// user context so quiz backend calls are made on the caller's behalf.
func JWTProtected(secret string) fiber.Handler {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
	)
	keyFunc := func(*jwt.Token) (interface{}, error) { return []byte(secret), nil }

	return func(c *fiber.Ctx) error {
		raw, err := bearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
		}

		claims := jwt.MapClaims{}
		if _, err := parser.ParseWithClaims(raw, claims, keyFunc); err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		who := callerFromClaims(claims)
		ctx := quizsource.WithBearerToken(c.UserContext(), raw)
		if who.id != 0 {
			c.Locals("user_id", who.id)
			ctx = quizsource.WithProfessorID(ctx, who.id)
		}
		if who.role != "" {
			c.Locals("user_role", who.role)
		}
		c.Locals("bearer_token", raw)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errMissingAuthorization
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", errMalformedBearer
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errMalformedBearer
	}
	return token, nil
}

func callerFromClaims(claims jwt.MapClaims) caller {
	var who caller
	for _, key := range userIDClaims {
		if id, ok := claimUserID(claims[key]); ok {
			who.id = id
			break
		}
	}
	for _, key := range roleClaims {
		if role := claimRole(claims[key]); role != "" {
			who.role = role
			break
		}
	}
	return who
}

func claimUserID(value interface{}) (uint, bool) {
	switch v := value.(type) {
	case float64:
		if v <= 0 || v != float64(uint(v)) {
			return 0, false
		}
		return uint(v), true
	case string:
		parsed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil || parsed == 0 {
			return 0, false
		}
		return uint(parsed), true
	}
	return 0, false
}

// claimRole reads a role claim, either a single string or the first usable
// entry of a list. Spring-style "ROLE_" prefixes are dropped.
func claimRole(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(v)), "role_")
	case []interface{}:
		for _, item := range v {
			if role := claimRole(item); role != "" {
				return role
			}
		}
	}
	return ""
}
