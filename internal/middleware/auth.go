package middleware

import (
	"Drive/internal/config"
	"Drive/internal/services"
	"errors"
	"fmt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"strings"
)

const actorKey = "actor"

// AuthMiddleware resolves the acting user from a bearer token issued by the
// external identity provider. Only the subject claim is used.
type AuthMiddleware struct {
	secret     []byte
	issuer     string
	logService services.LogService
}

func NewAuthMiddleware(configuration *config.Configuration, logService services.LogService) *AuthMiddleware {
	return &AuthMiddleware{
		secret:     []byte(configuration.Auth.Secret),
		issuer:     configuration.Auth.Issuer,
		logService: logService,
	}
}

func (a *AuthMiddleware) RequireAuth(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return a.reject(c, "missing authorization header", nil)
	}

	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
	if tokenString == authHeader || tokenString == "" {
		return a.reject(c, "invalid authorization format", nil)
	}

	subject, err := a.ValidateToken(tokenString)
	if err != nil {
		return a.reject(c, "invalid or expired token", err)
	}

	c.Locals(actorKey, subject)
	return c.Next()
}

// ValidateToken checks the signature and registered claims and returns the
// subject.
func (a *AuthMiddleware) ValidateToken(tokenString string) (string, error) {
	if len(a.secret) == 0 {
		return "", errors.New("no signing secret configured")
	}
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if a.issuer != "" {
		options = append(options, jwt.WithIssuer(a.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return a.secret, nil
	}, options...)
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

func (a *AuthMiddleware) reject(c *fiber.Ctx, message string, err error) error {
	fields := logrus.Fields{
		"ip":   c.IP(),
		"path": c.Path(),
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	a.logService.Log.WithFields(fields).Warn(message)
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": message})
}

// Actor returns the user resolved by RequireAuth, or "" on unauthenticated
// routes.
func Actor(c *fiber.Ctx) string {
	actor, _ := c.Locals(actorKey).(string)
	return actor
}
