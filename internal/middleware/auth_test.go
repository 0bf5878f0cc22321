package middleware

import (
	"Drive/internal/config"
	"Drive/internal/services"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestApp() *fiber.App {
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Configuration{Auth: config.AuthConfig{Secret: testSecret, Issuer: "accounts"}}
	auth := NewAuthMiddleware(cfg, services.LogService{Log: log})

	app := fiber.New()
	app.Get("/whoami", auth.RequireAuth, func(c *fiber.Ctx) error {
		return c.SendString(Actor(c))
	})
	return app
}

func signToken(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestRequireAuth(t *testing.T) {
	app := newTestApp()
	valid := jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "accounts",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	foreign := valid
	foreign.Issuer = "elsewhere"
	anonymous := valid
	anonymous.Subject = ""

	tests := []struct {
		name         string
		header       string
		expectedCode int
		expectedBody string
	}{
		{name: "valid token", header: "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, valid), expectedCode: http.StatusOK, expectedBody: "user-1"},
		{name: "missing header", header: "", expectedCode: http.StatusUnauthorized},
		{name: "not a bearer token", header: "Basic dXNlcjpwYXNz", expectedCode: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + signToken(t, jwt.SigningMethodHS256, "other", valid), expectedCode: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, expired), expectedCode: http.StatusUnauthorized},
		{name: "wrong issuer", header: "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, foreign), expectedCode: http.StatusUnauthorized},
		{name: "no subject", header: "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, anonymous), expectedCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCode, resp.StatusCode)
			if tt.expectedBody != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, tt.expectedBody, string(body))
			}
		})
	}
}
