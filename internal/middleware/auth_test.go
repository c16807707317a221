package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(testSecret, 42, time.Hour)
	require.NoError(t, err)

	userID, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestParseToken_Rejections(t *testing.T) {
	sign := func(claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return s
	}
	valid := func() jwt.MapClaims {
		return jwt.MapClaims{
			"sub": strconv.Itoa(7),
			"iss": TokenIssuer,
			"aud": TokenAudience,
			"exp": time.Now().Add(time.Hour).Unix(),
		}
	}

	expired, _ := GenerateToken(testSecret, 7, -time.Hour)
	otherSecret, _ := GenerateToken("another-secret-another-secret-another", 7, time.Hour)

	wrongIssuer := valid()
	wrongIssuer["iss"] = "someone-else"
	wrongAudience := valid()
	wrongAudience["aud"] = "someone-else"
	noExpiry := valid()
	delete(noExpiry, "exp")
	badSubject := valid()
	badSubject["sub"] = "alice"
	zeroSubject := valid()
	zeroSubject["sub"] = "0"

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrMissingToken},
		{"malformed", "malformed.token.here", ErrInvalidToken},
		{"expired", expired, ErrInvalidToken},
		{"wrong secret", otherSecret, ErrInvalidToken},
		{"wrong issuer", sign(wrongIssuer), ErrInvalidToken},
		{"wrong audience", sign(wrongAudience), ErrInvalidToken},
		{"no expiry", sign(noExpiry), ErrInvalidToken},
		{"non numeric subject", sign(badSubject), ErrInvalidClaims},
		{"zero subject", sign(zeroSubject), ErrInvalidClaims},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(testSecret, tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBearerToken(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(BearerToken(c))
	})

	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def", "abc.def"},
		{"", ""},
		{"Basic dXNlcjpwYXNz", ""},
		{"Bearer", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		buf := make([]byte, 64)
		n, _ := resp.Body.Read(buf)
		assert.Equal(t, tt.want, string(buf[:n]), tt.header)
	}
}
