package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 20, 0},
		{"?limit=5&offset=10", 5, 10},
		{"?limit=0", 20, 0},
		{"?limit=-3&offset=-1", 20, 0},
		{"?limit=1000", maxPaginationLimit, 0},
		{"?limit=abc", 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			app := fiber.New()
			var got Pagination
			app.Get("/", func(c *fiber.Ctx) error {
				got = parsePagination(c, 20)
				return nil
			})
			_, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil))
			require.NoError(t, err)
			assert.Equal(t, Pagination{Limit: tt.wantLimit, Offset: tt.wantOffset}, got)
		})
	}
}

func TestHumanizeParam(t *testing.T) {
	assert.Equal(t, "ID", humanizeParam("id"))
	assert.Equal(t, "room ID", humanizeParam("roomId"))
	assert.Equal(t, "chat room ID", humanizeParam("chatRoomId"))
	assert.Equal(t, "username", humanizeParam("username"))
}

func TestRedirectTarget(t *testing.T) {
	tests := []struct {
		name    string
		next    string
		referer string
		want    string
	}{
		{"next wins", "/offers", "/requests", "/offers"},
		{"referer", "", "/requests", "/requests"},
		{"feed", "", "", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			var got string
			app.Get("/", func(c *fiber.Ctx) error {
				got = redirectTarget(c, tt.next)
				return nil
			})
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			_, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
