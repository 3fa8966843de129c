package handler_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/club-service/internal/auth/handler"
	"github.com/campushub/club-service/internal/auth/service"
	"github.com/campushub/club-service/internal/mocks"
	"github.com/campushub/club-service/internal/security"
)

// TestRegisterRoutes verifies that every route is mounted; anything mounted
// answers with something other than 404/405.
func TestRegisterRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mocks.NewMockUserRepository(ctrl)
	refresh := mocks.NewMockRefreshTokenRepository(ctrl)
	tokens := mocks.NewMockTokenIssuer(ctrl)

	userService := service.NewUserService(users, refresh, tokens, nil)
	authHandler := handler.NewAuthHandler(userService, tokens)
	limiter := security.NewRateLimiter(nil)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler, limiter)

	testCases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/register"},
		{http.MethodPost, "/api/v1/login"},
		{http.MethodPost, "/api/v1/refresh"},
		{http.MethodDelete, "/api/v1/session"},
		{http.MethodGet, "/api/v1/session"},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s_%s_exists", tc.method, tc.path), func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.NotEqual(t, http.StatusNotFound, resp.StatusCode)
			assert.NotEqual(t, http.StatusMethodNotAllowed, resp.StatusCode)
		})
	}
}

// Every route sits behind the limiter, including those without a dedicated
// category: a flood against the refresh endpoint must hit the default
// threshold and get throttled.
func TestRegisterRoutes_UnclassifiedRoutesAreRateLimited(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mocks.NewMockUserRepository(ctrl)
	refresh := mocks.NewMockRefreshTokenRepository(ctrl)
	tokens := mocks.NewMockTokenIssuer(ctrl)

	userService := service.NewUserService(users, refresh, tokens, nil)
	authHandler := handler.NewAuthHandler(userService, tokens)
	limiter := security.NewRateLimiterWithLimits(nil, security.DefaultLimits,
		security.LimitConfig{MaxRequests: 1, Window: time.Minute})

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler, limiter)

	refresh.EXPECT().GetByToken(gomock.Any(), "bad").Return(nil, nil)

	newRefreshRequest := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/refresh",
			bytes.NewReader([]byte(`{"refresh_token":"bad"}`)))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		return req
	}

	resp, err := app.Test(newRefreshRequest())
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(newRefreshRequest())
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))
}
