package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushub/club-service/internal/auth/domain"
	"github.com/campushub/club-service/internal/auth/dto"
	"github.com/campushub/club-service/internal/auth/handler"
	"github.com/campushub/club-service/internal/auth/service"
	autherror "github.com/campushub/club-service/internal/errors"
	"github.com/campushub/club-service/internal/mocks"
)

type handlerFixture struct {
	users   *mocks.MockUserRepository
	refresh *mocks.MockRefreshTokenRepository
	tokens  *mocks.MockTokenIssuer
	app     *fiber.App
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	users := mocks.NewMockUserRepository(ctrl)
	refresh := mocks.NewMockRefreshTokenRepository(ctrl)
	tokens := mocks.NewMockTokenIssuer(ctrl)

	userService := service.NewUserService(users, refresh, tokens, nil)
	h := handler.NewAuthHandler(userService, tokens)

	app := fiber.New()
	app.Post("/register", h.Register)
	app.Post("/login", h.Login)
	app.Post("/refresh", h.Refresh)
	app.Delete("/session", h.Logout)

	return &handlerFixture{users: users, refresh: refresh, tokens: tokens, app: app}
}

func postJSON(t *testing.T, app *fiber.App, method, target string, body any) ([]byte, int) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return raw, resp.StatusCode
}

func TestRegisterHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newHandlerFixture(t)

		input := dto.RegisterInput{
			Identifier: "87654321",
			Email:      "student@example.ac.id",
			Password:   "Password1",
			UserType:   "student",
		}

		f.users.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(nil, nil)
		f.users.EXPECT().GetByIdentifier(gomock.Any(), input.Identifier).Return(nil, nil)
		f.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		raw, status := postJSON(t, f.app, "POST", "/register", input)

		assert.Equal(t, fiber.StatusCreated, status)

		var out dto.UserOutput
		require.NoError(t, json.Unmarshal(raw, &out))
		assert.Equal(t, input.Identifier, out.Identifier)
		assert.Equal(t, "student", out.UserType)
	})

	t.Run("malformed body", func(t *testing.T) {
		f := newHandlerFixture(t)

		req := httptest.NewRequest("POST", "/register", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")

		resp, err := f.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("validation failure lists all fields", func(t *testing.T) {
		f := newHandlerFixture(t)

		input := dto.RegisterInput{
			Identifier: "123",
			Email:      "not-an-email",
			Password:   "weak",
			UserType:   "student",
		}

		raw, status := postJSON(t, f.app, "POST", "/register", input)

		assert.Equal(t, fiber.StatusBadRequest, status)

		var body struct {
			Fields []string `json:"fields"`
		}
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.GreaterOrEqual(t, len(body.Fields), 3)
	})

	t.Run("email conflict", func(t *testing.T) {
		f := newHandlerFixture(t)

		input := dto.RegisterInput{
			Identifier: "87654321",
			Email:      "student@example.ac.id",
			Password:   "Password1",
			UserType:   "student",
		}

		f.users.EXPECT().GetByEmail(gomock.Any(), input.Email).
			Return(&domain.User{ID: 1, Email: input.Email}, nil)

		_, status := postJSON(t, f.app, "POST", "/register", input)
		assert.Equal(t, fiber.StatusConflict, status)
	})
}

func TestLoginHandler(t *testing.T) {
	t.Run("success returns token pair", func(t *testing.T) {
		f := newHandlerFixture(t)

		hash, err := bcrypt.GenerateFromPassword([]byte("Password1"), bcrypt.MinCost)
		require.NoError(t, err)

		user := &domain.User{ID: 42, Identifier: "87654321", UserType: domain.UserTypeStudent, PasswordHash: string(hash)}

		f.users.EXPECT().GetByIdentifier(gomock.Any(), user.Identifier).Return(user, nil)
		f.tokens.EXPECT().IssueRefreshToken(gomock.Any(), user.ID, user.UserType).
			Return(&domain.RefreshToken{Token: "refresh-value"}, nil)
		f.tokens.EXPECT().IssueAccessToken(user.ID, user.UserType, user.Identifier).
			Return("access-value", nil)

		raw, status := postJSON(t, f.app, "POST", "/login", dto.LoginInput{
			Identifier: user.Identifier,
			Password:   "Password1",
		})

		assert.Equal(t, fiber.StatusOK, status)

		var out dto.TokenResponse
		require.NoError(t, json.Unmarshal(raw, &out))
		assert.Equal(t, "access-value", out.AccessToken)
		assert.Equal(t, "refresh-value", out.RefreshToken)
	})

	t.Run("failure is generic", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.users.EXPECT().GetByIdentifier(gomock.Any(), "00000000").Return(nil, nil)

		raw, status := postJSON(t, f.app, "POST", "/login", dto.LoginInput{
			Identifier: "00000000",
			Password:   "Password1",
		})

		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Contains(t, string(raw), autherror.ErrInvalidCredentials.Error())
	})

	t.Run("storage failure stays opaque", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.users.EXPECT().GetByIdentifier(gomock.Any(), "87654321").
			Return(nil, errors.New("connection refused"))

		raw, status := postJSON(t, f.app, "POST", "/login", dto.LoginInput{
			Identifier: "87654321",
			Password:   "Password1",
		})

		assert.Equal(t, fiber.StatusInternalServerError, status)
		assert.NotContains(t, string(raw), "connection refused")
	})
}

func TestRefreshHandler(t *testing.T) {
	t.Run("success rotates the pair", func(t *testing.T) {
		f := newHandlerFixture(t)

		stored := &domain.RefreshToken{
			UserID:    42,
			UserType:  domain.UserTypeStudent,
			Token:     "old-refresh",
			ExpiresAt: time.Now().Add(time.Hour),
		}
		user := &domain.User{ID: 42, Identifier: "87654321", UserType: domain.UserTypeStudent}

		f.refresh.EXPECT().GetByToken(gomock.Any(), "old-refresh").Return(stored, nil)
		f.users.EXPECT().GetByID(gomock.Any(), 42).Return(user, nil)
		f.tokens.EXPECT().RevokeRefreshToken(gomock.Any(), "old-refresh", "rotated").Return(nil)
		f.tokens.EXPECT().IssueRefreshToken(gomock.Any(), 42, domain.UserTypeStudent).
			Return(&domain.RefreshToken{Token: "new-refresh"}, nil)
		f.tokens.EXPECT().IssueAccessToken(42, domain.UserTypeStudent, "87654321").
			Return("new-access", nil)

		raw, status := postJSON(t, f.app, "POST", "/refresh", dto.RefreshInput{RefreshToken: "old-refresh"})

		assert.Equal(t, fiber.StatusOK, status)

		var out dto.TokenResponse
		require.NoError(t, json.Unmarshal(raw, &out))
		assert.Equal(t, "new-refresh", out.RefreshToken)
	})

	t.Run("invalid token gets the generic message", func(t *testing.T) {
		f := newHandlerFixture(t)

		f.refresh.EXPECT().GetByToken(gomock.Any(), "bad").Return(nil, nil)

		raw, status := postJSON(t, f.app, "POST", "/refresh", dto.RefreshInput{RefreshToken: "bad"})

		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Contains(t, string(raw), autherror.ErrInvalidRefreshToken.Error())
	})
}

func TestLogoutHandler(t *testing.T) {
	f := newHandlerFixture(t)

	f.tokens.EXPECT().RevokeRefreshToken(gomock.Any(), "refresh-value", "logout").Return(nil)

	_, status := postJSON(t, f.app, "DELETE", "/session", dto.LogoutInput{RefreshToken: "refresh-value"})
	assert.Equal(t, fiber.StatusNoContent, status)
}
