package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gre-api/internal/application/dto"
	"github.com/jhoicas/gre-api/internal/domain"
	apphttp "github.com/jhoicas/gre-api/internal/interfaces/http"
)

type fakeLogin struct {
	err error
}

func (f fakeLogin) Login(_ context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.LoginResponse{Token: "tok", User: dto.UserResponse{Email: in.Email, Role: "admin"}}, nil
}

func postLogin(t *testing.T, svc fakeLogin, body string) *http.Response {
	t.Helper()
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{Auth: svc, JWTSecret: testJWTSecret})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestLogin_OK(t *testing.T) {
	resp := postLogin(t, fakeLogin{}, `{"email":"admin@empresa.pe","password":"clave-segura"}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "tok", out.Token)
	assert.Equal(t, "admin@empresa.pe", out.User.Email)
}

func TestLogin_Errores(t *testing.T) {
	cases := []struct {
		name   string
		svc    fakeLogin
		body   string
		status int
	}{
		{"sin password", fakeLogin{}, `{"email":"a@b.pe"}`, http.StatusBadRequest},
		{"json roto", fakeLogin{}, `{`, http.StatusBadRequest},
		{"credenciales", fakeLogin{err: domain.ErrUnauthorized}, `{"email":"a@b.pe","password":"x"}`, http.StatusUnauthorized},
		{"inactivo", fakeLogin{err: domain.ErrForbidden}, `{"email":"a@b.pe","password":"x"}`, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postLogin(t, tc.svc, tc.body)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
