package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/wakala/core/user"
)

type downUserRepo struct {
	user.Repository
}

func (downUserRepo) GetUser(context.Context, user.GetFilter) (user.User, error) {
	return user.User{}, errors.New("dial tcp 10.0.0.4:5432: connection refused")
}

func Test_userApi_login(t *testing.T) {
	env := setup(t)

	env.createUser(t, "Awe", "awe@agency.cd", "s3cr3t", true)
	env.createUser(t, "Gone", "gone@agency.cd", "s3cr3t", false)

	tests := []httpTest{
		{
			name:     "Unknown email",
			body:     []byte(`{"email": "nope@agency.cd", "password": "s3cr3t"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name:     "Wrong password",
			body:     []byte(`{"email": "awe@agency.cd", "password": "nope"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name:     "Deactivated account",
			body:     []byte(`{"email": "gone@agency.cd", "password": "s3cr3t"}`),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name:     "Password is required",
			body:     []byte(`{"email": "awe@agency.cd"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"password": "this field is required"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/auth/login", tt.body)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("Store outage tells the user to check connectivity", func(t *testing.T) {
		env := setupWithUserRepo(t, func(repo user.Repository) user.Repository {
			return downUserRepo{repo}
		})

		body := []byte(`{"email": "awe@agency.cd", "password": "s3cr3t"}`)
		req, rec := newRequest(http.MethodPost, "/v1/auth/login", body)
		env.server.ServeHTTP(rec, req)

		wantData := marchallObj(t, httpErr{Error: "cannot reach the server, check your connection and try again"})
		checkCodeAndData(t, httpTest{wantCode: http.StatusServiceUnavailable, wantData: wantData}, rec)
	})

	t.Run("Success", func(t *testing.T) {
		// email lookup is case-insensitive
		body := []byte(`{"email": "Awe@Agency.CD", "password": "s3cr3t"}`)
		req, rec := newRequest(http.MethodPost, "/v1/auth/login", body)
		env.server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Token)

		// the token is good for authenticated endpoints
		req, rec = newAuthRequest(http.MethodGet, "/v1/session", resp.Token)
		env.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})
}
