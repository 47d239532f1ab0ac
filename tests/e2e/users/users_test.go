package users

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/avelichko/inkwell/internal/models"
	"github.com/avelichko/inkwell/internal/testutil"
	"github.com/avelichko/inkwell/tests/e2e"
)

func do(t *testing.T, method string, url string, access string, reqBody string) (int, map[string]any) {
	t.Helper()

	var body io.Reader
	if reqBody != "" {
		body = strings.NewReader(reqBody)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}
	if reqBody != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	parsed := map[string]any{}
	if len(raw) > 0 {
		require.NoErrorf(t, json.Unmarshal(raw, &parsed), "body is not json: %s", string(raw))
	}

	return resp.StatusCode, parsed
}

func Test_Users(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	t.Run("current user", func(t *testing.T) {
		e2e.ServeWithTx(pg.Pool, t, func(_ pgx.Tx, srvURL string, s e2e.Services) {
			_, pair, err := s.AuthService.Register(t.Context(), "nk@example.com", "StrongEnoughPassword", "")
			require.NoError(t, err)
			access := pair.Access.Value

			t.Run("get", func(t *testing.T) {
				code, body := do(t, http.MethodGet, srvURL+"/api/v1/users/current", access, "")

				require.Equal(t, http.StatusOK, code)
				u := body["user"].(map[string]any)
				require.Equal(t, "nk@example.com", u["email"])
				require.Equal(t, "user", u["role"])
				require.NotEmpty(t, u["username"], "a username should be generated on registration")
			})

			t.Run("get without token", func(t *testing.T) {
				code, body := do(t, http.MethodGet, srvURL+"/api/v1/users/current", "", "")

				require.Equal(t, http.StatusUnauthorized, code)
				require.Equal(t, "Access denied, no token provided", body["message"])
			})

			t.Run("update profile", func(t *testing.T) {
				code, body := do(t, http.MethodPut, srvURL+"/api/v1/users/current", access,
					`{"firstName": "Nina", "socialLinks": {"website": "https://nk.example.com"}}`)

				require.Equal(t, http.StatusOK, code)
				u := body["user"].(map[string]any)
				require.Equal(t, "Nina", u["firstName"])
				require.Equal(t, "https://nk.example.com", u["socialLinks"].(map[string]any)["website"])
			})

			t.Run("update rejects bad email", func(t *testing.T) {
				code, body := do(t, http.MethodPut, srvURL+"/api/v1/users/current", access,
					`{"email": "not-an-email"}`)

				require.Equal(t, http.StatusBadRequest, code)
				require.Equal(t, "ValidationError", body["code"])
			})

			t.Run("delete account", func(t *testing.T) {
				code, _ := do(t, http.MethodDelete, srvURL+"/api/v1/users/current", access, "")
				require.Equal(t, http.StatusNoContent, code)

				// The access token still verifies but the account is gone
				code, body := do(t, http.MethodGet, srvURL+"/api/v1/users/current", access, "")
				require.Equal(t, http.StatusNotFound, code)
				require.Equal(t, "User not found", body["message"])
			})
		})
	})

	t.Run("admin user management", func(t *testing.T) {
		e2e.ServeWithTx(pg.Pool, t, func(_ pgx.Tx, srvURL string, s e2e.Services) {
			_, adminPair, err := s.AuthService.Register(t.Context(), e2e.AdminEmail, "StrongEnoughPassword", models.RoleAdmin)
			require.NoError(t, err)
			reader, readerPair, err := s.AuthService.Register(t.Context(), "reader@example.com", "StrongEnoughPassword", "")
			require.NoError(t, err)

			admin := adminPair.Access.Value

			t.Run("list users", func(t *testing.T) {
				code, body := do(t, http.MethodGet, srvURL+"/api/v1/users", admin, "")

				require.Equal(t, http.StatusOK, code)
				require.Equal(t, float64(2), body["total"])
				require.Len(t, body["users"].([]any), 2)
			})

			t.Run("list limit is capped", func(t *testing.T) {
				code, body := do(t, http.MethodGet, srvURL+"/api/v1/users?limit=1000000", admin, "")

				require.Equal(t, http.StatusOK, code)
				require.Equal(t, float64(100), body["limit"], "oversized limit should be clamped")
			})

			t.Run("list denied for regular user", func(t *testing.T) {
				code, body := do(t, http.MethodGet, srvURL+"/api/v1/users", readerPair.Access.Value, "")

				require.Equal(t, http.StatusForbidden, code)
				require.Equal(t, "Access denied, insufficient permissions", body["message"])
			})

			t.Run("get by id", func(t *testing.T) {
				code, body := do(t, http.MethodGet, srvURL+"/api/v1/users/"+reader.ID.String(), admin, "")

				require.Equal(t, http.StatusOK, code)
				require.Equal(t, "reader@example.com", body["user"].(map[string]any)["email"])
			})

			t.Run("get with malformed id", func(t *testing.T) {
				code, body := do(t, http.MethodGet, srvURL+"/api/v1/users/not-a-uuid", admin, "")

				require.Equal(t, http.StatusBadRequest, code)
				require.Equal(t, "Invalid user Id", body["message"])
			})

			t.Run("delete user", func(t *testing.T) {
				code, _ := do(t, http.MethodDelete, srvURL+"/api/v1/users/"+reader.ID.String(), admin, "")
				require.Equal(t, http.StatusNoContent, code)

				code, body := do(t, http.MethodGet, srvURL+"/api/v1/users/"+reader.ID.String(), admin, "")
				require.Equal(t, http.StatusNotFound, code)
				require.Equal(t, "User not found", body["message"])
			})
		})
	})
}
