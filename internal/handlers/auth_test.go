package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginThenVerifyToken(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(t, http.MethodPost, "/auth/login", map[string]string{"name": "kim", "number": "123456"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	login := decodeBody[map[string]any](t, rec)
	token, _ := login["token"].(string)
	require.Len(t, token, 64)
	user := login["user"].(map[string]any)
	assert.Equal(t, "kim", user["이름"])
	assert.Equal(t, "N", user["비밀번호변경완료"])
	assert.NotEmpty(t, user["최종로그인시간"])
	assert.NotContains(t, user, "번호")

	rec = env.do(t, http.MethodPost, "/auth/verify-token", map[string]string{"token": token}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	verified := decodeBody[VerifyTokenResponse](t, rec)
	assert.Equal(t, "kim", verified.User.Name)
	assert.Equal(t, "N", verified.User.PasswordChanged)
}

func TestLoginAcceptsNumericPassword(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(t, http.MethodPost, "/auth/login", `{"name":"kim","number":123456}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(t, http.MethodPost, "/auth/login", map[string]string{"name": "kim", "number": "000000"}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, msgLoginMismatch, body["error"])
	assert.NotContains(t, body, "token")
	assert.Equal(t, "", env.mem.Rows("AUTH")[1][2])
}

func TestLoginValidation(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	cases := []struct {
		name string
		body any
		want string
	}{
		{"missing name", map[string]string{"number": "123456"}, msgLoginRequired},
		{"missing number", map[string]string{"name": "kim"}, msgLoginRequired},
		{"short pin", map[string]string{"name": "kim", "number": "12345"}, msgLoginPinFormat},
		{"letters", map[string]string{"name": "kim", "number": "12345a"}, msgLoginPinFormat},
		{"not json", "{", msgLoginRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/auth/login", tc.body, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.want, decodeBody[ErrorResponse](t, rec).Error)
		})
	}
}

func TestLoginThrottled(t *testing.T) {
	env := newTestEnv(t, envOptions{loginLimit: 2})

	for i := 0; i < 2; i++ {
		rec := env.do(t, http.MethodPost, "/auth/login", map[string]string{"name": "kim", "number": "000000"}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := env.do(t, http.MethodPost, "/auth/login", map[string]string{"name": "kim", "number": "123456"}, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestVerifyTokenErrors(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(t, http.MethodPost, "/auth/verify-token", map[string]string{}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/auth/verify-token", map[string]string{"token": "unknown"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, msgTokenInvalid, decodeBody[ErrorResponse](t, rec).Error)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(t, http.MethodPost, "/auth/logout", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]bool{"success": true}, decodeBody[map[string]bool](t, rec))
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(t, http.MethodPost, "/auth/change-password", map[string]string{
		"currentPassword": "654321",
		"newPassword":     "111222",
		"token":           "tok-lee",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	row := env.mem.Rows("AUTH")[2]
	assert.Equal(t, "111222", row[1])
	assert.Equal(t, "Y", row[3])
}

func TestChangePasswordBearerToken(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	rec := env.do(t, http.MethodPost, "/auth/change-password", map[string]string{
		"currentPassword": "654321",
		"newPassword":     "111222",
	}, map[string]string{"Authorization": "Bearer tok-lee"})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestChangePasswordErrors(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	cases := []struct {
		name   string
		body   map[string]string
		status int
		want   string
	}{
		{"no token", map[string]string{"currentPassword": "654321", "newPassword": "111222"}, http.StatusUnauthorized, msgAuthRequired},
		{"missing new", map[string]string{"currentPassword": "654321", "token": "tok-lee"}, http.StatusBadRequest, msgPasswordRequired},
		{"bad current", map[string]string{"currentPassword": "65432", "newPassword": "111222", "token": "tok-lee"}, http.StatusBadRequest, msgCurrentPinFormat},
		{"bad new", map[string]string{"currentPassword": "654321", "newPassword": "abcdef", "token": "tok-lee"}, http.StatusBadRequest, msgNewPinFormat},
		{"unknown token", map[string]string{"currentPassword": "654321", "newPassword": "111222", "token": "nope"}, http.StatusUnauthorized, msgTokenInvalid},
		{"wrong current", map[string]string{"currentPassword": "000000", "newPassword": "111222", "token": "tok-lee"}, http.StatusUnauthorized, msgCurrentMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/auth/change-password", tc.body, nil)
			require.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.want, decodeBody[ErrorResponse](t, rec).Error)
		})
	}
	assert.Equal(t, "654321", env.mem.Rows("AUTH")[2][1])
}
