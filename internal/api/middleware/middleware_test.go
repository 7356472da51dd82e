package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/qkart/internal/constants"
	"github.com/RoyceAzure/lab/qkart/internal/model"
	"github.com/RoyceAzure/lab/qkart/internal/util"
	er "github.com/RoyceAzure/rj/util/rj_error"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeMaker struct {
	payload *model.TokenPayload
	err     error
}

func (f *fakeMaker) CreateToken(userID string, tokenType constants.TokenType, duration time.Duration) (string, *model.TokenPayload, error) {
	return "", nil, errors.New("not implemented")
}

func (f *fakeMaker) DecodeToken(token string) (*model.TokenPayload, error) {
	return f.payload, f.err
}

type fakeVerifier struct {
	user  *model.UserModel
	found bool
	err   error
}

func (f *fakeVerifier) Verify(ctx context.Context, payload *model.TokenPayload) (*model.UserModel, bool, error) {
	return f.user, f.found, f.err
}

type fakeLimiter struct {
	allow bool
	keys  []string
}

func (f *fakeLimiter) Allow(ctx context.Context, key string) bool {
	f.keys = append(f.keys, key)
	return f.allow
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRequestIdMiddleware(t *testing.T) {
	var got string
	h := RequestIdMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = util.GetRequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "req-123", got)
	require.Equal(t, "req-123", rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEqual(t, "unknown", got)
	require.NotEmpty(t, got)
}

func TestAuthPayloadMiddleware(t *testing.T) {
	user := &model.UserModel{ID: "u1", Email: "a@b.com"}
	payload := &model.TokenPayload{Sub: "u1", Type: constants.AccessToken}

	testCases := []struct {
		name      string
		header    string
		maker     *fakeMaker
		verifier  *fakeVerifier
		wantUser  bool
		wantError bool
	}{
		{name: "no header", header: "", maker: &fakeMaker{}, verifier: &fakeVerifier{}},
		{name: "not bearer", header: "Basic abc", maker: &fakeMaker{}, verifier: &fakeVerifier{}},
		{name: "missing token", header: "Bearer", maker: &fakeMaker{}, verifier: &fakeVerifier{}},
		{
			name:      "decode failure",
			header:    "Bearer abc",
			maker:     &fakeMaker{err: er.New(er.UnauthenticatedCode, "Please authenticate")},
			verifier:  &fakeVerifier{},
			wantError: true,
		},
		{
			name:      "verify failure",
			header:    "Bearer abc",
			maker:     &fakeMaker{payload: payload},
			verifier:  &fakeVerifier{err: er.New(er.UnauthenticatedCode, "Token expired, please login")},
			wantError: true,
		},
		{
			name:      "user not found",
			header:    "Bearer abc",
			maker:     &fakeMaker{payload: payload},
			verifier:  &fakeVerifier{found: false},
			wantError: true,
		},
		{
			name:     "ok",
			header:   "bearer abc",
			maker:    &fakeMaker{payload: payload},
			verifier: &fakeVerifier{user: user, found: true},
			wantUser: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var gotUser *model.UserModel
			var gotErr error
			h := AuthPayloadMiddleware(tc.maker, tc.verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = util.GetUserFromContext(r.Context())
				gotErr = util.GetAuthErrorFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			require.Equal(t, tc.wantUser, gotUser != nil)
			require.Equal(t, tc.wantError, gotErr != nil)
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	h := AuthMiddleware(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Please authenticate")

	ctx := context.WithValue(context.Background(), constants.AuthorizationErrorKey, er.New(er.UnauthenticatedCode, "Token expired, please login"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Token expired, please login")

	ctx = context.WithValue(context.Background(), constants.AuthorizationUserKey, &model.UserModel{ID: "u1"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := &fakeLimiter{allow: true}
	h := RateLimitMiddleware(limiter)(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"10.0.0.1"}, limiter.keys)

	limiter.allow = false
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRecoverMiddleware(t *testing.T) {
	h := RecoverMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	h := LoggerMiddleware(&logger)(RecoverMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})))

	ctx := context.WithValue(context.Background(), constants.AuthorizationUserKey, &model.UserModel{ID: "user-42"})
	ctx = context.WithValue(ctx, constants.RequestIDKey, "req-9")
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/cart", nil).WithContext(ctx))

	out := buf.String()
	require.Contains(t, out, `"user_id":"user-42"`)
	require.Contains(t, out, `"request_id":"req-9"`)
	require.Contains(t, out, `"status":201`)
	require.Contains(t, out, `"method":"POST"`)
}

func TestLoggerMiddlewareRecordsPanicAsError(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	h := LoggerMiddleware(&logger)(RecoverMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(errors.New("boom"))
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Contains(t, buf.String(), `"level":"error"`)
	require.Contains(t, buf.String(), `"status":500`)
}
