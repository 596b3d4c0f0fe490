package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/cleanops/internal/application"
)

type fakeSessionValidator struct {
	principal application.Principal
	err       error
}

func (f fakeSessionValidator) ValidateSession(ctx context.Context, token string) (application.Principal, error) {
	return f.principal, f.err
}

func TestRequireSessionRejectsMissingOrInvalidTokens(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		cookieToken *http.Cookie
		headerToken string
		lookupErr   error
		wantStatus  int
	}{
		{
			name:       "missing credentials",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:        "expired session",
			headerToken: "Bearer stale-token",
			lookupErr:   application.ErrSessionExpired,
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:        "revoked session",
			cookieToken: &http.Cookie{Name: "session_token", Value: "revoked-token"},
			lookupErr:   application.ErrSessionRevoked,
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:        "unknown session",
			headerToken: "Bearer unknown",
			lookupErr:   application.ErrNotFound,
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:        "validator failure",
			headerToken: "Bearer transient",
			lookupErr:   context.DeadlineExceeded,
			wantStatus:  http.StatusInternalServerError,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.cookieToken != nil {
				req.AddCookie(tc.cookieToken)
			}
			if tc.headerToken != "" {
				req.Header.Set("Authorization", tc.headerToken)
			}

			recorder := httptest.NewRecorder()
			handler := RequireSession(fakeSessionValidator{err: tc.lookupErr}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("next handler must not run when authentication fails")
			}))
			handler.ServeHTTP(recorder, req)

			if recorder.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, recorder.Code)
			}
		})
	}
}

func TestRequireSessionAttachesPrincipal(t *testing.T) {
	t.Parallel()

	want := application.Principal{StaffID: "s-1", IsAdmin: true}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "valid-token"})
	recorder := httptest.NewRecorder()

	var got application.Principal
	handler := RequireSession(fakeSessionValidator{principal: want}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			t.Fatal("expected principal in request context")
		}
		got = principal
		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if got != want {
		t.Fatalf("expected principal %+v, got %+v", want, got)
	}
}

func TestRequestLoggerPropagatesContextLogger(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	recorder := httptest.NewRecorder()

	sawLogger := false
	handler := RequestLogger(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if LoggerFromContext(r.Context()) != nil {
			sawLogger = true
		}
		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(recorder, req)

	if !sawLogger {
		t.Fatal("expected request logger attached to context")
	}
}
