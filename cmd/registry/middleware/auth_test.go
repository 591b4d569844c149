package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

// fakeRoles is a RoleChecker over a fixed admin set
type fakeRoles struct {
	admins map[string]bool
	err    error
}

func (f *fakeRoles) IsAdmin(ctx context.Context, wallet string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.admins[wallet], nil
}

func runMiddleware(mw echo.MiddlewareFunc, wallet string) (*httptest.ResponseRecorder, bool) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/submissions", nil)
	if wallet != "" {
		req.Header.Set("X-Wallet-Address", wallet)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	handler := ExtractWallet()(mw(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	}))
	handler(c)

	return rec, reached
}

func TestExtractWallet(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Wallet-Address", "0xabc")
	c := e.NewContext(req, httptest.NewRecorder())

	var got string
	ExtractWallet()(func(c echo.Context) error {
		got = GetWallet(c)
		return nil
	})(c)

	if got != "0xabc" {
		t.Errorf("GetWallet = %q, want 0xabc", got)
	}
}

func TestRequireWallet(t *testing.T) {
	rec, reached := runMiddleware(RequireWallet(), "0xabc")
	if !reached || rec.Code != http.StatusOK {
		t.Errorf("authenticated request blocked: code=%d reached=%v", rec.Code, reached)
	}

	rec, reached = runMiddleware(RequireWallet(), "")
	if reached {
		t.Error("request without wallet must not reach the handler")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	roles := &fakeRoles{admins: map[string]bool{"0xadmin": true}}

	rec, reached := runMiddleware(RequireAdmin(roles), "0xadmin")
	if !reached || rec.Code != http.StatusOK {
		t.Errorf("admin blocked: code=%d reached=%v", rec.Code, reached)
	}

	rec, reached = runMiddleware(RequireAdmin(roles), "0xmember")
	if reached {
		t.Error("non-admin must not reach the handler")
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}

	rec, reached = runMiddleware(RequireAdmin(roles), "")
	if reached {
		t.Error("anonymous request must not reach the handler")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAdminRoleLookupFailure(t *testing.T) {
	roles := &fakeRoles{err: context.DeadlineExceeded}

	rec, reached := runMiddleware(RequireAdmin(roles), "0xadmin")
	if reached {
		t.Error("a failed role lookup must not grant access")
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
