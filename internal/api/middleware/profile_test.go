package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func runProfile(t *testing.T, cookie *http.Cookie) (profile string, rec *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec = httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Profile(ProfileConfig{Secret: testSecret, TTL: time.Hour})
	handler := mw(func(c echo.Context) error {
		profile = ProfileFrom(c)
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return profile, rec
}

func issuedCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == DefaultProfileCookie {
			return ck
		}
	}
	t.Fatalf("profile cookie not issued")
	return nil
}

func TestProfile_MintsProfileWithoutCookie(t *testing.T) {
	profile, rec := runProfile(t, nil)

	if _, err := uuid.Parse(profile); err != nil {
		t.Fatalf("expected uuid profile, got %q", profile)
	}
	ck := issuedCookie(t, rec)
	if !ck.HttpOnly {
		t.Fatalf("profile cookie must be HttpOnly")
	}
}

func TestProfile_ReusesValidCookie(t *testing.T) {
	first, rec := runProfile(t, nil)
	ck := issuedCookie(t, rec)

	second, rec2 := runProfile(t, &http.Cookie{Name: ck.Name, Value: ck.Value})
	if second != first {
		t.Fatalf("expected profile %q to be kept, got %q", first, second)
	}
	if len(rec2.Result().Cookies()) != 0 {
		t.Fatalf("valid cookie must not be reissued")
	}
}

func TestProfile_RejectsForeignSignature(t *testing.T) {
	claims := jwt.RegisteredClaims{Issuer: profileIssuer, Subject: uuid.NewString()}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	profile, rec := runProfile(t, &http.Cookie{Name: DefaultProfileCookie, Value: forged})
	if profile == claims.Subject {
		t.Fatalf("forged profile accepted")
	}
	issuedCookie(t, rec)
}

func TestProfile_RejectsExpiredAndGarbage(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Issuer:    profileIssuer,
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	for _, value := range []string{expired, "not-a-token"} {
		profile, _ := runProfile(t, &http.Cookie{Name: DefaultProfileCookie, Value: value})
		if profile == claims.Subject || profile == "" {
			t.Fatalf("expected fresh profile for %q, got %q", value, profile)
		}
	}
}
