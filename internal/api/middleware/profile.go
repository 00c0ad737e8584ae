package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	DefaultProfileCookie = "visioncare_profile"
	profileIssuer        = "visioncare-portal"
)

// ProfileConfig controls the signed browser-profile cookie.
type ProfileConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
}

// Profile identifies the browser profile behind a request. The profile id is
// the subject of an HS256 token kept in a cookie; a missing, expired or
// tampered cookie gets a fresh profile.
func Profile(cfg ProfileConfig) echo.MiddlewareFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultProfileCookie
	}
	key := []byte(cfg.Secret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cookie, err := c.Cookie(cfg.CookieName); err == nil {
				if profile, err := verifyProfile(cookie.Value, key); err == nil {
					c.Set(ProfileKey, profile)
					return next(c)
				}
			}

			profile := uuid.NewString()
			token, err := signProfile(profile, key, cfg.TTL)
			if err != nil {
				return err
			}
			c.SetCookie(&http.Cookie{
				Name:     cfg.CookieName,
				Value:    token,
				Path:     "/",
				MaxAge:   int(cfg.TTL.Seconds()),
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(ProfileKey, profile)
			return next(c)
		}
	}
}

func signProfile(profile string, key []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:   profileIssuer,
		Subject:  profile,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign profile token: %w", err)
	}
	return signed, nil
}

func verifyProfile(token string, key []byte) (string, error) {
	var claims jwt.RegisteredClaims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return key, nil
	}, jwt.WithIssuer(profileIssuer))
	if err != nil || !tkn.Valid {
		return "", fmt.Errorf("verify profile token: %w", err)
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", fmt.Errorf("verify profile token: %w", err)
	}
	return claims.Subject, nil
}
