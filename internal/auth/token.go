package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	ScopeAccess  = "access_token"
	ScopeRefresh = "refresh_token"
)

var (
	// ErrTokenExpired means the token was well-formed and signed but past exp.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed covers bad structure, bad signature and wrong algorithm.
	ErrTokenMalformed = errors.New("token invalid")
	// ErrTokenScope means a valid token was presented for the wrong scope.
	ErrTokenScope = errors.New("invalid scope for token")
)

// Codec signs and verifies the platform's HS256 tokens. All durations come
// from config at construction; the zero value is not usable.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
	now        func() time.Time
}

func NewCodec(secret string, accessTTL, refreshTTL, resetTTL time.Duration) *Codec {
	return &Codec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		resetTTL:   resetTTL,
		now:        time.Now,
	}
}

func (c *Codec) sign(subject, scope string, ttl time.Duration) (string, error) {
	now := c.now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
		"scope": scope,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// IssueAccess mints a short-lived access token for the subject (user email).
func (c *Codec) IssueAccess(subject string) (string, error) {
	return c.sign(subject, ScopeAccess, c.accessTTL)
}

// IssueRefresh mints a refresh token for the subject.
func (c *Codec) IssueRefresh(subject string) (string, error) {
	return c.sign(subject, ScopeRefresh, c.refreshTTL)
}

func (c *Codec) parse(tokenStr string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(c.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// Decode verifies the token and returns its subject. The token's scope claim
// must equal expectedScope even when the signature is valid.
func (c *Codec) Decode(tokenStr, expectedScope string) (string, error) {
	claims, err := c.parse(tokenStr)
	if err != nil {
		return "", err
	}
	scope, _ := claims["scope"].(string)
	if scope != expectedScope {
		return "", ErrTokenScope
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrTokenMalformed
	}
	return sub, nil
}

// Refresh validates a refresh token and mints a brand-new pair for the same
// subject. The presented token itself is not invalidated here; the session
// store decides whether it may be used again.
func (c *Codec) Refresh(refreshToken string) (access, refresh, subject string, err error) {
	subject, err = c.Decode(refreshToken, ScopeRefresh)
	if err != nil {
		return "", "", "", err
	}
	access, err = c.IssueAccess(subject)
	if err != nil {
		return "", "", "", err
	}
	refresh, err = c.IssueRefresh(subject)
	if err != nil {
		return "", "", "", err
	}
	return access, refresh, subject, nil
}

// IssueResetToken mints a password-reset token. Unlike access/refresh tokens
// it carries nbf instead of iat and no scope claim.
func (c *Codec) IssueResetToken(subject string) (string, error) {
	now := c.now()
	claims := jwt.MapClaims{
		"sub": subject,
		"nbf": now.Unix(),
		"exp": now.Add(c.resetTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// VerifyResetToken returns the subject for a valid reset token and "" for any
// failure. It never reports why verification failed.
func (c *Codec) VerifyResetToken(tokenStr string) string {
	claims, err := c.parse(tokenStr)
	if err != nil {
		return ""
	}
	sub, _ := claims["sub"].(string)
	return sub
}
