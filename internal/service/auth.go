package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"simplyblog/internal/auth"
	"simplyblog/internal/geoip"
	"simplyblog/internal/models"
	"simplyblog/internal/store"
)

const (
	GroupUser  = "user"
	GroupAdmin = "admin"
)

// RequestMeta is what the HTTP layer knows about the caller; it travels into
// the background session-enrichment step.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type SignupInput struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
}

// AuthService orchestrates signup, login, logout, refresh and the authorize
// gate used by every protected request.
type AuthService struct {
	users      *store.UserStore
	groups     *store.GroupStore
	sessions   *store.SessionStore
	codec      *auth.Codec
	geo        geoip.Lookup
	geoTimeout time.Duration
	lg         *zap.SugaredLogger

	// tracks detached session-enrichment goroutines so shutdown and tests
	// can wait for them; the login path never does.
	bg sync.WaitGroup
}

func NewAuthService(users *store.UserStore, groups *store.GroupStore, sessions *store.SessionStore,
	codec *auth.Codec, geo geoip.Lookup, geoTimeout time.Duration, lg *zap.SugaredLogger) *AuthService {
	return &AuthService{
		users:      users,
		groups:     groups,
		sessions:   sessions,
		codec:      codec,
		geo:        geo,
		geoTimeout: geoTimeout,
		lg:         lg,
	}
}

// Signup registers a new active staff user and puts it in the "user" group,
// creating that group on first use.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if reasons := ValidatePassword(in.Password); len(reasons) > 0 {
		return nil, &ValidationError{Reasons: reasons}
	}
	if in.Password != in.ConfirmPassword {
		return nil, &ValidationError{Reasons: []string{"Password and Confirm Password are not same."}}
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	group, err := s.groups.GetOrCreate(ctx, GroupUser)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	u := &models.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      true,
		DateJoined:   now,
		Groups:       []models.Group{*group},
	}
	if err := s.users.Create(ctx, u); err != nil {
		// concurrent signup with the same email loses the uniqueness race
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	s.lg.Infow("user signed up", "email", email)
	return u, nil
}

// Login authenticates staff credentials and returns a fresh token pair. The
// session record is persisted in the background after return.
func (s *AuthService) Login(ctx context.Context, email, password string, meta RequestMeta) (access, refresh string, err error) {
	email = strings.TrimSpace(strings.ToLower(email))
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", "", unauthorized("Incorrect email or password")
		}
		return "", "", err
	}
	if !u.IsActive {
		return "", "", unauthorized("Your Account is not Active, Please check your email and confirm")
	}
	if !u.IsStaff {
		return "", "", unauthorized("You are not authorize to login to dashboard")
	}
	if !inGroup(u, GroupUser) {
		return "", "", unauthorized("Only User Can Login in this Panel.")
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return "", "", unauthorized("Email or Password is incorrect.")
	}
	access, err = s.codec.IssueAccess(email)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.codec.IssueRefresh(email)
	if err != nil {
		return "", "", err
	}
	if err := s.users.UpdateLastLogin(ctx, u.UID, time.Now()); err != nil {
		s.lg.Warnw("update last_login failed", "email", email, "error", err)
	}
	s.bg.Add(1)
	go func(userUID, accessTok, refreshTok string) {
		defer s.bg.Done()
		s.createSession(userUID, accessTok, refreshTok, meta)
	}(u.UID, access, refresh)
	s.lg.Infow("user logged in", "email", email)
	return access, refresh, nil
}

// createSession runs detached from the login request: enrichment failures are
// logged and swallowed, and a client disconnect does not cancel it.
func (s *AuthService) createSession(userUID, access, refresh string, meta RequestMeta) {
	ctx, cancel := context.WithTimeout(context.Background(), s.geoTimeout)
	defer cancel()
	info, err := s.geo.Lookup(ctx)
	if err != nil {
		s.lg.Warnw("geo lookup failed, creating session without enrichment", "error", err)
		info = geoip.Info{}
	}
	ip := info.IP
	if ip == "" {
		ip = meta.IPAddress
	}
	sess := &models.Session{
		UserUID:      userUID,
		AccessToken:  access,
		RefreshToken: refresh,
		City:         info.City,
		Region:       info.Region,
		Country:      info.Country,
		IPAddress:    ip,
		Timezone:     info.Timezone,
		Loc:          info.Loc,
		UserAgent:    meta.UserAgent,
	}
	if err := s.sessions.Create(context.Background(), sess); err != nil {
		s.lg.Errorw("session create failed", "user_uid", userUID, "error", err)
	}
}

// WaitBackground blocks until dispatched session enrichment has finished.
func (s *AuthService) WaitBackground() {
	s.bg.Wait()
}

// Authorize gates a protected request: the access token must be present in
// the session store, decode with the access scope, and belong to a user in
// the "user" or "admin" group.
func (s *AuthService) Authorize(ctx context.Context, accessToken string) (*models.User, error) {
	if _, err := s.sessions.FindByAccessToken(ctx, accessToken); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, unauthorized("Token invalid.")
		}
		return nil, err
	}
	email, err := s.codec.Decode(accessToken, auth.ScopeAccess)
	if err != nil {
		return nil, unauthorized(err.Error())
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, unauthorized("Could not authorize client")
		}
		return nil, err
	}
	if !inGroup(u, GroupUser) && !inGroup(u, GroupAdmin) {
		return nil, unauthorized("Not authorized")
	}
	return u, nil
}

// Logout deletes the session for the token if one exists. Unknown tokens are
// a no-op; logout never fails.
func (s *AuthService) Logout(ctx context.Context, accessToken string) {
	sess, err := s.sessions.DeleteByAccessToken(ctx, accessToken)
	if err != nil {
		s.lg.Warnw("logout session delete failed", "error", err)
		return
	}
	if sess != nil {
		s.lg.Infow("user logged out", "user_uid", sess.UserUID)
	}
}

// Refresh exchanges a sessioned refresh token for a new pair and rewrites the
// session row with it, so the presented refresh token stops being accepted.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (access, refresh string, err error) {
	sess, err := s.sessions.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", "", unauthorized("Token Invalid.")
		}
		return "", "", err
	}
	access, refresh, _, err = s.codec.Refresh(refreshToken)
	if err != nil {
		return "", "", unauthorized(err.Error())
	}
	if err := s.sessions.ReplaceTokens(ctx, sess.UID, access, refresh); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// GeneratePasswordResetToken mints a reset token for a registered email.
func (s *AuthService) GeneratePasswordResetToken(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", store.ErrNotFound
		}
		return "", err
	}
	return s.codec.IssueResetToken(email)
}

// VerifyPasswordResetToken returns the subject email or "" when the token is
// not acceptable, without saying why.
func (s *AuthService) VerifyPasswordResetToken(token string) string {
	return s.codec.VerifyResetToken(token)
}

func inGroup(u *models.User, name string) bool {
	for _, g := range u.Groups {
		if g.Name == name {
			return true
		}
	}
	return false
}
