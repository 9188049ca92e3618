package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"simplyblog/internal/auth"
	"simplyblog/internal/geoip"
	"simplyblog/internal/models"
	"simplyblog/internal/store"
)

type stubLookup struct {
	info geoip.Info
	err  error
}

func (s *stubLookup) Lookup(ctx context.Context) (geoip.Info, error) {
	return s.info, s.err
}

func newAuthServiceForTest(t *testing.T, geo geoip.Lookup) (*AuthService, *store.SessionStore, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Group{}, &models.User{}, &models.Session{},
		&models.Category{}, &models.Tag{}, &models.Blog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	sessions := store.NewSessionStore(db)
	codec := auth.NewCodec("test-secret", 15*time.Minute, 72*time.Hour, 48*time.Hour)
	svc := NewAuthService(store.NewUserStore(db), store.NewGroupStore(db), sessions,
		codec, geo, time.Second, zap.NewNop().Sugar())
	return svc, sessions, db
}

func signupForTest(t *testing.T, svc *AuthService, email string) *models.User {
	t.Helper()
	u, err := svc.Signup(context.Background(), SignupInput{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           email,
		Password:        "Abcd123!",
		ConfirmPassword: "Abcd123!",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	return u
}

func TestSignupCreatesActiveUserInUserGroup(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t, &stubLookup{})
	u := signupForTest(t, svc, "a@x.com")
	if !u.IsActive || !u.IsStaff {
		t.Fatalf("expected active staff user, got active=%v staff=%v", u.IsActive, u.IsStaff)
	}
	if !inGroup(u, GroupUser) {
		t.Fatalf("expected membership in %q, got %v", GroupUser, u.Groups)
	}
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t, &stubLookup{})
	signupForTest(t, svc, "a@x.com")
	_, err := svc.Signup(context.Background(), SignupInput{
		Email: "a@x.com", Password: "Abcd123!", ConfirmPassword: "Abcd123!",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestSignupValidation(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t, &stubLookup{})
	_, err := svc.Signup(context.Background(), SignupInput{
		Email: "b@x.com", Password: "short1", ConfirmPassword: "short1",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	found := false
	for _, r := range verr.Reasons {
		if strings.Contains(r, "at least 8 characters") {
			found = true
		}
	}
	if !found {
		t.Fatalf("reasons %v missing length violation", verr.Reasons)
	}

	_, err = svc.Signup(context.Background(), SignupInput{
		Email: "b@x.com", Password: "Abcd123!", ConfirmPassword: "Abcd1234!",
	})
	if !errors.As(err, &verr) || verr.Reasons[0] != "Password and Confirm Password are not same." {
		t.Fatalf("err = %v, want confirm mismatch reason", err)
	}
}

func TestLoginFailureReasons(t *testing.T) {
	svc, _, db := newAuthServiceForTest(t, &stubLookup{})
	u := signupForTest(t, svc, "a@x.com")
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "nobody@x.com", "Abcd123!", RequestMeta{})
	if !errors.Is(err, ErrUnauthorized) || err.Error() != "Incorrect email or password" {
		t.Fatalf("unknown user: %v", err)
	}
	_, _, err = svc.Login(ctx, "a@x.com", "WrongPass1!", RequestMeta{})
	if !errors.Is(err, ErrUnauthorized) || err.Error() != "Email or Password is incorrect." {
		t.Fatalf("wrong password: %v", err)
	}

	db.Model(&models.User{}).Where("uid = ?", u.UID).Update("is_staff", false)
	_, _, err = svc.Login(ctx, "a@x.com", "Abcd123!", RequestMeta{})
	if !errors.Is(err, ErrUnauthorized) || err.Error() != "You are not authorize to login to dashboard" {
		t.Fatalf("non-staff: %v", err)
	}

	db.Model(&models.User{}).Where("uid = ?", u.UID).Update("is_active", false)
	_, _, err = svc.Login(ctx, "a@x.com", "Abcd123!", RequestMeta{})
	if !errors.Is(err, ErrUnauthorized) || err.Error() != "Your Account is not Active, Please check your email and confirm" {
		t.Fatalf("inactive: %v", err)
	}
}

func TestLoginRequiresUserGroup(t *testing.T) {
	svc, _, db := newAuthServiceForTest(t, &stubLookup{})
	u := signupForTest(t, svc, "a@x.com")
	db.Exec("DELETE FROM user_groups WHERE user_uid = ?", u.UID)
	_, _, err := svc.Login(context.Background(), "a@x.com", "Abcd123!", RequestMeta{})
	if !errors.Is(err, ErrUnauthorized) || err.Error() != "Only User Can Login in this Panel." {
		t.Fatalf("no group: %v", err)
	}
}

func TestLoginIssuesPairAndSessionsIt(t *testing.T) {
	geo := &stubLookup{info: geoip.Info{City: "Zurich", Country: "CH", IP: "203.0.113.7", Timezone: "Europe/Zurich"}}
	svc, sessions, _ := newAuthServiceForTest(t, geo)
	signupForTest(t, svc, "a@x.com")

	access, refresh, err := svc.Login(context.Background(), "a@x.com", "Abcd123!",
		RequestMeta{UserAgent: "go-test", IPAddress: "10.0.0.1"})
	if err != nil {
		t.Fatal(err)
	}
	if access == "" || refresh == "" {
		t.Fatal("expected non-empty token pair")
	}
	svc.WaitBackground()

	sess, err := sessions.FindByAccessToken(context.Background(), access)
	if err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
	if sess.City != "Zurich" || sess.IPAddress != "203.0.113.7" || sess.UserAgent != "go-test" {
		t.Fatalf("unexpected enrichment: %+v", sess)
	}
}

func TestLoginSessionSurvivesGeoFailure(t *testing.T) {
	svc, sessions, _ := newAuthServiceForTest(t, &stubLookup{err: errors.New("ipinfo unreachable")})
	signupForTest(t, svc, "a@x.com")

	access, _, err := svc.Login(context.Background(), "a@x.com", "Abcd123!",
		RequestMeta{IPAddress: "10.0.0.1"})
	if err != nil {
		t.Fatal(err)
	}
	svc.WaitBackground()

	sess, err := sessions.FindByAccessToken(context.Background(), access)
	if err != nil {
		t.Fatalf("session missing after geo failure: %v", err)
	}
	if sess.City != "" || sess.IPAddress != "10.0.0.1" {
		t.Fatalf("expected fallback metadata, got %+v", sess)
	}
}

func TestAuthorizeAfterLoginAndLogout(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t, &stubLookup{})
	signupForTest(t, svc, "a@x.com")
	ctx := context.Background()

	access, _, err := svc.Login(ctx, "a@x.com", "Abcd123!", RequestMeta{})
	if err != nil {
		t.Fatal(err)
	}
	svc.WaitBackground()

	u, err := svc.Authorize(ctx, access)
	if err != nil {
		t.Fatal(err)
	}
	if u.Email != "a@x.com" {
		t.Fatalf("authorized user = %q", u.Email)
	}

	svc.Logout(ctx, access)
	if _, err := svc.Authorize(ctx, access); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err after logout = %v, want ErrUnauthorized", err)
	}
}

func TestAuthorizeUnknownToken(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t, &stubLookup{})
	if _, err := svc.Authorize(context.Background(), "never-issued"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestLogoutUnknownTokenIsNoop(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t, &stubLookup{})
	// must not panic or error
	svc.Logout(context.Background(), "never-issued")
}

func TestRefreshRotatesSessionTokens(t *testing.T) {
	svc, sessions, _ := newAuthServiceForTest(t, &stubLookup{})
	signupForTest(t, svc, "a@x.com")
	ctx := context.Background()

	oldAccess, oldRefresh, err := svc.Login(ctx, "a@x.com", "Abcd123!", RequestMeta{})
	if err != nil {
		t.Fatal(err)
	}
	svc.WaitBackground()

	newAccess, newRefresh, err := svc.Refresh(ctx, oldRefresh)
	if err != nil {
		t.Fatal(err)
	}
	if newAccess == oldAccess || newRefresh == oldRefresh {
		t.Fatal("expected a brand-new pair")
	}
	// the new access token is sessioned, the old pair is gone
	if _, err := svc.Authorize(ctx, newAccess); err != nil {
		t.Fatalf("new access not authorized: %v", err)
	}
	if _, err := sessions.FindByRefreshToken(ctx, oldRefresh); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("old refresh still in store: %v", err)
	}
	if _, _, err := svc.Refresh(ctx, oldRefresh); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("reusing old refresh: err = %v, want ErrUnauthorized", err)
	}
}

func TestRefreshRejectsUnsessionedToken(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t, &stubLookup{})
	signupForTest(t, svc, "a@x.com")
	_, _, err := svc.Refresh(context.Background(), "never-sessioned")
	if !errors.Is(err, ErrUnauthorized) || err.Error() != "Token Invalid." {
		t.Fatalf("err = %v, want Token Invalid.", err)
	}
}

func TestPasswordResetTokenFlow(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t, &stubLookup{})
	signupForTest(t, svc, "a@x.com")
	ctx := context.Background()

	tok, err := svc.GeneratePasswordResetToken(ctx, "a@x.com")
	if err != nil {
		t.Fatal(err)
	}
	if sub := svc.VerifyPasswordResetToken(tok); sub != "a@x.com" {
		t.Fatalf("subject = %q", sub)
	}
	if _, err := svc.GeneratePasswordResetToken(ctx, "nobody@x.com"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
