package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"coffee-shop/backend/internal/account/domain"
	"coffee-shop/backend/internal/account/repository"
	"coffee-shop/backend/internal/notification"
	"coffee-shop/backend/internal/platform/rbac"
	"coffee-shop/backend/internal/security"
)

func newTestService() (*Service, *repository.MemoryRepository, *notification.Recorder) {
	repo := repository.NewMemoryRepository()
	recorder := notification.NewRecorder()
	hasher := security.NewHasher(4) // min cost to keep tests fast
	tokens := security.NewTokenProvider("test-secret", 15*time.Minute, 168*time.Hour)
	return NewService(repo, hasher, tokens, recorder), repo, recorder
}

func mustSignup(t *testing.T, s *Service, email string) *domain.Account {
	t.Helper()
	a, err := s.Signup(context.Background(), email, "Password1!", "Ada", "Lovelace")
	if err != nil {
		t.Fatalf("Signup(%s): %v", email, err)
	}
	return a
}

func promote(t *testing.T, repo *repository.MemoryRepository, a *domain.Account) *domain.Account {
	t.Helper()
	a.Role = domain.RoleAdmin
	if err := repo.Update(context.Background(), a); err != nil {
		t.Fatalf("promote: %v", err)
	}
	return a
}

func TestSignup_CreatesUnverifiedAccountWithCode(t *testing.T) {
	s, _, recorder := newTestService()

	a := mustSignup(t, s, "ada@example.com")
	if a.IsVerified {
		t.Error("new account should be unverified")
	}
	if len(a.VerificationCode) != 6 {
		t.Errorf("verification code length = %d, want 6", len(a.VerificationCode))
	}
	if a.PasswordHash == "Password1!" || a.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
	if a.Role != domain.RoleUser {
		t.Errorf("role = %q, want user", a.Role)
	}
	if code, ok := recorder.LastCode("ada@example.com"); !ok || code != a.VerificationCode {
		t.Errorf("sink received code %q, want %q", code, a.VerificationCode)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	s, repo, _ := newTestService()

	mustSignup(t, s, "dup@example.com")
	_, err := s.Signup(context.Background(), "dup@example.com", "Password1!", "", "")
	if !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("second signup: want ErrEmailAlreadyRegistered, got %v", err)
	}
	n, _ := repo.Count(context.Background())
	if n != 1 {
		t.Errorf("accounts = %d, want exactly 1 for the email", n)
	}
}

func TestSignup_NormalizesEmail(t *testing.T) {
	s, _, _ := newTestService()

	a := mustSignup(t, s, "  Ada@Example.COM ")
	if a.Email != "ada@example.com" {
		t.Errorf("email = %q, want normalized lower-case", a.Email)
	}
	_, err := s.Signup(context.Background(), "ADA@example.com", "Password1!", "", "")
	if !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Errorf("case-variant signup: want ErrEmailAlreadyRegistered, got %v", err)
	}
}

func TestSignup_SurvivesSinkFailure(t *testing.T) {
	s, _, recorder := newTestService()
	recorder.FailWith(errors.New("smtp down"))

	if _, err := s.Signup(context.Background(), "ada@example.com", "Password1!", "", ""); err != nil {
		t.Fatalf("Signup with failing sink: %v", err)
	}
}

func TestLogin_IssuesTokenPair(t *testing.T) {
	s, _, _ := newTestService()
	a := mustSignup(t, s, "ada@example.com")

	pair, err := s.Login(context.Background(), "ada@example.com", "Password1!")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	tokens := security.NewTokenProvider("test-secret", 15*time.Minute, 168*time.Hour)
	access, err := tokens.Decode(pair.AccessToken)
	if err != nil {
		t.Fatalf("decode access: %v", err)
	}
	if access.TokenType != security.TokenTypeAccess || access.Subject != a.ID {
		t.Errorf("access claims = (%q, %q), want (access, %q)", access.TokenType, access.Subject, a.ID)
	}
	refresh, err := tokens.Decode(pair.RefreshToken)
	if err != nil {
		t.Fatalf("decode refresh: %v", err)
	}
	if refresh.TokenType != security.TokenTypeRefresh || refresh.Subject != a.ID {
		t.Errorf("refresh claims = (%q, %q), want (refresh, %q)", refresh.TokenType, refresh.Subject, a.ID)
	}
}

func TestLogin_DoesNotRequireVerification(t *testing.T) {
	s, _, _ := newTestService()
	mustSignup(t, s, "ada@example.com")

	if _, err := s.Login(context.Background(), "ada@example.com", "Password1!"); err != nil {
		t.Fatalf("Login before verification: %v", err)
	}
}

func TestLogin_UniformError(t *testing.T) {
	s, _, _ := newTestService()
	mustSignup(t, s, "ada@example.com")

	_, errWrongPassword := s.Login(context.Background(), "ada@example.com", "wrong")
	_, errUnknownEmail := s.Login(context.Background(), "ghost@example.com", "Password1!")
	if !errors.Is(errWrongPassword, ErrInvalidCredentials) {
		t.Errorf("wrong password: want ErrInvalidCredentials, got %v", errWrongPassword)
	}
	if !errors.Is(errUnknownEmail, ErrInvalidCredentials) {
		t.Errorf("unknown email: want ErrInvalidCredentials, got %v", errUnknownEmail)
	}
}

func TestRefresh_RotatesBothTokens(t *testing.T) {
	s, _, _ := newTestService()
	mustSignup(t, s, "ada@example.com")
	pair, err := s.Login(context.Background(), "ada@example.com", "Password1!")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	rotated, err := s.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if rotated.AccessToken == "" || rotated.RefreshToken == "" {
		t.Fatal("Refresh should return a full new pair")
	}
	if rotated.RefreshToken == pair.RefreshToken {
		t.Error("refresh token should be rotated, not reused")
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	s, _, _ := newTestService()
	mustSignup(t, s, "ada@example.com")
	pair, _ := s.Login(context.Background(), "ada@example.com", "Password1!")

	if _, err := s.Refresh(context.Background(), pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Refresh with access token: want ErrInvalidToken, got %v", err)
	}
}

func TestRefresh_RejectsGarbageAndDeletedAccount(t *testing.T) {
	s, repo, _ := newTestService()
	a := mustSignup(t, s, "ada@example.com")
	pair, _ := s.Login(context.Background(), "ada@example.com", "Password1!")

	if _, err := s.Refresh(context.Background(), "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Refresh garbage: want ErrInvalidToken, got %v", err)
	}

	if err := repo.Delete(context.Background(), a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Refresh for deleted account: want ErrInvalidToken, got %v", err)
	}
}

func TestVerifyEmail_Lifecycle(t *testing.T) {
	s, _, recorder := newTestService()
	mustSignup(t, s, "ada@example.com")
	code, _ := recorder.LastCode("ada@example.com")

	verified, err := s.VerifyEmail(context.Background(), "ada@example.com", code)
	if err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}
	if !verified.IsVerified {
		t.Error("account should be verified")
	}
	if verified.VerificationCode != "" {
		t.Error("verification code should be cleared")
	}

	if _, err := s.VerifyEmail(context.Background(), "ada@example.com", code); !errors.Is(err, ErrAlreadyVerified) {
		t.Errorf("second verify: want ErrAlreadyVerified, got %v", err)
	}
}

func TestVerifyEmail_Failures(t *testing.T) {
	s, _, _ := newTestService()
	mustSignup(t, s, "ada@example.com")

	if _, err := s.VerifyEmail(context.Background(), "ghost@example.com", "123456"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown email: want ErrNotFound, got %v", err)
	}
	if _, err := s.VerifyEmail(context.Background(), "ada@example.com", "000000"); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("wrong code: want ErrInvalidCode, got %v", err)
	}
	a, err := s.GetByID(context.Background(), mustSignupID(t, s))
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if a.IsVerified {
		t.Error("failed verify should not flip the flag")
	}
}

// mustSignupID fetches the one test account's ID via the repo-free path.
func mustSignupID(t *testing.T, s *Service) string {
	t.Helper()
	accounts, _, err := s.List(context.Background(), 0, 1)
	if err != nil || len(accounts) == 0 {
		t.Fatalf("List: %v", err)
	}
	return accounts[0].ID
}

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	s, _, _ := newTestService()
	a := mustSignup(t, s, "ada@example.com")

	first := "Augusta"
	got, err := s.UpdateProfile(context.Background(), a, a.ID, ProfileUpdate{FirstName: &first})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got.FirstName != "Augusta" {
		t.Errorf("FirstName = %q, want Augusta", got.FirstName)
	}
	if got.LastName != "Lovelace" {
		t.Errorf("LastName = %q, want untouched Lovelace", got.LastName)
	}
}

func TestUpdateProfile_RehashesPassword(t *testing.T) {
	s, _, _ := newTestService()
	a := mustSignup(t, s, "ada@example.com")

	newPassword := "NewPassword1!"
	got, err := s.UpdateProfile(context.Background(), a, a.ID, ProfileUpdate{Password: &newPassword})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got.PasswordHash == a.PasswordHash {
		t.Error("password hash should change")
	}
	if got.PasswordHash == newPassword {
		t.Error("password must not be stored raw")
	}
	if _, err := s.Login(context.Background(), "ada@example.com", newPassword); err != nil {
		t.Errorf("Login with new password: %v", err)
	}
	if _, err := s.Login(context.Background(), "ada@example.com", "Password1!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login with old password: want ErrInvalidCredentials, got %v", err)
	}
}

func TestUpdateProfile_Authorization(t *testing.T) {
	s, repo, _ := newTestService()
	ada := mustSignup(t, s, "ada@example.com")
	bob := mustSignup(t, s, "bob@example.com")
	root := promote(t, repo, mustSignup(t, s, "root@example.com"))

	first := "X"
	if _, err := s.UpdateProfile(context.Background(), bob, ada.ID, ProfileUpdate{FirstName: &first}); !errors.Is(err, rbac.ErrForbidden) {
		t.Errorf("user updating another user: want ErrForbidden, got %v", err)
	}
	if _, err := s.UpdateProfile(context.Background(), root, ada.ID, ProfileUpdate{FirstName: &first}); err != nil {
		t.Errorf("admin updating a user: %v", err)
	}
	if _, err := s.UpdateProfile(context.Background(), root, "no-such-id", ProfileUpdate{FirstName: &first}); !errors.Is(err, ErrNotFound) {
		t.Errorf("admin updating missing id: want ErrNotFound, got %v", err)
	}
}

func TestDelete_AdminOnlyAndNoSelfDelete(t *testing.T) {
	s, repo, _ := newTestService()
	ada := mustSignup(t, s, "ada@example.com")
	bob := mustSignup(t, s, "bob@example.com")
	root := promote(t, repo, mustSignup(t, s, "root@example.com"))

	if err := s.Delete(context.Background(), bob, ada.ID); !errors.Is(err, rbac.ErrForbidden) {
		t.Errorf("non-admin delete: want ErrForbidden, got %v", err)
	}
	if err := s.Delete(context.Background(), root, root.ID); !errors.Is(err, ErrSelfDelete) {
		t.Errorf("admin self-delete: want ErrSelfDelete, got %v", err)
	}
	if err := s.Delete(context.Background(), root, "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete missing: want ErrNotFound, got %v", err)
	}
	if err := s.Delete(context.Background(), root, ada.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, err := s.GetByID(context.Background(), ada.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("lookup after delete: want ErrNotFound, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	s, repo, _ := newTestService()
	a := mustSignup(t, s, "ada@example.com")
	pair, _ := s.Login(context.Background(), "ada@example.com", "Password1!")

	got, err := s.Authenticate(context.Background(), pair.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != a.ID {
		t.Errorf("Authenticate resolved %q, want %q", got.ID, a.ID)
	}

	if _, err := s.Authenticate(context.Background(), pair.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Authenticate with refresh token: want ErrUnauthorized, got %v", err)
	}
	if _, err := s.Authenticate(context.Background(), "garbage"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Authenticate garbage: want ErrUnauthorized, got %v", err)
	}

	if err := repo.Delete(context.Background(), a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Authenticate(context.Background(), pair.AccessToken); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Authenticate for deleted account: want ErrUnauthorized, got %v", err)
	}
}

func TestList_PaginationAndTotal(t *testing.T) {
	s, _, _ := newTestService()
	mustSignup(t, s, "a@example.com")
	mustSignup(t, s, "b@example.com")
	mustSignup(t, s, "c@example.com")

	accounts, total, err := s.List(context.Background(), 0, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(accounts) != 2 {
		t.Errorf("page size = %d, want 2", len(accounts))
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
}
