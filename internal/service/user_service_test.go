package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookswap-api/internal/hashing"
	"bookswap-api/internal/models"
	"bookswap-api/internal/repository"
	"bookswap-api/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type mockPasswordResetRepo struct {
	create           func(ctx context.Context, t *models.PasswordResetToken) error
	getValidByHash   func(ctx context.Context, codeHash string, now time.Time) (*models.PasswordResetToken, error)
	consume          func(ctx context.Context, id uuid.UUID) (bool, error)
	deleteAllForUser func(ctx context.Context, userID uuid.UUID) (int64, error)
}

func (m *mockPasswordResetRepo) Create(ctx context.Context, t *models.PasswordResetToken) error {
	if m.create == nil {
		return nil
	}
	return m.create(ctx, t)
}
func (m *mockPasswordResetRepo) GetValidByHash(ctx context.Context, codeHash string, now time.Time) (*models.PasswordResetToken, error) {
	if m.getValidByHash == nil {
		return nil, nil
	}
	return m.getValidByHash(ctx, codeHash, now)
}
func (m *mockPasswordResetRepo) Consume(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.consume == nil {
		return true, nil
	}
	return m.consume(ctx, id)
}
func (m *mockPasswordResetRepo) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.deleteAllForUser == nil {
		return 0, nil
	}
	return m.deleteAllForUser(ctx, userID)
}

type mockTokenProvider struct{}

func (mockTokenProvider) SignAccess(_ context.Context, sub uuid.UUID, role string, ttl time.Duration) (string, time.Time, error) {
	return "token-" + sub.String() + "-" + role, time.Now().Add(ttl), nil
}
func (mockTokenProvider) ParseAndValidateAccess(_ context.Context, _ string) (*service.Claims, error) {
	return nil, errors.New("not implemented")
}

type captureEmailQueue struct {
	to       string
	template string
	data     map[string]any
}

func (q *captureEmailQueue) SendEmail(_ context.Context, _ string, to, _ string, template string, data map[string]any) error {
	q.to = to
	q.template = template
	q.data = data
	return nil
}

type memoryRateLimiter struct {
	keys map[string]bool
}

func (m *memoryRateLimiter) SetRateLimit(_ context.Context, key string, _ time.Duration) error {
	if m.keys == nil {
		m.keys = map[string]bool{}
	}
	m.keys[key] = true
	return nil
}
func (m *memoryRateLimiter) CheckRateLimit(_ context.Context, key string) (bool, error) {
	return m.keys[key], nil
}

func newUserService(repo *repository.Repository, emails service.EmailQueue, limiter service.RateLimiter) *service.UserService {
	return service.NewUserService(repo, hashing.NewBcrypt(0), mockTokenProvider{}, emails, limiter, time.Hour, zap.NewNop())
}

func TestRegister(t *testing.T) {
	emails := map[string]bool{}
	uniIDs := map[string]bool{}
	var created *models.User

	repo := &repository.Repository{
		Users: &mockUserRepo{
			existsByEmail: func(_ context.Context, email string) (bool, error) { return emails[email], nil },
			existsByUniID: func(_ context.Context, id string) (bool, error) { return uniIDs[id], nil },
			create: func(_ context.Context, u *models.User) error {
				created = u
				emails[u.Email] = true
				uniIDs[u.UniID] = true
				return nil
			},
		},
	}
	svc := newUserService(repo, nil, nil)

	u, err := svc.Register(context.Background(), service.RegisterInput{
		Name:     "Dana",
		Email:    "  Dana@Campus.EDU ",
		UniID:    "U-100",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "dana@campus.edu" {
		t.Fatalf("email = %q, want lowercased trimmed", u.Email)
	}
	if u.Role != models.RoleCustomer {
		t.Fatalf("role = %s, want ROLE_CUSTOMER", u.Role)
	}
	if created.Password == "secret1" {
		t.Fatal("password stored in clear")
	}

	if _, err := svc.Register(context.Background(), service.RegisterInput{
		Name: "Dana again", Email: "dana@campus.edu", UniID: "U-101", Password: "secret1",
	}); !errors.Is(err, service.ErrAlreadyExists) {
		t.Fatalf("duplicate email: err = %v, want ErrAlreadyExists", err)
	}
	if _, err := svc.Register(context.Background(), service.RegisterInput{
		Name: "Other", Email: "other@campus.edu", UniID: "U-100", Password: "secret1",
	}); !errors.Is(err, service.ErrAlreadyExists) {
		t.Fatalf("duplicate uni id: err = %v, want ErrAlreadyExists", err)
	}
	if _, err := svc.Register(context.Background(), service.RegisterInput{
		Name: "Short", Email: "short@campus.edu", UniID: "U-102", Password: "12345",
	}); !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("short password: err = %v, want ErrInvalidInput", err)
	}
}

func TestLogin(t *testing.T) {
	hasher := hashing.NewBcrypt(0)
	hash, err := hasher.Hash("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := &models.User{ID: uuid.New(), Email: "dana@campus.edu", Password: hash, Role: models.RoleCustomer}

	repo := &repository.Repository{
		Users: &mockUserRepo{
			getByEmail: func(_ context.Context, email string) (*models.User, error) {
				if email == user.Email {
					return user, nil
				}
				return nil, nil
			},
		},
	}
	svc := newUserService(repo, nil, nil)

	res, err := svc.Login(context.Background(), user.Email, "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.AccessToken == "" || res.User.ID != user.ID {
		t.Fatalf("result = %+v", res)
	}

	// Unknown email and wrong password look identical to the caller.
	if _, err := svc.Login(context.Background(), "ghost@campus.edu", "secret1"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(context.Background(), user.Email, "wrong"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestChangePassword(t *testing.T) {
	hasher := hashing.NewBcrypt(0)
	hash, _ := hasher.Hash("oldpass")
	user := &models.User{ID: uuid.New(), Password: hash}

	var newHash string
	repo := &repository.Repository{
		Users: &mockUserRepo{
			getByID:        func(_ context.Context, _ uuid.UUID) (*models.User, error) { return user, nil },
			updatePassword: func(_ context.Context, _ uuid.UUID, h string) error { newHash = h; return nil },
		},
	}
	svc := newUserService(repo, nil, nil)

	if err := svc.ChangePassword(context.Background(), user.ID, "wrong", "newpass"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("wrong old password: err = %v, want ErrInvalidCredentials", err)
	}
	if err := svc.ChangePassword(context.Background(), user.ID, "oldpass", "newpass"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if newHash == "" || newHash == hash {
		t.Fatal("password hash was not replaced")
	}
}

func TestPasswordResetFlow(t *testing.T) {
	user := &models.User{ID: uuid.New(), Name: "Dana", Email: "dana@campus.edu"}

	var stored *models.PasswordResetToken
	var newHash string
	repo := &repository.Repository{
		Users: &mockUserRepo{
			getByEmail: func(_ context.Context, email string) (*models.User, error) {
				if email == user.Email {
					return user, nil
				}
				return nil, nil
			},
			updatePassword: func(_ context.Context, _ uuid.UUID, h string) error { newHash = h; return nil },
		},
		PasswordResets: &mockPasswordResetRepo{
			create: func(_ context.Context, tk *models.PasswordResetToken) error {
				tk.ID = uuid.New()
				stored = tk
				return nil
			},
			getValidByHash: func(_ context.Context, codeHash string, now time.Time) (*models.PasswordResetToken, error) {
				if stored != nil && stored.CodeHash == codeHash && now.Before(stored.ExpiresAt) && !stored.Consumed {
					return stored, nil
				}
				return nil, nil
			},
			consume: func(_ context.Context, _ uuid.UUID) (bool, error) {
				if stored.Consumed {
					return false, nil
				}
				stored.Consumed = true
				return true, nil
			},
		},
	}
	emails := &captureEmailQueue{}
	limiter := &memoryRateLimiter{}
	svc := newUserService(repo, emails, limiter)

	if err := svc.RequestPasswordReset(context.Background(), "Dana@Campus.edu"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	if emails.template != "reset_password" || emails.to != user.Email {
		t.Fatalf("email = %+v", emails)
	}
	code, ok := emails.data["Code"].(string)
	if !ok || code == "" {
		t.Fatalf("code = %v", emails.data["Code"])
	}
	if stored == nil || stored.CodeHash == code {
		t.Fatal("reset code must be stored hashed")
	}

	// Back-to-back request is rate limited per email.
	if err := svc.RequestPasswordReset(context.Background(), user.Email); !errors.Is(err, service.ErrTooManyRequests) {
		t.Fatalf("second request: err = %v, want ErrTooManyRequests", err)
	}

	if err := svc.ConfirmPasswordReset(context.Background(), code+"0", "newpass"); !errors.Is(err, service.ErrResetCodeInvalid) {
		t.Fatalf("wrong code: err = %v, want ErrResetCodeInvalid", err)
	}
	if err := svc.ConfirmPasswordReset(context.Background(), code, "newpass"); err != nil {
		t.Fatalf("ConfirmPasswordReset: %v", err)
	}
	if newHash == "" {
		t.Fatal("password was not updated")
	}

	// The code is single use.
	if err := svc.ConfirmPasswordReset(context.Background(), code, "another"); !errors.Is(err, service.ErrResetCodeInvalid) {
		t.Fatalf("reuse: err = %v, want ErrResetCodeInvalid", err)
	}
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	repo := &repository.Repository{
		Users:          &mockUserRepo{},
		PasswordResets: &mockPasswordResetRepo{},
	}
	emails := &captureEmailQueue{}
	svc := newUserService(repo, emails, nil)

	// Unknown addresses succeed silently so the endpoint cannot be used to
	// probe registered emails.
	if err := svc.RequestPasswordReset(context.Background(), "ghost@campus.edu"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	if emails.template != "" {
		t.Fatal("no email may be sent for an unknown address")
	}
}
