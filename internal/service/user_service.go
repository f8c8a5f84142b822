package service

import (
	"context"
	"strings"
	"time"

	"bookswap-api/internal/models"
	"bookswap-api/internal/repository"
	"bookswap-api/internal/util"

	"github.com/google/uuid"
	"github.com/nanorand/nanorand"
	"go.uber.org/zap"
)

const (
	resetCodeTTL      = time.Hour
	resetRateInterval = time.Minute
)

// UserService covers registration, login, profile management and the
// password-reset flow.
type UserService struct {
	repo      *repository.Repository
	hasher    PasswordHasher
	tokens    TokenProvider
	emails    EmailQueue
	limiter   RateLimiter
	accessTTL time.Duration
	log       *zap.Logger
	now       func() time.Time
}

func NewUserService(
	repo *repository.Repository,
	hasher PasswordHasher,
	tokens TokenProvider,
	emails EmailQueue,
	limiter RateLimiter,
	accessTTL time.Duration,
	log *zap.Logger,
) *UserService {
	return &UserService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		emails:    emails,
		limiter:   limiter,
		accessTTL: accessTTL,
		log:       log,
		now:       time.Now,
	}
}

type RegisterInput struct {
	Name       string
	Email      string
	UniID      string
	Password   string
	Role       models.Role
	Phone      string
	Department string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.UniID = strings.TrimSpace(in.UniID)
	if in.Name == "" || in.Email == "" || in.UniID == "" || len(in.Password) < 6 {
		return nil, ErrInvalidInput
	}

	if taken, err := s.repo.Users.ExistsByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrAlreadyExists
	}
	if taken, err := s.repo.Users.ExistsByUniID(ctx, in.UniID); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrAlreadyExists
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = models.RoleCustomer
	}
	u := &models.User{
		Name:       in.Name,
		Email:      in.Email,
		UniID:      in.UniID,
		Password:   hash,
		Role:       role,
		Phone:      in.Phone,
		Department: in.Department,
	}
	if err := s.repo.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("id", u.ID.String()), zap.String("uni_id", u.UniID))
	return u, nil
}

type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *models.User
}

func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.repo.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !s.hasher.Compare(u.Password, password) {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.tokens.SignAccess(ctx, u.ID, string(u.Role), s.accessTTL)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: token, ExpiresAt: exp, User: u}, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.repo.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	return s.repo.Users.List(ctx, limit, offset)
}

type UpdateUserInput struct {
	Name       *string
	Phone      *string
	Department *string
}

func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*models.User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if in.Name != nil {
		u.Name = *in.Name
		fields["name"] = *in.Name
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
		fields["phone"] = *in.Phone
	}
	if in.Department != nil {
		u.Department = *in.Department
		fields["department"] = *in.Department
	}
	if len(fields) == 0 {
		return u, nil
	}
	if err := s.repo.Users.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return ErrInvalidInput
	}
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if !s.hasher.Compare(u.Password, oldPassword) {
		return ErrInvalidCredentials
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.repo.Users.UpdatePassword(ctx, id, hash)
}

// RequestPasswordReset issues a one-time code valid for an hour. The response
// never reveals whether the email is registered.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return ErrInvalidInput
	}

	if s.limiter != nil {
		key := "pwreset:" + email
		recent, err := s.limiter.CheckRateLimit(ctx, key)
		if err != nil {
			s.log.Warn("rate limit check failed", zap.Error(err))
		} else if recent {
			return ErrTooManyRequests
		}
		if err := s.limiter.SetRateLimit(ctx, key, resetRateInterval); err != nil {
			s.log.Warn("rate limit set failed", zap.Error(err))
		}
	}

	u, err := s.repo.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return nil
	}

	code, err := nanorand.Gen(6)
	if err != nil {
		return err
	}

	reset := &models.PasswordResetToken{
		UserID:    u.ID,
		Email:     email,
		CodeHash:  util.Sha256Base64URL(code),
		ExpiresAt: s.now().Add(resetCodeTTL),
	}
	if err := s.repo.PasswordResets.Create(ctx, reset); err != nil {
		return err
	}

	if s.emails != nil {
		err := s.emails.SendEmail(ctx, u.ID.String(), email, "Password reset code", "reset_password", map[string]any{
			"Name": u.Name,
			"Code": code,
		})
		if err != nil {
			s.log.Error("reset email enqueue failed", zap.String("email", email), zap.Error(err))
		}
	}
	return nil
}

func (s *UserService) ConfirmPasswordReset(ctx context.Context, code, newPassword string) error {
	if len(newPassword) < 6 {
		return ErrInvalidInput
	}

	reset, err := s.repo.PasswordResets.GetValidByHash(ctx, util.Sha256Base64URL(code), s.now())
	if err != nil {
		return err
	}
	if reset == nil {
		return ErrResetCodeInvalid
	}

	ok, err := s.repo.PasswordResets.Consume(ctx, reset.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrResetCodeInvalid
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.Users.UpdatePassword(ctx, reset.UserID, hash); err != nil {
		return err
	}

	if _, err := s.repo.PasswordResets.DeleteAllForUser(ctx, reset.UserID); err != nil {
		s.log.Warn("reset token cleanup failed", zap.Error(err))
	}
	return nil
}
