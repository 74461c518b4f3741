package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/cms-service/internal/auth"
	"github.com/spec-kit/cms-service/internal/domain"
	"github.com/spec-kit/cms-service/internal/repository"
	"github.com/spec-kit/cms-service/pkg/util"
)

const minPasswordLength = 6

// IdentityService binds provider credentials to user profiles and
// issues session tokens.
type IdentityService struct {
	provider auth.Provider
	tokens   *auth.TokenManager
	revoked  *auth.RevocationList
	users    repository.UserRepository
	logger   *zap.Logger
}

// IdentityDependencies bundles collaborators for the identity service.
type IdentityDependencies struct {
	Provider auth.Provider
	Tokens   *auth.TokenManager
	Revoked  *auth.RevocationList
	UserRepo repository.UserRepository
	Logger   *zap.Logger
}

// RegisterInput describes a registration payload.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	UserType domain.UserType
}

// Session is the result of a successful sign-in or registration.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// NewIdentityService constructs the service.
func NewIdentityService(deps IdentityDependencies) *IdentityService {
	return &IdentityService{
		provider: deps.Provider,
		tokens:   deps.Tokens,
		revoked:  deps.Revoked,
		users:    deps.UserRepo,
		logger:   deps.Logger,
	}
}

// Register creates a credential, then the profile document under the
// provider-assigned id. A profile write failure leaves an orphaned
// credential and is reported as partial success naming the user id.
func (s *IdentityService) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	email := strings.TrimSpace(input.Email)
	fullName := strings.TrimSpace(input.FullName)

	details := map[string]any{}
	if _, err := mail.ParseAddress(email); err != nil {
		details["email"] = "must be a valid email address"
	}
	if len(input.Password) < minPasswordLength {
		details["password"] = "must be at least 6 characters"
	}
	if fullName == "" {
		details["full_name"] = "is required"
	}
	if !input.UserType.Valid() {
		details["user_type"] = "must be manager or regular"
	}
	if len(details) > 0 {
		return nil, util.NewValidationError("invalid registration payload", details)
	}

	userID, err := s.provider.CreateUser(ctx, email, input.Password)
	if err != nil {
		return nil, util.MapError(err)
	}

	user := &domain.User{
		ID:       userID,
		Email:    strings.ToLower(email),
		FullName: fullName,
		UserType: input.UserType,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("profile write failed after credential creation",
			zap.String("user_id", userID), zap.Error(err))
		return nil, util.NewPartialSuccess("account created without profile",
			map[string]any{"user_id": userID, "reason": "identity_orphan"}, err)
	}

	session, err := s.startSession(user)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// SignIn authenticates the credential and loads the profile. A
// credential without a profile yields no session.
func (s *IdentityService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	userID, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, util.MapError(err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		derr := util.ToDomainError(err)
		if derr.Code == "NOT_FOUND" {
			s.logger.Warn("credential has no profile document", zap.String("user_id", userID))
			return nil, util.NewMissingProfile()
		}
		return nil, derr
	}

	return s.startSession(user)
}

// SignOut revokes the presented token until it would have expired.
func (s *IdentityService) SignOut(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return util.NewUnauthorized("no active session")
	}
	expiresAt := time.Now()
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.revoked.Revoke(ctx, claims.ID, expiresAt); err != nil {
		return util.NewInternalError(err)
	}
	return nil
}

// CurrentUser returns the profile behind the principal.
func (s *IdentityService) CurrentUser(ctx context.Context, p *domain.Principal) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, util.MapError(err)
	}
	return user, nil
}

func (s *IdentityService) startSession(user *domain.User) (*Session, error) {
	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.UserType)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
