package service

import (
	"context"
	"errors"

	"github.com/okovalenko/bloglist/internal/auth/token"
	commoncrypto "github.com/okovalenko/bloglist/internal/common/crypto"
	commonerrors "github.com/okovalenko/bloglist/internal/common/errors"
	"github.com/okovalenko/bloglist/internal/common/logger"
	"github.com/okovalenko/bloglist/internal/observability/metrics"
	userrepo "github.com/okovalenko/bloglist/internal/user/repository"
)

type LoginService struct {
	users  userrepo.Repository
	hasher commoncrypto.PasswordHasher
	issuer *token.Issuer
	log    *logger.Logger
}

func NewLoginService(
	users userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	issuer *token.Issuer,
	log *logger.Logger,
) *LoginService {
	return &LoginService{
		users:  users,
		hasher: hasher,
		issuer: issuer,
		log:    log,
	}
}

type LoginInput struct {
	Username string
	Password string
}

type LoginResult struct {
	Token    string
	Username string
	Name     string
}

// Login verifies the password digest and issues a bearer token carrying the
// user's id as its subject claim. Unknown username and wrong password are
// deliberately the same failure.
func (s *LoginService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "login_attempt",
	}).Info("login attempt")

	user, err := s.users.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			metrics.LoginFailuresTotal.Inc()
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "login_user_not_found",
			}).Warn("login failed: not found")
			return LoginResult{}, commonerrors.ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return LoginResult{}, commonerrors.ErrRepositoryFailure.WithCause(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		metrics.LoginFailuresTotal.Inc()
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_invalid_password",
		}).Warn("login failed: invalid password")
		return LoginResult{}, commonerrors.ErrInvalidCredentials
	}

	signed, err := s.issuer.Issue(string(user.ID), user.Username)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"user_id":  string(user.ID),
			"action":   "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return LoginResult{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "login_success",
	}).Info("login success")

	return LoginResult{
		Token:    signed,
		Username: user.Username,
		Name:     user.Name,
	}, nil
}
