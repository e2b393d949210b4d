package service

import (
	"context"
	"errors"

	commoncrypto "github.com/okovalenko/bloglist/internal/common/crypto"
	commonerrors "github.com/okovalenko/bloglist/internal/common/errors"
	"github.com/okovalenko/bloglist/internal/common/logger"
	"github.com/okovalenko/bloglist/internal/observability/metrics"
	"github.com/okovalenko/bloglist/internal/user/domain"
	userrepo "github.com/okovalenko/bloglist/internal/user/repository"
)

type Service struct {
	users       userrepo.Repository
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	log         *logger.Logger
}

func NewService(
	users userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	idGenerator commoncrypto.IDGenerator,
	log *logger.Logger,
) *Service {
	return &Service{
		users:       users,
		hasher:      hasher,
		idGenerator: idGenerator,
		log:         log,
	}
}

type RegisterInput struct {
	Username string
	Name     string
	Password string
}

// Register creates a user with a hashed password digest. Username
// uniqueness is enforced before any other persistence effect: the insert
// itself is the uniqueness check.
func (s *Service) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "register_attempt",
	}).Info("register attempt")

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return domain.User{}, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           domain.ID(id),
		Username:     input.Username,
		Name:         input.Name,
		PasswordHash: hash,
		BlogIDs:      []string{},
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, userrepo.ErrUsernameAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "register_username_exists",
			}).Warn("register failed: username taken")
			return domain.User{}, commonerrors.ErrUsernameTaken
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_create_failed",
		}).Errorf("register failed: %v", err)
		return domain.User{}, commonerrors.ErrRepositoryFailure.WithCause(err)
	}

	metrics.UsersRegisteredTotal.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "register_success",
	}).Info("register success")

	return user, nil
}

func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, commonerrors.ErrRepositoryFailure.WithCause(err)
	}
	return users, nil
}
