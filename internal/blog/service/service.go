package service

import (
	"context"
	"errors"
	"strings"

	"github.com/okovalenko/bloglist/internal/auth/identity"
	"github.com/okovalenko/bloglist/internal/blog/domain"
	blogrepo "github.com/okovalenko/bloglist/internal/blog/repository"
	"github.com/okovalenko/bloglist/internal/blog/stats"
	commoncrypto "github.com/okovalenko/bloglist/internal/common/crypto"
	commonerrors "github.com/okovalenko/bloglist/internal/common/errors"
	"github.com/okovalenko/bloglist/internal/common/logger"
	"github.com/okovalenko/bloglist/internal/observability/metrics"
)

// Publisher receives lifecycle events for the public live feed. A nil-safe
// no-op implementation is fine; the service never depends on delivery.
type Publisher interface {
	BlogCreated(blog domain.Blog)
	BlogDeleted(id domain.ID)
}

type noopPublisher struct{}

func (noopPublisher) BlogCreated(domain.Blog) {}
func (noopPublisher) BlogDeleted(domain.ID)   {}

type Service struct {
	blogs       blogrepo.Repository
	idGenerator commoncrypto.IDGenerator
	events      Publisher
	log         *logger.Logger
}

func NewService(
	blogs blogrepo.Repository,
	idGenerator commoncrypto.IDGenerator,
	events Publisher,
	log *logger.Logger,
) *Service {
	if events == nil {
		events = noopPublisher{}
	}
	return &Service{
		blogs:       blogs,
		idGenerator: idGenerator,
		events:      events,
		log:         log,
	}
}

type CreateInput struct {
	Title  string
	Author string
	URL    string
	Likes  int
}

// Create persists a new blog owned by the caller. The identity check runs
// before payload validation and both run before any repository effect.
func (s *Service) Create(ctx context.Context, id identity.Identity, input CreateInput) (domain.Blog, error) {
	user, ok := id.User()
	if !ok {
		s.log.WithFields(ctx, logger.Fields{
			"action": "create_blog_unauthenticated",
		}).Warn("create blog rejected: no identity")
		return domain.Blog{}, commonerrors.ErrAuthRequired
	}

	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.URL) == "" {
		return domain.Blog{}, commonerrors.ErrMissingTitleOrURL
	}

	if input.Likes < 0 {
		return domain.Blog{}, commonerrors.ErrNegativeLikes
	}

	blogID, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Blog{}, err
	}

	blog := domain.Blog{
		ID:      domain.ID(blogID),
		Title:   input.Title,
		Author:  input.Author,
		URL:     input.URL,
		Likes:   input.Likes,
		OwnerID: user.ID,
	}

	if err := s.blogs.Create(ctx, blog); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "create_blog_failed",
		}).Errorf("create blog failed: %v", err)
		return domain.Blog{}, commonerrors.ErrRepositoryFailure.WithCause(err)
	}

	metrics.BlogsCreatedTotal.Inc()
	s.events.BlogCreated(blog)

	s.log.WithFields(ctx, logger.Fields{
		"blog_id": blogID,
		"user_id": string(user.ID),
		"action":  "create_blog_success",
	}).Info("blog created")

	return blog, nil
}

// Delete removes a blog after the ownership check. Not-found and
// not-the-owner stay distinct outcomes; a deny leaves no persistence
// effect.
func (s *Service) Delete(ctx context.Context, id identity.Identity, blogID domain.ID) error {
	if _, ok := id.User(); !ok {
		s.log.WithFields(ctx, logger.Fields{
			"blog_id": string(blogID),
			"action":  "delete_blog_unauthenticated",
		}).Warn("delete blog rejected: no identity")
		return commonerrors.ErrAuthRequired
	}

	blog, err := s.blogs.FindByID(ctx, blogID)
	if err != nil {
		if errors.Is(err, blogrepo.ErrBlogNotFound) {
			return commonerrors.ErrBlogNotFound
		}
		return commonerrors.ErrRepositoryFailure.WithCause(err)
	}

	if decision := Authorize(id, blog); !decision.Allowed() {
		s.log.WithFields(ctx, logger.Fields{
			"blog_id": string(blogID),
			"action":  "delete_blog_forbidden",
		}).Warn("delete blog rejected: caller is not the owner")
		return commonerrors.ErrNotBlogOwner
	}

	if err := s.blogs.Delete(ctx, blogID); err != nil {
		if errors.Is(err, blogrepo.ErrBlogNotFound) {
			return commonerrors.ErrBlogNotFound
		}
		return commonerrors.ErrRepositoryFailure.WithCause(err)
	}

	metrics.BlogsDeletedTotal.Inc()
	s.events.BlogDeleted(blogID)

	s.log.WithFields(ctx, logger.Fields{
		"blog_id": string(blogID),
		"action":  "delete_blog_success",
	}).Info("blog deleted")

	return nil
}

func (s *Service) List(ctx context.Context) ([]domain.WithOwner, error) {
	blogs, err := s.blogs.FindAllWithOwners(ctx)
	if err != nil {
		return nil, commonerrors.ErrRepositoryFailure.WithCause(err)
	}
	return blogs, nil
}

// UpdateLikes is a public operation: any caller may adjust any blog's likes
// counter. The asymmetry with create/delete is deliberate.
func (s *Service) UpdateLikes(ctx context.Context, blogID domain.ID, likes int) (domain.Blog, error) {
	if likes < 0 {
		return domain.Blog{}, commonerrors.ErrNegativeLikes
	}

	blog, err := s.blogs.UpdateLikes(ctx, blogID, likes)
	if err != nil {
		if errors.Is(err, blogrepo.ErrBlogNotFound) {
			return domain.Blog{}, commonerrors.ErrBlogNotFound
		}
		return domain.Blog{}, commonerrors.ErrRepositoryFailure.WithCause(err)
	}

	metrics.LikesUpdatedTotal.Inc()
	return blog, nil
}

func (s *Service) Stats(ctx context.Context) (stats.Summary, error) {
	withOwners, err := s.blogs.FindAllWithOwners(ctx)
	if err != nil {
		return stats.Summary{}, commonerrors.ErrRepositoryFailure.WithCause(err)
	}

	blogs := make([]domain.Blog, 0, len(withOwners))
	for _, b := range withOwners {
		blogs = append(blogs, b.Blog)
	}

	return stats.Summarize(blogs), nil
}
