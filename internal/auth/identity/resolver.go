package identity

import (
	"context"

	"github.com/okovalenko/bloglist/internal/auth/token"
	"github.com/okovalenko/bloglist/internal/common/logger"
	"github.com/okovalenko/bloglist/internal/observability/metrics"
	userdomain "github.com/okovalenko/bloglist/internal/user/domain"
	userrepo "github.com/okovalenko/bloglist/internal/user/repository"
)

// Resolver maps a verified subject to a live user record. No header, a bad
// signature and a dangling subject all resolve to None: the three causes
// must stay externally indistinguishable so callers cannot probe which
// user ids exist.
type Resolver struct {
	users userrepo.Repository
	log   *logger.Logger
}

func NewResolver(users userrepo.Repository, log *logger.Logger) *Resolver {
	return &Resolver{users: users, log: log}
}

func (r *Resolver) Resolve(ctx context.Context, sub token.Subject) Identity {
	id, ok := sub.ID()
	if !ok {
		// fast path, no repository call
		metrics.IdentityResolutionsTotal.WithLabelValues("no_credential").Inc()
		return None()
	}

	user, err := r.users.FindByID(ctx, userdomain.ID(id))
	if err != nil {
		metrics.IdentityResolutionsTotal.WithLabelValues("unresolvable").Inc()
		r.log.WithFields(ctx, logger.Fields{
			"action": "identity_resolve_failed",
		}).Debugf("subject did not resolve: %v", err)
		return None()
	}

	metrics.IdentityResolutionsTotal.WithLabelValues("resolved").Inc()
	return Resolved(user)
}
