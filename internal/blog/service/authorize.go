package service

import (
	"github.com/okovalenko/bloglist/internal/auth/identity"
	"github.com/okovalenko/bloglist/internal/blog/domain"
	"github.com/okovalenko/bloglist/internal/observability/metrics"
)

type DenyReason int

const (
	// DenyUnauthenticated maps to a 401-class outcome, DenyForbidden to a
	// 403-class one; the two are never merged.
	DenyUnauthenticated DenyReason = iota
	DenyForbidden
)

// Decision is the outcome of an ownership check on a mutating operation.
type Decision struct {
	allowed bool
	reason  DenyReason
}

func Allow() Decision {
	return Decision{allowed: true}
}

func Deny(reason DenyReason) Decision {
	return Decision{reason: reason}
}

func (d Decision) Allowed() bool {
	return d.allowed
}

func (d Decision) Reason() (DenyReason, bool) {
	return d.reason, !d.allowed
}

// Authorize decides whether the caller may mutate the blog. It runs only
// once the blog is known to exist; existence is the caller's concern.
func Authorize(id identity.Identity, blog domain.Blog) Decision {
	user, ok := id.User()
	if !ok {
		metrics.OwnershipChecksTotal.WithLabelValues("deny_unauthenticated").Inc()
		return Deny(DenyUnauthenticated)
	}

	if user.ID != blog.OwnerID {
		metrics.OwnershipChecksTotal.WithLabelValues("deny_forbidden").Inc()
		return Deny(DenyForbidden)
	}

	metrics.OwnershipChecksTotal.WithLabelValues("allow").Inc()
	return Allow()
}
