package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bloglist_tokens_issued_total",
			Help: "Total number of bearer tokens issued at login",
		},
	)

	TokenVerificationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bloglist_token_verifications_total",
			Help: "Total number of bearer token verification attempts",
		},
	)

	TokenVerificationsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bloglist_token_verifications_failed_total",
			Help: "Total number of failed bearer token verifications",
		},
	)

	IdentityResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bloglist_identity_resolutions_total",
			Help: "Identity resolution outcomes per request",
		},
		[]string{"outcome"},
	)

	LoginFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bloglist_login_failures_total",
			Help: "Total number of rejected login attempts",
		},
	)

	UsersRegisteredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bloglist_users_registered_total",
			Help: "Total number of registered users",
		},
	)
)
