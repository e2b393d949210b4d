package constants

import "time"

const (
	// mirrored by the validate tags on the registration request
	UsernameMinLength  = 3
	UsernameMaxLength  = 32
	PasswordMinLength  = 3
	PasswordMaxLength  = 72
	NameMaxLength      = 100
	JWTSecretMinLength = 32

	DefaultMaxRequestSize = 1 << 20

	DBPoolMaxOpenConns    = 25
	DBPoolMinOpenConns    = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = time.Second
	DBPoolMetricsInterval = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultHTTPPort       = "3003"
	DefaultTokenTTL       = time.Hour
	DefaultRequestTimeout = 5 * time.Second

	RateLimitCleanupInterval           = 3 * time.Minute
	RateLimitLoginRequestsPerSecond    = 1
	RateLimitLoginBurst                = 5
	RateLimitRegisterRequestsPerSecond = 1
	RateLimitRegisterBurst             = 3
	RateLimitGeneralRequestsPerSecond  = 25
	RateLimitGeneralBurst              = 50

	EventHubSendBufSize      = 64
	EventFeedWriteWait       = 10 * time.Second
	EventFeedPongWait        = 60 * time.Second
	EventFeedPingPeriod      = 54 * time.Second
	EventFeedMaxInboundBytes = 512
	WebSocketReadBufferSize  = 1024
	WebSocketWriteBufferSize = 1024

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
