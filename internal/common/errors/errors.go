package commonerrors

import "net/http"

var (
	ErrMissingRequiredEnv = NewDomainError(
		"MISSING_REQUIRED_ENV",
		CategoryValidation,
		http.StatusInternalServerError,
		"missing required environment variable",
	)

	ErrInvalidJWTSecret = NewDomainError(
		"INVALID_JWT_SECRET",
		CategoryValidation,
		http.StatusInternalServerError,
		"JWT_SECRET must be at least 32 bytes",
	)

	// ErrAuthRequired covers every externally indistinguishable
	// authentication failure: absent header, malformed or unverifiable
	// token, and a subject that no longer resolves.
	ErrAuthRequired = NewDomainError(
		"AUTH_REQUIRED",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"authentication required",
	)

	ErrInvalidCredentials = NewDomainError(
		"INVALID_CREDENTIALS",
		CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid username or password",
	)

	ErrNotBlogOwner = NewDomainError(
		"NOT_BLOG_OWNER",
		CategoryForbidden,
		http.StatusForbidden,
		"only the creator can delete this blog",
	)

	ErrBlogNotFound = NewDomainError(
		"BLOG_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"blog not found",
	)

	ErrUserNotFound = NewDomainError(
		"USER_NOT_FOUND",
		CategoryNotFound,
		http.StatusNotFound,
		"user not found",
	)

	// 400, not 409: duplicate usernames surface as a registration
	// validation failure.
	ErrUsernameTaken = NewDomainError(
		"USERNAME_TAKEN",
		CategoryValidation,
		http.StatusBadRequest,
		"username must be unique",
	)

	ErrValidation = NewDomainError(
		"VALIDATION_FAILED",
		CategoryValidation,
		http.StatusBadRequest,
		"validation failed",
	)

	ErrMissingTitleOrURL = NewDomainError(
		"MISSING_TITLE_OR_URL",
		CategoryValidation,
		http.StatusBadRequest,
		"title and url are required",
	)

	ErrNegativeLikes = NewDomainError(
		"NEGATIVE_LIKES",
		CategoryValidation,
		http.StatusBadRequest,
		"likes must not be negative",
	)

	ErrInternalError = NewDomainError(
		"INTERNAL_ERROR",
		CategoryInternal,
		http.StatusInternalServerError,
		"internal server error",
	)

	ErrRepositoryFailure = NewDomainError(
		"REPOSITORY_FAILURE",
		CategoryExternal,
		http.StatusInternalServerError,
		"repository operation failed",
	)
)
