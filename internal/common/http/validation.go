package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	commonerrors "github.com/okovalenko/bloglist/internal/common/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs go-playground rules over a decoded request body and
// maps failures to the VALIDATION_FAILED domain error with per-field codes.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return commonerrors.ErrValidation.WithCause(err)
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, strings.ToLower(fe.Field())+":"+fe.Tag())
	}

	return commonerrors.ErrValidation.WithCause(errors.New(strings.Join(parts, ", ")))
}

func ValidateUUID(s string) error {
	if s == "" {
		return commonerrors.ErrValidation
	}
	_, err := uuid.Parse(s)
	return err
}
