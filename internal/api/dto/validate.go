package dto

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/secureguard/phishsim-service/pkg/apperrors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a request DTO against its struct tags, converting
// violations into a ValidationError with per-field details.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[strings.ToLower(fe.Field())] = fe.Tag()
	}
	return apperrors.NewValidationError("validation failed", details)
}
