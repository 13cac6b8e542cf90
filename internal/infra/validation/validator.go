package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"campstation/internal/app/middleware"
	"campstation/internal/domain/shared/daterange"
)

// Validator checks `validate` struct tags on bus messages.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = RegisterRules(v)
	return &Validator{validate: v}
}

// RegisterRules adds the custom tags shared by bus messages and HTTP binding.
func RegisterRules(v *validator.Validate) error {
	return v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := daterange.ParseDay(fl.Field().String())
		return err == nil
	})
}

func (v *Validator) Validate(ctx context.Context, message any) error {
	if err := v.validate.StructCtx(ctx, message); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return nil
		}
		return fmt.Errorf("%w: %s", middleware.ErrValidation, describe(err))
	}
	return nil
}

func describe(err error) string {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return err.Error()
	}
	parts := make([]string, 0, len(fields))
	for _, fe := range fields {
		parts = append(parts, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

var _ middleware.Validator = (*Validator)(nil)
