package validation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"campstation/internal/app/middleware"
)

type sample struct {
	SiteID int64     `validate:"gt=0"`
	Day    string    `validate:"isodate"`
	At     time.Time `validate:"required"`
}

func TestValidate(t *testing.T) {
	v := New()
	ok := sample{SiteID: 1, Day: "2025-07-15", At: time.Now()}
	if err := v.Validate(context.Background(), ok); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	bad := sample{SiteID: 0, Day: "15/07/2025"}
	err := v.Validate(context.Background(), bad)
	if !errors.Is(err, middleware.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	for _, field := range []string{"SiteID", "Day", "At"} {
		if !strings.Contains(err.Error(), field) {
			t.Fatalf("error %q does not mention %s", err, field)
		}
	}
}

func TestValidateIgnoresNonStructMessages(t *testing.T) {
	if err := New().Validate(context.Background(), "plain"); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
