package validate

// Thin wrapper around go-playground/validator shared by config, storage and the
// refresh core.
//
// e.g. internal/refresh/config.go
//   type Config struct {
//       Orientation    Orientation   `validate:"valid_enum"`
//       RestoreTimeout time.Duration `validate:"gte=0"`
//   }
//
// valid_enum accepts any field whose value implements Enum.

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

// Enum is implemented by closed sets of named values (orientations, event kinds).
type Enum interface {
	Valid() bool
}

//nolint:gochecknoglobals // Shared validator singleton.
var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

// get returns a process-wide singleton of the validator.
func get() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New(validator.WithRequiredStructEnabled())
		// Registration only fails on an empty tag or nil func.
		_ = validatorInst.RegisterValidation("valid_enum", validEnum)
	})
	return validatorInst
}

func validEnum(fl validator.FieldLevel) bool {
	if !fl.Field().CanInterface() {
		return false
	}
	e, ok := fl.Field().Interface().(Enum)
	if !ok {
		return false
	}
	return e.Valid()
}

// Struct validates a struct using the shared validator instance.
func Struct(v any) error {
	return get().Struct(v)
}

// Var validates a single variable against the provided tag constraints.
func Var(field any, tag string) error {
	return get().Var(field, tag)
}
