//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package validate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type color int

func (c color) Valid() bool { return c >= 0 && c < 3 }

type palette struct {
	Primary color  `validate:"valid_enum"`
	Name    string `validate:"required"`
}

func TestStruct_ValidEnum(t *testing.T) {
	require.NoError(t, Struct(palette{Primary: 2, Name: "ok"}))
	require.Error(t, Struct(palette{Primary: 7, Name: "ok"}))
	require.Error(t, Struct(palette{Primary: 1}))
}

func TestVar_ValidEnum(t *testing.T) {
	require.NoError(t, Var(color(0), "valid_enum"))
	require.Error(t, Var(color(-1), "valid_enum"))
	// Values that are not an Enum never pass.
	require.Error(t, Var(42, "valid_enum"))
}

func TestVar_UUID(t *testing.T) {
	require.NoError(t, Var("123e4567-e89b-12d3-a456-426614174000", "uuid_rfc4122"))
	require.Error(t, Var("not-a-uuid", "uuid4"))
}
