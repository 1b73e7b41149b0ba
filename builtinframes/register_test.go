package builtinframes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenhq/warden/frame"
)

func TestRegisterAll_RegistersEveryBuiltinFrame(t *testing.T) {
	reg := frame.NewRegistry()
	require.NoError(t, RegisterAll(reg))
	assert.Equal(t, 3, reg.Len())

	for _, id := range []string{"security", "orphan", "contract"} {
		_, ok := reg.Get(id)
		assert.True(t, ok, "expected frame %q to be registered", id)
	}
}

func TestRegisterAll_RejectsDuplicateRegistration(t *testing.T) {
	reg := frame.NewRegistry()
	require.NoError(t, RegisterAll(reg))
	err := RegisterAll(reg)
	assert.Error(t, err)
}
