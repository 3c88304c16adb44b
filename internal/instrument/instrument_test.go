package instrument

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/telesim/internal/array"
)

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	arrays, err := array.LoadRegistry()
	require.NoError(t, err)
	r, err := LoadRegistry(arrays)
	require.NoError(t, err)
	return r
}

func TestRegistryGet(t *testing.T) {
	r := newRegistry(t)
	for _, name := range r.Names() {
		inst, err := r.Get(name, nil)
		require.NoError(t, err, name)
		assert.Equal(t, inst.Array.NDets(), len(inst.Offsets()))
		assert.Positive(t, inst.VelLimit)
	}
}

func TestRegistryRoutesOverrides(t *testing.T) {
	r := newRegistry(t)

	inst, err := r.Get("default", map[string]interface{}{
		"vel_limit":     0.5,
		"field_of_view": 0.3,
		"geometry":      "flower",
	})
	require.NoError(t, err)
	assert.Equal(t, 0.5, inst.VelLimit)
	assert.Equal(t, 2.0, inst.AccLimit)
	assert.Equal(t, 0.3, inst.Array.FieldOfView)
	assert.Equal(t, array.GeometryFlower, inst.Array.Geometry)
}

func TestRegistryErrors(t *testing.T) {
	r := newRegistry(t)

	_, err := r.Get("hubble", nil)
	assert.ErrorIs(t, err, ErrUnknownInstrument)

	_, err = r.Get("default", map[string]interface{}{"mirror_count": 2})
	assert.ErrorIs(t, err, ErrInvalidParam)

	_, err = r.Get("default", map[string]interface{}{"array_name": "nope"})
	assert.ErrorIs(t, err, array.ErrInvalidArrayName)
}

func TestParamsIncludesArrayParams(t *testing.T) {
	p := Params()
	assert.Contains(t, p, "vel_limit")
	assert.Contains(t, p, "primary_size")
}
