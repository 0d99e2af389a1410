package env_vars

import (
	"context"
	"testing"

	"github.com/specialistvlad/extractgrid/internal/extract"
	"github.com/specialistvlad/extractgrid/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTrigger(t *testing.T, env map[string]string, input *Input) extract.Trigger {
	t.Helper()
	r := registry.New()
	(&Module{Lookup: func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}}).Register(r)
	require.NoError(t, r.ValidateRegistry(context.Background()))

	def, ok := r.Lookup(extract.TriggersGroup, TypeName)
	require.True(t, ok)
	if input == nil {
		input = def.NewInput().(*Input)
	}
	impl, err := def.New(input)
	require.NoError(t, err)
	return impl.(extract.Trigger)
}

func TestTrigger_IsActivated(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
		want bool
	}{
		{name: "unset", env: map[string]string{}, want: false},
		{name: "true", env: map[string]string{"EXTRACT_NOW": "true"}, want: true},
		{name: "one", env: map[string]string{"EXTRACT_NOW": "1"}, want: true},
		{name: "false", env: map[string]string{"EXTRACT_NOW": "0"}, want: false},
		{name: "garbage", env: map[string]string{"EXTRACT_NOW": "soon"}, want: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			trigger := newTrigger(t, tc.env, &Input{Name: "EXTRACT_NOW"})
			assert.Equal(t, tc.want, trigger.IsActivated(nil))
		})
	}
}

func TestTrigger_DefaultName(t *testing.T) {
	trigger := newTrigger(t, map[string]string{"EXTRACTGRID_EXTRACT": "yes"}, nil)
	assert.False(t, trigger.IsActivated(nil), `"yes" is not a bool`)

	trigger = newTrigger(t, map[string]string{"EXTRACTGRID_EXTRACT": "T"}, nil)
	assert.True(t, trigger.IsActivated(nil))
}

func TestRegister_RejectsEmptyName(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)
	def, _ := r.Lookup(extract.TriggersGroup, TypeName)

	_, err := def.New(&Input{})
	assert.Error(t, err)
}
