package action_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zawwz/rmidimap/internal/action"
	"github.com/zawwz/rmidimap/internal/config"
	"github.com/zawwz/rmidimap/internal/mievent"
	"github.com/zawwz/rmidimap/internal/values"
)

func TestBuildEnv_DefaultKeys(t *testing.T) {
	e := mievent.Event{Type: mievent.NoteOn, Channel: 1, ID: 60, Value: 100, Raw: []byte{0x91, 60, 100}}

	env := action.BuildEnv(e, nil, false, nil)

	assert.Contains(t, env, "channel=1")
	assert.Contains(t, env, "id=60")
	assert.Contains(t, env, "rawvalue=100")
	assert.Contains(t, env, "value=100")
	assert.Contains(t, env, "raw=91 3C 64")
}

func TestBuildEnv_Remap(t *testing.T) {
	src := values.NewRange(0, 127)
	dst := values.NewRange(0, 100)
	remap, err := values.NewRemapper(src, dst)
	assert.NoError(t, err)

	e := mievent.Event{Type: mievent.Controller, Value: 100}

	env := action.BuildEnv(e, &remap, false, nil)

	assert.Contains(t, env, "value=78")
}

func TestBuildEnv_CustomKeys(t *testing.T) {
	e := mievent.Event{Value: 5}
	keys := &config.EnvKeyMap{Value: "cc_value"}

	env := action.BuildEnv(e, nil, false, keys)

	assert.Contains(t, env, "cc_value=5")
	assert.Contains(t, env, "rawvalue=5")
}
