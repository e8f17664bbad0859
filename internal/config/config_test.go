package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zawwz/rmidimap/internal/config"
	"github.com/zawwz/rmidimap/internal/mievent"
)

const sampleConfig = `
log_devices: true
devices:
  - name: Keystation
    max_connections: 1
    events:
      - type: note_on
        channel: 0
        id: 60
        run:
          - cmd: "echo $value"
  - regex: ".*"
    events:
      - type: controller
        id: 7
        remap: 0-100
        run:
          - args: ["notify-send", "cc"]
`

func TestParse_Sample(t *testing.T) {
	cfg, err := config.Parse([]byte(sampleConfig))
	require.NoError(t, err)
	require.Len(t, cfg.Devices, 2)

	assert.True(t, cfg.LogDevices)
	assert.Equal(t, config.IdentifierName, cfg.Devices[0].Identifier.Kind)
	assert.Equal(t, "Keystation", cfg.Devices[0].Identifier.Name)
	require.NotNil(t, cfg.Devices[0].MaxConnections)
	assert.Equal(t, uint32(1), *cfg.Devices[0].MaxConnections)

	require.Len(t, cfg.Devices[0].Events, 1)
	rule := cfg.Devices[0].Events[0]
	assert.Equal(t, mievent.NoteOn, rule.Type)
	assert.True(t, rule.Channels.Contains(0))
	assert.True(t, rule.IDs.Contains(60))

	assert.Equal(t, config.IdentifierRegex, cfg.Devices[1].Identifier.Kind)
	require.NotNil(t, cfg.Devices[1].Events[0].Remap)
}

func TestParse_UnknownFieldRejected(t *testing.T) {
	_, err := config.Parse([]byte("devices: []\nbogus_field: true\n"))
	assert.ErrorIs(t, err, config.ErrConfig)
}

func TestParse_IdentifierConflict(t *testing.T) {
	_, err := config.Parse([]byte(`
devices:
  - name: Foo
    regex: ".*"
`))
	assert.ErrorIs(t, err, config.ErrIdentifierConflict)
}

func TestParse_RunMissingArgs(t *testing.T) {
	_, err := config.Parse([]byte(`
devices:
  - events:
      - type: note_on
        run:
          - detach: true
`))
	assert.ErrorIs(t, err, config.ErrRunMissingArgs)
}

func TestParse_DefaultQueueLength(t *testing.T) {
	cfg, err := config.Parse([]byte("devices:\n  - {}\n"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultQueueLength, cfg.Devices[0].QueueLength)
	assert.Equal(t, config.IdentifierAll, cfg.Devices[0].Identifier.Kind)
}

func TestParse_ValueLiteralForms(t *testing.T) {
	cfg, err := config.Parse([]byte(`
devices:
  - events:
      - type: controller
        id: 7
        value: "0,2,5:7"
        run:
          - args: ["true"]
`))
	require.NoError(t, err)

	vf := cfg.Devices[0].Events[0].ValueFilter
	require.NotNil(t, vf)
	assert.Equal(t, []int{0, 2, 5, 6, 7}, vf.Values())
}
