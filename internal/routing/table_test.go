package routing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zawwz/rmidimap/internal/mievent"
	"github.com/zawwz/rmidimap/internal/routing"
	"github.com/zawwz/rmidimap/internal/values"
)

func TestTable_Lookup(t *testing.T) {
	rule := &routing.Rule{
		Type:     mievent.NoteOn,
		Channels: values.NewIntSetFromValues([]int{0}),
		IDs:      values.NewIntSetFromValues([]int{60}),
	}

	tbl := routing.Build([]*routing.Rule{rule})

	got := tbl.Lookup(mievent.Event{Type: mievent.NoteOn, Channel: 0, ID: 60})
	require.Len(t, got, 1)
	assert.Same(t, rule, got[0])

	assert.Empty(t, tbl.Lookup(mievent.Event{Type: mievent.NoteOn, Channel: 1, ID: 60}))
}

func TestTable_ValueFilter(t *testing.T) {
	filter := values.NewIntSetFromValues([]int{127})
	rule := &routing.Rule{
		Type:        mievent.Controller,
		Channels:    values.NewIntSetFromValues([]int{0}),
		IDs:         values.NewIntSetFromValues([]int{7}),
		ValueFilter: filter,
	}

	assert.True(t, rule.MatchesValue(127))
	assert.False(t, rule.MatchesValue(1))
}

// Routing exhaustiveness property from spec §8: for any rule R, every
// (channel, id) in expand(R) maps back to a rule list containing R.
func TestTable_ExhaustivenessProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		nChannels := rapid.IntRange(1, 4).Draw(rt, "nChannels")
		nIDs := rapid.IntRange(1, 4).Draw(rt, "nIDs")

		channels := make([]int, nChannels)
		for i := range channels {
			channels[i] = rapid.IntRange(0, 15).Draw(rt, "channel")
		}

		ids := make([]int, nIDs)
		for i := range ids {
			ids[i] = rapid.IntRange(0, 127).Draw(rt, "id")
		}

		rule := &routing.Rule{
			Type:     mievent.NoteOn,
			Channels: values.NewIntSetFromValues(channels),
			IDs:      values.NewIntSetFromValues(ids),
		}

		tbl := routing.Build([]*routing.Rule{rule})

		for _, c := range rule.Channels.Values() {
			for _, id := range rule.IDs.Values() {
				got := tbl.Lookup(mievent.Event{Type: mievent.NoteOn, Channel: uint8(c), ID: uint8(id)})

				found := false

				for _, r := range got {
					if r == rule {
						found = true
					}
				}

				assert.True(rt, found)
			}
		}
	})
}
