package socket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stormlightlabs.org/draftassistant/internal/core"
)

func TestDecodeSiteSlot_KnownCodes(t *testing.T) {
	assert.Equal(t, core.PositionCatcher, DecodeSiteSlot(0))
	assert.Equal(t, core.PositionShortstop, DecodeSiteSlot(4))
	assert.Equal(t, core.PositionOutfield, DecodeSiteSlot(8))
	assert.Equal(t, core.PositionStartingPitcher, DecodeSiteSlot(12))
	assert.Equal(t, core.PositionBench, DecodeSiteSlot(15))
}

func TestDecodeSiteSlot_UnknownCode(t *testing.T) {
	assert.Equal(t, core.PositionUnknown, DecodeSiteSlot(99))
}

func TestWirePick_ToDraftPick_DecodesEligibleSlots(t *testing.T) {
	wp := WirePick{
		PickNumber:    3,
		TeamID:        "t1",
		PlayerName:    "Mike Trout",
		Price:         45,
		EligibleSlots: []int{6, 8},
	}

	pick := wp.ToDraftPick()

	assert.Equal(t, 3, pick.PickNumber)
	assert.True(t, pick.EligibleSlots.Has(core.PositionCenterField))
	assert.True(t, pick.EligibleSlots.Has(core.PositionOutfield))
	assert.False(t, pick.EligibleSlots.Has(core.PositionCatcher))
}

func TestWireNomination_ToNomination_NilReceiver(t *testing.T) {
	var wn *WireNomination
	assert.Nil(t, wn.ToNomination())
}

func TestWireNomination_ToNomination_Populated(t *testing.T) {
	wn := &WireNomination{PlayerName: "Shohei Ohtani", CurrentBid: 50, EligibleSlots: []int{12}}
	nom := wn.ToNomination()

	require.NotNil(t, nom)
	assert.Equal(t, "Shohei Ohtani", nom.PlayerName)
	assert.True(t, nom.EligibleSlots.Has(core.PositionStartingPitcher))
}

func TestEnvelope_UnmarshalsStateUpdate(t *testing.T) {
	raw := `{
		"type": "STATE_UPDATE",
		"timestamp": 123,
		"payload": {
			"picks": [{"pickNumber": 1, "teamId": "t1", "playerName": "X", "price": 10}],
			"currentNomination": null,
			"teams": [{"teamId": "t1", "teamName": "Alpha", "budget": 250}]
		}
	}`

	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(raw), &env))

	assert.Equal(t, TypeStateUpdate, env.Type)
	assert.Equal(t, int64(123), env.Timestamp)
	assert.Len(t, env.Payload.Picks, 1)
	assert.Nil(t, env.Payload.CurrentNomination)
	assert.Equal(t, "Alpha", env.Payload.Teams[0].TeamName)
}

func TestEnvelope_MalformedJSONFailsToUnmarshal(t *testing.T) {
	var env Envelope
	err := json.Unmarshal([]byte(`{not valid json`), &env)
	assert.Error(t, err)
}
