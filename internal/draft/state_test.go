package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stormlightlabs.org/draftassistant/internal/core"
)

func TestRecordPick_DedupByRenumbering(t *testing.T) {
	d := core.NewDraftState("d1", 260, []core.Position{core.PositionCatcher})
	d.Teams = []*core.TeamState{
		{ID: "t1", Name: "Alpha", Roster: core.NewRoster(d.RosterTemplate), BudgetRemaining: 260},
	}

	catcher := core.NewEligibleSlots(core.PositionCatcher)
	RecordPick(d, core.DraftPick{PickNumber: 5, TeamID: "t1", PlayerName: "X", ExternalPlayerID: "e42", Price: 10, EligibleSlots: catcher})
	RecordPick(d, core.DraftPick{PickNumber: 101, TeamID: "t1", PlayerName: "X", ExternalPlayerID: "e42", Price: 10, EligibleSlots: catcher})

	assert.Len(t, d.PickHistory, 1)
	assert.Equal(t, float64(10), d.Teams[0].BudgetSpent)
	assert.Equal(t, 1, d.Teams[0].Roster.FilledCount())
}

func TestReconcile_CrashRecoveryWithLateTeamRegistration(t *testing.T) {
	d := core.NewDraftState("d1", 220, []core.Position{core.PositionBench, core.PositionBench})

	Restore(d, []core.DraftPick{
		{PickNumber: 1, TeamName: "Alpha", PlayerName: "P1", Price: 62},
		{PickNumber: 2, TeamName: "Beta", PlayerName: "P2", Price: 55},
	})
	RecordPick(d, core.DraftPick{PickNumber: 3, TeamName: "Alpha", PlayerName: "P3", Price: 11})

	Reconcile(d, []TeamBudgetRow{
		{ID: "alpha", Name: "Alpha", Remaining: 158},
		{ID: "beta", Name: "Beta", Remaining: 205},
	}, 2)

	alpha := d.TeamByName("Alpha")
	beta := d.TeamByName("Beta")

	assert.Equal(t, 2, alpha.Roster.FilledCount())
	assert.Equal(t, 1, beta.Roster.FilledCount())
	assert.Len(t, d.PickHistory, 3)
}

func TestDiff_Transitions(t *testing.T) {
	bidder1, bidder2 := "team1", "team2"

	snapA := Snapshot{}
	snapB := Snapshot{Nomination: &core.Nomination{PlayerName: "P", CurrentBid: 5, CurrentBidder: &bidder1}}
	snapC := Snapshot{Nomination: &core.Nomination{PlayerName: "P", CurrentBid: 12, CurrentBidder: &bidder2}}
	snapD := Snapshot{Nomination: &core.Nomination{PlayerName: "Q", CurrentBid: 1, CurrentBidder: &bidder1}}
	snapE := Snapshot{}

	ab := Compute(snapA, snapB)
	assert.True(t, ab.NominationChanged)
	assert.Equal(t, "P", ab.NewNomination.PlayerName)

	bc := Compute(snapB, snapC)
	assert.True(t, bc.BidUpdated)
	assert.False(t, bc.NominationChanged)

	cd := Compute(snapC, snapD)
	assert.True(t, cd.NominationChanged)
	assert.Equal(t, "Q", cd.NewNomination.PlayerName)

	de := Compute(snapD, snapE)
	assert.True(t, de.NominationCleared)
}

func TestPlace_CombosAndFallbacks(t *testing.T) {
	template := []core.Position{
		core.PositionFirstBase, core.PositionThirdBase,
		core.PositionUtility, core.PositionBench,
	}
	roster := core.NewRoster(template)

	ci := core.NewEligibleSlots(core.PositionCornerInfield)
	ok := Place(&roster, &core.RosteredPlayer{Name: "A", EligibleSlots: ci})
	assert.True(t, ok)
	assert.Equal(t, 1, roster.FilledCount())

	ok = Place(&roster, &core.RosteredPlayer{Name: "B", EligibleSlots: ci})
	assert.True(t, ok)
	assert.Equal(t, 2, roster.FilledCount())

	ok = Place(&roster, &core.RosteredPlayer{Name: "C", EligibleSlots: ci})
	assert.True(t, ok)
	assert.Equal(t, core.PositionUtility, roster.Slots[2].Position)
}

func TestPlace_EmptyEligibleSlotsFallsBackToDisplayPosition(t *testing.T) {
	template := []core.Position{core.PositionFirstBase, core.PositionUtility, core.PositionBench}
	roster := core.NewRoster(template)

	ok := Place(&roster, &core.RosteredPlayer{Name: "Manual Pick", Position: core.PositionFirstBase})
	assert.True(t, ok)
	assert.Equal(t, core.PositionFirstBase, roster.Slots[0].Position)
	assert.NotNil(t, roster.Slots[0].Player)
	assert.Equal(t, "Manual Pick", roster.Slots[0].Player.Name)
}

func TestPlace_EmptyEligibleSlotsHitterFallsBackToUtilWhenDedicatedFull(t *testing.T) {
	template := []core.Position{core.PositionFirstBase, core.PositionUtility, core.PositionBench}
	roster := core.NewRoster(template)

	require := func(ok bool) {
		if !ok {
			t.Fatal("expected placement to succeed")
		}
	}
	require(Place(&roster, &core.RosteredPlayer{Name: "A", Position: core.PositionFirstBase}))
	ok := Place(&roster, &core.RosteredPlayer{Name: "B", Position: core.PositionFirstBase})
	assert.True(t, ok)
	assert.Equal(t, core.PositionUtility, roster.Slots[1].Position)
	assert.Equal(t, "B", roster.Slots[1].Player.Name)
}

func TestPlace_EmptyEligibleSlotsPitcherSkipsUtil(t *testing.T) {
	template := []core.Position{core.PositionUtility, core.PositionBench}
	roster := core.NewRoster(template)

	ok := Place(&roster, &core.RosteredPlayer{Name: "Pitcher", Position: core.PositionStartingPitcher})
	assert.True(t, ok)
	assert.Equal(t, core.PositionBench, roster.Slots[1].Position)
	assert.Equal(t, "Pitcher", roster.Slots[1].Player.Name)
}
