package draft

import "stormlightlabs.org/draftassistant/internal/core"

// TeamBudgetRow is one row of the extension's per-snapshot team budget
// report, used by Reconcile.
type TeamBudgetRow struct {
	ID        string
	Name      string
	Remaining float64
}

// RecordPick is the single mutation primitive for applying a completed
// auction pick to the draft state, per spec.md §4.3's six-step contract.
// It is idempotent under pick_number, external_player_id, and
// player_name identity.
func RecordPick(d *core.DraftState, pick core.DraftPick) {
	if d.HasPickNumber(pick.PickNumber) {
		return
	}
	if pick.ExternalPlayerID != "" && d.HasExternalID(pick.ExternalPlayerID) {
		return
	}
	if d.HasPlayerName(pick.PlayerName) {
		return
	}

	team := d.TeamByID(pick.TeamID)
	if team == nil {
		team = d.TeamByName(pick.TeamName)
	}

	if team != nil {
		team.SaturatingSpend(pick.Price)
		Place(&team.Roster, &core.RosteredPlayer{
			Name:          pick.PlayerName,
			PricePaid:     pick.Price,
			Position:      core.ParsePosition(pick.Position),
			EligibleSlots: pick.EligibleSlots,
		})
	} else if len(d.Teams) == 0 {
		// No team has ever registered yet: this pick is part of crash
		// recovery before the first extension reconciliation. Queue it
		// for deferred replay once Reconcile auto-registers teams.
		d.PendingPicks = append(d.PendingPicks, pick)
	}

	d.PickHistory = append(d.PickHistory, pick)
	d.PickCount++
}

// Reconcile applies the extension's authoritative per-team budget report,
// per spec.md §4.3.3. On the first call with a non-empty rows list and no
// registered teams, it auto-registers teams in the supplied order,
// derives total_picks and the identity nomination order, and replays any
// picks recorded during crash recovery before teams existed. On
// subsequent calls it overwrites each matching team's BudgetRemaining and
// recomputes BudgetSpent.
func Reconcile(d *core.DraftState, rows []TeamBudgetRow, numTeams int) {
	if len(rows) == 0 {
		return
	}

	if len(d.Teams) == 0 {
		for _, row := range rows {
			d.Teams = append(d.Teams, &core.TeamState{
				ID:              row.ID,
				Name:            row.Name,
				Roster:          core.NewRoster(d.RosterTemplate),
				BudgetRemaining: row.Remaining,
				BudgetSpent:     d.SalaryCap - row.Remaining,
			})
		}

		d.TotalPicks = len(d.RosterTemplate) * numTeams
		d.NominationOrder = identityPermutation(len(d.Teams))

		pending := d.PendingPicks
		d.PendingPicks = nil
		d.PickHistory = nil
		d.PickCount = 0
		for _, p := range pending {
			RecordPick(d, p)
		}
		return
	}

	for _, row := range rows {
		team := d.TeamByID(row.ID)
		if team == nil {
			team = d.TeamByName(row.Name)
		}
		if team == nil {
			continue
		}
		team.Reconcile(row.Remaining, d.SalaryCap)
	}
}

func identityPermutation(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// Restore applies the two-path crash-recovery contract from spec.md
// §4.3.4. When no teams are yet registered, picks are stashed as pending
// history awaiting the first Reconcile call. When teams are already
// registered, rosters and budgets are reset and every pick is replayed
// immediately through RecordPick.
func Restore(d *core.DraftState, picks []core.DraftPick) {
	if len(d.Teams) == 0 {
		for _, p := range picks {
			RecordPick(d, p)
		}
		return
	}

	for _, team := range d.Teams {
		team.ResetBudget(d.SalaryCap)
	}
	d.PickHistory = nil
	d.PickCount = 0

	for _, p := range picks {
		RecordPick(d, p)
	}
}
