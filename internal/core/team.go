package core

// TeamState is one team's budget and roster in the live draft.
type TeamState struct {
	ID     string
	Name   string
	Roster Roster

	BudgetSpent     float64
	BudgetRemaining float64
}

// SaturatingSpend applies a price paid to the team's budget, incrementing
// BudgetSpent and decrementing BudgetRemaining with saturating
// subtraction (never negative).
func (t *TeamState) SaturatingSpend(price float64) {
	t.BudgetSpent += price
	t.BudgetRemaining -= price
	if t.BudgetRemaining < 0 {
		t.BudgetRemaining = 0
	}
}

// Reconcile overwrites BudgetRemaining from an authoritative extension
// value and recomputes BudgetSpent from the salary cap, per spec.md
// §4.3.3: the extension's cumulative view always wins over local drift.
func (t *TeamState) Reconcile(remaining, salaryCap float64) {
	t.BudgetRemaining = remaining
	t.BudgetSpent = salaryCap - remaining
}

// ResetBudget restores a team to its initial, undrafted budget state.
func (t *TeamState) ResetBudget(salaryCap float64) {
	t.BudgetSpent = 0
	t.BudgetRemaining = salaryCap
	t.Roster.Reset()
}
