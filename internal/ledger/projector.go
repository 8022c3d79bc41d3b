package ledger

import "sort"

// BalanceStep is one committed line annotated with the account balance
// after applying it.
type BalanceStep struct {
	Line         PostedLine `json:"line"`
	BalanceAfter float64    `json:"balance_after"`
}

// signFor returns the balance contribution of one line under the
// account-type convention: debits grow asset and expense balances, credits
// grow liability, equity and revenue balances.
func signFor(accountType AccountType, entryType EntryType) float64 {
	debitPositive := accountType == TypeAsset || accountType == TypeExpense
	if (entryType == Debit) == debitPositive {
		return 1
	}
	return -1
}

// RunningBalance replays lines chronologically and returns the cumulative
// balance after each one. It is a pure function of its inputs: balances are
// never stored, so the view cannot go stale relative to committed postings.
//
// Lines are ordered by entry date ascending with ties broken by entry id,
// regardless of input order.
func RunningBalance(accountType AccountType, lines []PostedLine) []BalanceStep {
	ordered := make([]PostedLine, len(lines))
	copy(ordered, lines)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].EntryID < ordered[j].EntryID
	})

	steps := make([]BalanceStep, len(ordered))
	var balance float64
	for i, line := range ordered {
		balance += signFor(accountType, line.Type) * line.Amount
		steps[i] = BalanceStep{Line: line, BalanceAfter: balance}
	}
	return steps
}
