package reports

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/accounting/accounts"
)

// AccountBalance models a ledger account with its live running balance.
// Balance is signed with the debit-increase convention.
type AccountBalance struct {
	Code    string
	Name    string
	Type    accounts.AccountType
	Balance decimal.Decimal
}

// DebitCredit splits the signed balance into trial balance columns.
func (a AccountBalance) DebitCredit() (debit, credit decimal.Decimal) {
	if a.Balance.IsNegative() {
		return decimal.Zero, a.Balance.Neg()
	}
	return a.Balance, decimal.Zero
}

// GroupKey returns a key used for grouping trial balance rows.
func (a AccountBalance) GroupKey() string {
	if idx := strings.Index(a.Code, "."); idx > 0 {
		return a.Code[:idx]
	}
	if len(a.Code) >= 2 {
		return a.Code[:2]
	}
	return a.Code
}

// TrialBalanceAccount represents a row inside a trial balance group.
type TrialBalanceAccount struct {
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// TrialBalanceGroup aggregates accounts for presentation.
type TrialBalanceGroup struct {
	Key      string                `json:"key"`
	Accounts []TrialBalanceAccount `json:"accounts"`
	Debit    decimal.Decimal       `json:"debit"`
	Credit   decimal.Decimal       `json:"credit"`
}

// TrialBalance is the structured response for the trial balance report.
type TrialBalance struct {
	Groups      []TrialBalanceGroup `json:"groups"`
	TotalDebit  decimal.Decimal     `json:"total_debit"`
	TotalCredit decimal.Decimal     `json:"total_credit"`
}

// BuildTrialBalance converts account balances into grouped trial balance data.
func BuildTrialBalance(balances []AccountBalance) TrialBalance {
	groups := make(map[string]*TrialBalanceGroup)
	keys := make([]string, 0)
	for _, acc := range balances {
		key := acc.GroupKey()
		grp, ok := groups[key]
		if !ok {
			grp = &TrialBalanceGroup{Key: key, Debit: decimal.Zero, Credit: decimal.Zero}
			groups[key] = grp
			keys = append(keys, key)
		}
		debit, credit := acc.DebitCredit()
		grp.Accounts = append(grp.Accounts, TrialBalanceAccount{
			Code:   acc.Code,
			Name:   acc.Name,
			Debit:  debit,
			Credit: credit,
		})
		grp.Debit = grp.Debit.Add(debit)
		grp.Credit = grp.Credit.Add(credit)
	}

	sort.Strings(keys)
	tb := TrialBalance{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, key := range keys {
		grp := groups[key]
		sort.Slice(grp.Accounts, func(i, j int) bool { return grp.Accounts[i].Code < grp.Accounts[j].Code })
		tb.Groups = append(tb.Groups, *grp)
		tb.TotalDebit = tb.TotalDebit.Add(grp.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(grp.Credit)
	}
	return tb
}
