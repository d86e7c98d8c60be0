package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/accounting/accounts"
)

// BalanceSheetAccount summarises an account for assets, liabilities, or equity.
type BalanceSheetAccount struct {
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// BalanceSheetSection contains the accounts and total for a classification.
type BalanceSheetSection struct {
	Label    string                `json:"label"`
	Accounts []BalanceSheetAccount `json:"accounts"`
	Total    decimal.Decimal       `json:"total"`
}

// BalanceSheet is the structured response for the balance sheet report.
type BalanceSheet struct {
	Assets                    BalanceSheetSection `json:"assets"`
	Liabilities               BalanceSheetSection `json:"liabilities"`
	Equity                    BalanceSheetSection `json:"equity"`
	TotalLiabilitiesAndEquity decimal.Decimal     `json:"total_liabilities_and_equity"`
}

// BuildBalanceSheet aggregates balances into assets, liabilities, and equity
// sections. Credit-normal balances are negated so the sections read positive.
func BuildBalanceSheet(balances []AccountBalance) BalanceSheet {
	assets := BalanceSheetSection{Label: "Assets", Total: decimal.Zero}
	liabilities := BalanceSheetSection{Label: "Liabilities", Total: decimal.Zero}
	equity := BalanceSheetSection{Label: "Equity", Total: decimal.Zero}

	for _, acc := range balances {
		switch acc.Type {
		case accounts.AccountTypeAsset:
			row := BalanceSheetAccount{Code: acc.Code, Name: acc.Name, Balance: acc.Balance}
			assets.Accounts = append(assets.Accounts, row)
			assets.Total = assets.Total.Add(row.Balance)
		case accounts.AccountTypeLiability:
			row := BalanceSheetAccount{Code: acc.Code, Name: acc.Name, Balance: acc.Balance.Neg()}
			liabilities.Accounts = append(liabilities.Accounts, row)
			liabilities.Total = liabilities.Total.Add(row.Balance)
		case accounts.AccountTypeEquity:
			row := BalanceSheetAccount{Code: acc.Code, Name: acc.Name, Balance: acc.Balance.Neg()}
			equity.Accounts = append(equity.Accounts, row)
			equity.Total = equity.Total.Add(row.Balance)
		}
	}

	sortByCode := func(rows []BalanceSheetAccount) {
		sort.Slice(rows, func(i, j int) bool { return rows[i].Code < rows[j].Code })
	}
	sortByCode(assets.Accounts)
	sortByCode(liabilities.Accounts)
	sortByCode(equity.Accounts)

	return BalanceSheet{
		Assets:                    assets,
		Liabilities:               liabilities,
		Equity:                    equity,
		TotalLiabilitiesAndEquity: liabilities.Total.Add(equity.Total),
	}
}
