package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/accounting/accounts"
)

// IncomeStatementAccount represents a revenue or expense account summary.
type IncomeStatementAccount struct {
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// IncomeStatementSection groups accounts by nature.
type IncomeStatementSection struct {
	Label    string                   `json:"label"`
	Accounts []IncomeStatementAccount `json:"accounts"`
	Total    decimal.Decimal          `json:"total"`
}

// IncomeStatement contains the structured output for the report.
type IncomeStatement struct {
	Revenue   IncomeStatementSection `json:"revenue"`
	Expense   IncomeStatementSection `json:"expense"`
	NetIncome decimal.Decimal        `json:"net_income"`
}

// BuildIncomeStatement aggregates accounts into revenue and expense sections.
func BuildIncomeStatement(balances []AccountBalance) IncomeStatement {
	revenue := IncomeStatementSection{Label: "Revenue", Total: decimal.Zero}
	expense := IncomeStatementSection{Label: "Expense", Total: decimal.Zero}

	for _, acc := range balances {
		switch acc.Type {
		case accounts.AccountTypeRevenue:
			row := IncomeStatementAccount{Code: acc.Code, Name: acc.Name, Amount: acc.Balance.Neg()}
			revenue.Accounts = append(revenue.Accounts, row)
			revenue.Total = revenue.Total.Add(row.Amount)
		case accounts.AccountTypeExpense:
			row := IncomeStatementAccount{Code: acc.Code, Name: acc.Name, Amount: acc.Balance}
			expense.Accounts = append(expense.Accounts, row)
			expense.Total = expense.Total.Add(row.Amount)
		}
	}

	sort.Slice(revenue.Accounts, func(i, j int) bool { return revenue.Accounts[i].Code < revenue.Accounts[j].Code })
	sort.Slice(expense.Accounts, func(i, j int) bool { return expense.Accounts[i].Code < expense.Accounts[j].Code })

	return IncomeStatement{
		Revenue:   revenue,
		Expense:   expense,
		NetIncome: revenue.Total.Sub(expense.Total),
	}
}
