package company

import "github.com/ledgerline/ledgerline/internal/accounting/accounts"

type chartEntry struct {
	Code   string
	Name   string
	Type   accounts.AccountType
	Parent string
}

// defaultChart seeds every new company. Entries are ordered so a parent
// always precedes its children.
var defaultChart = []chartEntry{
	{Code: "1000", Name: "Assets", Type: accounts.AccountTypeAsset},
	{Code: "1100", Name: "Current Assets", Type: accounts.AccountTypeAsset, Parent: "1000"},
	{Code: "1110", Name: "Cash", Type: accounts.AccountTypeAsset, Parent: "1100"},
	{Code: "1120", Name: "Accounts Receivable", Type: accounts.AccountTypeAsset, Parent: "1100"},
	{Code: "1200", Name: "Fixed Assets", Type: accounts.AccountTypeAsset, Parent: "1000"},

	{Code: "2000", Name: "Liabilities", Type: accounts.AccountTypeLiability},
	{Code: "2100", Name: "Current Liabilities", Type: accounts.AccountTypeLiability, Parent: "2000"},
	{Code: "2110", Name: "Accounts Payable", Type: accounts.AccountTypeLiability, Parent: "2100"},
	{Code: "2120", Name: "Tax Payable", Type: accounts.AccountTypeLiability, Parent: "2100"},

	{Code: "3000", Name: "Equity", Type: accounts.AccountTypeEquity},
	{Code: "3100", Name: "Owner Equity", Type: accounts.AccountTypeEquity, Parent: "3000"},
	{Code: "3200", Name: "Retained Earnings", Type: accounts.AccountTypeEquity, Parent: "3000"},

	{Code: "4000", Name: "Revenue", Type: accounts.AccountTypeRevenue},
	{Code: "4100", Name: "Sales Revenue", Type: accounts.AccountTypeRevenue, Parent: "4000"},
	{Code: "4200", Name: "Service Revenue", Type: accounts.AccountTypeRevenue, Parent: "4000"},

	{Code: "5000", Name: "Expenses", Type: accounts.AccountTypeExpense},
	{Code: "5100", Name: "Operating Expenses", Type: accounts.AccountTypeExpense, Parent: "5000"},
	{Code: "5110", Name: "Salaries Expense", Type: accounts.AccountTypeExpense, Parent: "5100"},
	{Code: "5120", Name: "Rent Expense", Type: accounts.AccountTypeExpense, Parent: "5100"},
	{Code: "5130", Name: "Utilities Expense", Type: accounts.AccountTypeExpense, Parent: "5100"},
}
