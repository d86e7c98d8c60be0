package reports

import (
	"encoding/csv"
	"io"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

func formatAmount(d decimal.Decimal) string {
	return printer.Sprint(number.Decimal(d.InexactFloat64(),
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// WriteTrialBalanceCSV serialises a trial balance to CSV.
func WriteTrialBalanceCSV(w io.Writer, tb TrialBalance) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Group", "Code", "Name", "Debit", "Credit"}); err != nil {
		return err
	}
	for _, grp := range tb.Groups {
		for _, acc := range grp.Accounts {
			record := []string{grp.Key, acc.Code, acc.Name, formatAmount(acc.Debit), formatAmount(acc.Credit)}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}
	if err := writer.Write([]string{"", "", "Total", formatAmount(tb.TotalDebit), formatAmount(tb.TotalCredit)}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// WriteBalanceSheetCSV serialises a balance sheet to CSV.
func WriteBalanceSheetCSV(w io.Writer, bs BalanceSheet) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Section", "Code", "Name", "Balance"}); err != nil {
		return err
	}
	for _, section := range []BalanceSheetSection{bs.Assets, bs.Liabilities, bs.Equity} {
		for _, acc := range section.Accounts {
			if err := writer.Write([]string{section.Label, acc.Code, acc.Name, formatAmount(acc.Balance)}); err != nil {
				return err
			}
		}
		if err := writer.Write([]string{section.Label, "", "Total", formatAmount(section.Total)}); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{"", "", "Liabilities + Equity", formatAmount(bs.TotalLiabilitiesAndEquity)}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// WriteIncomeStatementCSV serialises an income statement to CSV.
func WriteIncomeStatementCSV(w io.Writer, pl IncomeStatement) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Section", "Code", "Name", "Amount"}); err != nil {
		return err
	}
	for _, section := range []IncomeStatementSection{pl.Revenue, pl.Expense} {
		for _, acc := range section.Accounts {
			if err := writer.Write([]string{section.Label, acc.Code, acc.Name, formatAmount(acc.Amount)}); err != nil {
				return err
			}
		}
		if err := writer.Write([]string{section.Label, "", "Total", formatAmount(section.Total)}); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{"", "", "Net Income", formatAmount(pl.NetIncome)}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}
