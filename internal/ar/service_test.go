package ar

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	acctshared "github.com/ledgerline/ledgerline/internal/accounting/shared"
	"github.com/ledgerline/ledgerline/internal/accounting/sequence"
	core "github.com/ledgerline/ledgerline/internal/shared"
)

type fakeEntry struct {
	Memo  string
	Date  time.Time
	Lines []PostingLine
}

type fakeBooks struct {
	invoices map[uuid.UUID]Invoice
	payments map[uuid.UUID]Payment
	entries  map[uuid.UUID]*fakeEntry
	accounts map[string]PostingAccount
	balances map[uuid.UUID]decimal.Decimal
	lastNos  map[string]string
}

func newFakeBooks() *fakeBooks {
	return &fakeBooks{
		invoices: make(map[uuid.UUID]Invoice),
		payments: make(map[uuid.UUID]Payment),
		entries:  make(map[uuid.UUID]*fakeEntry),
		accounts: make(map[string]PostingAccount),
		balances: make(map[uuid.UUID]decimal.Decimal),
		lastNos:  make(map[string]string),
	}
}

func (f *fakeBooks) addAccount(code string) PostingAccount {
	acct := PostingAccount{ID: uuid.New(), Code: code}
	f.accounts[code] = acct
	return acct
}

func (f *fakeBooks) GetInvoice(_ context.Context, companyID, invoiceID uuid.UUID) (Invoice, error) {
	inv, ok := f.invoices[invoiceID]
	if !ok || inv.CompanyID != companyID {
		return Invoice{}, ErrInvoiceNotFound
	}
	return inv, nil
}

func (f *fakeBooks) ListInvoices(_ context.Context, companyID uuid.UUID, status *InvoiceStatus) ([]Invoice, error) {
	var out []Invoice
	for _, inv := range f.invoices {
		if inv.CompanyID != companyID {
			continue
		}
		if status != nil && inv.Status != *status {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (f *fakeBooks) GetPayment(_ context.Context, companyID, paymentID uuid.UUID) (Payment, error) {
	p, ok := f.payments[paymentID]
	if !ok || p.CompanyID != companyID {
		return Payment{}, ErrPaymentNotFound
	}
	return p, nil
}

func (f *fakeBooks) ListPayments(_ context.Context, companyID uuid.UUID) ([]Payment, error) {
	var out []Payment
	for _, p := range f.payments {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeBooks) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, f)
}

func (f *fakeBooks) next(docType, prefix string) string {
	f.lastNos[docType] = sequence.Next(prefix, f.lastNos[docType])
	return f.lastNos[docType]
}

func (f *fakeBooks) NextInvoiceNumber(_ context.Context, _ uuid.UUID) (string, error) {
	return f.next("invoice", sequence.PrefixInvoice), nil
}

func (f *fakeBooks) NextEntryNumber(_ context.Context, _ uuid.UUID) (string, error) {
	return f.next("journal_entry", sequence.PrefixJournal), nil
}

func (f *fakeBooks) InsertInvoice(_ context.Context, inv Invoice) (Invoice, error) {
	inv.ID = uuid.New()
	inv.CreatedAt = time.Now()
	f.invoices[inv.ID] = inv
	return inv, nil
}

func (f *fakeBooks) GetInvoiceForUpdate(ctx context.Context, companyID, invoiceID uuid.UUID) (Invoice, error) {
	return f.GetInvoice(ctx, companyID, invoiceID)
}

func (f *fakeBooks) SetInvoiceStatus(_ context.Context, companyID, invoiceID uuid.UUID, status InvoiceStatus) error {
	inv, ok := f.invoices[invoiceID]
	if !ok || inv.CompanyID != companyID {
		return ErrInvoiceNotFound
	}
	inv.Status = status
	f.invoices[invoiceID] = inv
	return nil
}

func (f *fakeBooks) DeleteInvoice(_ context.Context, companyID, invoiceID uuid.UUID) error {
	inv, ok := f.invoices[invoiceID]
	if !ok || inv.CompanyID != companyID {
		return ErrInvoiceNotFound
	}
	delete(f.invoices, invoiceID)
	return nil
}

func (f *fakeBooks) GetAccountByCode(_ context.Context, _ uuid.UUID, code string) (PostingAccount, error) {
	acct, ok := f.accounts[code]
	if !ok {
		return PostingAccount{}, acctshared.ErrAccountNotFound
	}
	return acct, nil
}

func (f *fakeBooks) IncrementBalance(_ context.Context, _ uuid.UUID, accountID uuid.UUID, delta decimal.Decimal) error {
	f.balances[accountID] = f.balances[accountID].Add(delta)
	return nil
}

func (f *fakeBooks) InsertJournalEntry(_ context.Context, _ uuid.UUID, _ string, date time.Time, memo string) (uuid.UUID, error) {
	id := uuid.New()
	f.entries[id] = &fakeEntry{Memo: memo, Date: date}
	return id, nil
}

func (f *fakeBooks) InsertJournalLines(_ context.Context, entryID uuid.UUID, lines []PostingLine) error {
	f.entries[entryID].Lines = append(f.entries[entryID].Lines, lines...)
	return nil
}

func (f *fakeBooks) InsertPayment(_ context.Context, p Payment) (Payment, error) {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	f.payments[p.ID] = p
	return p, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func invoiceRequest() CreateInvoiceRequest {
	return CreateInvoiceRequest{
		CustomerName: "Acme",
		Date:         time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Tax:          dec("13"),
		Items: []InvoiceItemRequest{
			{Quantity: dec("2"), UnitPrice: dec("40")},
			{Quantity: dec("1"), UnitPrice: dec("50")},
		},
	}
}

func TestCreateInvoiceComputesTotals(t *testing.T) {
	books := newFakeBooks()
	svc := NewService(books)
	companyID, userID := uuid.New(), uuid.New()

	inv, err := svc.CreateInvoice(context.Background(), companyID, invoiceRequest(), userID)
	require.NoError(t, err)
	require.Equal(t, "INV-0001", inv.Number)
	require.Equal(t, InvoiceStatusDraft, inv.Status)
	require.True(t, inv.Subtotal.Equal(dec("130")))
	require.True(t, inv.Tax.Equal(dec("13")))
	require.True(t, inv.Total.Equal(dec("143")))
	require.Equal(t, userID, inv.CreatedBy)

	second, err := svc.CreateInvoice(context.Background(), companyID, invoiceRequest(), userID)
	require.NoError(t, err)
	require.Equal(t, "INV-0002", second.Number)
}

func TestCreateInvoiceDefaultsDueDate(t *testing.T) {
	books := newFakeBooks()
	svc := NewService(books)
	fixed := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	svc.WithNow(func() time.Time { return fixed })

	inv, err := svc.CreateInvoice(context.Background(), uuid.New(), invoiceRequest(), uuid.New())
	require.NoError(t, err)
	require.Equal(t, fixed, inv.DueDate)
}

func TestPostInvoiceAppliesLedgerEffect(t *testing.T) {
	books := newFakeBooks()
	receivable := books.addAccount("1120")
	sales := books.addAccount("4100")
	taxPayable := books.addAccount("2120")
	svc := NewService(books)
	companyID := uuid.New()

	inv, err := svc.CreateInvoice(context.Background(), companyID, invoiceRequest(), uuid.New())
	require.NoError(t, err)

	posted, err := svc.PostInvoice(context.Background(), companyID, inv.ID, uuid.New())
	require.NoError(t, err)
	require.Equal(t, InvoiceStatusPosted, posted.Status)

	require.True(t, books.balances[receivable.ID].Equal(dec("143")))
	require.True(t, books.balances[sales.ID].Equal(dec("-130")))
	require.True(t, books.balances[taxPayable.ID].Equal(dec("-13")))

	require.Len(t, books.entries, 1)
	for _, entry := range books.entries {
		require.Equal(t, "Invoice INV-0001 - Acme", entry.Memo)
		require.Equal(t, inv.IssueDate, entry.Date)
		require.Len(t, entry.Lines, 3)
		debit, credit := decimal.Zero, decimal.Zero
		for _, line := range entry.Lines {
			debit = debit.Add(line.Debit)
			credit = credit.Add(line.Credit)
		}
		require.True(t, debit.Equal(credit))
	}
}

func TestPostInvoiceTwiceFails(t *testing.T) {
	books := newFakeBooks()
	receivable := books.addAccount("1120")
	books.addAccount("4100")
	books.addAccount("2120")
	svc := NewService(books)
	companyID := uuid.New()

	inv, err := svc.CreateInvoice(context.Background(), companyID, invoiceRequest(), uuid.New())
	require.NoError(t, err)
	_, err = svc.PostInvoice(context.Background(), companyID, inv.ID, uuid.New())
	require.NoError(t, err)

	_, err = svc.PostInvoice(context.Background(), companyID, inv.ID, uuid.New())
	require.ErrorIs(t, err, ErrAlreadyPosted)
	require.ErrorIs(t, err, core.ErrValidation)
	// Balances were touched exactly once.
	require.True(t, books.balances[receivable.ID].Equal(dec("143")))
}

func TestPostInvoiceMissingPostingAccounts(t *testing.T) {
	books := newFakeBooks()
	books.addAccount("1120")
	// No 4100 Sales Revenue account.
	svc := NewService(books)
	companyID := uuid.New()

	inv, err := svc.CreateInvoice(context.Background(), companyID, invoiceRequest(), uuid.New())
	require.NoError(t, err)

	_, err = svc.PostInvoice(context.Background(), companyID, inv.ID, uuid.New())
	require.ErrorIs(t, err, acctshared.ErrPostingAccountsMissing)
	require.ErrorIs(t, err, core.ErrValidation)

	refreshed, err := svc.GetInvoice(context.Background(), companyID, inv.ID)
	require.NoError(t, err)
	require.Equal(t, InvoiceStatusDraft, refreshed.Status)
	require.Empty(t, books.entries)
}

func TestPostInvoiceTaxedRequiresTaxAccount(t *testing.T) {
	books := newFakeBooks()
	receivable := books.addAccount("1120")
	sales := books.addAccount("4100")
	// No 2120 Tax Payable; a taxed entry could not balance without it.
	svc := NewService(books)
	companyID := uuid.New()

	inv, err := svc.CreateInvoice(context.Background(), companyID, invoiceRequest(), uuid.New())
	require.NoError(t, err)

	_, err = svc.PostInvoice(context.Background(), companyID, inv.ID, uuid.New())
	require.ErrorIs(t, err, acctshared.ErrPostingAccountsMissing)
	require.ErrorIs(t, err, core.ErrValidation)

	refreshed, err := svc.GetInvoice(context.Background(), companyID, inv.ID)
	require.NoError(t, err)
	require.Equal(t, InvoiceStatusDraft, refreshed.Status)
	require.Empty(t, books.entries)
	require.True(t, books.balances[receivable.ID].IsZero())
	require.True(t, books.balances[sales.ID].IsZero())
}

func TestPostInvoiceWithoutTaxSkipsTaxLine(t *testing.T) {
	books := newFakeBooks()
	receivable := books.addAccount("1120")
	sales := books.addAccount("4100")
	// Tax Payable absent; fine, the invoice is untaxed.
	svc := NewService(books)
	companyID := uuid.New()

	req := invoiceRequest()
	req.Tax = decimal.Zero
	inv, err := svc.CreateInvoice(context.Background(), companyID, req, uuid.New())
	require.NoError(t, err)

	_, err = svc.PostInvoice(context.Background(), companyID, inv.ID, uuid.New())
	require.NoError(t, err)
	require.True(t, books.balances[receivable.ID].Equal(dec("130")))
	require.True(t, books.balances[sales.ID].Equal(dec("-130")))
	for _, entry := range books.entries {
		require.Len(t, entry.Lines, 2)
	}
}

func TestDeleteInvoiceRules(t *testing.T) {
	books := newFakeBooks()
	books.addAccount("1120")
	books.addAccount("4100")
	books.addAccount("2120")
	svc := NewService(books)
	companyID := uuid.New()

	draft, err := svc.CreateInvoice(context.Background(), companyID, invoiceRequest(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, svc.DeleteInvoice(context.Background(), companyID, draft.ID))

	posted, err := svc.CreateInvoice(context.Background(), companyID, invoiceRequest(), uuid.New())
	require.NoError(t, err)
	_, err = svc.PostInvoice(context.Background(), companyID, posted.ID, uuid.New())
	require.NoError(t, err)

	err = svc.DeleteInvoice(context.Background(), companyID, posted.ID)
	require.ErrorIs(t, err, ErrNotDraft)
	require.ErrorIs(t, err, core.ErrValidation)
}

func TestCreatePaymentWritesLinelessEntry(t *testing.T) {
	books := newFakeBooks()
	svc := NewService(books)
	companyID := uuid.New()
	invoiceID := uuid.New()

	p, err := svc.CreatePayment(context.Background(), companyID, CreatePaymentRequest{
		Date:          time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Amount:        dec("143"),
		Method:        PaymentMethodBank,
		ReferenceType: "invoice",
		ReferenceID:   &invoiceID,
	}, uuid.New())
	require.NoError(t, err)
	require.Equal(t, invoiceID.String(), p.Reference)

	require.Len(t, books.entries, 1)
	for _, entry := range books.entries {
		require.Equal(t, "Payment for invoice "+invoiceID.String(), entry.Memo)
		// The receipt entry carries no lines and moves no balances.
		require.Empty(t, entry.Lines)
	}
	require.Empty(t, books.balances)
}

func TestCreatePaymentFallbackReference(t *testing.T) {
	books := newFakeBooks()
	svc := NewService(books)
	fixed := time.Date(2024, 6, 2, 8, 30, 0, 0, time.UTC)
	svc.WithNow(func() time.Time { return fixed })

	p, err := svc.CreatePayment(context.Background(), uuid.New(), CreatePaymentRequest{
		Date:   fixed,
		Amount: dec("20"),
		Method: PaymentMethodCash,
	}, uuid.New())
	require.NoError(t, err)
	require.Equal(t, "PAY-1717317000000", p.Reference)
}

func TestDeletePaymentAlwaysRejected(t *testing.T) {
	books := newFakeBooks()
	svc := NewService(books)
	companyID := uuid.New()

	p, err := svc.CreatePayment(context.Background(), companyID, CreatePaymentRequest{
		Date:   time.Now(),
		Amount: dec("10"),
		Method: PaymentMethodCard,
	}, uuid.New())
	require.NoError(t, err)

	err = svc.DeletePayment(context.Background(), companyID, p.ID)
	require.ErrorIs(t, err, ErrPaymentImmutable)
	require.ErrorIs(t, err, core.ErrValidation)

	err = svc.DeletePayment(context.Background(), companyID, uuid.New())
	require.ErrorIs(t, err, core.ErrNotFound)
}
