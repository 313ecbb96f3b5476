package ofxparse

import (
	"time"

	"github.com/shopspring/decimal"
)

//revive:disable:exported

// TransactionType is a lowercased transaction type as per the OFX Spec 2.2 Section 11.4.4.3
// https://www.ofx.net/downloads/OFX%202.2.pdf
// Investment transactions carry the lowercased record tag instead, e.g. "buymf".
type TransactionType string

const (
	// Common Transaction Types
	DEBIT  TransactionType = "debit"
	CREDIT TransactionType = "credit"
	// Uncommon Transaction Types
	INTEREST      TransactionType = "int"
	DIVIDENT      TransactionType = "div"
	FEE           TransactionType = "fee"
	SERVICECHARGE TransactionType = "srvchg"
	DEPOSIT       TransactionType = "dep"
	ATM           TransactionType = "atm"
	POS           TransactionType = "pos"
	TRANSFER      TransactionType = "xfer"
	CHECK         TransactionType = "check"
	PAYMENT       TransactionType = "payment"
	CASH          TransactionType = "cash"
	DIRECTDEPOSIT TransactionType = "directdep"
	DIRECTDEBIT   TransactionType = "directdebit"
	REPEATPAYMENT TransactionType = "repeatpmt"
	OTHER         TransactionType = "other"
)

// AccountType is the kind of statement an account was built from.
type AccountType int

const (
	AccountTypeUnknown AccountType = iota
	AccountTypeBank
	AccountTypeCreditCard
	AccountTypeInvestment
)

func (t AccountType) String() string {
	switch t {
	case AccountTypeBank:
		return "bank"
	case AccountTypeCreditCard:
		return "creditcard"
	case AccountTypeInvestment:
		return "investment"
	}
	return ""
}

// Transaction is a bank, credit card or investment transaction.
// Zero dates and invalid decimals denote absent values.
type Transaction struct {
	Type        TransactionType
	Date        time.Time
	UserDate    time.Time
	Amount      decimal.NullDecimal
	ID          string
	Payee       string
	Memo        string
	CheckNumber string

	// Investment transactions only.
	TradeDate  time.Time
	SettleDate time.Time
	SecurityID string
	Units      decimal.NullDecimal
	UnitPrice  decimal.NullDecimal
}

// Position is a security holding reported by an investment statement.
type Position struct {
	SecurityID     string
	SecurityIDType string
	Units          decimal.NullDecimal
	UnitPrice      decimal.NullDecimal
	MarketValue    decimal.NullDecimal
	PriceDate      time.Time
	HeldInAccount  string
	PositionType   string
	// AccountNumber refers to the Account the position was reported for.
	AccountNumber string
}

// DiscardedEntry is a record that failed to decode while not failing fast.
type DiscardedEntry struct {
	Tag    string
	Raw    string
	Reason string
}

// Warning is a statement or document anomaly that did not lose a record.
type Warning struct {
	Tag     string
	Message string
}

// Statement holds the balances and activity of one statement response.
type Statement struct {
	StartDate            time.Time
	EndDate              time.Time
	Currency             string
	Balance              decimal.NullDecimal
	BalanceDate          time.Time
	AvailableBalance     decimal.NullDecimal
	AvailableBalanceDate time.Time
	Transactions         []Transaction
	Positions            []Position
	DiscardedEntries     []DiscardedEntry
	Warnings             []Warning
}

// Account is built from exactly one statement response region.
type Account struct {
	Number        string
	RoutingNumber string
	BranchID      string
	Type          AccountType
	// Subtype is the source ACCTTYPE, e.g. CHECKING. Empty for credit card and investment.
	Subtype   string
	Statement *Statement
}

// Security is an entry of the security list message set.
type Security struct {
	ID     string
	IDType string
	Name   string
	Ticker string
	Memo   string
}

// SignOn is the parsed sign-on response.
type SignOn struct {
	Code           int
	Severity       string
	Message        string
	ServerDate     time.Time
	Language       string
	Organization   string
	OrganizationID string
}

// Document is a parsed OFX document.
// This does not implement the complete OFX spec.
type Document struct {
	Headers    Headers
	SignOn     SignOn
	Accounts   []*Account
	Securities []Security
	Warnings   []Warning
}

// Account returns the first account of the document, or nil when there is none.
func (d *Document) Account() *Account {
	if len(d.Accounts) == 0 {
		return nil
	}
	return d.Accounts[0]
}

// Transactions returns all transactions from the OFX document in document order.
// These may belong to different accounts.
func (d *Document) Transactions() []Transaction {
	txns := make([]Transaction, 0)
	for _, a := range d.Accounts {
		if a.Statement != nil {
			txns = append(txns, a.Statement.Transactions...)
		}
	}
	return txns
}
