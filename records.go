package ofxparse

import (
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/shopspring/decimal"
)

var investmentRecordSet = tagSet(investmentRecords)
var positionRecordSet = tagSet(positionRecords)

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}

func isInvestmentRecord(tag string) bool {
	_, ok := investmentRecordSet[tag]
	return ok
}

// positionNodes returns the position records directly under an INVPOSLIST.
func positionNodes(list *Node) []*Node {
	result := make([]*Node, 0, len(list.Children))
	for _, c := range list.Children {
		if _, ok := positionRecordSet[c.Tag]; ok {
			result = append(result, c)
		}
	}
	return result
}

func missing(tag string) error {
	return &TagStructureError{Tag: tag, Reason: "missing required element"}
}

// ParseTransactionRecord decodes a single STMTTRN or investment transaction record node.
func ParseTransactionRecord(n *Node) (Transaction, error) {
	if n == nil {
		return Transaction{}, &TagStructureError{Reason: "no transaction record"}
	}
	switch {
	case n.Tag == "STMTTRN":
		return parseBankTransaction(n)
	case isInvestmentRecord(n.Tag):
		return parseInvestmentTransaction(n)
	}
	return Transaction{}, &TagStructureError{Tag: n.Tag, Reason: "not a transaction record"}
}

func parseBankTransaction(n *Node) (Transaction, error) {
	var (
		txn = Transaction{
			Type:        TransactionType(strings.ToLower(n.Value("TRNTYPE"))),
			ID:          n.Value("FITID"),
			Payee:       n.Value("NAME"),
			Memo:        n.Value("MEMO"),
			CheckNumber: n.Value("CHECKNUM"),
		}
		err error
	)
	if txn.Payee == "" {
		if payee := n.FindFirst("PAYEE"); payee != nil {
			txn.Payee = strings.TrimSpace(payee.Text)
		}
	}
	if txn.Date, err = requiredDate(n, "DTPOSTED"); err != nil {
		return Transaction{}, err
	}
	if txn.UserDate, err = optionalDate(n, "DTUSER"); err != nil {
		return Transaction{}, err
	}
	if txn.Amount, err = requiredAmount(n, "TRNAMT"); err != nil {
		return Transaction{}, err
	}
	glog.V(3).Infof("transaction %s: %s %s", txn.ID, txn.Type, txn.Amount.Decimal)
	return txn, nil
}

func parseInvestmentTransaction(n *Node) (Transaction, error) {
	inv := n.FindFirst("INVTRAN")
	if inv == nil {
		return Transaction{}, missing("INVTRAN")
	}
	var (
		txn = Transaction{
			Type:       TransactionType(strings.ToLower(n.Tag)),
			ID:         inv.Value("FITID"),
			Memo:       inv.Value("MEMO"),
			SecurityID: n.FindFirst("SECID").Value("UNIQUEID"),
		}
		err error
	)
	if txn.TradeDate, err = requiredDate(inv, "DTTRADE"); err != nil {
		return Transaction{}, err
	}
	txn.Date = txn.TradeDate
	if txn.SettleDate, err = optionalDate(inv, "DTSETTLE"); err != nil {
		return Transaction{}, err
	}
	if txn.Units, err = optionalAmount(n, "UNITS"); err != nil {
		return Transaction{}, err
	}
	if txn.UnitPrice, err = optionalAmount(n, "UNITPRICE"); err != nil {
		return Transaction{}, err
	}
	if txn.Amount, err = optionalAmount(n, "TOTAL"); err != nil {
		return Transaction{}, err
	}
	glog.V(3).Infof("investment transaction %s: %s %s", txn.ID, txn.Type, txn.SecurityID)
	return txn, nil
}

// ParsePositionRecord decodes a single position record node, e.g. POSMF, reported for the
// given account.
func ParsePositionRecord(n *Node, accountNumber string) (Position, error) {
	if n == nil {
		return Position{}, &TagStructureError{Reason: "no position record"}
	}
	pos := n.FindFirst("INVPOS")
	if pos == nil {
		return Position{}, missing("INVPOS")
	}
	var (
		secID = pos.FindFirst("SECID")
		p     = Position{
			SecurityID:     secID.Value("UNIQUEID"),
			SecurityIDType: secID.Value("UNIQUEIDTYPE"),
			HeldInAccount:  pos.Value("HELDINACCT"),
			PositionType:   pos.Value("POSTYPE"),
			AccountNumber:  accountNumber,
		}
		err error
	)
	if p.Units, err = requiredAmount(pos, "UNITS"); err != nil {
		return Position{}, err
	}
	if p.UnitPrice, err = optionalAmount(pos, "UNITPRICE"); err != nil {
		return Position{}, err
	}
	if p.MarketValue, err = optionalAmount(pos, "MKTVAL"); err != nil {
		return Position{}, err
	}
	if p.PriceDate, err = optionalDate(pos, "DTPRICEASOF"); err != nil {
		return Position{}, err
	}
	return p, nil
}

// balance decodes a LEDGERBAL or AVAILBAL aggregate.
func balance(n *Node) (decimal.NullDecimal, time.Time, error) {
	amount, err := requiredAmount(n, "BALAMT")
	if err != nil {
		return decimal.NullDecimal{}, time.Time{}, err
	}
	date, err := optionalDate(n, "DTASOF")
	if err != nil {
		return decimal.NullDecimal{}, time.Time{}, err
	}
	return amount, date, nil
}

// requiredDate fails when the element is missing; an empty element is a malformed date.
func requiredDate(n *Node, tag string) (time.Time, error) {
	v, ok := n.Lookup(tag)
	if !ok {
		return time.Time{}, missing(tag)
	}
	return ParseDateTime(v)
}

// optionalDate treats a missing or empty element as absent.
func optionalDate(n *Node, tag string) (time.Time, error) {
	v, ok := n.Lookup(tag)
	if !ok || v == "" {
		return time.Time{}, nil
	}
	return ParseDateTime(v)
}

func requiredAmount(n *Node, tag string) (decimal.NullDecimal, error) {
	v, ok := n.Lookup(tag)
	if !ok {
		return decimal.NullDecimal{}, missing(tag)
	}
	d, err := ParseAmount(v)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

func optionalAmount(n *Node, tag string) (decimal.NullDecimal, error) {
	v, ok := n.Lookup(tag)
	if !ok || v == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := ParseAmount(v)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}
