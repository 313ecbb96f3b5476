package ofxparse

import (
	"strconv"
	"strings"

	"github.com/golang/glog"
)

// statementContainers maps each supported statement response tag to its account type.
var statementContainers = map[string]AccountType{
	"STMTRS":    AccountTypeBank,
	"CCSTMTRS":  AccountTypeCreditCard,
	"INVSTMTRS": AccountTypeInvestment,
}

func containerFor(t AccountType) string {
	for tag, ct := range statementContainers {
		if ct == t {
			return tag
		}
	}
	return ""
}

// dispatcher builds the document model from a tree under one error policy.
type dispatcher struct {
	failFast  bool
	anomalies []Anomaly
}

// ParseStatementRegion builds the account of a statement response node. n may be the
// response node itself, e.g. STMTRS for AccountTypeBank, or any node containing it.
func ParseStatementRegion(n *Node, t AccountType, opts ...Option) (*Account, error) {
	cfg := newConfig(opts)
	d := &dispatcher{failFast: cfg.failFast}
	return d.account(n, t)
}

func (d *dispatcher) document(headers Headers, root *Node) (*Document, error) {
	doc := &Document{Headers: headers}

	if sonrs := root.FindFirst("SONRS"); sonrs != nil {
		if err := d.signOn(doc, sonrs); err != nil {
			return nil, err
		}
	}

	// Statement regions in document order; each yields exactly one account.
	regions := make([]*Node, 0)
	root.Walk(func(n *Node) bool {
		if _, ok := statementContainers[n.Tag]; ok {
			regions = append(regions, n)
			return false
		}
		if strings.HasSuffix(n.Tag, "STMTRS") {
			glog.Warningf("skipping unsupported statement %s", n.Tag)
			doc.Warnings = append(doc.Warnings, Warning{Tag: n.Tag, Message: "unsupported statement skipped"})
			return false
		}
		return true
	})
	for _, region := range regions {
		account, err := d.account(region, statementContainers[region.Tag])
		if err != nil {
			return nil, err
		}
		doc.Accounts = append(doc.Accounts, account)
	}

	doc.Securities = securities(root)

	for _, a := range d.anomalies {
		inRegion := false
		for _, region := range regions {
			if region.Contains(a.Node) {
				inRegion = true
				break
			}
		}
		if !inRegion {
			doc.Warnings = append(doc.Warnings, Warning{Tag: a.Node.Tag, Message: a.Message})
		}
	}
	return doc, nil
}

func (d *dispatcher) account(n *Node, t AccountType) (*Account, error) {
	container := containerFor(t)
	if container == "" {
		return nil, &TagStructureError{Reason: "unsupported account type " + strconv.Itoa(int(t))}
	}
	if n == nil {
		return nil, &TagStructureError{Tag: container, Reason: "statement response not found"}
	}
	region := n
	if region.Tag != container {
		if region = n.FindFirst(container); region == nil {
			return nil, &TagStructureError{Tag: container, Reason: "statement response not found"}
		}
	}
	glog.V(2).Infof("building %s account from %s", t, container)

	var (
		account *Account
		err     error
	)
	switch t {
	case AccountTypeBank:
		account, err = d.buildBankAccount(region)
	case AccountTypeCreditCard:
		account, err = d.buildCreditCardAccount(region)
	case AccountTypeInvestment:
		account, err = d.buildInvestmentAccount(region)
	}
	if err != nil {
		return nil, err
	}
	for _, a := range d.anomalies {
		if region.Contains(a.Node) {
			account.Statement.Warnings = append(account.Statement.Warnings, Warning{Tag: a.Node.Tag, Message: a.Message})
		}
	}
	return account, nil
}

func (d *dispatcher) buildBankAccount(region *Node) (*Account, error) {
	from := region.FindFirst("BANKACCTFROM")
	account := &Account{
		Number:        from.Value("ACCTID"),
		RoutingNumber: from.Value("BANKID"),
		BranchID:      from.Value("BRANCHID"),
		Type:          AccountTypeBank,
		Subtype:       from.Value("ACCTTYPE"),
		Statement:     &Statement{},
	}
	if err := d.bankStatement(account.Statement, region); err != nil {
		return nil, err
	}
	return account, nil
}

func (d *dispatcher) buildCreditCardAccount(region *Node) (*Account, error) {
	account := &Account{
		Number:    region.FindFirst("CCACCTFROM").Value("ACCTID"),
		Type:      AccountTypeCreditCard,
		Statement: &Statement{},
	}
	if err := d.bankStatement(account.Statement, region); err != nil {
		return nil, err
	}
	return account, nil
}

func (d *dispatcher) buildInvestmentAccount(region *Node) (*Account, error) {
	var (
		from    = region.FindFirst("INVACCTFROM")
		stmt    = &Statement{Currency: region.Value("CURDEF")}
		account = &Account{
			Number:        from.Value("ACCTID"),
			RoutingNumber: from.Value("BROKERID"),
			Type:          AccountTypeInvestment,
			Statement:     stmt,
		}
		err error
	)

	if asOf := region.Child("DTASOF"); asOf != nil {
		if stmt.AvailableBalanceDate, err = ParseDateTime(asOf.Text); err != nil {
			if err = d.fieldError(stmt, "DTASOF", err); err != nil {
				return nil, err
			}
		}
	}
	if bal := region.FindFirst("INVBAL"); bal != nil {
		if stmt.AvailableBalance, err = optionalAmount(bal, "AVAILCASH"); err != nil {
			if err = d.fieldError(stmt, "AVAILCASH", err); err != nil {
				return nil, err
			}
		}
	}

	if list := region.FindFirst("INVTRANLIST"); list != nil {
		if err = d.statementDates(stmt, list); err != nil {
			return nil, err
		}
		records := make([]*Node, 0)
		for _, c := range list.Children {
			switch {
			case c.Tag == "INVBANKTRAN":
				records = append(records, c.FindAll("STMTTRN")...)
			case isInvestmentRecord(c.Tag):
				records = append(records, c)
			}
		}
		if err = d.transactions(stmt, records); err != nil {
			return nil, err
		}
	}

	if list := region.FindFirst("INVPOSLIST"); list != nil {
		for i, c := range positionNodes(list) {
			pos, perr := ParsePositionRecord(c, account.Number)
			if perr != nil {
				if err = d.recordError(stmt, c, i, perr); err != nil {
					return nil, err
				}
				continue
			}
			stmt.Positions = append(stmt.Positions, pos)
		}
	}
	return account, nil
}

// bankStatement fills the statement fields shared by bank and credit card responses.
func (d *dispatcher) bankStatement(stmt *Statement, region *Node) error {
	var err error
	stmt.Currency = region.Value("CURDEF")

	if list := region.FindFirst("BANKTRANLIST"); list != nil {
		if err = d.statementDates(stmt, list); err != nil {
			return err
		}
		if err = d.transactions(stmt, list.FindAll("STMTTRN")); err != nil {
			return err
		}
	}

	if ledger := region.FindFirst("LEDGERBAL"); ledger != nil {
		if stmt.Balance, stmt.BalanceDate, err = balance(ledger); err != nil {
			if err = d.fieldError(stmt, "LEDGERBAL", err); err != nil {
				return err
			}
		}
	}
	if avail := region.FindFirst("AVAILBAL"); avail != nil {
		if stmt.AvailableBalance, stmt.AvailableBalanceDate, err = balance(avail); err != nil {
			if err = d.fieldError(stmt, "AVAILBAL", err); err != nil {
				return err
			}
		}
	}
	return nil
}

// statementDates reads the required bounds of a transaction list.
func (d *dispatcher) statementDates(stmt *Statement, list *Node) error {
	var err error
	if stmt.StartDate, err = requiredDate(list, "DTSTART"); err != nil {
		if err = d.fieldError(stmt, "DTSTART", err); err != nil {
			return err
		}
	}
	if stmt.EndDate, err = requiredDate(list, "DTEND"); err != nil {
		if err = d.fieldError(stmt, "DTEND", err); err != nil {
			return err
		}
	}
	return nil
}

// transactions parses each record on its own; the error policy decides what a failure does.
func (d *dispatcher) transactions(stmt *Statement, records []*Node) error {
	for i, rec := range records {
		txn, err := ParseTransactionRecord(rec)
		if err != nil {
			if err = d.recordError(stmt, rec, i, err); err != nil {
				return err
			}
			continue
		}
		stmt.Transactions = append(stmt.Transactions, txn)
	}
	return nil
}

func (d *dispatcher) recordError(stmt *Statement, rec *Node, i int, err error) error {
	id := rec.Value("FITID")
	if d.failFast {
		return &ParserError{Record: rec.Tag, Index: i, ID: id, Err: err}
	}
	glog.Warningf("discarding %s #%d (FITID %q): %v", rec.Tag, i, id, err)
	stmt.DiscardedEntries = append(stmt.DiscardedEntries, DiscardedEntry{
		Tag:    rec.Tag,
		Raw:    rec.String(),
		Reason: err.Error(),
	})
	return nil
}

func (d *dispatcher) fieldError(stmt *Statement, tag string, err error) error {
	if d.failFast {
		return &ParserError{Record: tag, Index: -1, Err: err}
	}
	glog.Warningf("statement field %s: %v", tag, err)
	stmt.Warnings = append(stmt.Warnings, Warning{Tag: tag, Message: err.Error()})
	return nil
}

func (d *dispatcher) documentError(doc *Document, tag string, err error) error {
	if d.failFast {
		return &ParserError{Record: tag, Index: -1, Err: err}
	}
	glog.Warningf("document field %s: %v", tag, err)
	doc.Warnings = append(doc.Warnings, Warning{Tag: tag, Message: err.Error()})
	return nil
}

func (d *dispatcher) signOn(doc *Document, sonrs *Node) error {
	doc.SignOn = SignOn{
		Severity:       sonrs.Value("SEVERITY"),
		Message:        sonrs.Value("MESSAGE"),
		Language:       sonrs.Value("LANGUAGE"),
		Organization:   sonrs.FindFirst("FI").Value("ORG"),
		OrganizationID: sonrs.FindFirst("FI").Value("FID"),
	}
	if code, ok := sonrs.Lookup("CODE"); ok && code != "" {
		n, err := strconv.Atoi(code)
		if err != nil {
			if err = d.documentError(doc, "CODE", &TagStructureError{Tag: "CODE", Reason: "status code is not a number"}); err != nil {
				return err
			}
		}
		doc.SignOn.Code = n
	}
	date, err := optionalDate(sonrs, "DTSERVER")
	if err != nil {
		return d.documentError(doc, "DTSERVER", err)
	}
	doc.SignOn.ServerDate = date
	return nil
}

func securities(root *Node) []Security {
	list := root.FindFirst("SECLIST")
	if list == nil {
		return nil
	}
	result := make([]Security, 0, len(list.Children))
	for _, info := range list.Children {
		sec := info.FindFirst("SECINFO")
		if sec == nil {
			continue
		}
		id := sec.FindFirst("SECID")
		result = append(result, Security{
			ID:     id.Value("UNIQUEID"),
			IDType: id.Value("UNIQUEIDTYPE"),
			Name:   sec.Value("SECNAME"),
			Ticker: sec.Value("TICKER"),
			Memo:   sec.Value("MEMO"),
		})
	}
	return result
}
