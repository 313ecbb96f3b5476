package ofxparse_test

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/rockstardevs/ofxparse"
	"github.com/rockstardevs/ofxparse/mocks"
)

type FakeReader struct {
	err error
}

func (f FakeReader) Read(p []byte) (int, error) {
	return 0, f.err
}

const emptyInvestment = `
<?xml version="1.0" encoding="UTF-8" ?>
<?OFX OFXHEADER="200" VERSION="200" SECURITY="NONE"
  OLDFILEUID="NONE" NEWFILEUID="NONE" ?>
<OFX>
 <INVSTMTMSGSRSV1>
  <INVSTMTTRNRS>
   <TRNUID>38737714201101012011062420110624</TRNUID>
   <STATUS>
    <CODE>0</CODE>
    <SEVERITY>INFO</SEVERITY>
   </STATUS>
   <INVSTMTRS>
   </INVSTMTRS>
  </INVSTMTTRNRS>
 </INVSTMTMSGSRSV1>
</OFX>
`

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool {
	return a.Equal(b) && a.Exponent() == b.Exponent()
})

var _ = Describe("ofxparse", func() {
	Describe("Parse()", func() {
		Context("when given an invalid source", func() {
			It("should return an InputTypeError for a nil reader", func() {
				d, err := ofxparse.Parse(nil)
				Expect(d).To(BeNil())
				var inputErr *ofxparse.InputTypeError
				Expect(errors.As(err, &inputErr)).To(BeTrue())
			})
			It("should return an InputTypeError for a typed nil reader", func() {
				var f *os.File
				_, err := ofxparse.Parse(f)
				var inputErr *ofxparse.InputTypeError
				Expect(errors.As(err, &inputErr)).To(BeTrue())
				Expect(err).To(MatchError("error - invalid input, source is a nil *os.File"))
			})
			It("should return an InputTypeError wrapping read failures", func() {
				fakeErr := errors.New("fake reader test error")
				d, err := ofxparse.Parse(&FakeReader{err: fakeErr})
				Expect(d).To(BeNil())
				var inputErr *ofxparse.InputTypeError
				Expect(errors.As(err, &inputErr)).To(BeTrue())
				Expect(errors.Is(err, fakeErr)).To(BeTrue())
			})
			It("should return a HeaderError for empty input", func() {
				_, err := ofxparse.Parse(strings.NewReader(""))
				var headerErr *ofxparse.HeaderError
				Expect(errors.As(err, &headerErr)).To(BeTrue())
			})
			It("should return a HeaderError for empty input when not failing fast", func() {
				_, err := ofxparse.Parse(strings.NewReader(""), ofxparse.WithFailFast(false))
				var headerErr *ofxparse.HeaderError
				Expect(errors.As(err, &headerErr)).To(BeTrue())
			})
			It("should return a TagStructureError when there is no OFX element", func() {
				_, err := ofxparse.Parse(strings.NewReader("OFXHEADER:100\n\n<FOO>bar"))
				Expect(err).To(MatchError("error - invalid file, OFX tag not found"))
			})
		})
		Context("when given a bank statement", func() {
			It("should parse the headers", func() {
				d, err := parseFixture("bank_medium.ofx")
				Expect(err).To(BeNil())
				Expect(d.Headers).To(Equal(ofxparse.Headers{
					"OFXHEADER":   strp("100"),
					"DATA":        strp("OFXSGML"),
					"VERSION":     strp("102"),
					"SECURITY":    nil,
					"ENCODING":    strp("USASCII"),
					"CHARSET":     strp("1252"),
					"COMPRESSION": nil,
					"OLDFILEUID":  nil,
					"NEWFILEUID":  nil,
				}))
			})
			It("should parse everything", func() {
				d, err := parseFixture("bank_medium.ofx")
				Expect(err).To(BeNil())
				Expect(d.Warnings).To(BeEmpty())
				Expect(d.Accounts).To(HaveLen(1))

				account := d.Account()
				Expect(account).NotTo(BeNil())
				Expect(account.Number).To(Equal("12300 000012345678"))
				Expect(account.RoutingNumber).To(Equal("160000100"))
				Expect(account.Type).To(Equal(ofxparse.AccountTypeBank))
				Expect(account.Subtype).To(Equal("CHECKING"))

				statement := account.Statement
				Expect(statement.Balance.Decimal.Equal(decimal.RequireFromString("382.34"))).To(BeTrue())
				Expect(statement.AvailableBalance.Decimal.Equal(decimal.RequireFromString("682.34"))).To(BeTrue())
				Expect(statement.StartDate).To(BeTemporally("==", time.Date(2009, 4, 1, 0, 0, 0, 0, time.UTC)))
				Expect(statement.EndDate).To(BeTemporally("==", time.Date(2009, 5, 23, 12, 20, 17, 0, time.UTC)))
				Expect(statement.Transactions).To(HaveLen(3))
				Expect(statement.DiscardedEntries).To(BeEmpty())
				Expect(statement.Warnings).To(BeEmpty())

				txn := statement.Transactions[0]
				Expect(txn.Payee).To(Equal("MCDONALD'S #112"))
				Expect(txn.Type).To(Equal(ofxparse.POS))
				Expect(txn.Amount.Decimal.Equal(decimal.RequireFromString("-6.60"))).To(BeTrue())
				Expect(txn.Amount.Decimal.Exponent()).To(Equal(int32(-2)))

				Expect(d.Transactions()).To(HaveLen(3))
				Expect(d.Transactions()[2].Amount.Decimal.String()).To(Equal("1500"))
			})
			It("should parse the sign on response", func() {
				d, err := parseFixture("bank_medium.ofx")
				Expect(err).To(BeNil())
				Expect(d.SignOn.Code).To(Equal(0))
				Expect(d.SignOn.Severity).To(Equal("INFO"))
				Expect(d.SignOn.Message).To(Equal("OK"))
				Expect(d.SignOn.Language).To(Equal("ENG"))
				Expect(d.SignOn.Organization).To(Equal("Example Bank"))
				Expect(d.SignOn.OrganizationID).To(Equal("00012"))
				Expect(d.SignOn.ServerDate).To(BeTemporally("==", time.Date(2009, 5, 23, 12, 20, 17, 0, time.UTC)))
			})
			It("should be deterministic", func() {
				first, err := parseFixture("bank_medium.ofx")
				Expect(err).To(BeNil())
				second, err := parseFixture("bank_medium.ofx")
				Expect(err).To(BeNil())
				Expect(cmp.Diff(first, second, decimalComparer)).To(BeEmpty())
			})
		})
		Context("when given a credit card statement", func() {
			It("should parse the xml document", func() {
				d, err := parseFixture("creditcard.ofx")
				Expect(err).To(BeNil())
				Expect(d.Headers.Value("VERSION")).To(Equal("211"))
				Expect(d.Headers["SECURITY"]).To(BeNil())
				Expect(d.Warnings).To(BeEmpty())
				account := d.Account()
				Expect(account.Type).To(Equal(ofxparse.AccountTypeCreditCard))
				Expect(account.Number).To(Equal("4111111111111111"))
				Expect(account.Statement.Currency).To(Equal("USD"))
				Expect(account.Statement.Transactions).To(HaveLen(2))
				Expect(account.Statement.Transactions[0].Payee).To(Equal("Café & Bakery"))
				Expect(account.Statement.Transactions[0].Date).To(BeTemporally("==", time.Date(2019, 9, 5, 7, 0, 0, 0, time.UTC)))
				Expect(account.Statement.Balance.Decimal.String()).To(Equal("-1250.83"))
				Expect(d.SignOn.Organization).To(Equal("Test Card"))
			})
		})
		Context("when given an investment statement", func() {
			It("should parse an empty statement response", func() {
				d, err := ofxparse.Parse(strings.NewReader(emptyInvestment))
				Expect(err).To(BeNil())
				Expect(d.Accounts).To(HaveLen(1))
				Expect(d.Account().Type).To(Equal(ofxparse.AccountTypeInvestment))
				Expect(d.Account().Statement.Transactions).To(BeEmpty())
				Expect(d.Account().Statement.Positions).To(BeEmpty())
			})
			It("should parse a document with unclosed tags", func() {
				d, err := parseFixture("vanguard.ofx")
				Expect(err).To(BeNil())
				Expect(d.Warnings).To(BeEmpty())
				statement := d.Account().Statement
				Expect(statement.Warnings).To(BeEmpty())
				Expect(statement.Transactions).To(HaveLen(1))
				txn := statement.Transactions[0]
				Expect(txn.ID).To(Equal("01234567890.0123.07152011.0"))
				Expect(txn.TradeDate).To(BeTemporally("==", time.Date(2011, 7, 15, 21, 0, 0, 0, time.UTC)))
				Expect(txn.SettleDate).To(BeTemporally("==", time.Date(2011, 7, 15, 21, 0, 0, 0, time.UTC)))
				Expect(txn.Type).To(Equal(ofxparse.TransactionType("buymf")))
				Expect(txn.SecurityID).To(Equal("922908710"))

				Expect(statement.Positions).To(HaveLen(2))
				Expect(statement.Positions[0].Units.Decimal.Equal(decimal.RequireFromString("102.0"))).To(BeTrue())
				Expect(statement.Positions[0].AccountNumber).To(Equal(d.Account().Number))
				Expect(statement.AvailableBalance.Valid).To(BeTrue())
				Expect(statement.AvailableBalance.Decimal.IsZero()).To(BeTrue())

				Expect(d.Securities).To(HaveLen(2))
				Expect(d.Securities[0].Ticker).To(Equal("VFIAX"))
				Expect(d.Securities[1].ID).To(Equal("921937108"))
			})
		})
		Context("when given several statements", func() {
			const multi = `OFXHEADER:100
DATA:OFXSGML

<OFX>
<BANKMSGSRSV1>
<STMTTRNRS><STMTRS><BANKACCTFROM><BANKID>1<ACCTID>first</BANKACCTFROM></STMTRS></STMTTRNRS>
<STMTTRNRS><STMTRS><BANKACCTFROM><BANKID>1<ACCTID>second</BANKACCTFROM><FOO>bar</STMTRS></STMTTRNRS>
</BANKMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS><CCSTMTRS><CCACCTFROM><ACCTID>third</CCACCTFROM></CCSTMTRS></CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
<LOANMSGSRSV1><LOANSTMTTRNRS><LOANSTMTRS><CURDEF>USD</LOANSTMTRS></LOANSTMTTRNRS></LOANMSGSRSV1>
<BAR>baz
</OFX>`
			It("should build one account per statement in document order", func() {
				d, err := ofxparse.Parse(strings.NewReader(multi))
				Expect(err).To(BeNil())
				Expect(d.Accounts).To(HaveLen(3))
				Expect(d.Accounts[0].Number).To(Equal("first"))
				Expect(d.Accounts[1].Number).To(Equal("second"))
				Expect(d.Accounts[2].Number).To(Equal("third"))
				Expect(d.Accounts[2].Type).To(Equal(ofxparse.AccountTypeCreditCard))
			})
			It("should report anomalies where they were found", func() {
				d, err := ofxparse.Parse(strings.NewReader(multi))
				Expect(err).To(BeNil())
				Expect(d.Accounts[0].Statement.Warnings).To(BeEmpty())
				Expect(d.Accounts[1].Statement.Warnings).To(Equal([]ofxparse.Warning{
					{Tag: "FOO", Message: "unexpected tag FOO in STMTRS"},
				}))
				Expect(d.Warnings).To(Equal([]ofxparse.Warning{
					{Tag: "LOANSTMTRS", Message: "unsupported statement skipped"},
					{Tag: "BAR", Message: "unexpected tag BAR in OFX"},
				}))
			})
		})
		Context("when a record opener is followed by stray text", func() {
			const data = `OFXHEADER:100
DATA:OFXSGML

<OFX><BANKMSGSRSV1><STMTTRNRS><STMTRS><CURDEF>USD<BANKACCTFROM><BANKID>1<ACCTID>2</BANKACCTFROM>
<BANKTRANLIST><DTSTART>20090401<DTEND>20090430
<STMTTRN>x<TRNTYPE>POS<DTPOSTED>20090401<TRNAMT>1<FITID>a</STMTTRN>
</BANKTRANLIST></STMTRS></STMTTRNRS></BANKMSGSRSV1></OFX>`
			It("should keep the record and warn about the text", func() {
				d, err := ofxparse.Parse(strings.NewReader(data), ofxparse.WithFailFast(false))
				Expect(err).To(BeNil())
				statement := d.Accounts[0].Statement
				Expect(statement.DiscardedEntries).To(BeEmpty())
				Expect(statement.Transactions).To(HaveLen(1))
				Expect(statement.Transactions[0].ID).To(Equal("a"))
				Expect(statement.Transactions[0].Type).To(Equal(ofxparse.TransactionType("pos")))
				Expect(statement.Transactions[0].Amount.Decimal.Equal(decimal.RequireFromString("1"))).To(BeTrue())
				Expect(statement.Warnings).To(Equal([]ofxparse.Warning{
					{Tag: "STMTTRN", Message: `text "x" has no element`},
				}))
				Expect(d.Warnings).To(BeEmpty())
			})
			It("should not fail by default", func() {
				d, err := ofxparse.Parse(strings.NewReader(data))
				Expect(err).To(BeNil())
				Expect(d.Transactions()).To(HaveLen(1))
			})
		})
		Context("when records fail to parse", func() {
			It("should discard records with date defects when not failing fast", func() {
				d, err := parseFixture("fail_nice/date_missing.ofx", ofxparse.WithFailFast(false))
				Expect(err).To(BeNil())
				statement := d.Account().Statement
				Expect(statement.Transactions).To(BeEmpty())
				Expect(statement.DiscardedEntries).To(HaveLen(3))
				Expect(statement.Warnings).To(BeEmpty())
				for _, entry := range statement.DiscardedEntries {
					Expect(entry.Tag).To(Equal("STMTTRN"))
					Expect(entry.Raw).To(HavePrefix("<STMTTRN>"))
					Expect(entry.Reason).NotTo(BeEmpty())
				}
				Expect(statement.DiscardedEntries[0].Reason).To(Equal("error - DTPOSTED: missing required element"))
			})
			It("should fail on the first date defect by default", func() {
				d, err := parseFixture("fail_nice/date_missing.ofx")
				Expect(d).To(BeNil())
				var parserErr *ofxparse.ParserError
				Expect(errors.As(err, &parserErr)).To(BeTrue())
				Expect(parserErr.Record).To(Equal("STMTTRN"))
				Expect(parserErr.Index).To(Equal(0))
				Expect(parserErr.ID).To(Equal("0000123456782009040100001"))
				Expect(err).To(MatchError("error - failed to parse STMTTRN #0 (FITID 0000123456782009040100001): error - DTPOSTED: missing required element"))
			})
			It("should discard records with amount defects when not failing fast", func() {
				d, err := parseFixture("fail_nice/decimal_error.ofx", ofxparse.WithFailFast(false))
				Expect(err).To(BeNil())
				Expect(d.Account().Statement.Transactions).To(BeEmpty())
				Expect(d.Account().Statement.DiscardedEntries).To(HaveLen(1))
			})
			It("should fail on the amount defect by default", func() {
				_, err := parseFixture("fail_nice/decimal_error.ofx")
				var amountErr *ofxparse.AmountFormatError
				Expect(errors.As(err, &amountErr)).To(BeTrue())
				Expect(amountErr.Value).To(Equal("$20"))
			})
		})
		Context("when given a builder", func() {
			var (
				ctrl    *gomock.Controller
				builder *mocks.MockBuilder
				data    = "OFXHEADER:100\n\n<OFX></OFX>"
			)
			BeforeEach(func() {
				ctrl = gomock.NewController(GinkgoT())
				builder = mocks.NewMockBuilder(ctrl)
			})
			AfterEach(func() {
				ctrl.Finish()
			})
			It("should return the builder error", func() {
				builder.EXPECT().Build("<OFX></OFX>").Return(nil, errors.New("fake builder error"))
				d, err := ofxparse.Parse(strings.NewReader(data), ofxparse.WithBuilder(builder))
				Expect(d).To(BeNil())
				Expect(err).To(MatchError("fake builder error"))
			})
			It("should dispatch the built tree", func() {
				root := &ofxparse.Node{Tag: "OFX", Children: []*ofxparse.Node{
					{Tag: "STMTRS", Children: []*ofxparse.Node{
						{Tag: "BANKACCTFROM", Children: []*ofxparse.Node{{Tag: "ACCTID", Text: "42"}}},
					}},
				}}
				builder.EXPECT().Build(gomock.Any()).Return(&ofxparse.Tree{Root: root}, nil)
				d, err := ofxparse.Parse(strings.NewReader(data), ofxparse.WithBuilder(builder))
				Expect(err).To(BeNil())
				Expect(d.Accounts).To(HaveLen(1))
				Expect(d.Account().Number).To(Equal("42"))
			})
			It("should reject an empty tree", func() {
				builder.EXPECT().Build(gomock.Any()).Return(&ofxparse.Tree{}, nil)
				_, err := ofxparse.Parse(strings.NewReader(data), ofxparse.WithBuilder(builder))
				Expect(err).To(MatchError("error - invalid file, OFX tag not found"))
			})
		})
	})
})
