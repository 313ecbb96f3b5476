package ofxparse

import "sync"

// Schema maps each known aggregate tag to the set of tags it may directly contain.
type Schema map[string]map[string]struct{}

var schema Schema
var elements map[string]struct{}
var initSchema sync.Once

// investmentRecords are the transaction records of an INVTRANLIST.
var investmentRecords = []string{
	"BUYDEBT", "BUYMF", "BUYOPT", "BUYOTHER", "BUYSTOCK", "CLOSUREOPT", "INCOME",
	"INVEXPENSE", "JRNLFUND", "JRNLSEC", "MARGININTEREST", "REINVEST", "RETOFCAP",
	"SELLDEBT", "SELLMF", "SELLOPT", "SELLOTHER", "SELLSTOCK", "SPLIT", "TRANSFER",
}

// containers hold nested tags the schema does not describe.
var containers = []string{
	"IMAGEDATA", "INV401K", "INV401KBAL", "INVOOLIST", "LOANMSGSRSV1", "PROFMSGSRSV1", "SIGNUPMSGSRSV1",
}

// positionRecords are the position records of an INVPOSLIST.
var positionRecords = []string{"POSDEBT", "POSMF", "POSOPT", "POSOTHER", "POSSTOCK"}

// GetSchema returns the singleton aggregate schema instance.
func GetSchema() Schema {
	initSchema.Do(func() {
		var (
			status   = []string{"CODE", "SEVERITY", "MESSAGE"}
			balance  = []string{"BALAMT", "DTASOF"}
			currency = []string{"CURRATE", "CURSYM"}
			bankAcct = []string{"BANKID", "BRANCHID", "ACCTID", "ACCTTYPE", "ACCTKEY"}
			ccAcct   = []string{"ACCTID", "ACCTKEY"}
			trnrs    = []string{"TRNUID", "STATUS", "CLTCOOKIE"}
			invBuy   = []string{
				"INVTRAN", "SECID", "UNITS", "UNITPRICE", "MARKUP", "COMMISSION", "TAXES", "FEES",
				"LOAD", "TOTAL", "CURRENCY", "ORIGCURRENCY", "SUBACCTSEC", "SUBACCTFUND", "LOANID",
				"LOANPRINCIPAL", "LOANINTEREST", "INV401KSOURCE", "DTPAYROLL", "PRIORYEARCONTRIB",
			}
			invSell = []string{
				"INVTRAN", "SECID", "UNITS", "UNITPRICE", "MARKDOWN", "COMMISSION", "TAXES", "FEES",
				"LOAD", "WITHHOLDING", "TAXEXEMPT", "TOTAL", "GAIN", "CURRENCY", "ORIGCURRENCY",
				"SUBACCTSEC", "SUBACCTFUND", "LOANID", "STATEWITHHOLDING", "PENALTY", "INV401KSOURCE",
			}
			invPos = []string{
				"SECID", "HELDINACCT", "POSTYPE", "UNITS", "UNITPRICE", "MKTVAL", "AVGCOSTBASIS",
				"DTPRICEASOF", "CURRENCY", "MEMO", "INV401KSOURCE",
			}
			secInfo = []string{
				"SECID", "SECNAME", "TICKER", "FIID", "RATING", "UNITPRICE", "DTASOF", "CURRENCY", "MEMO",
			}
			assetClass = []string{"ASSETCLASS", "FIASSETCLASS"}
		)
		join := func(lists ...[]string) []string {
			result := make([]string, 0)
			for _, l := range lists {
				result = append(result, l...)
			}
			return result
		}

		var aggregates = map[string][]string{
			"OFX": {
				"SIGNONMSGSRSV1", "SIGNUPMSGSRSV1", "BANKMSGSRSV1", "CREDITCARDMSGSRSV1",
				"INVSTMTMSGSRSV1", "SECLISTMSGSRSV1", "LOANMSGSRSV1", "PROFMSGSRSV1",
			},

			// Sign-on.
			"SIGNONMSGSRSV1": {"SONRS"},
			"SONRS": {
				"STATUS", "DTSERVER", "USERKEY", "TSKEYEXPIRE", "LANGUAGE", "DTPROFUP", "DTACCTUP",
				"FI", "SESSCOOKIE", "ACCESSKEY", "INTU.BID", "INTU.USERID",
			},
			"STATUS": status,
			"FI":     {"ORG", "FID"},

			// Bank statements.
			"BANKMSGSRSV1": {"STMTTRNRS"},
			"STMTTRNRS":    join(trnrs, []string{"STMTRS"}),
			"STMTRS":       {"CURDEF", "BANKACCTFROM", "BANKTRANLIST", "LEDGERBAL", "AVAILBAL", "BALLIST", "MKTGINFO"},
			"BANKACCTFROM": bankAcct,
			"BANKACCTTO":   bankAcct,
			"BANKTRANLIST": {"DTSTART", "DTEND", "STMTTRN"},
			"STMTTRN": {
				"TRNTYPE", "DTPOSTED", "DTUSER", "DTAVAIL", "TRNAMT", "FITID", "CORRECTFITID",
				"CORRECTACTION", "SRVRTID", "CHECKNUM", "REFNUM", "SIC", "PAYEEID", "NAME", "PAYEE",
				"EXTDNAME", "BANKACCTTO", "CCACCTTO", "MEMO", "IMAGEDATA", "CURRENCY", "ORIGCURRENCY",
				"INV401KSOURCE",
			},
			"PAYEE": {
				"NAME", "ADDR1", "ADDR2", "ADDR3", "CITY", "STATE", "POSTALCODE", "COUNTRY", "PHONE",
			},
			"CURRENCY":     currency,
			"ORIGCURRENCY": currency,
			"LEDGERBAL":    balance,
			"AVAILBAL":     balance,
			"BALLIST":      {"BAL"},
			"BAL":          {"NAME", "DESC", "BALTYPE", "VALUE", "DTASOF", "CURRENCY"},

			// Credit card statements.
			"CREDITCARDMSGSRSV1": {"CCSTMTTRNRS"},
			"CCSTMTTRNRS":        join(trnrs, []string{"CCSTMTRS"}),
			"CCSTMTRS":           {"CURDEF", "CCACCTFROM", "BANKTRANLIST", "LEDGERBAL", "AVAILBAL", "BALLIST", "MKTGINFO"},
			"CCACCTFROM":         ccAcct,
			"CCACCTTO":           ccAcct,

			// Investment statements.
			"INVSTMTMSGSRSV1": {"INVSTMTTRNRS"},
			"INVSTMTTRNRS":    join(trnrs, []string{"INVSTMTRS"}),
			"INVSTMTRS": {
				"DTASOF", "CURDEF", "INVACCTFROM", "INVTRANLIST", "INVPOSLIST", "INVBAL", "INVOOLIST",
				"MKTGINFO", "INV401K", "INV401KBAL",
			},
			"INVACCTFROM": {"BROKERID", "ACCTID"},
			"INVTRANLIST": join([]string{"DTSTART", "DTEND", "INVBANKTRAN"}, investmentRecords),
			"INVBANKTRAN": {"STMTTRN", "SUBACCTFUND"},
			"INVTRAN":     {"FITID", "SRVRTID", "DTTRADE", "DTSETTLE", "REVERSALFITID", "MEMO"},
			"SECID":       {"UNIQUEID", "UNIQUEIDTYPE"},
			"INVBUY":      invBuy,
			"INVSELL":     invSell,
			"BUYDEBT":     {"INVBUY", "ACCRDINT"},
			"BUYMF":       {"INVBUY", "BUYTYPE", "RELFITID"},
			"BUYOPT":      {"INVBUY", "OPTBUYTYPE", "SHPERCTRCT"},
			"BUYOTHER":    {"INVBUY"},
			"BUYSTOCK":    {"INVBUY", "BUYTYPE"},
			"SELLDEBT":    {"INVSELL", "SELLREASON", "ACCRDINT"},
			"SELLMF":      {"INVSELL", "SELLTYPE", "AVGCOSTBASIS", "RELFITID"},
			"SELLOPT":     {"INVSELL", "OPTSELLTYPE", "SHPERCTRCT", "RELFITID", "RELTYPE", "SECURED"},
			"SELLOTHER":   {"INVSELL"},
			"SELLSTOCK":   {"INVSELL", "SELLTYPE"},
			"CLOSUREOPT":  {"INVTRAN", "SECID", "OPTACTION", "UNITS", "SHPERCTRCT", "SUBACCTSEC", "RELFITID", "GAIN"},
			"INCOME": {
				"INVTRAN", "SECID", "INCOMETYPE", "TOTAL", "SUBACCTSEC", "SUBACCTFUND", "TAXEXEMPT",
				"WITHHOLDING", "CURRENCY", "ORIGCURRENCY", "INV401KSOURCE",
			},
			"INVEXPENSE": {
				"INVTRAN", "SECID", "TOTAL", "SUBACCTSEC", "SUBACCTFUND", "CURRENCY", "ORIGCURRENCY",
				"INV401KSOURCE",
			},
			"JRNLFUND":       {"INVTRAN", "SUBACCTTO", "SUBACCTFROM", "TOTAL"},
			"JRNLSEC":        {"INVTRAN", "SECID", "SUBACCTTO", "SUBACCTFROM", "UNITS"},
			"MARGININTEREST": {"INVTRAN", "TOTAL", "SUBACCTFUND", "CURRENCY", "ORIGCURRENCY"},
			"REINVEST": {
				"INVTRAN", "SECID", "INCOMETYPE", "TOTAL", "SUBACCTSEC", "UNITS", "UNITPRICE",
				"COMMISSION", "TAXES", "FEES", "LOAD", "TAXEXEMPT", "CURRENCY", "ORIGCURRENCY",
				"INV401KSOURCE",
			},
			"RETOFCAP": {
				"INVTRAN", "SECID", "TOTAL", "SUBACCTSEC", "SUBACCTFUND", "CURRENCY", "ORIGCURRENCY",
				"INV401KSOURCE",
			},
			"SPLIT": {
				"INVTRAN", "SECID", "SUBACCTSEC", "OLDUNITS", "NEWUNITS", "NUMERATOR", "DENOMINATOR",
				"CURRENCY", "ORIGCURRENCY", "FRACCASH", "SUBACCTFUND", "INV401KSOURCE",
			},
			"TRANSFER": {
				"INVTRAN", "SECID", "SUBACCTSEC", "UNITS", "TFERACTION", "POSTYPE", "INVACCTFROM",
				"AVGCOSTBASIS", "UNITPRICE", "DTPURCHASE", "INV401KSOURCE",
			},
			"INVPOSLIST": positionRecords,
			"INVPOS":     invPos,
			"POSDEBT":    {"INVPOS"},
			"POSMF":      {"INVPOS", "UNITSSTREET", "UNITSUSER", "REINVDIV", "REINVCG"},
			"POSOPT":     {"INVPOS", "SECURED"},
			"POSOTHER":   {"INVPOS"},
			"POSSTOCK":   {"INVPOS", "UNITSSTREET", "UNITSUSER", "REINVDIV"},
			"INVBAL":     {"AVAILCASH", "MARGINBALANCE", "SHORTBALANCE", "BUYPOWER", "BALLIST"},

			// Security list.
			"SECLISTMSGSRSV1": {"SECLIST"},
			"SECLIST":         {"DEBTINFO", "MFINFO", "OPTINFO", "OTHERINFO", "STOCKINFO"},
			"SECINFO":         secInfo,
			"MFINFO":          {"SECINFO", "MFTYPE", "YIELD", "DTYIELDASOF", "MFASSETCLASS", "FIMFASSETCLASS"},
			"STOCKINFO":       join([]string{"SECINFO", "STOCKTYPE", "YIELD", "DTYIELDASOF"}, assetClass),
			"OPTINFO":         join([]string{"SECINFO", "OPTTYPE", "STRIKEPRICE", "DTEXPIRE", "SHPERCTRCT", "SECID"}, assetClass),
			"OTHERINFO":       join([]string{"SECINFO", "TYPEDESC"}, assetClass),
			"DEBTINFO": join([]string{
				"SECINFO", "PARVALUE", "DEBTTYPE", "DEBTCLASS", "COUPONRT", "DTCOUPON", "COUPONFREQ",
				"CALLPRICE", "YIELDTOCALL", "DTCALL", "CALLTYPE", "YIELDTOMAT", "DTMAT",
			}, assetClass),
			"MFASSETCLASS":   {"PORTION"},
			"FIMFASSETCLASS": {"FIPORTION"},
			"PORTION":        {"ASSETCLASS", "PERCENT"},
			"FIPORTION":      {"FIASSETCLASS", "PERCENT"},
		}
		schema = make(Schema, len(aggregates))
		for tag, children := range aggregates {
			set := make(map[string]struct{}, len(children))
			for _, c := range children {
				set[c] = struct{}{}
			}
			schema[tag] = set
		}
		elements = make(map[string]struct{})
		for _, c := range containers {
			aggregates[c] = nil
		}
		for _, children := range aggregates {
			for _, c := range children {
				if _, found := aggregates[c]; !found {
					elements[c] = struct{}{}
				}
			}
		}
	})
	return schema
}

// IsAggregate returns true if the given tag is a known aggregate tag.
func IsAggregate(tag string) bool {
	_, found := GetSchema()[tag]
	return found
}

// ExpectsChild returns true if child may appear directly inside the aggregate parent.
func ExpectsChild(parent, child string) bool {
	_, found := GetSchema()[parent][child]
	return found
}

// IsElement returns true if the given tag is a known tag that holds text and no children.
func IsElement(tag string) bool {
	GetSchema()
	_, found := elements[tag]
	return found
}
