// Command ofxdump prints the accounts and transactions of OFX files.
//
//	ofxdump [-fail-fast=false] [-format text|yaml] file...
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/golang/glog"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rockstardevs/ofxparse"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow, color.Bold)
	red    = color.New(color.FgRed)
)

type transactionView struct {
	Type   string `yaml:"type"`
	Date   string `yaml:"date"`
	Amount string `yaml:"amount"`
	ID     string `yaml:"id"`
	Payee  string `yaml:"payee,omitempty"`
	Memo   string `yaml:"memo,omitempty"`
}

type positionView struct {
	SecurityID  string `yaml:"security_id"`
	Units       string `yaml:"units"`
	UnitPrice   string `yaml:"unit_price,omitempty"`
	MarketValue string `yaml:"market_value,omitempty"`
}

type accountView struct {
	Number           string            `yaml:"number"`
	RoutingNumber    string            `yaml:"routing_number,omitempty"`
	Type             string            `yaml:"type"`
	Start            string            `yaml:"start,omitempty"`
	End              string            `yaml:"end,omitempty"`
	Balance          string            `yaml:"balance,omitempty"`
	AvailableBalance string            `yaml:"available_balance,omitempty"`
	Transactions     []transactionView `yaml:"transactions"`
	Positions        []positionView    `yaml:"positions,omitempty"`
	Discarded        []string          `yaml:"discarded,omitempty"`
	Warnings         []string          `yaml:"warnings,omitempty"`
}

type documentView struct {
	File     string        `yaml:"file"`
	Accounts []accountView `yaml:"accounts"`
	Warnings []string      `yaml:"warnings,omitempty"`
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	if exp := d.Decimal.Exponent(); exp < 0 {
		return d.Decimal.StringFixed(-exp)
	}
	return d.Decimal.String()
}

func newDocumentView(path string, doc *ofxparse.Document) documentView {
	view := documentView{File: path}
	for _, w := range doc.Warnings {
		view.Warnings = append(view.Warnings, w.Tag+": "+w.Message)
	}
	for _, a := range doc.Accounts {
		av := accountView{Number: a.Number, RoutingNumber: a.RoutingNumber, Type: a.Type.String()}
		if s := a.Statement; s != nil {
			av.Start, av.End = formatDate(s.StartDate), formatDate(s.EndDate)
			av.Balance, av.AvailableBalance = formatAmount(s.Balance), formatAmount(s.AvailableBalance)
			for _, t := range s.Transactions {
				av.Transactions = append(av.Transactions, transactionView{
					Type:   string(t.Type),
					Date:   formatDate(t.Date),
					Amount: formatAmount(t.Amount),
					ID:     t.ID,
					Payee:  t.Payee,
					Memo:   t.Memo,
				})
			}
			for _, p := range s.Positions {
				av.Positions = append(av.Positions, positionView{
					SecurityID:  p.SecurityID,
					Units:       formatAmount(p.Units),
					UnitPrice:   formatAmount(p.UnitPrice),
					MarketValue: formatAmount(p.MarketValue),
				})
			}
			for _, d := range s.DiscardedEntries {
				av.Discarded = append(av.Discarded, d.Tag+": "+d.Reason)
			}
			for _, w := range s.Warnings {
				av.Warnings = append(av.Warnings, w.Tag+": "+w.Message)
			}
		}
		view.Accounts = append(view.Accounts, av)
	}
	return view
}

func printText(w io.Writer, view documentView) {
	green.Fprintf(w, "%s\n", view.File)
	for _, msg := range view.Warnings {
		yellow.Fprintf(w, "  ! %s\n", msg)
	}
	for _, a := range view.Accounts {
		fmt.Fprintf(w, "  %s account %s %s\n", a.Type, a.RoutingNumber, a.Number)
		if a.Balance != "" || a.AvailableBalance != "" {
			fmt.Fprintf(w, "    balance %s, available %s\n", a.Balance, a.AvailableBalance)
		}
		for _, t := range a.Transactions {
			fmt.Fprintf(w, "    %-25s %-10s %12s  %s\n", t.Date, t.Type, t.Amount, t.Payee)
		}
		for _, p := range a.Positions {
			fmt.Fprintf(w, "    %-25s %12s units @ %s\n", p.SecurityID, p.Units, p.UnitPrice)
		}
		for _, msg := range a.Discarded {
			red.Fprintf(w, "    discarded %s\n", msg)
		}
		for _, msg := range a.Warnings {
			yellow.Fprintf(w, "    ! %s\n", msg)
		}
	}
}

func parseFile(path string, opts ...ofxparse.Option) (*ofxparse.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ofxparse.Parse(f, opts...)
}

func main() {
	failFast := flag.Bool("fail-fast", true, "abort on the first record that fails to parse")
	format := flag.String("format", "text", "output format, text or yaml")
	flag.Parse()
	defer glog.Flush()

	if flag.NArg() == 0 || (*format != "text" && *format != "yaml") {
		fmt.Fprintf(os.Stderr, "usage: %s [-fail-fast=false] [-format text|yaml] file...\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	failed := false
	for _, path := range flag.Args() {
		doc, err := parseFile(path, ofxparse.WithFailFast(*failFast))
		if err != nil {
			red.Fprintf(os.Stderr, "error parsing %s - %s\n", path, err)
			failed = true
			continue
		}
		view := newDocumentView(path, doc)
		if *format == "yaml" {
			enc := yaml.NewEncoder(os.Stdout)
			if err := enc.Encode([]documentView{view}); err != nil {
				glog.Errorf("error encoding %s - %s", path, err)
				failed = true
			}
			enc.Close()
			continue
		}
		printText(os.Stdout, view)
	}
	if failed {
		glog.Flush()
		os.Exit(1)
	}
}
