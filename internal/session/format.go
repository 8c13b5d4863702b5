package session

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerlab/internal/id"
	"github.com/cleared-dev/ledgerlab/internal/model"
)

const barWidth = 20

// money formats d with thousands separators and two decimals: "-1,234.50".
func money(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		// Beyond int64: skip grouping rather than lose digits.
		return d.StringFixed(2)
	}
	s := humanize.Comma(n) + "." + frac
	if d.IsNegative() {
		return "-" + s
	}
	return s
}

// bar draws value as a share of scale, never shorter than one cell for a
// non-zero value.
func bar(value, scale decimal.Decimal) string {
	if scale.IsZero() || !value.IsPositive() {
		return ""
	}
	cells := value.Mul(decimal.NewFromInt(barWidth)).Div(scale).Round(0).IntPart()
	if cells < 1 {
		cells = 1
	}
	if cells > barWidth {
		cells = barWidth
	}
	return strings.Repeat("#", int(cells))
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func writeTotals(w io.Writer, totals model.Totals, last *model.Transaction, floor decimal.Decimal) error {
	scale := totals.Scale(floor)
	tw := newTable(w)
	for _, c := range model.Classifications {
		mark := " "
		if last != nil && last.Touches(c) {
			mark = "*"
		}
		v := totals.Of(c)
		fmt.Fprintf(tw, "%s %s\t%s\t%s\t%s\n", mark, c, c.Label(), money(v), bar(v, scale))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	verdict := "EQUATION BALANCED"
	if !totals.IsBalanced {
		verdict = "EQUATION UNBALANCED"
	}
	_, err := fmt.Fprintf(w, "Assets %s = Liabilities %s + Equity %s  %s\n",
		money(totals.Of(model.Asset)), money(totals.Of(model.Liability)), money(totals.Equity()), verdict)
	return err
}

func writeTransaction(w io.Writer, tx model.Transaction) error {
	codes := make([]string, len(tx.Impact))
	for i, c := range tx.Impact {
		codes[i] = string(c)
	}
	_, err := fmt.Fprintf(w, "%s  dr %s / cr %s  %s  [%s]  %s\n",
		id.FormatEntryID(tx.Step), tx.Debit.ID, tx.Credit.ID, money(tx.Amount),
		strings.Join(codes, " "), describe(tx))
	return err
}

func describe(tx model.Transaction) string {
	switch {
	case tx.Title != "" && tx.Description != "":
		return tx.Title + ": " + tx.Description
	case tx.Title != "":
		return tx.Title
	default:
		return tx.Description
	}
}

func writeHistory(w io.Writer, txns []model.Transaction) error {
	if len(txns) == 0 {
		_, err := fmt.Fprintln(w, "no transactions")
		return err
	}
	for _, tx := range txns {
		if err := writeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}

func writeAccounts(w io.Writer, accts []model.Account) error {
	tw := newTable(w)
	for _, c := range model.Classifications {
		for _, a := range accts {
			if a.Classification != c {
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c, a.ID, a.Name, money(a.Balance))
		}
	}
	return tw.Flush()
}

// writeTAccount prints an account as a T: debits left, credits right.
func writeTAccount(w io.Writer, a model.Account) error {
	var debits, credits []model.Entry
	for _, e := range a.Entries {
		if e.Side == model.Debit {
			debits = append(debits, e)
		} else {
			credits = append(credits, e)
		}
	}

	if _, err := fmt.Fprintf(w, "%s (%s, normal %s)\n", a.Name, a.Classification.Label(), model.NormalSide(a.Classification).Short()); err != nil {
		return err
	}
	tw := newTable(w)
	fmt.Fprintf(tw, "dr\t|\tcr\n")
	for i := 0; i < max(len(debits), len(credits)); i++ {
		fmt.Fprintf(tw, "%s\t|\t%s\n", entryCell(debits, i), entryCell(credits, i))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "balance %s\n", money(a.Balance))
	return err
}

func entryCell(entries []model.Entry, i int) string {
	if i >= len(entries) {
		return ""
	}
	return fmt.Sprintf("#%d %s", entries[i].Step, money(entries[i].Amount))
}
