package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cleared-dev/ledgerlab/internal/id"
	"github.com/cleared-dev/ledgerlab/internal/model"
)

// Header is the CSV header for a journal export. Each transaction is two
// rows: leg "a" is the debit, leg "b" the credit.
const Header = "entry_id,step,account_id,account_name,clear,debit,credit,title,description,explanation"

const (
	numFields      = 10
	colEntryID     = 0
	colStep        = 1
	colAcctID      = 2
	colAcctName    = 3
	colClear       = 4
	colDebit       = 5
	colCredit      = 6
	colTitle       = 7
	colDesc        = 8
	colExplanation = 9
)

// WriteLegs writes transactions to w as journal legs (including header).
func WriteLegs(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txns {
		for _, row := range MarshalTransaction(tx) {
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing step %d: %w", tx.Step, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a transaction into its debit and credit rows.
func MarshalTransaction(tx model.Transaction) [][]string {
	entryID := id.FormatEntryID(tx.Step)
	legs := []struct {
		ref  model.AccountRef
		side model.Side
	}{
		{tx.Debit, model.Debit},
		{tx.Credit, model.Credit},
	}

	rows := make([][]string, 0, len(legs))
	for i, leg := range legs {
		row := make([]string, numFields)
		row[colEntryID] = id.FormatLegID(entryID, i)
		row[colStep] = strconv.Itoa(tx.Step)
		row[colAcctID] = leg.ref.ID
		row[colAcctName] = leg.ref.Name
		row[colClear] = string(leg.ref.Classification)
		if leg.side == model.Debit {
			row[colDebit] = tx.Amount.StringFixed(2)
		} else {
			row[colCredit] = tx.Amount.StringFixed(2)
		}
		row[colTitle] = tx.Title
		row[colDesc] = tx.Description
		row[colExplanation] = tx.Explanation
		rows = append(rows, row)
	}
	return rows
}

// ReadTransactions reads a journal export back into transactions, pairing
// each debit leg with the credit leg of the same entry.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	rows := records[1:]
	if len(rows)%2 != 0 {
		return nil, fmt.Errorf("journal has %d legs, expected pairs", len(rows))
	}

	var txns []model.Transaction
	for i := 0; i < len(rows); i += 2 {
		tx, err := unmarshalPair(rows[i], rows[i+1])
		if err != nil {
			return nil, fmt.Errorf("rows %d-%d: %w", i+2, i+3, err)
		}
		txns = append(txns, tx)
	}
	return txns, nil
}

func unmarshalPair(debitRow, creditRow []string) (model.Transaction, error) {
	debitEntry := id.EntryGroup(debitRow[colEntryID])
	creditEntry := id.EntryGroup(creditRow[colEntryID])
	if debitEntry != creditEntry {
		return model.Transaction{}, fmt.Errorf("legs %q and %q belong to different entries", debitRow[colEntryID], creditRow[colEntryID])
	}
	if debitRow[colDebit] == "" || debitRow[colCredit] != "" {
		return model.Transaction{}, fmt.Errorf("leg %q must carry only a debit", debitRow[colEntryID])
	}
	if creditRow[colCredit] == "" || creditRow[colDebit] != "" {
		return model.Transaction{}, fmt.Errorf("leg %q must carry only a credit", creditRow[colEntryID])
	}

	step, err := id.ParseEntryID(debitEntry)
	if err != nil {
		return model.Transaction{}, err
	}

	// Both legs are bounded before they are compared.
	debitAmt, err := ParseAmount(debitRow[colDebit])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("debit leg: %w", err)
	}
	creditAmt, err := ParseAmount(creditRow[colCredit])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("credit leg: %w", err)
	}
	if !debitAmt.Equal(creditAmt) {
		return model.Transaction{}, fmt.Errorf("debit (%s) != credit (%s)", debitAmt.StringFixed(2), creditAmt.StringFixed(2))
	}

	debitRef, err := unmarshalRef(debitRow)
	if err != nil {
		return model.Transaction{}, err
	}
	creditRef, err := unmarshalRef(creditRow)
	if err != nil {
		return model.Transaction{}, err
	}

	return model.Transaction{
		Step:        step,
		Title:       debitRow[colTitle],
		Description: debitRow[colDesc],
		Explanation: debitRow[colExplanation],
		Amount:      debitAmt,
		Debit:       debitRef,
		Credit:      creditRef,
		Impact:      model.ImpactOf(debitRef.Classification, creditRef.Classification),
	}, nil
}

func unmarshalRef(row []string) (model.AccountRef, error) {
	c, err := model.ParseClassification(row[colClear])
	if err != nil {
		return model.AccountRef{}, fmt.Errorf("leg %q: %w", row[colEntryID], err)
	}
	return model.AccountRef{ID: row[colAcctID], Name: row[colAcctName], Classification: c}, nil
}
