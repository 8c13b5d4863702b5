package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffect(t *testing.T) {
	tests := []struct {
		class  Classification
		debit  int
		credit int
	}{
		{Asset, 1, -1},
		{Expense, 1, -1},
		{Liability, -1, 1},
		{Capital, -1, 1},
		{Revenue, -1, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.debit, Effect(tt.class, Debit), "Effect(%s, debit)", tt.class)
		assert.Equal(t, tt.credit, Effect(tt.class, Credit), "Effect(%s, credit)", tt.class)
	}
}

func TestNormalSide(t *testing.T) {
	assert.Equal(t, Debit, NormalSide(Asset))
	assert.Equal(t, Debit, NormalSide(Expense))
	assert.Equal(t, Credit, NormalSide(Liability))
	assert.Equal(t, Credit, NormalSide(Capital))
	assert.Equal(t, Credit, NormalSide(Revenue))
}

func TestSignedAmount(t *testing.T) {
	amt := decimal.NewFromInt(250)
	assert.True(t, SignedAmount(Asset, Debit, amt).Equal(amt))
	assert.True(t, SignedAmount(Asset, Credit, amt).Equal(amt.Neg()))
	assert.True(t, SignedAmount(Revenue, Credit, amt).Equal(amt))
}

func TestParseClassification(t *testing.T) {
	tests := []struct {
		input string
		want  Classification
	}{
		{"A", Asset},
		{"a", Asset},
		{"Asset", Asset},
		{"assets", Asset},
		{"L", Liability},
		{"liabilities", Liability},
		{" capital ", Capital},
		{"Revenue", Revenue},
		{"expenses", Expense},
	}
	for _, tt := range tests {
		got, err := ParseClassification(tt.input)
		require.NoError(t, err, "input: %q", tt.input)
		assert.Equal(t, tt.want, got)
	}

	for _, bad := range []string{"", "equity", "X", "assetz"} {
		_, err := ParseClassification(bad)
		assert.Error(t, err, "expected error for %q", bad)
	}
}

func TestClassificationLabel(t *testing.T) {
	assert.Equal(t, "Asset", Asset.Label())
	assert.Equal(t, "Liability", Liability.Label())
	assert.True(t, Capital.Valid())
	assert.False(t, Classification("Q").Valid())
}

func TestAccountClone(t *testing.T) {
	orig := Account{ID: "cash", Classification: Asset, Entries: []Entry{{Step: 1, Amount: decimal.NewFromInt(5), Side: Debit}}}
	c := orig.Clone()
	c.Entries[0].Step = 99
	c.Entries = append(c.Entries, Entry{Step: 2})

	assert.Equal(t, 1, orig.Entries[0].Step)
	assert.Len(t, orig.Entries, 1)
}

func TestImpactOf(t *testing.T) {
	assert.Equal(t, []Classification{Asset, Capital}, ImpactOf(Asset, Capital))
	assert.Equal(t, []Classification{Asset}, ImpactOf(Asset, Asset))

	tx := Transaction{Impact: ImpactOf(Expense, Asset)}
	assert.True(t, tx.Touches(Expense))
	assert.True(t, tx.Touches(Asset))
	assert.False(t, tx.Touches(Revenue))
}

func TestTotals(t *testing.T) {
	totals := Totals{ByClassification: map[Classification]decimal.Decimal{
		Asset:     decimal.NewFromInt(12700),
		Liability: decimal.NewFromInt(2000),
		Capital:   decimal.NewFromInt(10000),
		Revenue:   decimal.NewFromInt(1500),
		Expense:   decimal.NewFromInt(800),
	}}

	assert.True(t, totals.Equity().Equal(decimal.NewFromInt(10700)))
	assert.True(t, totals.LiabilitiesAndEquity().Equal(decimal.NewFromInt(12700)))
	assert.True(t, totals.Scale(decimal.NewFromInt(20000)).Equal(decimal.NewFromInt(20000)))
	assert.True(t, totals.Scale(decimal.Zero).Equal(decimal.NewFromInt(12700)))
	assert.True(t, Totals{}.Of(Asset).IsZero())
}
