package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWesternGroceryReceipt(t *testing.T) {
	raw := `WHOLE FOODS MARKET
123 Main St
2024-01-15 14:30
1. Organic Bananas
3.99
2. Almond Milk
4.49
SUBTOTAL
8.48
TAX
0.68
TOTAL
9.16`

	r := Parse(raw)

	require.NotNil(t, r.Merchant)
	assert.Equal(t, "WHOLE FOODS MARKET", *r.Merchant)

	require.NotNil(t, r.Date)
	assert.Equal(t, "2024-01-15", *r.Date)

	require.Len(t, r.Items, 2)
	assert.Equal(t, "Organic Bananas", r.Items[0].Name)
	assert.InDelta(t, 3.99, r.Items[0].Price, 0.001)
	assert.Equal(t, "Almond Milk", r.Items[1].Name)
	assert.InDelta(t, 4.49, r.Items[1].Price, 0.001)

	require.NotNil(t, r.Subtotal)
	assert.InDelta(t, 8.48, *r.Subtotal, 0.001)
	require.NotNil(t, r.Tax)
	assert.InDelta(t, 0.68, *r.Tax, 0.001)
	require.NotNil(t, r.Total)
	assert.InDelta(t, 9.16, *r.Total, 0.001)

	assert.Equal(t, raw, r.RawText)
	assert.InDelta(t, 1.0, Score(r), 0.001)
}

func TestParseIndonesianRestaurantReceipt(t *testing.T) {
	raw := `RESTORAN PADANG SEDERHANA
Jl. Sudirman No. 45
15/01/2024
1. Nasi Rendang
Rp 45.000
2. Es Teh Manis
Rp 8.000
JUMLAH
Rp 53.000
PPN
Rp 5.300
TOTAL
Rp 58.300`

	r := Parse(raw)

	require.NotNil(t, r.Merchant)
	assert.Equal(t, "RESTORAN PADANG SEDERHANA", *r.Merchant)

	require.NotNil(t, r.Date)
	assert.Equal(t, "15/01/2024", *r.Date)

	require.Len(t, r.Items, 2)
	assert.InDelta(t, 45000, r.Items[0].Price, 0.001)
	assert.InDelta(t, 8000, r.Items[1].Price, 0.001)

	require.NotNil(t, r.Subtotal)
	assert.InDelta(t, 53000, *r.Subtotal, 0.001)
	require.NotNil(t, r.Tax)
	assert.InDelta(t, 5300, *r.Tax, 0.001)
	require.NotNil(t, r.Total)
	assert.InDelta(t, 58300, *r.Total, 0.001)

	assert.InDelta(t, 1.0, Score(r), 0.001)
}

func TestParseSameLineTotal(t *testing.T) {
	raw := `INDOMARET
TOTAL Rp 88.000`

	r := Parse(raw)

	require.NotNil(t, r.Total)
	assert.InDelta(t, 88000, *r.Total, 0.001)
}

func TestParseLargestAmountFallback(t *testing.T) {
	raw := `SOME STORE
thanks for shopping
12.50
3.75
20.00`

	r := Parse(raw)

	require.NotNil(t, r.Total)
	assert.InDelta(t, 20.00, *r.Total, 0.001)
}

// The fallback must consider every numeric token on a line: a quantity
// prefix like "2 pcs" must not hide the price after it.
func TestParseFallbackScansWholeLine(t *testing.T) {
	raw := `SOME STORE
2 pcs 150.00
3.75`

	r := Parse(raw)

	require.NotNil(t, r.Total)
	assert.InDelta(t, 150.00, *r.Total, 0.001)
}

// OCR often drops grouping commas; a 4+ digit grand total must survive
// the fallback intact instead of matching as a truncated prefix.
func TestParseFallbackUngroupedThousands(t *testing.T) {
	raw := `ELECTRONICS OUTLET
laptop
1234.56`

	r := Parse(raw)

	require.NotNil(t, r.Total)
	assert.InDelta(t, 1234.56, *r.Total, 0.001)
}

// Years in date lines must not win the largest-amount fallback.
func TestParseFallbackSkipsDateLines(t *testing.T) {
	raw := `CORNER DELI
01/02/2025
sandwich 12.00`

	r := Parse(raw)

	require.NotNil(t, r.Date)
	assert.Equal(t, "01/02/2025", *r.Date)
	require.NotNil(t, r.Total)
	assert.InDelta(t, 12.00, *r.Total, 0.001)
}

func TestParseStructuredFencedJSON(t *testing.T) {
	raw := "Here is the extracted receipt:\n```json\n" +
		`{"merchant": "Blue Bottle Coffee", "date": "2024-03-01",
		  "items": [{"name": "Latte", "quantity": 1, "price": 5.50}],
		  "subtotal": 5.50, "tax": 0.44, "total": "5.94",
		  "payment_method": "card"}` + "\n```"

	r := Parse(raw)

	require.NotNil(t, r.Merchant)
	assert.Equal(t, "Blue Bottle Coffee", *r.Merchant)
	require.Len(t, r.Items, 1)
	assert.Equal(t, "Latte", r.Items[0].Name)
	assert.InDelta(t, 5.50, r.Items[0].Price, 0.001)
	require.NotNil(t, r.Total)
	assert.InDelta(t, 5.94, *r.Total, 0.001)
	require.NotNil(t, r.PaymentMethod)
	assert.Equal(t, "card", *r.PaymentMethod)
	assert.Equal(t, raw, r.RawText)
}

func TestParseStructuredNakedJSON(t *testing.T) {
	raw := `The receipt shows: {"merchant": "Trader Joe's", "total": 23.45} hope that helps`

	r := Parse(raw)

	require.NotNil(t, r.Merchant)
	assert.Equal(t, "Trader Joe's", *r.Merchant)
	require.NotNil(t, r.Total)
	assert.InDelta(t, 23.45, *r.Total, 0.001)
}

func TestParseStructuredAmountAsIndonesianString(t *testing.T) {
	raw := `{"merchant": "Indomaret", "total": "Rp 88.000"}`

	r := Parse(raw)

	require.NotNil(t, r.Total)
	assert.InDelta(t, 88000, *r.Total, 0.001)
}

func TestParseEmptyInput(t *testing.T) {
	r := Parse("")

	assert.Nil(t, r.Merchant)
	assert.Nil(t, r.Date)
	assert.Nil(t, r.Subtotal)
	assert.Nil(t, r.Tax)
	assert.Nil(t, r.Total)
	assert.Empty(t, r.Items)
	assert.InDelta(t, 0.0, Score(r), 0.001)
}

// Garbage JSON must fall through to the heuristic walk, not fail.
func TestParseMalformedJSONFallsBack(t *testing.T) {
	raw := `{"merchant": "Broken
STARBUCKS
TOTAL
6.75`

	r := Parse(raw)

	require.NotNil(t, r.Total)
	assert.InDelta(t, 6.75, *r.Total, 0.001)
}
