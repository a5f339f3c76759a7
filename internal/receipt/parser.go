package receipt

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/levynexus/nexus/internal/model"
)

var (
	itemLineRE = regexp.MustCompile(`^([0-9]+)[.)]\s+(.+)$`)

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
		regexp.MustCompile(`\b\d{4}/\d{2}/\d{2}\b`),
		regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`),
		regexp.MustCompile(`\b\d{1,2}-\d{1,2}-\d{2,4}\b`),
	}

	fencedJSONRE = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)```")
)

// Keyword anchors for amount fields, English and Indonesian. Matching is
// exact on the trimmed line (trailing colon ignored) so item names that
// merely contain "total" are not captured.
var (
	subtotalKeywords = map[string]bool{
		"SUBTOTAL":  true,
		"SUB TOTAL": true,
		"SUB-TOTAL": true,
		"JUMLAH":    true,
	}
	taxKeywords = map[string]bool{
		"TAX":   true,
		"PPN":   true,
		"PAJAK": true,
	}
	totalKeywords = map[string]bool{
		"TOTAL":            true,
		"GRAND TOTAL":      true,
		"TOTAL BAYAR":      true,
		"TOTAL PEMBAYARAN": true,
	}
)

// Parse converts raw OCR text into a structured receipt. It never fails:
// fields that cannot be located stay nil and the confidence scorer
// reports the resulting uncertainty.
//
// Structured-first: if the text embeds a JSON object (vision backends
// asked for JSON emit one, often inside a fenced code block), its fields
// are mapped directly. Otherwise a heuristic line walk is used.
func Parse(rawText string) model.ParsedReceipt {
	if r, ok := parseStructured(rawText); ok {
		r.RawText = rawText
		return r
	}
	return parseHeuristic(rawText)
}

// receiptJSON mirrors the JSON shape vision backends are instructed to
// emit. Amounts may arrive as numbers or as formatted strings.
type receiptJSON struct {
	Merchant      *string     `json:"merchant"`
	Date          *string     `json:"date"`
	Items         []itemJSON  `json:"items"`
	Subtotal      *flexAmount `json:"subtotal"`
	Tax           *flexAmount `json:"tax"`
	Total         *flexAmount `json:"total"`
	PaymentMethod *string     `json:"payment_method"`
}

type itemJSON struct {
	Name     string      `json:"name"`
	Quantity *int        `json:"quantity"`
	Price    *flexAmount `json:"price"`
}

// flexAmount accepts a JSON number or a currency-formatted string.
type flexAmount float64

func (f *flexAmount) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexAmount(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if v, ok := ExtractPrice(s); ok {
		*f = flexAmount(v)
	}
	return nil
}

func parseStructured(rawText string) (model.ParsedReceipt, bool) {
	candidate := rawText
	if m := fencedJSONRE.FindStringSubmatch(rawText); m != nil {
		candidate = m[1]
	}

	obj := extractJSONObject(candidate)
	if obj == "" {
		return model.ParsedReceipt{}, false
	}

	var rj receiptJSON
	if err := json.Unmarshal([]byte(obj), &rj); err != nil {
		return model.ParsedReceipt{}, false
	}
	if rj.Merchant == nil && rj.Total == nil && len(rj.Items) == 0 {
		return model.ParsedReceipt{}, false
	}

	r := model.ParsedReceipt{
		Merchant:      rj.Merchant,
		Date:          rj.Date,
		Subtotal:      amountPtr(rj.Subtotal),
		Tax:           amountPtr(rj.Tax),
		Total:         amountPtr(rj.Total),
		PaymentMethod: rj.PaymentMethod,
	}
	for _, it := range rj.Items {
		qty := 1
		if it.Quantity != nil && *it.Quantity > 1 {
			qty = *it.Quantity
		}
		price := 0.0
		if it.Price != nil {
			price = float64(*it.Price)
		}
		r.Items = append(r.Items, model.LineItem{Name: it.Name, Quantity: qty, Price: price})
	}
	return r, true
}

func amountPtr(f *flexAmount) *float64 {
	if f == nil {
		return nil
	}
	v := float64(*f)
	return &v
}

// extractJSONObject returns the first brace-balanced JSON object in s,
// respecting string literals, or "" if none exists.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func parseHeuristic(rawText string) model.ParsedReceipt {
	r := model.ParsedReceipt{RawText: rawText}

	var lines []string
	for _, l := range strings.Split(rawText, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}

	for i := 0; i < len(lines); {
		line := lines[i]

		// First line that is neither a date nor an amount keyword is the
		// merchant. First match wins, never overwritten.
		if r.Merchant == nil && findDate(line) == "" && amountField(line) == "" {
			merchant := line
			r.Merchant = &merchant
			i++
			continue
		}

		// Numbered item: "<N>. <name>". OCR frequently splits the price
		// onto the following line, so look one line ahead.
		if m := itemLineRE.FindStringSubmatch(line); m != nil {
			if i+1 < len(lines) && amountField(lines[i+1]) == "" {
				if price, ok := ExtractPrice(lines[i+1]); ok {
					r.Items = append(r.Items, model.LineItem{Name: m[2], Quantity: 1, Price: price})
					i += 2
					continue
				}
			}
			i++
			continue
		}

		// Amount keyword with the value stacked on the next line.
		if field := amountField(line); field != "" {
			if i+1 < len(lines) {
				if price, ok := ExtractPrice(lines[i+1]); ok {
					setAmount(&r, field, price)
					i += 2
					continue
				}
			}
			i++
			continue
		}

		// Auxiliary path: some backends emit "TOTAL Rp 88.000" on one line.
		if hasTotalPrefix(line) && r.Total == nil {
			if price, ok := ExtractPrice(line); ok {
				r.Total = &price
				i++
				continue
			}
		}

		if r.Date == nil {
			if d := findDate(line); d != "" {
				r.Date = &d
				i++
				continue
			}
		}

		i++
	}

	// Receipts may omit an explicit TOTAL label; the grand total is
	// reliably the largest line amount.
	if r.Total == nil {
		if max, ok := largestAmount(lines); ok {
			r.Total = &max
		}
	}

	return r
}

// amountField reports which amount field a keyword line anchors, or "".
func amountField(line string) string {
	key := strings.ToUpper(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ":")))
	switch {
	case subtotalKeywords[key]:
		return "subtotal"
	case taxKeywords[key]:
		return "tax"
	case totalKeywords[key]:
		return "total"
	}
	return ""
}

func setAmount(r *model.ParsedReceipt, field string, v float64) {
	switch field {
	case "subtotal":
		if r.Subtotal == nil {
			r.Subtotal = &v
		}
	case "tax":
		if r.Tax == nil {
			r.Tax = &v
		}
	case "total":
		if r.Total == nil {
			r.Total = &v
		}
	}
}

func hasTotalPrefix(line string) bool {
	up := strings.ToUpper(line)
	for k := range totalKeywords {
		if strings.HasPrefix(up, k+" ") || strings.HasPrefix(up, k+":") {
			return true
		}
	}
	return false
}

func findDate(line string) string {
	for _, re := range datePatterns {
		if m := re.FindString(line); m != "" {
			return m
		}
	}
	return ""
}

// largestAmount scans every numeric token on every line for the biggest
// one, so a quantity prefix like "2 pcs 150.00" cannot shadow the price
// behind it. Date lines are skipped so years do not masquerade as totals.
func largestAmount(lines []string) (float64, bool) {
	best := 0.0
	found := false
	for _, line := range lines {
		if findDate(line) != "" {
			continue
		}
		for _, v := range extractAll(line) {
			if !found || v > best {
				best = v
				found = true
			}
		}
	}
	return best, found
}
