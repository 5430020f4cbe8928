package llm

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

var (
	stringFields = []string{"seller_name", "seller_gstin", "buyer_name", "buyer_gstin", "invoice_number", "invoice_date"}
	moneyFields  = []string{"subtotal", "cgst", "sgst", "igst", "total_gst", "total_amount"}
	itemStrings  = []string{"name", "hsn_code"}
	itemNumbers  = []string{"quantity", "rate", "amount"}

	// Earlier entries win when a reply carries several names for one field.
	synonyms = []synonym{
		{"line_items", "products"},
		{"items", "products"},
		{"confidence", "confidence_score"},
		{"gst_total", "total_gst"},
		{"grand_total", "total_amount"},
		{"total", "total_amount"},
		{"invoice_no", "invoice_number"},
		{"taxable_value", "subtotal"},
	}
	itemSynonyms = []synonym{
		{"product_name", "name"},
		{"description", "name"},
		{"hsn", "hsn_code"},
		{"qty", "quantity"},
		{"price", "rate"},
	}
)

type synonym struct{ from, to string }

// NormalizeAndSanitizeJSON reshapes a model reply into the extraction contract:
//   - renames known synonyms
//   - drops unknown keys
//   - blank / "null" / "N/A" strings become null
//   - money strings like "₹1,180.00" become numbers, unparseable ones become null
//   - confidence_score is clamped into [0,1]
//
// It fails only when raw is not a JSON object.
func NormalizeAndSanitizeJSON(raw []byte, logger zerolog.Logger) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	changed := make([]string, 0, 8)
	rename(m, synonyms, &changed)

	allowed := map[string]struct{}{"products": {}, "confidence_score": {}}
	for _, k := range stringFields {
		allowed[k] = struct{}{}
	}
	for _, k := range moneyFields {
		allowed[k] = struct{}{}
	}
	for k := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			changed = append(changed, k+"(unknown)")
		}
	}

	for _, k := range stringFields {
		coerceString(m, k, "", &changed)
	}
	for _, k := range moneyFields {
		coerceNumber(m, k, "", &changed)
	}

	items, _ := m["products"].([]any)
	if _, ok := m["products"]; ok && items == nil {
		changed = append(changed, "products(type)")
	}
	cleaned := make([]any, 0, len(items))
	for i, it := range items {
		row, ok := it.(map[string]any)
		if !ok {
			changed = append(changed, fmt.Sprintf("products[%d](type)", i))
			continue
		}
		prefix := fmt.Sprintf("products[%d].", i)
		rename(row, itemSynonyms, &changed)
		for k := range maps.Clone(row) {
			if !slices.Contains(itemStrings, k) && !slices.Contains(itemNumbers, k) {
				delete(row, k)
				changed = append(changed, prefix+k+"(unknown)")
			}
		}
		for _, k := range itemStrings {
			coerceString(row, k, prefix, &changed)
		}
		for _, k := range itemNumbers {
			coerceNumber(row, k, prefix, &changed)
		}
		cleaned = append(cleaned, row)
	}
	m["products"] = cleaned

	conf, ok := toNumber(m["confidence_score"])
	switch {
	case !ok:
		if _, present := m["confidence_score"]; present {
			changed = append(changed, "confidence_score(type)")
		}
		conf = 0
	case conf < 0:
		conf = 0
		changed = append(changed, "confidence_score(clamped)")
	case conf > 1:
		conf = 1
		changed = append(changed, "confidence_score(clamped)")
	}
	m["confidence_score"] = conf

	out, err := json.Marshal(m)
	if err != nil {
		return nil, changed, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(changed) > 0 {
		logger.Warn().Strs("changed", changed).Msg("llm.extract.normalize_sanitize")
	}
	return out, changed, nil
}

func rename(m map[string]any, table []synonym, changed *[]string) {
	for _, syn := range table {
		from, to := syn.from, syn.to
		v, ok := m[from]
		if !ok {
			continue
		}
		if _, exists := m[to]; !exists {
			m[to] = v
		}
		delete(m, from)
		*changed = append(*changed, from+"->"+to)
	}
}

func coerceString(m map[string]any, k, prefix string, changed *[]string) {
	v, ok := m[k]
	if !ok {
		return
	}
	switch t := v.(type) {
	case nil:
	case string:
		s := strings.TrimSpace(t)
		if isBlank(s) {
			m[k] = nil
			if t != "" {
				*changed = append(*changed, prefix+k+"(blank)")
			}
		} else {
			m[k] = s
		}
	case float64:
		m[k] = strconv.FormatFloat(t, 'f', -1, 64)
		*changed = append(*changed, prefix+k+"(number)")
	default:
		m[k] = nil
		*changed = append(*changed, prefix+k+"(type)")
	}
}

func coerceNumber(m map[string]any, k, prefix string, changed *[]string) {
	v, ok := m[k]
	if !ok || v == nil {
		return
	}
	if _, isNum := v.(float64); isNum {
		return
	}
	if f, ok := toNumber(v); ok {
		m[k] = f
		*changed = append(*changed, prefix+k+"(string)")
		return
	}
	m[k] = nil
	*changed = append(*changed, prefix+k+"(unparseable)")
}

var moneyNoise = strings.NewReplacer("₹", "", "Rs.", "", "Rs", "", "INR", "", ",", "", " ", "")

func toNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		s := moneyNoise.Replace(strings.TrimSpace(t))
		if isBlank(s) {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

func isBlank(s string) bool {
	switch strings.ToLower(s) {
	case "", "null", "none", "n/a", "na", "-":
		return true
	}
	return false
}
