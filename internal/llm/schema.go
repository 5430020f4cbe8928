package llm

// BuildBillJSONSchema describes the extraction contract. It is used locally to
// validate model output after sanitizing. Every field may be null (unknown).
func BuildBillJSONSchema() map[string]any {
	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":     nullableString(),
			"hsn_code": nullableString(),
			"quantity": nullableNumber(),
			"rate":     nullableNumber(),
			"amount":   nullableNumber(),
		},
	}

	props := map[string]any{
		"seller_name":      nullableString(),
		"seller_gstin":     nullableString(),
		"buyer_name":       nullableString(),
		"buyer_gstin":      nullableString(),
		"invoice_number":   nullableString(),
		"invoice_date":     nullableString(),
		"products":         map[string]any{"type": "array", "items": item},
		"subtotal":         nullableNumber(),
		"cgst":             nullableNumber(),
		"sgst":             nullableNumber(),
		"igst":             nullableNumber(),
		"total_gst":        nullableNumber(),
		"total_amount":     nullableNumber(),
		"confidence_score": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}

func nullableString() map[string]any {
	return map[string]any{"type": []string{"string", "null"}}
}

func nullableNumber() map[string]any {
	return map[string]any{"type": []string{"number", "null"}}
}
