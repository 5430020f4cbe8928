package llm

import (
	"strings"

	"github.com/joseph-ayodele/billbook/constants"
)

// SystemInstruction is sent with every extraction call.
func SystemInstruction() string {
	return strings.Join([]string{
		"You extract data from Indian GST tax invoices.",
		"Return ONLY one JSON object. No prose, no markdown, no code fences.",
		"Keys: seller_name, seller_gstin, buyer_name, buyer_gstin, invoice_number, invoice_date,",
		"products (array of {name, hsn_code, quantity, rate, amount}),",
		"subtotal, cgst, sgst, igst, total_gst, total_amount, confidence_score.",
		"Amounts are plain JSON numbers without currency symbols or thousands separators.",
		"If a field is not present on the document, use null. Never guess a value and never use 0 for a missing amount.",
		"confidence_score is a number between 0 and 1 reflecting image quality and how clearly the fields could be read.",
	}, " ")
}

// UserPrompt accompanies the document.
func UserPrompt(kind constants.DocumentKind) string {
	if kind == constants.KindPDF {
		return "Extract all GST invoice information from this PDF and return it as JSON."
	}
	return "Extract all GST invoice information from this image and return it as JSON."
}
