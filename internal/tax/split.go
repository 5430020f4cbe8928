// Package tax computes Indian GST buckets.
package tax

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Rate is the flat GST rate applied to a subtotal.
var Rate = decimal.RequireFromString("0.18")

var half = decimal.RequireFromString("0.5")

// Split holds the three tax buckets. Exactly one regime is nonzero for a
// positive subtotal: CGST+SGST (intra-state) or IGST (inter-state).
type Split struct {
	CGST decimal.Decimal
	SGST decimal.Decimal
	IGST decimal.Decimal
}

// Total is cgst + sgst + igst.
func (s Split) Total() decimal.Decimal {
	return s.CGST.Add(s.SGST).Add(s.IGST)
}

// Compute splits tax on subtotal. A buyer with a tax registration is charged
// IGST; otherwise the tax is halved into CGST and SGST. Each bucket is rounded
// to 2 decimal places.
func Compute(subtotal decimal.Decimal, buyerRegistered bool) Split {
	if buyerRegistered {
		return Split{
			CGST: decimal.Zero,
			SGST: decimal.Zero,
			IGST: subtotal.Mul(Rate).Round(2),
		}
	}
	each := subtotal.Mul(Rate).Mul(half).Round(2)
	return Split{CGST: each, SGST: each, IGST: decimal.Zero}
}

// Registered reports whether a GSTIN value counts as present.
func Registered(gstin *string) bool {
	return gstin != nil && strings.TrimSpace(*gstin) != ""
}

