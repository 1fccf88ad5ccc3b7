// Package pricing computes itemized price breakdowns for made-to-order
// garment line items. It is pure: no I/O, no clock, same inputs always
// produce the same breakdown, so order re-pricing before checkout is
// idempotent and snapshots taken at order creation stay reproducible.
package pricing

import "errors"

// Money is an amount in whole currency units. The domain has no fractional
// cents; all arithmetic is integer and percentages round half up.
type Money = int64

// DefaultDozenThreshold is the quantity at which dozen pricing kicks in
// when a tier does not override it.
const DefaultDozenThreshold = 12

// PriceMode reports which tier rate was applied to a line item.
type PriceMode string

const (
	PriceModeUnit  PriceMode = "unit"
	PriceModeDozen PriceMode = "dozen"
)

var ErrInvalidInput = errors.New("invalid_input")

// SizeEntry is the quantity ordered at one size within a line item.
// Sizes within one line item are unique.
type SizeEntry struct {
	Size            string `json:"size"`
	Quantity        int64  `json:"quantity"`
	AdditionalPrice Money  `json:"additional_price"`
}

// MaterialChoice is the fabric chosen for a line item. AdditionalPrice is a
// per-unit surcharge applied regardless of size.
type MaterialChoice struct {
	Name            string `json:"name"`
	AdditionalPrice Money  `json:"additional_price"`
}

// PriceTier is the product's rate card at order time.
//
// DozenUnitPrice, when present and the line item's total quantity reaches
// DozenThreshold, replaces UnitPrice for every unit in the line item. This
// is an all-or-nothing tier, not a graduated one.
type PriceTier struct {
	UnitPrice       Money  `json:"unit_price"`
	DozenUnitPrice  *Money `json:"dozen_unit_price,omitempty"`
	DozenThreshold  int64  `json:"dozen_threshold"`
	DiscountPercent int64  `json:"discount_percent"`
	CustomDesignFee Money  `json:"custom_design_fee"`
}

// CustomDesignRequest asks for custom artwork on a line item. The fee is
// flat per line item, not per unit. FeeOverride, when set, replaces the
// tier's CustomDesignFee.
type CustomDesignRequest struct {
	FeeOverride *Money `json:"fee_override,omitempty"`
}

// SizeDetail is the per-size slice of a breakdown.
type SizeDetail struct {
	Size               string    `json:"size"`
	Quantity           int64     `json:"quantity"`
	UnitPriceComponent Money     `json:"unit_price_component"`
	PerSizeSubtotal    Money     `json:"per_size_subtotal"`
	PriceMode          PriceMode `json:"price_mode"`
}

// LineItemPriceBreakdown is the fully itemized result for one line item.
// Invariant: Total = Subtotal - DiscountAmount + CustomDesignFee.
type LineItemPriceBreakdown struct {
	SizeDetails        []SizeDetail `json:"size_details"`
	Subtotal           Money        `json:"subtotal"`
	DiscountPercent    int64        `json:"discount_percent"`
	DiscountAmount     Money        `json:"discount_amount"`
	CustomDesignFee    Money        `json:"custom_design_fee"`
	Total              Money        `json:"total"`
	TotalQuantity      int64        `json:"total_quantity"`
	TotalDozens        int64        `json:"total_dozens"`
	TotalDozenQuantity int64        `json:"total_dozen_quantity"`
	LooseUnitQuantity  int64        `json:"loose_unit_quantity"`
}

// OrderTotals aggregates the priced lines of one order.
type OrderTotals struct {
	Subtotal             Money `json:"subtotal"`
	DiscountAmount       Money `json:"discount_amount"`
	CustomDesignFeeTotal Money `json:"custom_design_fee_total"`
	Total                Money `json:"total"`
}

// PriceLineItem prices one line item. Size/quantity validation is a caller
// precondition; violations return ErrInvalidInput.
func PriceLineItem(sizeEntries []SizeEntry, tier PriceTier, material MaterialChoice, customDesign *CustomDesignRequest) (*LineItemPriceBreakdown, error) {
	if len(sizeEntries) == 0 {
		return nil, ErrInvalidInput
	}
	if tier.UnitPrice < 0 || tier.DiscountPercent < 0 || tier.DiscountPercent > 100 || tier.CustomDesignFee < 0 {
		return nil, ErrInvalidInput
	}
	if material.AdditionalPrice < 0 {
		return nil, ErrInvalidInput
	}

	var totalQuantity int64
	for _, entry := range sizeEntries {
		if entry.Quantity < 0 || entry.AdditionalPrice < 0 {
			return nil, ErrInvalidInput
		}
		totalQuantity += entry.Quantity
	}
	if totalQuantity == 0 {
		return nil, ErrInvalidInput
	}

	threshold := tier.DozenThreshold
	if threshold <= 0 {
		threshold = DefaultDozenThreshold
	}

	mode := PriceModeUnit
	baseUnitPrice := tier.UnitPrice
	if tier.DozenUnitPrice != nil && totalQuantity >= threshold {
		mode = PriceModeDozen
		baseUnitPrice = *tier.DozenUnitPrice
	}

	breakdown := &LineItemPriceBreakdown{
		SizeDetails:     make([]SizeDetail, 0, len(sizeEntries)),
		DiscountPercent: tier.DiscountPercent,
		TotalQuantity:   totalQuantity,
	}

	for _, entry := range sizeEntries {
		unitPrice := baseUnitPrice + entry.AdditionalPrice + material.AdditionalPrice
		perSize := unitPrice * entry.Quantity
		breakdown.SizeDetails = append(breakdown.SizeDetails, SizeDetail{
			Size:               entry.Size,
			Quantity:           entry.Quantity,
			UnitPriceComponent: unitPrice,
			PerSizeSubtotal:    perSize,
			PriceMode:          mode,
		})
		breakdown.Subtotal += perSize
	}

	breakdown.DiscountAmount = roundPercent(breakdown.Subtotal, tier.DiscountPercent)
	if customDesign != nil {
		if customDesign.FeeOverride != nil {
			breakdown.CustomDesignFee = *customDesign.FeeOverride
		} else {
			breakdown.CustomDesignFee = tier.CustomDesignFee
		}
	}

	breakdown.Total = breakdown.Subtotal - breakdown.DiscountAmount + breakdown.CustomDesignFee
	breakdown.TotalDozens = totalQuantity / DefaultDozenThreshold
	breakdown.TotalDozenQuantity = breakdown.TotalDozens * DefaultDozenThreshold
	breakdown.LooseUnitQuantity = totalQuantity - breakdown.TotalDozenQuantity

	return breakdown, nil
}

// PriceOrder sums each field across already-priced line items. The discount
// is folded into each line's total; no order-level discount is re-applied.
func PriceOrder(lines []LineItemPriceBreakdown) OrderTotals {
	var totals OrderTotals
	for _, line := range lines {
		totals.Subtotal += line.Subtotal
		totals.DiscountAmount += line.DiscountAmount
		totals.CustomDesignFeeTotal += line.CustomDesignFee
		totals.Total += line.Total
	}
	return totals
}

// roundPercent applies an integer percentage with round-half-up, matching
// how every storefront screen rounds before display.
func roundPercent(amount Money, percent int64) Money {
	return (amount*percent + 50) / 100
}
