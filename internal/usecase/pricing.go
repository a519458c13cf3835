package usecase

import "app/internal/domain/model"

// EffectiveUnitPrice derives the price a variant sells at right now.
// An override replaces the product base price entirely; otherwise the
// variant's delta is applied on top of it. The variant must carry its
// product.
func EffectiveUnitPrice(v model.ProductVariant) int64 {
	if v.PriceOverride != nil {
		return *v.PriceOverride
	}
	var base int64
	if v.Product != nil {
		base = v.Product.BasePrice
	}
	return base + v.PriceDelta
}

// LineSubtotal is unit price times quantity.
func LineSubtotal(unitPrice, quantity int64) int64 {
	return unitPrice * quantity
}

// OrderSubtotal sums the line subtotals of the given items.
func OrderSubtotal(items []model.OrderItem) int64 {
	var sum int64
	for _, it := range items {
		sum += it.Subtotal
	}
	return sum
}

// OrderTotal is subtotal plus the externally computed shipping cost.
func OrderTotal(subtotal, shippingCost int64) int64 {
	return subtotal + shippingCost
}
