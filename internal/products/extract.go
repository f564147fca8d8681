package products

import "strings"

// ExtractBaseID strips the variant suffix from a SKU, cutting at the last "-"
// so "AB-100-red" becomes "AB-100". A separator at position 0 does not count,
// so "-AB" stays "-AB".
func ExtractBaseID(sku string) string {
	if idx := strings.LastIndex(sku, "-"); idx > 0 {
		return strings.TrimSpace(sku[:idx])
	}
	return strings.TrimSpace(sku)
}

// ExtractBaseName cuts a product name at the earliest "-" or "|".
func ExtractBaseName(name string) string {
	if idx := strings.IndexAny(name, "-|"); idx > 0 {
		return strings.TrimSpace(name[:idx])
	}
	return strings.TrimSpace(name)
}
