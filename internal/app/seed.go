package app

import "github.com/abgdnv/catalog/internal/store"

// SampleProducts returns the products loaded when catalog.seed is enabled.
func SampleProducts() []store.ProductFields {
	return []store.ProductFields{
		sample("Mechanical Keyboard", 89.99, 25, "Tenkeyless keyboard with brown switches", "Electronics", "2024-01-15", "https://picsum.photos/seed/keyboard/400/300"),
		sample("Espresso Cup Set", 24.5, 40, "Set of four porcelain espresso cups", "Kitchen", "2024-02-03", "https://picsum.photos/seed/cups/400/300"),
		sample("Trail Running Shoes", 129, 12, "Lightweight shoes with a grippy outsole", "Sports", "2024-03-21", "https://picsum.photos/seed/shoes/400/300"),
	}
}

func sample(name string, price float64, quantity int64, description, category, dateAdded, imageURL string) store.ProductFields {
	return store.ProductFields{
		Name:        &name,
		Price:       &price,
		Quantity:    &quantity,
		Description: &description,
		Category:    &category,
		DateAdded:   &dateAdded,
		ImageURL:    &imageURL,
	}
}
