// Package store provides the product collection and its storage operations.
package store

// ProductStore is an interface for product storage operations.
// "Not found" is reported through the boolean results, never as an error.
type ProductStore interface {
	// ListAll returns a snapshot of every product in insertion order.
	ListAll() []Product

	// FindByID returns the first product with the given id.
	FindByID(id int64) (Product, bool)

	// Create assigns a new id, stores the product and returns it.
	Create(fields ProductFields) Product

	// Update merges the supplied fields into the product with the given id.
	Update(id int64, fields ProductFields) (Product, bool)

	// Delete removes the product with the given id. It reports true even when
	// no such product exists.
	Delete(id int64) bool
}

// Product represents a product entity in the store.
type Product struct {
	ID          int64
	Name        string
	Price       float64
	Quantity    int64
	Description string
	Category    string
	DateAdded   string
	ImageURL    string
}

// ProductFields is a partial product. A nil field is absent and is left untouched by Update.
type ProductFields struct {
	Name        *string
	Price       *float64
	Quantity    *int64
	Description *string
	Category    *string
	DateAdded   *string
	ImageURL    *string
}

// ApplyTo copies every present field onto p.
func (f ProductFields) ApplyTo(p *Product) {
	if f.Name != nil {
		p.Name = *f.Name
	}
	if f.Price != nil {
		p.Price = *f.Price
	}
	if f.Quantity != nil {
		p.Quantity = *f.Quantity
	}
	if f.Description != nil {
		p.Description = *f.Description
	}
	if f.Category != nil {
		p.Category = *f.Category
	}
	if f.DateAdded != nil {
		p.DateAdded = *f.DateAdded
	}
	if f.ImageURL != nil {
		p.ImageURL = *f.ImageURL
	}
}
