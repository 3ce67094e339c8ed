// Package store provides data storage interfaces and implementations.
package store

import "github.com/vyrodovalexey/product-catalog/internal/model"

// Store defines the interface for product storage operations.
// Implementations must be safe for concurrent use.
type Store interface {
	// List returns a snapshot of all products in insertion order.
	List() []model.Product

	// Get retrieves a product by its ID. The boolean reports whether it was found.
	Get(id int64) (model.Product, bool)

	// Create stores a copy of the product under a newly assigned ID and returns it.
	Create(p model.Product) model.Product

	// Delete removes a product by its ID and reports whether anything was removed.
	Delete(id int64) bool

	// Count returns the number of stored products.
	Count() int
}
