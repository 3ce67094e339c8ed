package store

import (
	"slices"
	"sync"

	"github.com/vyrodovalexey/product-catalog/internal/model"
)

// MemoryStore implements Store interface with in-memory storage.
type MemoryStore struct {
	mu       sync.RWMutex
	products []model.Product
	nextID   int64
}

// NewMemoryStore creates a new MemoryStore instance.
// The first product created receives ID 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make([]model.Product, 0),
		nextID:   1,
	}
}

// List returns all products from the store.
func (s *MemoryStore) List() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]model.Product, len(s.products))
	copy(products, s.products)

	return products
}

// Get retrieves a product by its ID.
func (s *MemoryStore) Get(id int64) (model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.products[i], true
	}

	return model.Product{}, false
}

// Create adds a new product to the store and returns it with the generated ID.
// The ID field of p is ignored.
func (s *MemoryStore) Create(p model.Product) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.nextID
	s.nextID++
	s.products = append(s.products, p)

	productsCreatedTotal.Inc()
	productsStored.Set(float64(len(s.products)))

	return p
}

// Delete removes a product from the store by its ID.
func (s *MemoryStore) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}

	s.products = slices.Delete(s.products, i, i+1)

	productsDeletedTotal.Inc()
	productsStored.Set(float64(len(s.products)))

	return true
}

// Count returns the number of stored products.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.products)
}

// indexOf returns the position of the product with the given ID, or -1.
// Callers must hold s.mu.
func (s *MemoryStore) indexOf(id int64) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}
