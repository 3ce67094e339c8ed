package store

import (
	"sort"
	"sync"
	"testing"

	"github.com/vyrodovalexey/product-catalog/internal/model"
)

func TestNewMemoryStore(t *testing.T) {
	// Act
	store := NewMemoryStore()

	// Assert
	if store == nil {
		t.Fatal("NewMemoryStore() returned nil")
	}
	if store.nextID != 1 {
		t.Errorf("nextID = %d, want 1", store.nextID)
	}
	if store.Count() != 0 {
		t.Errorf("Count() = %d, want 0", store.Count())
	}
}

func TestMemoryStore_Create(t *testing.T) {
	tests := []struct {
		name    string
		product model.Product
	}{
		{
			name: "full product",
			product: model.Product{
				Name:        "Widget",
				Description: "A widget",
				Price:       9.99,
				Quantity:    5,
			},
		},
		{
			name: "product without description",
			product: model.Product{
				Name:  "Gadget",
				Price: 19.99,
			},
		},
		{
			name: "client supplied id is ignored",
			product: model.Product{
				ID:    77,
				Name:  "Gizmo",
				Price: 1,
			},
		},
		{
			name:    "no validation at store level",
			product: model.Product{Price: -1, Quantity: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			store := NewMemoryStore()

			// Act
			created := store.Create(tt.product)

			// Assert
			if created.ID != 1 {
				t.Errorf("ID = %d, want 1", created.ID)
			}
			want := tt.product
			want.ID = created.ID
			if created != want {
				t.Errorf("Create() = %+v, want %+v", created, want)
			}
			if store.Count() != 1 {
				t.Errorf("Count() = %d, want 1", store.Count())
			}
		})
	}
}

func TestMemoryStore_Create_SequentialIDs(t *testing.T) {
	// Arrange
	store := NewMemoryStore()

	// Act & Assert
	for want := int64(1); want <= 50; want++ {
		created := store.Create(model.Product{Name: "Item", Price: 1})
		if created.ID != want {
			t.Fatalf("Create() ID = %d, want %d", created.ID, want)
		}
	}
}

func TestMemoryStore_Create_IDsNotReusedAfterDelete(t *testing.T) {
	// Arrange
	store := NewMemoryStore()
	first := store.Create(model.Product{Name: "First", Price: 1})
	store.Delete(first.ID)

	// Act
	second := store.Create(model.Product{Name: "Second", Price: 1})

	// Assert
	if second.ID != 2 {
		t.Errorf("ID = %d, want 2", second.ID)
	}
}

func TestMemoryStore_Create_ReturnsCopy(t *testing.T) {
	// Arrange
	store := NewMemoryStore()
	input := model.Product{Name: "Widget", Price: 9.99}

	// Act
	created := store.Create(input)
	created.Name = "mutated"

	// Assert
	if input.ID != 0 {
		t.Errorf("input ID = %d, caller value should not be modified", input.ID)
	}
	got, _ := store.Get(1)
	if got.Name != "Widget" {
		t.Errorf("stored Name = %s, want Widget", got.Name)
	}
}

func TestMemoryStore_Get(t *testing.T) {
	// Arrange
	store := NewMemoryStore()
	created := store.Create(model.Product{
		Name:        "Widget",
		Description: "A widget",
		Price:       9.99,
		Quantity:    5,
	})

	tests := []struct {
		name      string
		id        int64
		wantFound bool
	}{
		{
			name:      "existing product",
			id:        created.ID,
			wantFound: true,
		},
		{
			name:      "non-existing product",
			id:        999,
			wantFound: false,
		},
		{
			name:      "zero id",
			id:        0,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got, found := store.Get(tt.id)

			// Assert
			if found != tt.wantFound {
				t.Fatalf("Get() found = %v, want %v", found, tt.wantFound)
			}
			if !tt.wantFound {
				if got != (model.Product{}) {
					t.Errorf("Get() = %+v, want zero value", got)
				}
				return
			}
			if got != created {
				t.Errorf("Get() = %+v, want %+v", got, created)
			}
		})
	}
}

func TestMemoryStore_List(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(*MemoryStore)
		wantNames []string
	}{
		{
			name:      "empty store",
			setup:     func(_ *MemoryStore) {},
			wantNames: []string{},
		},
		{
			name: "single product",
			setup: func(s *MemoryStore) {
				s.Create(model.Product{Name: "Item 1", Price: 10})
			},
			wantNames: []string{"Item 1"},
		},
		{
			name: "insertion order preserved",
			setup: func(s *MemoryStore) {
				s.Create(model.Product{Name: "Item 1", Price: 10})
				s.Create(model.Product{Name: "Item 2", Price: 20})
				s.Create(model.Product{Name: "Item 3", Price: 30})
			},
			wantNames: []string{"Item 1", "Item 2", "Item 3"},
		},
		{
			name: "order preserved after middle delete",
			setup: func(s *MemoryStore) {
				s.Create(model.Product{Name: "Item 1", Price: 10})
				s.Create(model.Product{Name: "Item 2", Price: 20})
				s.Create(model.Product{Name: "Item 3", Price: 30})
				s.Delete(2)
			},
			wantNames: []string{"Item 1", "Item 3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			store := NewMemoryStore()
			tt.setup(store)

			// Act
			products := store.List()

			// Assert
			if products == nil {
				t.Fatal("List() returned nil slice")
			}
			if len(products) != len(tt.wantNames) {
				t.Fatalf("List() returned %d products, want %d", len(products), len(tt.wantNames))
			}
			for i, name := range tt.wantNames {
				if products[i].Name != name {
					t.Errorf("products[%d].Name = %s, want %s", i, products[i].Name, name)
				}
			}
		})
	}
}

func TestMemoryStore_List_ReturnsSnapshot(t *testing.T) {
	// Arrange
	store := NewMemoryStore()
	store.Create(model.Product{Name: "Item 1", Price: 10})
	store.Create(model.Product{Name: "Item 2", Price: 20})

	// Act
	products := store.List()
	products[0].Name = "mutated"
	products[1] = model.Product{}

	// Assert
	again := store.List()
	if len(again) != 2 {
		t.Fatalf("List() returned %d products, want 2", len(again))
	}
	if again[0].Name != "Item 1" {
		t.Errorf("products[0].Name = %s, want Item 1", again[0].Name)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	tests := []struct {
		name      string
		id        int64
		wantFound bool
	}{
		{
			name:      "existing product",
			id:        1,
			wantFound: true,
		},
		{
			name:      "non-existing product",
			id:        42,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			store := NewMemoryStore()
			store.Create(model.Product{Name: "Widget", Price: 9.99})

			// Act
			deleted := store.Delete(tt.id)

			// Assert
			if deleted != tt.wantFound {
				t.Fatalf("Delete() = %v, want %v", deleted, tt.wantFound)
			}
			if _, found := store.Get(tt.id); found {
				t.Error("product should not be retrievable after Delete()")
			}
		})
	}
}

func TestMemoryStore_Delete_OnlyOnce(t *testing.T) {
	// Arrange
	store := NewMemoryStore()
	created := store.Create(model.Product{Name: "Widget", Price: 9.99})

	// Act
	first := store.Delete(created.ID)
	second := store.Delete(created.ID)

	// Assert
	if !first {
		t.Error("first Delete() = false, want true")
	}
	if second {
		t.Error("second Delete() = true, want false")
	}
	if store.Count() != 0 {
		t.Errorf("Count() = %d, want 0", store.Count())
	}
}

func TestMemoryStore_Scenario(t *testing.T) {
	// Arrange
	store := NewMemoryStore()

	// Act
	widget := store.Create(model.Product{Name: "Widget", Description: "A widget", Price: 9.99, Quantity: 5})
	gadget := store.Create(model.Product{Name: "Gadget", Price: 19.99, Quantity: 0})

	// Assert
	if widget.ID != 1 || gadget.ID != 2 {
		t.Fatalf("IDs = %d, %d, want 1, 2", widget.ID, gadget.ID)
	}

	list := store.List()
	if len(list) != 2 || list[0] != widget || list[1] != gadget {
		t.Fatalf("List() = %+v, want [Widget Gadget]", list)
	}

	if !store.Delete(1) {
		t.Fatal("Delete(1) = false, want true")
	}
	if _, found := store.Get(1); found {
		t.Error("Get(1) found after delete")
	}

	list = store.List()
	if len(list) != 1 || list[0] != gadget {
		t.Errorf("List() = %+v, want [Gadget]", list)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	// Arrange
	store := NewMemoryStore()
	numGoroutines := 100
	numOperations := 10

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	// Act - Run concurrent operations
	for i := 0; i < numGoroutines; i++ {
		go func(n int) {
			defer wg.Done()

			for j := 0; j < numOperations; j++ {
				created := store.Create(model.Product{
					Name:  "Test Product",
					Price: float64(n*j + 1),
				})

				_, _ = store.Get(created.ID)
				_ = store.List()

				if !store.Delete(created.ID) {
					t.Errorf("Delete(%d) = false, want true", created.ID)
				}
			}
		}(i)
	}

	wg.Wait()

	// Assert
	if store.Count() != 0 {
		t.Errorf("Count() = %d, want 0 after all deletes", store.Count())
	}
}

func TestMemoryStore_ConcurrentCreates_UniqueContiguousIDs(t *testing.T) {
	// Arrange
	store := NewMemoryStore()
	numGoroutines := 200

	var wg sync.WaitGroup
	ids := make([]int64, numGoroutines)
	wg.Add(numGoroutines)

	// Act
	for i := 0; i < numGoroutines; i++ {
		go func(n int) {
			defer wg.Done()
			ids[n] = store.Create(model.Product{Name: "Test Product", Price: 1}).ID
		}(i)
	}

	wg.Wait()

	// Assert - ids are exactly 1..numGoroutines
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	for i, id := range ids {
		if id != int64(i+1) {
			t.Fatalf("sorted ids[%d] = %d, want %d", i, id, i+1)
		}
	}
	if store.Count() != numGoroutines {
		t.Errorf("Count() = %d, want %d", store.Count(), numGoroutines)
	}
}

func TestMemoryStore_ConcurrentReads(t *testing.T) {
	// Arrange
	store := NewMemoryStore()
	for i := 0; i < 10; i++ {
		store.Create(model.Product{Name: "Test Product", Price: float64(i + 1)})
	}

	numGoroutines := 100
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	// Act - Run concurrent reads
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := len(store.List()); got != 10 {
					t.Errorf("List() returned %d products, want 10", got)
					return
				}
			}
		}()
	}

	wg.Wait()
}

func TestMemoryStore_ImplementsInterface(t *testing.T) {
	// Assert that MemoryStore implements Store interface
	var _ Store = (*MemoryStore)(nil)
}
