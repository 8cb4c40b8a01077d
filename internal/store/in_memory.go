package store

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// MemoryStore implements ProductStore on top of a slice guarded by a single mutex.
// Reads and writes are mutually exclusive.
type MemoryStore struct {
	mu       sync.Mutex
	products []Product
	// lastID is the highest id ever handed out, so deleted ids are not reissued.
	lastID int64

	ops *prometheus.CounterVec
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithMetrics registers the store collectors on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *MemoryStore) {
		s.ops = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_store_operations_total",
				Help: "Store operations by kind",
			},
			[]string{"op"},
		)
		size := prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "catalog_products",
				Help: "Number of products currently held",
			},
			func() float64 { return float64(s.Len()) },
		)
		reg.MustRegister(s.ops, size)
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{products: make([]Product, 0)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListAll returns a copy of the collection.
func (s *MemoryStore) ListAll() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observe("list")

	list := make([]Product, len(s.products))
	copy(list, s.products)
	return list
}

// FindByID scans the collection for the product with the given id.
func (s *MemoryStore) FindByID(id int64) (Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observe("find")

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, false
	}
	return s.products[i], true
}

// Create stores a new product built from fields. Its id is one greater than
// the highest id present or previously assigned, or 1 on a fresh store.
func (s *MemoryStore) Create(fields ProductFields) Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observe("create")

	var maxID int64
	for _, p := range s.products {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	if s.lastID > maxID {
		maxID = s.lastID
	}

	product := Product{ID: maxID + 1}
	fields.ApplyTo(&product)
	s.lastID = product.ID
	s.products = append(s.products, product)

	return product
}

// Update merges fields into the stored product. The lookup and the write
// happen under one lock acquisition.
func (s *MemoryStore) Update(id int64, fields ProductFields) (Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observe("update")

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, false
	}
	fields.ApplyTo(&s.products[i])
	return s.products[i], true
}

// Delete rebuilds the collection without the product with the given id.
// It always reports success, including when the id is absent.
func (s *MemoryStore) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observe("delete")

	kept := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.products = kept
	return true
}

// Seed creates one product per entry, in order.
func (s *MemoryStore) Seed(products ...ProductFields) []Product {
	created := make([]Product, 0, len(products))
	for _, fields := range products {
		created = append(created, s.Create(fields))
	}
	return created
}

// Len returns the number of stored products.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

// indexOf must be called with mu held.
func (s *MemoryStore) indexOf(id int64) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) observe(op string) {
	if s.ops == nil {
		return
	}
	s.ops.WithLabelValues(op).Inc()
}
