package store

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func widgetFields() ProductFields {
	return ProductFields{
		Name:        ptr("Widget"),
		Price:       ptr(9.99),
		Quantity:    ptr(int64(5)),
		Description: ptr("d"),
		Category:    ptr("c"),
		DateAdded:   ptr("2024-01-01"),
		ImageURL:    ptr("http://x"),
	}
}

func Test_MemoryStore_Create(t *testing.T) {
	// given
	s := NewMemoryStore()

	// when
	created := s.Create(widgetFields())

	// then
	assert.Equal(t, Product{
		ID:          1,
		Name:        "Widget",
		Price:       9.99,
		Quantity:    5,
		Description: "d",
		Category:    "c",
		DateAdded:   "2024-01-01",
		ImageURL:    "http://x",
	}, created)

	found, ok := s.FindByID(created.ID)
	require.True(t, ok)
	assert.Equal(t, created, found)
}

func Test_MemoryStore_Create_IDsStrictlyIncrease(t *testing.T) {
	s := NewMemoryStore()

	var last int64
	for range 5 {
		p := s.Create(widgetFields())
		assert.Greater(t, p.ID, last)
		last = p.ID
	}
	assert.Equal(t, int64(5), last)
}

func Test_MemoryStore_Create_IDsNotReusedAfterDelete(t *testing.T) {
	testCases := []struct {
		name     string
		deleteID int64
		expected int64
	}{
		{name: "highest id deleted", deleteID: 3, expected: 4},
		{name: "middle id deleted", deleteID: 2, expected: 4},
		{name: "all ids deleted", deleteID: 0, expected: 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			s := NewMemoryStore()
			for range 3 {
				s.Create(widgetFields())
			}
			if tc.deleteID == 0 {
				for id := int64(1); id <= 3; id++ {
					s.Delete(id)
				}
			} else {
				s.Delete(tc.deleteID)
			}

			// when
			p := s.Create(widgetFields())

			// then
			assert.Equal(t, tc.expected, p.ID)
		})
	}
}

func Test_MemoryStore_Create_AbsentFieldsAreZero(t *testing.T) {
	s := NewMemoryStore()

	p := s.Create(ProductFields{Name: ptr("only name")})

	assert.Equal(t, Product{ID: 1, Name: "only name"}, p)
}

func Test_MemoryStore_FindByID_NotFound(t *testing.T) {
	s := NewMemoryStore()
	s.Create(widgetFields())

	p, ok := s.FindByID(42)

	assert.False(t, ok)
	assert.Equal(t, Product{}, p)
}

func Test_MemoryStore_Update(t *testing.T) {
	testCases := []struct {
		name     string
		fields   ProductFields
		expected Product
	}{
		{
			name:   "single field",
			fields: ProductFields{Price: ptr(12.5)},
			expected: Product{ID: 1, Name: "Widget", Price: 12.5, Quantity: 5, Description: "d",
				Category: "c", DateAdded: "2024-01-01", ImageURL: "http://x"},
		},
		{
			name:   "several fields",
			fields: ProductFields{Name: ptr("Gadget"), Quantity: ptr(int64(0)), ImageURL: ptr("")},
			expected: Product{ID: 1, Name: "Gadget", Price: 9.99, Quantity: 0, Description: "d",
				Category: "c", DateAdded: "2024-01-01", ImageURL: ""},
		},
		{
			name:   "no fields",
			fields: ProductFields{},
			expected: Product{ID: 1, Name: "Widget", Price: 9.99, Quantity: 5, Description: "d",
				Category: "c", DateAdded: "2024-01-01", ImageURL: "http://x"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			s := NewMemoryStore()
			s.Create(widgetFields())

			// when
			updated, ok := s.Update(1, tc.fields)

			// then
			require.True(t, ok)
			assert.Equal(t, tc.expected, updated)
			found, _ := s.FindByID(1)
			assert.Equal(t, tc.expected, found)
		})
	}
}

func Test_MemoryStore_Update_NotFound(t *testing.T) {
	// given
	s := NewMemoryStore()
	s.Create(widgetFields())
	before := s.ListAll()

	// when
	_, ok := s.Update(7, ProductFields{Name: ptr("ghost")})

	// then
	assert.False(t, ok)
	assert.Equal(t, before, s.ListAll())
}

func Test_MemoryStore_Delete(t *testing.T) {
	// given
	s := NewMemoryStore()
	a := s.Create(widgetFields())
	b := s.Create(widgetFields())

	// when
	ok := s.Delete(a.ID)

	// then
	assert.True(t, ok)
	_, found := s.FindByID(a.ID)
	assert.False(t, found)
	assert.Equal(t, []Product{b}, s.ListAll())
}

// Deleting an absent id reports success. This mirrors the HTTP contract,
// which never answers 404 on DELETE.
func Test_MemoryStore_Delete_AbsentIDReportsSuccess(t *testing.T) {
	// given
	s := NewMemoryStore()
	s.Create(widgetFields())
	before := s.ListAll()

	// when
	ok := s.Delete(99)

	// then
	assert.True(t, ok)
	assert.Equal(t, before, s.ListAll())
}

func Test_MemoryStore_ListAll_ReturnsCopy(t *testing.T) {
	// given
	s := NewMemoryStore()
	s.Create(widgetFields())
	s.Create(widgetFields())

	// when
	list := s.ListAll()
	list[0].Name = "mutated"
	list = append(list, Product{ID: 100})

	// then
	again := s.ListAll()
	require.Len(t, again, 2)
	assert.Equal(t, "Widget", again[0].Name)
	found, _ := s.FindByID(1)
	assert.Equal(t, "Widget", found.Name)
	_, ok := s.FindByID(100)
	assert.False(t, ok)
}

func Test_MemoryStore_ListAll_EmptyIsNotNil(t *testing.T) {
	s := NewMemoryStore()

	list := s.ListAll()

	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func Test_MemoryStore_ConcurrentCreate(t *testing.T) {
	const n = 200
	s := NewMemoryStore()

	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- s.Create(widgetFields()).ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	require.Len(t, seen, n)
	for id := int64(1); id <= n; id++ {
		assert.True(t, seen[id], "missing id %d", id)
	}
	assert.Equal(t, n, s.Len())
}

func Test_MemoryStore_ConcurrentUpdateAndDelete(t *testing.T) {
	s := NewMemoryStore()
	for range 50 {
		s.Create(widgetFields())
	}

	var wg sync.WaitGroup
	for id := int64(1); id <= 50; id++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Update(id, ProductFields{Quantity: ptr(id)})
		}()
		go func() {
			defer wg.Done()
			if id%2 == 0 {
				s.Delete(id)
			}
		}()
	}
	wg.Wait()

	list := s.ListAll()
	assert.Len(t, list, 25)
	for _, p := range list {
		assert.Equal(t, int64(1), p.ID%2)
		assert.Equal(t, p.ID, p.Quantity)
	}
}

func Test_MemoryStore_Metrics(t *testing.T) {
	// given
	reg := prometheus.NewRegistry()
	s := NewMemoryStore(WithMetrics(reg))

	// when
	s.Create(widgetFields())
	s.Create(widgetFields())
	s.ListAll()
	s.Delete(1)

	// then
	assert.InDelta(t, 2, testutil.ToFloat64(s.ops.WithLabelValues("create")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(s.ops.WithLabelValues("list")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(s.ops.WithLabelValues("delete")), 0)
	count, err := testutil.GatherAndCount(reg, "catalog_products")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func Test_MemoryStore_Seed(t *testing.T) {
	// given
	s := NewMemoryStore()

	// when
	created := s.Seed(widgetFields(), ProductFields{Name: ptr("Gadget")})

	// then
	require.Len(t, created, 2)
	assert.Equal(t, int64(1), created[0].ID)
	assert.Equal(t, int64(2), created[1].ID)
	assert.Equal(t, created, s.ListAll())
}
