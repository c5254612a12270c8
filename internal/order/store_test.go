package order

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStoreBulkInsertAndGetByID(t *testing.T) {
	s := NewStore()

	s.BulkInsert([]Order{
		{ID: "O1", Status: StatusPending, Amount: decimal.NewFromInt(1), CreatedAt: 1, UpdatedAt: 1},
		{ID: "O1", Status: StatusProcessing, Amount: decimal.NewFromInt(2), CreatedAt: 1, UpdatedAt: 2},
	})

	got, ok := s.GetByID("O1")
	assert.True(t, ok)
	assert.Equal(t, StatusProcessing, got.Status, "last writer wins on duplicate ids within a call")

	_, ok = s.GetByID("missing")
	assert.False(t, ok)
}

func TestStoreUpdateStatusAlwaysRefreshesUpdatedAt(t *testing.T) {
	s := NewStore()
	s.BulkInsert([]Order{{ID: "O1", Status: StatusPending, Amount: decimal.Zero, CreatedAt: 1, UpdatedAt: 1}})

	updated, ok := s.UpdateStatus("O1", StatusPending)
	assert.True(t, ok)
	assert.Equal(t, StatusPending, updated.Status)
	assert.Greater(t, updated.UpdatedAt, int64(1), "server does not short-circuit same-status updates")

	_, ok = s.UpdateStatus("missing", StatusCompleted)
	assert.False(t, ok)
}

func TestStoreGetAllAndClear(t *testing.T) {
	s := NewStore()
	s.BulkInsert([]Order{
		{ID: "A", Status: StatusPending, Amount: decimal.Zero, CreatedAt: 1, UpdatedAt: 1},
		{ID: "B", Status: StatusPending, Amount: decimal.Zero, CreatedAt: 1, UpdatedAt: 1},
	})

	assert.Len(t, s.GetAll(), 2)

	s.Clear()
	assert.Len(t, s.GetAll(), 0)
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.BulkInsert([]Order{{ID: "concurrent", Status: StatusPending, Amount: decimal.NewFromInt(int64(i)), CreatedAt: 1, UpdatedAt: 1}})
			s.GetByID("concurrent")
		}(i)
	}
	wg.Wait()

	_, ok := s.GetByID("concurrent")
	assert.True(t, ok)
}
