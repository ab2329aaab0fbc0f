package customers

import (
	"testing"
	"time"

	"github.com/angelmondragon/pizzapos-backend/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertCreatesThenUpdates(t *testing.T) {
	d := NewDirectory(nil)
	first := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)

	addr := &types.Address{Street: "Rua A", Number: "10", Neighborhood: "Centro", City: "Peruíbe"}
	created, ok := d.Upsert(UpsertInput{Name: "Ana", Phone: "13999990000", Address: addr, Total: decimal.NewFromInt(56), At: first})
	require.True(t, ok)
	assert.Equal(t, 1, created.TotalOrders)
	assert.True(t, created.TotalSpent.Equal(decimal.NewFromInt(56)))
	require.NotNil(t, created.Address)
	assert.Equal(t, "Centro", created.Address.Neighborhood)

	second := first.Add(24 * time.Hour)
	updated, ok := d.Upsert(UpsertInput{Name: "Ana Paula", Phone: " 13999990000 ", Total: decimal.NewFromInt(51), At: second})
	require.True(t, ok)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Ana Paula", updated.Name)
	assert.Equal(t, 2, updated.TotalOrders)
	assert.True(t, updated.TotalSpent.Equal(decimal.NewFromInt(107)))
	require.NotNil(t, updated.Address, "address is kept when none is supplied")
	assert.Equal(t, "Rua A", updated.Address.Street)
	require.NotNil(t, updated.LastOrderDate)
	assert.True(t, updated.LastOrderDate.Equal(second))
	assert.Equal(t, 1, d.Len())

	newAddr := &types.Address{Street: "Rua B", Number: "2", Neighborhood: "Romar", City: "Peruíbe"}
	moved, _ := d.Upsert(UpsertInput{Name: "Ana Paula", Phone: "13999990000", Address: newAddr, Total: decimal.NewFromInt(10), At: second})
	assert.Equal(t, "Rua B", moved.Address.Street)
}

func TestUpsertWithoutPhoneRecordsNothing(t *testing.T) {
	d := NewDirectory(nil)
	_, ok := d.Upsert(UpsertInput{Name: "Balcão", Phone: "  ", Total: decimal.NewFromInt(20), At: time.Now()})
	assert.False(t, ok)
	assert.Equal(t, 0, d.Len())
}

func TestSearchAndOrdering(t *testing.T) {
	d := NewDirectory(nil)
	now := time.Now()
	d.Upsert(UpsertInput{Name: "Ana", Phone: "111", Total: decimal.NewFromInt(1), At: now})
	d.Upsert(UpsertInput{Name: "Bruno", Phone: "222", Total: decimal.NewFromInt(1), At: now})

	list := d.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Bruno", list[0].Name, "newest customer first")

	assert.Len(t, d.Search("ANA"), 1)
	assert.Len(t, d.Search("22"), 1)
	assert.Empty(t, d.Search("zzz"))

	found, ok := d.FindByPhone("111")
	require.True(t, ok)
	byID, ok := d.FindByID(found.ID)
	require.True(t, ok)
	assert.Equal(t, "Ana", byID.Name)

	_, ok = d.FindByPhone("")
	assert.False(t, ok)
}

func TestDirectoryReturnsCopies(t *testing.T) {
	addr := &types.Address{Street: "Rua A", Number: "1", Neighborhood: "Centro", City: "X"}
	d := NewDirectory(nil)
	d.Upsert(UpsertInput{Name: "Ana", Phone: "111", Address: addr, Total: decimal.NewFromInt(1), At: time.Now()})

	addr.Street = "mutated"
	got, _ := d.FindByPhone("111")
	assert.Equal(t, "Rua A", got.Address.Street)

	got.Address.Street = "mutated again"
	again, _ := d.FindByPhone("111")
	assert.Equal(t, "Rua A", again.Address.Street)
}
