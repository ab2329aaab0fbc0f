package snapshot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type fakeKV struct {
	data    map[string]string
	failSet map[string]bool
	getErr  error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}, failSet: map[string]bool{}}
}

func (f *fakeKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if f.failSet[key] {
		return errors.New("READONLY")
	}
	f.data[key] = value.(string)
	return nil
}

func (f *fakeKV) Get(_ context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeKV) SnapshotKey(slot string) string {
	return "pos:snapshot:" + slot
}

func TestRedisStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	store, err := NewRedisStore(kv)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, SlotCouriers, []string{"Zé", "Rui"}))
	assert.Equal(t, `["Zé","Rui"]`, kv.data["pos:snapshot:couriers"])

	var couriers []string
	found, err := store.Load(ctx, SlotCouriers, &couriers)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"Zé", "Rui"}, couriers)

	found, err = store.Load(ctx, SlotOrders, &couriers)
	require.NoError(t, err)
	assert.False(t, found)

	kv.getErr = errors.New("connection refused")
	_, err = store.Load(ctx, SlotCouriers, &couriers)
	assert.Error(t, err)
}

func TestRedisStoreSaveAllCombinesErrors(t *testing.T) {
	kv := newFakeKV()
	kv.failSet["pos:snapshot:orders"] = true
	kv.failSet["pos:snapshot:customers"] = true
	store, _ := NewRedisStore(kv)

	err := store.SaveAll(context.Background(), map[string]any{
		SlotOrders:    []int{1},
		SlotCustomers: []int{2},
		SlotCouriers:  []int{3},
	})
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.True(t, strings.Contains(err.Error(), "orders"))
	assert.Equal(t, "[3]", kv.data["pos:snapshot:couriers"], "healthy slots are still written")
}

func TestNewRedisStoreRequiresClient(t *testing.T) {
	_, err := NewRedisStore(nil)
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.SaveAll(ctx, map[string]any{SlotOrders: []int{1, 2}}))

	raw, ok := store.Raw(SlotOrders)
	require.True(t, ok)
	assert.Equal(t, "[1,2]", raw)

	var got []int
	found, err := store.Load(ctx, SlotOrders, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []int{1, 2}, got)

	assert.Error(t, store.Save(ctx, " ", 1))
}
