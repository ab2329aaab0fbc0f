// Package snapshot persists terminal state slots as JSON documents.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Slots written by the terminal.
const (
	SlotOrders          = "orders"
	SlotRegisterSession = "register_session"
	SlotCustomers       = "customers"
	SlotCouriers        = "couriers"
	SlotDeliveryFees    = "delivery_fees"
)

// AllSlots lists every slot in restore order.
var AllSlots = []string{SlotOrders, SlotRegisterSession, SlotCustomers, SlotCouriers, SlotDeliveryFees}

// Store saves and loads named slots. Load reports found=false for a slot never written.
type Store interface {
	Save(ctx context.Context, slot string, value any) error
	Load(ctx context.Context, slot string, dest any) (bool, error)
	SaveAll(ctx context.Context, values map[string]any) error
}

func encode(slot string, value any) (string, error) {
	if strings.TrimSpace(slot) == "" {
		return "", fmt.Errorf("snapshot slot is required")
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("encode snapshot %s: %w", slot, err)
	}
	return string(payload), nil
}

func decode(slot, payload string, dest any) error {
	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", slot, err)
	}
	return nil
}

// sortedSlots keeps SaveAll deterministic.
func sortedSlots(values map[string]any) []string {
	slots := make([]string, 0, len(values))
	for slot := range values {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	return slots
}

// MemoryStore keeps encoded slots in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	slots map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: map[string]string{}}
}

func (m *MemoryStore) Save(_ context.Context, slot string, value any) error {
	payload, err := encode(slot, value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = payload
	return nil
}

func (m *MemoryStore) Load(_ context.Context, slot string, dest any) (bool, error) {
	m.mu.Lock()
	payload, ok := m.slots[slot]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, decode(slot, payload, dest)
}

func (m *MemoryStore) SaveAll(ctx context.Context, values map[string]any) error {
	for _, slot := range sortedSlots(values) {
		if err := m.Save(ctx, slot, values[slot]); err != nil {
			return err
		}
	}
	return nil
}

// Raw returns the stored JSON of slot.
func (m *MemoryStore) Raw(slot string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.slots[slot]
	return payload, ok
}
