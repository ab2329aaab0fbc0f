package delivery

import (
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/pizzapos-backend/internal/orders"
	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	"github.com/google/uuid"
)

func TestRoster(t *testing.T) {
	r := NewRoster(nil)
	if _, err := r.Add("  "); !errors.Is(err, ErrCourierNameRequired) {
		t.Fatalf("expected name error, got %v", err)
	}

	ze, err := r.Add("Zé")
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	jo, _ := r.Add("Jô")
	if !ze.Active || len(r.List()) != 2 {
		t.Fatalf("unexpected roster %+v", r.List())
	}

	if _, err := r.SetActive(jo.ID, false); err != nil {
		t.Fatalf("SetActive error: %v", err)
	}
	if active := r.Active(); len(active) != 1 || active[0].ID != ze.ID {
		t.Fatalf("unexpected active couriers %+v", active)
	}
	if _, err := r.SetActive("missing", true); !errors.Is(err, ErrCourierNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if found, ok := r.Find(ze.ID); !ok || found.Name != "Zé" {
		t.Fatalf("unexpected find result %+v", found)
	}
	if !r.Remove(ze.ID) || r.Remove(ze.ID) {
		t.Fatal("expected single successful removal")
	}
}

func TestPendingAndByCourier(t *testing.T) {
	now := time.Now()
	older := orders.Order{ID: uuid.New(), OrderType: enums.OrderTypeDelivery, Status: enums.OrderStatusDelivering, CourierID: "m1", CreatedAt: now.Add(-time.Hour)}
	newer := orders.Order{ID: uuid.New(), OrderType: enums.OrderTypeDelivery, Status: enums.OrderStatusDelivering, CreatedAt: now}
	done := orders.Order{ID: uuid.New(), OrderType: enums.OrderTypeDelivery, Status: enums.OrderStatusCompleted, CreatedAt: now}
	pickup := orders.Order{ID: uuid.New(), OrderType: enums.OrderTypePickup, Status: enums.OrderStatusCompleted, CreatedAt: now}

	pending := Pending([]orders.Order{newer, done, pickup, older})
	if len(pending) != 2 || pending[0].ID != older.ID {
		t.Fatalf("expected two pending oldest first, got %+v", pending)
	}

	grouped := ByCourier(pending)
	if len(grouped["m1"]) != 1 || len(grouped[""]) != 1 {
		t.Fatalf("unexpected grouping %+v", grouped)
	}
}
