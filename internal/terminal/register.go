package terminal

import (
	"context"

	"github.com/angelmondragon/pizzapos-backend/internal/register"
	"github.com/angelmondragon/pizzapos-backend/internal/snapshot"
	pkgerrors "github.com/angelmondragon/pizzapos-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// RegisterStatus is the register state plus the live summary when open.
type RegisterStatus struct {
	Open    bool              `json:"is_open"`
	Session *register.Session `json:"session,omitempty"`
	Summary *register.Summary `json:"summary,omitempty"`
}

func (t *Terminal) RegisterStatus() RegisterStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	session, ok := t.register.Current()
	if !ok {
		return RegisterStatus{}
	}
	summary := register.Summarize(session, t.orders.All())
	return RegisterStatus{Open: true, Session: &session, Summary: &summary}
}

func (t *Terminal) OpenRegister(ctx context.Context, initialFloat decimal.Decimal) (register.Session, error) {
	ctx = t.ctx(ctx)
	t.mu.Lock()
	defer t.mu.Unlock()
	session, err := t.register.Open(initialFloat)
	if err != nil {
		return register.Session{}, err
	}
	t.metrics.RegisterEvent("open")
	t.logg.Info(t.logg.WithField(ctx, "initial_float", initialFloat.StringFixed(2)), "register.opened")
	t.persist(ctx, snapshot.SlotRegisterSession)
	return session, nil
}

// CloseRegister ends the session and returns its final summary. The order history is kept.
func (t *Terminal) CloseRegister(ctx context.Context) (register.Summary, error) {
	ctx = t.ctx(ctx)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session != nil {
		return register.Summary{}, pkgerrors.New(pkgerrors.CodeStateConflict, "finish or cancel the checkout before closing the register")
	}
	summary, err := t.register.Summary(t.orders.All())
	if err != nil {
		return register.Summary{}, err
	}
	if _, err := t.register.Close(); err != nil {
		return register.Summary{}, err
	}
	t.metrics.RegisterEvent("close")
	t.logg.Info(t.logg.WithFields(ctx, map[string]any{
		"orders":      summary.OrderCount,
		"total":       summary.Total.StringFixed(2),
		"cash_drawer": summary.CashDrawer.StringFixed(2),
	}), "register.closed")
	t.persist(ctx, snapshot.SlotRegisterSession)
	return summary, nil
}
