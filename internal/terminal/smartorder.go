package terminal

import (
	"context"
	"time"

	"github.com/angelmondragon/pizzapos-backend/internal/smartorder"
	pkgerrors "github.com/angelmondragon/pizzapos-backend/pkg/errors"
)

// SmartOrderResult is what a free-text order added to the cart.
type SmartOrderResult struct {
	Resolution smartorder.Resolution `json:"resolution"`
	Added      []LineView            `json:"added"`
	Cart       CartView              `json:"cart"`
}

// SmartOrder parses free text and appends the resolved lines to the cart. A parser
// failure leaves the cart untouched.
func (t *Terminal) SmartOrder(ctx context.Context, text string) (SmartOrderResult, error) {
	ctx = t.ctx(ctx)

	t.mu.Lock()
	simplified := t.menu.Simplified()
	t.mu.Unlock()

	started := time.Now()
	draft, err := t.parser.Parse(ctx, text, simplified)
	if err != nil {
		t.metrics.SmartOrder("error", time.Since(started))
		t.logg.Error(ctx, "smart_order.parse_failed", err)
		return SmartOrderResult{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	res := smartorder.Resolve(draft, t.menu)
	for _, fb := range res.Fallbacks {
		t.logg.Warn(t.logg.WithFields(ctx, map[string]any{
			"item":   fb.Item,
			"field":  fb.Field,
			"value":  fb.Value,
			"reason": fb.Reason,
		}), "smart_order.product_fallback")
	}

	before := t.cart.Lines()
	added := make([]LineView, 0, len(res.Lines))
	for _, line := range res.Lines {
		appended, err := t.cart.Append(line)
		if err != nil {
			t.cart.Reset(before)
			t.metrics.SmartOrder("error", time.Since(started))
			return SmartOrderResult{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "smart order produced an invalid line")
		}
		added = append(added, lineView(appended))
	}
	if err := t.refreshCheckout(before); err != nil {
		t.metrics.SmartOrder("error", time.Since(started))
		return SmartOrderResult{}, err
	}

	outcome := "ok"
	if len(res.Fallbacks) > 0 {
		outcome = "fallback"
	}
	t.metrics.SmartOrder(outcome, time.Since(started))
	t.logg.Info(t.logg.WithFields(ctx, map[string]any{
		"lines":     len(added),
		"fallbacks": len(res.Fallbacks),
	}), "smart_order.applied")

	return SmartOrderResult{Resolution: res, Added: added, Cart: t.cartView()}, nil
}
