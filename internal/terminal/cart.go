package terminal

import (
	"context"

	"github.com/angelmondragon/pizzapos-backend/internal/cart"
	"github.com/angelmondragon/pizzapos-backend/internal/catalog"
	"github.com/angelmondragon/pizzapos-backend/internal/delivery"
	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pizzapos-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineView is a cart line with its computed prices.
type LineView struct {
	cart.Line
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

type CartView struct {
	Lines     []LineView      `json:"lines"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func lineView(l cart.Line) LineView {
	return LineView{Line: l, Description: l.Description(), UnitPrice: l.UnitPrice(), Total: l.Total()}
}

func (t *Terminal) cartView() CartView {
	lines := t.cart.Lines()
	views := make([]LineView, 0, len(lines))
	for _, l := range lines {
		views = append(views, lineView(l))
	}
	return CartView{Lines: views, ItemCount: t.cart.ItemCount(), Subtotal: t.cart.Subtotal()}
}

// Menu filters the catalog by category ("" or ALL) and name substring.
func (t *Terminal) Menu(category, query string) []catalog.Product {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.menu.Filter(category, query)
}

func (t *Terminal) DeliveryFees() []delivery.Fee {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fees.Fees()
}

func (t *Terminal) Cart() CartView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cartView()
}

// AddItem adds one product, or a combination when flavorIDs carries 2 or 3 ids.
func (t *Terminal) AddItem(ctx context.Context, productID string, flavorIDs []string, size enums.PizzaSize) (LineView, error) {
	ctx = t.ctx(ctx)
	if size != "" && !size.IsValid() {
		return LineView{}, pkgerrors.Wrap(pkgerrors.CodeValidation, cart.ErrInvalidSize, "invalid pizza size")
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	before := t.cart.Lines()
	var (
		line cart.Line
		err  error
	)
	if len(flavorIDs) > 0 {
		flavors := make([]catalog.Product, 0, len(flavorIDs))
		for _, id := range flavorIDs {
			p, ok := t.menu.Find(id)
			if !ok {
				return LineView{}, productNotFound(id)
			}
			flavors = append(flavors, p)
		}
		line, err = t.cart.AddCombination(flavors, size)
	} else {
		p, ok := t.menu.Find(productID)
		if !ok {
			return LineView{}, productNotFound(productID)
		}
		line, err = t.cart.AddProduct(p, size)
	}
	if err != nil {
		return LineView{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart line")
	}
	if err := t.refreshCheckout(before); err != nil {
		return LineView{}, err
	}

	t.logg.Info(t.logg.WithFields(ctx, map[string]any{
		"line_id":  line.ID.String(),
		"kind":     line.Kind,
		"size":     line.Size,
		"subtotal": t.cart.Subtotal().StringFixed(2),
	}), "cart.line_added")
	return lineView(line), nil
}

// ChangeQuantity adds delta to the line quantity, never going below one.
func (t *Terminal) ChangeQuantity(ctx context.Context, lineID uuid.UUID, delta int) (LineView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	before := t.cart.Lines()
	line, ok := t.cart.SetQuantity(lineID, delta)
	if !ok {
		return LineView{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found").
			WithDetails(map[string]any{"line_id": lineID.String()})
	}
	if err := t.refreshCheckout(before); err != nil {
		return LineView{}, err
	}
	t.logg.Debug(t.logg.WithFields(t.ctx(ctx), map[string]any{"line_id": lineID.String(), "quantity": line.Quantity}), "cart.quantity_changed")
	return lineView(line), nil
}

// RemoveLine is idempotent: removing an unknown line is not an error.
func (t *Terminal) RemoveLine(ctx context.Context, lineID uuid.UUID) (CartView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	before := t.cart.Lines()
	if t.cart.RemoveLine(lineID) {
		if err := t.refreshCheckout(before); err != nil {
			return t.cartView(), err
		}
		t.logg.Debug(t.logg.WithField(t.ctx(ctx), "line_id", lineID.String()), "cart.line_removed")
	}
	return t.cartView(), nil
}

func (t *Terminal) ClearCart(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	before := t.cart.Lines()
	t.cart.Clear()
	if err := t.refreshCheckout(before); err != nil {
		return err
	}
	t.logg.Debug(t.ctx(ctx), "cart.cleared")
	return nil
}

// refreshCheckout rebases an open checkout on the current cart subtotal; payments are kept.
// When the checkout refuses the new subtotal the cart is put back to before.
func (t *Terminal) refreshCheckout(before []cart.Line) error {
	if t.session == nil {
		return nil
	}
	if err := t.session.Refresh(t.cart.Subtotal()); err != nil {
		t.cart.Reset(before)
		return err
	}
	return nil
}

func productNotFound(id string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").WithDetails(map[string]any{"product_id": id})
}
