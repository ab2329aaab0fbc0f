package checkout

import (
	"errors"
	"strings"

	"github.com/angelmondragon/pizzapos-backend/internal/delivery"
	"github.com/angelmondragon/pizzapos-backend/internal/ledger"
	"github.com/angelmondragon/pizzapos-backend/internal/orders"
	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pizzapos-backend/pkg/errors"
	"github.com/angelmondragon/pizzapos-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer identifies who the order is for.
type Customer struct {
	Name  string     `json:"name"`
	Phone string     `json:"phone,omitempty"`
	ID    *uuid.UUID `json:"id,omitempty"`
}

// Session is the in-progress checkout. It owns its ledger exclusively; discarding
// the session cancels the checkout without touching the cart.
type Session struct {
	subtotal    decimal.Decimal
	fees        *delivery.FeeTable
	orderType   enums.OrderType
	customer    Customer
	address     *types.Address
	courierID   string
	courierName string
	splitPeople int
	fee         decimal.Decimal
	feeMatched  bool
	ledger      *ledger.Ledger
}

// View is a read-only snapshot of the session.
type View struct {
	OrderType   enums.OrderType `json:"order_type"`
	Customer    Customer        `json:"customer"`
	Address     *types.Address  `json:"address,omitempty"`
	CourierID   string          `json:"courier_id,omitempty"`
	CourierName string          `json:"courier_name,omitempty"`
	SplitPeople int             `json:"split_people"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	FeeMatched  bool            `json:"fee_matched"`
	Total       decimal.Decimal `json:"total"`
	Payments    []ledger.Part   `json:"payments"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	Remaining   decimal.Decimal `json:"remaining"`
	Change      decimal.Decimal `json:"change"`
	Settled     bool            `json:"settled"`
	Suggested   decimal.Decimal `json:"suggested_amount"`
}

// Begin opens a checkout for subtotal. The fee table may be nil.
func Begin(subtotal decimal.Decimal, fees *delivery.FeeTable, orderType enums.OrderType, opts ...ledger.Option) (*Session, error) {
	if subtotal.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subtotal must not be negative")
	}
	if orderType == "" {
		orderType = enums.OrderTypeDelivery
	}
	if !orderType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order type")
	}
	l, err := ledger.New(subtotal, opts...)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid checkout total")
	}
	return &Session{
		subtotal:    subtotal,
		fees:        fees,
		orderType:   orderType,
		splitPeople: 1,
		fee:         decimal.Zero,
		ledger:      l,
	}, nil
}

func (s *Session) Total() decimal.Decimal {
	return s.subtotal.Add(s.fee)
}

func (s *Session) OrderType() enums.OrderType {
	return s.orderType
}

func (s *Session) neighborhood() string {
	if s.address == nil {
		return ""
	}
	return s.address.Neighborhood
}

// rebase resolves the fee for the new inputs and moves the ledger target. Nothing is
// committed when the ledger refuses the new total.
func (s *Session) rebase(subtotal decimal.Decimal, orderType enums.OrderType, address *types.Address) error {
	neighborhood := ""
	if address != nil {
		neighborhood = address.Neighborhood
	}
	fee, matched := s.fees.FeeFor(neighborhood, orderType)
	total := subtotal.Add(fee)
	if err := s.ledger.SetTarget(total); err != nil {
		if errors.Is(err, ledger.ErrTargetBelowPaid) {
			return pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "remove payments before lowering the order total").
				WithDetails(map[string]any{
					"total":      total.StringFixed(2),
					"total_paid": s.ledger.TotalPaid().StringFixed(2),
				})
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid checkout total")
	}
	s.subtotal, s.orderType, s.address = subtotal, orderType, address
	s.fee, s.feeMatched = fee, matched
	return nil
}

// SetOrderType switches delivery and pickup. PICKUP forces the fee to zero.
func (s *Session) SetOrderType(orderType enums.OrderType) error {
	if !orderType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order type")
	}
	return s.rebase(s.subtotal, orderType, s.address)
}

// SetAddress stores the delivery address and re-resolves the fee from its neighborhood.
func (s *Session) SetAddress(address *types.Address) (decimal.Decimal, bool, error) {
	if err := s.rebase(s.subtotal, s.orderType, address.Clone()); err != nil {
		return s.fee, s.feeMatched, err
	}
	return s.fee, s.feeMatched, nil
}

// SetNeighborhood updates only the neighborhood of the address.
func (s *Session) SetNeighborhood(neighborhood string) (decimal.Decimal, bool, error) {
	address := s.address.Clone()
	if address == nil {
		address = &types.Address{}
	}
	address.Neighborhood = neighborhood
	if err := s.rebase(s.subtotal, s.orderType, address); err != nil {
		return s.fee, s.feeMatched, err
	}
	return s.fee, s.feeMatched, nil
}

// Neighborhood returns the neighborhood typed for the delivery.
func (s *Session) Neighborhood() string {
	return s.neighborhood()
}

// FeeMatched reports whether the current neighborhood hit the fee table.
func (s *Session) FeeMatched() bool {
	return s.feeMatched
}

func (s *Session) Fee() decimal.Decimal {
	return s.fee
}

func (s *Session) SetCustomer(c Customer) {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	s.customer = c
}

func (s *Session) Customer() Customer {
	return s.customer
}

func (s *Session) SetCourier(c *delivery.Courier) {
	if c == nil {
		s.courierID, s.courierName = "", ""
		return
	}
	s.courierID, s.courierName = c.ID, c.Name
}

// SetSplitPeople records how many people share the bill and returns target / n.
func (s *Session) SetSplitPeople(people int) decimal.Decimal {
	if people < 0 {
		people = 0
	}
	s.splitPeople = people
	return s.ledger.SuggestedSplit(people)
}

// SuggestedAmount is the remaining balance divided among the split people.
func (s *Session) SuggestedAmount() decimal.Decimal {
	return s.ledger.SuggestedAmount(s.splitPeople)
}

// ApplyPayment feeds the ledger and maps its rejections onto typed errors.
func (s *Session) ApplyPayment(method enums.PaymentMethod, requested decimal.Decimal, cashGiven *decimal.Decimal) (ledger.Part, error) {
	part, err := s.ledger.AddPayment(method, requested, cashGiven)
	if err == nil {
		return part, nil
	}
	if errors.Is(err, ledger.ErrNothingOwed) {
		return ledger.Part{}, pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "order is already paid")
	}
	return ledger.Part{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "payment rejected")
}

// RemovePayment removes the part at index; out-of-range indexes are reported as false.
func (s *Session) RemovePayment(index int) (ledger.Part, bool) {
	return s.ledger.RemovePayment(index)
}

func (s *Session) Ledger() *ledger.Ledger {
	return s.ledger
}

func (s *Session) IsSettled() bool {
	return s.ledger.IsSettled()
}

// Refresh rebases the session on a new cart subtotal, keeping payments. A subtotal that
// would leave the payments above the total is a STATE_CONFLICT.
func (s *Session) Refresh(subtotal decimal.Decimal) error {
	if subtotal.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "subtotal must not be negative")
	}
	return s.rebase(subtotal, s.orderType, s.address)
}

func (s *Session) View() View {
	v := View{
		OrderType:   s.orderType,
		Customer:    s.customer,
		Address:     s.address.Clone(),
		CourierID:   s.courierID,
		CourierName: s.courierName,
		SplitPeople: s.splitPeople,
		Subtotal:    s.subtotal,
		DeliveryFee: s.fee,
		FeeMatched:  s.feeMatched,
		Total:       s.Total(),
		Payments:    s.ledger.Parts(),
		TotalPaid:   s.ledger.TotalPaid(),
		Remaining:   s.ledger.Remaining(),
		Change:      s.ledger.Change(),
		Settled:     s.ledger.IsSettled(),
		Suggested:   s.SuggestedAmount(),
	}
	if v.Payments == nil {
		v.Payments = []ledger.Part{}
	}
	return v
}

// FinalizeInput assembles the finalizer input for cart.
func (s *Session) FinalizeInput(cart orders.CartSource) orders.FinalizeInput {
	return orders.FinalizeInput{
		Cart:          cart,
		OrderType:     s.orderType,
		CustomerName:  s.customer.Name,
		CustomerPhone: s.customer.Phone,
		CustomerID:    s.customer.ID,
		Ledger:        s.ledger,
		DeliveryFee:   s.fee,
		Address:       s.address,
		CourierID:     s.courierID,
		CourierName:   s.courierName,
		SplitPeople:   s.splitPeople,
	}
}
