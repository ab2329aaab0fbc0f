package register

import (
	"errors"
	"time"

	"github.com/angelmondragon/pizzapos-backend/internal/orders"
	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pizzapos-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrAlreadyOpen   = errors.New("register session already open")
	ErrNotOpen       = errors.New("register session is not open")
	ErrNegativeFloat = errors.New("initial float must not be negative")
)

// Session is an open cash-drawer window.
type Session struct {
	Open         bool            `json:"is_open"`
	OpenedAt     time.Time       `json:"opened_at"`
	InitialFloat decimal.Decimal `json:"initial_float"`
}

// Summary is the live breakdown shown before closing.
type Summary struct {
	OpenedAt     time.Time       `json:"opened_at"`
	InitialFloat decimal.Decimal `json:"initial_float"`
	OrderCount   int             `json:"order_count"`
	Total        decimal.Decimal `json:"total"`
	Cash         decimal.Decimal `json:"cash"`
	PIX          decimal.Decimal `json:"pix"`
	Card         decimal.Decimal `json:"card"`
	CashDrawer   decimal.Decimal `json:"cash_drawer"`
}

// Tracker owns the single register session of the terminal. A closed register has no session.
type Tracker struct {
	session *Session
	now     func() time.Time
}

type Option func(*Tracker)

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Restore reinstates a persisted session; nil means closed.
func (t *Tracker) Restore(session *Session) {
	if session == nil || !session.Open {
		t.session = nil
		return
	}
	s := *session
	t.session = &s
}

// Open starts a session now. An open register is never reopened.
func (t *Tracker) Open(initialFloat decimal.Decimal) (Session, error) {
	if t.session != nil {
		return Session{}, pkgerrors.Wrap(pkgerrors.CodeStateConflict, ErrAlreadyOpen, "register is already open")
	}
	if initialFloat.IsNegative() {
		return Session{}, pkgerrors.Wrap(pkgerrors.CodeValidation, ErrNegativeFloat, "initial float must not be negative")
	}
	t.session = &Session{Open: true, OpenedAt: t.now(), InitialFloat: initialFloat}
	return *t.session, nil
}

// Close discards the session and returns what it was.
func (t *Tracker) Close() (Session, error) {
	if t.session == nil {
		return Session{}, pkgerrors.Wrap(pkgerrors.CodeStateConflict, ErrNotOpen, "register is not open")
	}
	closed := *t.session
	t.session = nil
	return closed, nil
}

// Current returns the open session.
func (t *Tracker) Current() (Session, bool) {
	if t.session == nil {
		return Session{}, false
	}
	return *t.session, true
}

func (t *Tracker) IsOpen() bool {
	return t.session != nil
}

// OrdersInSession keeps orders created at or after the session opened.
func OrdersInSession(all []orders.Order, session Session) []orders.Order {
	out := make([]orders.Order, 0, len(all))
	for _, o := range all {
		if !o.CreatedAt.Before(session.OpenedAt) {
			out = append(out, o)
		}
	}
	return out
}

// CashDrawerTotal is the float plus totals of in-session orders whose primary method is CASH.
func CashDrawerTotal(session Session, all []orders.Order) decimal.Decimal {
	total := session.InitialFloat
	for _, o := range OrdersInSession(all, session) {
		if o.PaymentMethod == enums.PaymentMethodCash {
			total = total.Add(o.Total)
		}
	}
	return total
}

// Summarize breaks in-session revenue down by primary payment method.
func Summarize(session Session, all []orders.Order) Summary {
	s := Summary{
		OpenedAt:     session.OpenedAt,
		InitialFloat: session.InitialFloat,
		Total:        decimal.Zero,
		Cash:         decimal.Zero,
		PIX:          decimal.Zero,
		Card:         decimal.Zero,
	}
	for _, o := range OrdersInSession(all, session) {
		s.OrderCount++
		s.Total = s.Total.Add(o.Total)
		switch {
		case o.PaymentMethod == enums.PaymentMethodCash:
			s.Cash = s.Cash.Add(o.Total)
		case o.PaymentMethod == enums.PaymentMethodPIX:
			s.PIX = s.PIX.Add(o.Total)
		case o.PaymentMethod.IsCard():
			s.Card = s.Card.Add(o.Total)
		}
	}
	s.CashDrawer = session.InitialFloat.Add(s.Cash)
	return s
}

// Summary summarizes the open session.
func (t *Tracker) Summary(all []orders.Order) (Summary, error) {
	if t.session == nil {
		return Summary{}, pkgerrors.Wrap(pkgerrors.CodeStateConflict, ErrNotOpen, "register is not open")
	}
	return Summarize(*t.session, all), nil
}
