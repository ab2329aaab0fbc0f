package fiscal

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/pizzapos-backend/internal/orders"
	pkgerrors "github.com/angelmondragon/pizzapos-backend/pkg/errors"
)

const consultaURL = "https://satsp.fazenda.sp.gov.br/COMSAT/Public/ConsultaPublica/ConsultaPublicaCfe.aspx"

// Simulator answers like a SAT device, failing at the configured rate.
type Simulator struct {
	failureRate float64
	random      func() float64
	now         func() time.Time
	delay       time.Duration

	mu       sync.Mutex
	sequence int
}

type SimulatorOption func(*Simulator)

// WithRandom injects the source used to decide failures; it must return values in [0,1).
func WithRandom(random func() float64) SimulatorOption {
	return func(s *Simulator) {
		if random != nil {
			s.random = random
		}
	}
}

func WithSimulatorClock(now func() time.Time) SimulatorOption {
	return func(s *Simulator) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDelay emulates device latency.
func WithDelay(delay time.Duration) SimulatorOption {
	return func(s *Simulator) {
		if delay > 0 {
			s.delay = delay
		}
	}
}

func NewSimulator(failureRate float64, opts ...SimulatorOption) *Simulator {
	if failureRate < 0 {
		failureRate = 0
	}
	if failureRate > 1 {
		failureRate = 1
	}
	s := &Simulator{
		failureRate: failureRate,
		random:      rand.Float64,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) wait(ctx context.Context) error {
	if s.delay <= 0 {
		if err := ctx.Err(); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fiscal device timed out")
		}
		return nil
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "fiscal device timed out")
	case <-timer.C:
		return nil
	}
}

func (s *Simulator) Status(ctx context.Context) (Result, error) {
	if err := s.wait(ctx); err != nil {
		return Result{}, err
	}
	return Result{Success: true, Code: CodeInOperation, Message: "SAT EM OPERACAO"}, nil
}

func (s *Simulator) Submit(ctx context.Context, order orders.Order) (Result, error) {
	if len(order.Lines) == 0 {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "order has no items")
	}
	if err := s.wait(ctx); err != nil {
		return Result{}, err
	}
	if s.random() < s.failureRate {
		return Result{Success: false, Code: CodeCommunication, Message: "ERRO DE COMUNICACAO COM O EQUIPAMENTO"}, nil
	}

	s.mu.Lock()
	s.sequence++
	seq := s.sequence
	s.mu.Unlock()

	return Result{
		Success:    true,
		Code:       CodeIssued,
		Message:    "EMITIDO COM SUCESSO",
		ReceiptKey: s.receiptKey(seq),
		QRCodeURL:  consultaURL,
	}, nil
}

func (s *Simulator) Cancel(ctx context.Context, receiptKey string) (Result, error) {
	key := strings.TrimSpace(receiptKey)
	if key == "" {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "receipt key is required")
	}
	if err := s.wait(ctx); err != nil {
		return Result{}, err
	}
	return Result{Success: true, Code: CodeCancelled, Message: "CANCELADO COM SUCESSO", ReceiptKey: key}, nil
}

// receiptKey builds a 44-digit access key: UF, YYMM, CNPJ, model 59, device serial,
// sequence, random code and check digit. Issuer fields are zeroed in simulation.
func (s *Simulator) receiptKey(seq int) string {
	now := s.now()
	return fmt.Sprintf("CFe35%02d%02d%014d59%09d%06d%06d0",
		now.Year()%100, int(now.Month()), 0, 0, seq%1000000, int(s.random()*1000000)%1000000)
}
