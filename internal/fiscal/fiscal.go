// Package fiscal submits finalized orders to the store's fiscal device (SAT / NFC-e).
// Only the simulated device is implemented; a real one sits behind a local bridge.
package fiscal

import (
	"context"
	"strings"

	"github.com/angelmondragon/pizzapos-backend/internal/orders"
	"github.com/angelmondragon/pizzapos-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/pizzapos-backend/pkg/errors"
)

// Device result codes.
const (
	CodeInOperation   = "107000"
	CodeIssued        = "06000"
	CodeCommunication = "06010"
	CodeCancelled     = "07000"
)

// Result is the device answer. A refused submission is a Result with Success=false,
// not an error; errors mean the device could not be reached.
type Result struct {
	Success    bool   `json:"success"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	ReceiptKey string `json:"receipt_key,omitempty"`
	QRCodeURL  string `json:"qr_code_url,omitempty"`
}

// Submitter is the fiscal device collaborator.
type Submitter interface {
	Status(ctx context.Context) (Result, error)
	Submit(ctx context.Context, order orders.Order) (Result, error)
	Cancel(ctx context.Context, receiptKey string) (Result, error)
}

// New picks the submitter for the configured module.
func New(cfg config.FiscalConfig, opts ...SimulatorOption) Submitter {
	module := cfg.NormalizedModule()
	switch {
	case module == config.FiscalModuleNone:
		return Disabled{}
	case cfg.Simulation:
		return NewSimulator(cfg.FailureRate, opts...)
	default:
		return Unavailable{Module: module}
	}
}

// Disabled is wired when the store emits no fiscal documents.
type Disabled struct{}

func (Disabled) Status(context.Context) (Result, error) {
	return Result{}, errDisabled()
}

func (Disabled) Submit(context.Context, orders.Order) (Result, error) {
	return Result{}, errDisabled()
}

func (Disabled) Cancel(context.Context, string) (Result, error) {
	return Result{}, errDisabled()
}

func errDisabled() error {
	return pkgerrors.New(pkgerrors.CodeDependency, "fiscal module is disabled")
}

// Unavailable stands for a real device whose local bridge is not running.
type Unavailable struct {
	Module string
}

func (u Unavailable) Status(context.Context) (Result, error) {
	return Result{}, u.err()
}

func (u Unavailable) Submit(context.Context, orders.Order) (Result, error) {
	return Result{}, u.err()
}

func (u Unavailable) Cancel(context.Context, string) (Result, error) {
	return Result{}, u.err()
}

func (u Unavailable) err() error {
	return pkgerrors.New(pkgerrors.CodeDependency, "local fiscal bridge not detected, enable simulation to test").
		WithDetails(map[string]any{"module": strings.ToUpper(u.Module)})
}
