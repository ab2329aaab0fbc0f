package smartorder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/pizzapos-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/pizzapos-backend/pkg/errors"
	"github.com/angelmondragon/pizzapos-backend/pkg/llm"
)

const systemPrompt = `Você é um agente de PDV de pizzaria. Leia a conversa de WhatsApp e monte o pedido.

Cardápio atual (JSON): %s

Regras:
1. Identifique os produtos pelo id do cardápio. Para pizza, o tamanho padrão é LARGE (SMALL, MEDIUM ou LARGE).
2. Pizza meio a meio: use "flavors" com 2 ou 3 ids do cardápio.
3. Extraia nome e telefone do cliente quando houver.
4. Extraia o endereço (street, number, neighborhood, city, complement). Se for entrega, orderType = DELIVERY.
5. Forma de pagamento: dinheiro=CASH, pix=PIX, cartão=CREDIT_CARD, débito=DEBIT_CARD.
6. Em "missingInfo" liste o que falta perguntar para fechar o pedido.
7. Responda somente com JSON no formato:
{"items":[{"productId":"","quantity":1,"size":"LARGE","flavors":[]}],"customerName":"","customerPhone":"","address":{"street":"","number":"","neighborhood":"","city":"","complement":""},"paymentMethod":"","orderType":"","confirmationMessage":"","missingInfo":[]}`

// Completer is the JSON completion surface of pkg/llm.
type Completer interface {
	CompleteJSON(ctx context.Context, req llm.CompletionRequest) (json.RawMessage, error)
}

// LLMParser delegates parsing to a chat completion model.
type LLMParser struct {
	completer Completer
}

func NewLLMParser(completer Completer) (*LLMParser, error) {
	if completer == nil {
		return nil, errors.New("completer required")
	}
	return &LLMParser{completer: completer}, nil
}

func (p *LLMParser) Parse(ctx context.Context, text string, menu []catalog.SimplifiedProduct) (Draft, error) {
	if strings.TrimSpace(text) == "" {
		return Draft{}, pkgerrors.New(pkgerrors.CodeValidation, "order text is required")
	}
	menuJSON, err := json.Marshal(menu)
	if err != nil {
		return Draft{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode menu")
	}

	raw, err := p.completer.CompleteJSON(ctx, llm.CompletionRequest{
		System: fmt.Sprintf(systemPrompt, menuJSON),
		User:   text,
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return Draft{}, err
		}
		return Draft{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order parser unavailable")
	}

	var draft Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return Draft{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order parser returned an unexpected payload")
	}
	return draft, nil
}

// Disabled is wired when no API key is configured.
type Disabled struct{}

func (Disabled) Parse(context.Context, string, []catalog.SimplifiedProduct) (Draft, error) {
	return Draft{}, pkgerrors.New(pkgerrors.CodeDependency, "smart order parser is not configured")
}
