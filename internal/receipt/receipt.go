// Package receipt renders the plain-text thermal receipt of a finalized order.
package receipt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/angelmondragon/pizzapos-backend/internal/cart"
	"github.com/angelmondragon/pizzapos-backend/internal/orders"
	"github.com/angelmondragon/pizzapos-backend/pkg/config"
	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	"github.com/angelmondragon/pizzapos-backend/pkg/money"
	"github.com/shopspring/decimal"
)

const (
	Columns80mm = 48
	Columns58mm = 32

	dateLayout      = "02/01/06 15:04"
	qtyColumn       = 4
	defaultFooter   = "OBRIGADO E VOLTE SEMPRE!"
	nonFiscalNotice = "Cupom nao fiscal - PizzaAI PDV"
)

// Store is the header data printed on every receipt.
type Store struct {
	Name    string
	Address string
	CNPJ    string
	Phone   string
}

// StoreFromConfig maps the store section of the configuration.
func StoreFromConfig(cfg config.StoreConfig) Store {
	return Store{Name: cfg.Name, Address: cfg.Address, CNPJ: cfg.CNPJ, Phone: cfg.Phone}
}

// ColumnsFor maps a paper width ("80mm", "58mm") to printable columns.
func ColumnsFor(paperWidth string) int {
	if strings.EqualFold(strings.TrimSpace(paperWidth), config.PaperWidth58) {
		return Columns58mm
	}
	return Columns80mm
}

// Renderer prints orders with a parsed template.
type Renderer struct {
	store   Store
	columns int
	tmpl    *template.Template
}

func NewRenderer(store Store, columns int) (*Renderer, error) {
	if columns < Columns58mm {
		columns = Columns58mm
	}
	r := &Renderer{store: store, columns: columns}
	tmpl, err := template.New("receipt").Funcs(template.FuncMap{
		"center":   r.center,
		"itemRows": r.itemRows,
		"row":      r.row,
		"rule":     r.rule,
		"wrap":     r.wrap,
		"brl":      brl,
		"upper":    strings.ToUpper,
	}).Parse(receiptTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse receipt template: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

type itemView struct {
	Qty         string
	Description []string
	Total       decimal.Decimal
}

type view struct {
	Store       Store
	Number      string
	Date        string
	Customer    string
	Phone       string
	Delivery    bool
	Address     string
	Courier     string
	Items       []itemView
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
	Paid        decimal.Decimal
	Change      decimal.Decimal
	Payments    string
	FiscalID    string
	Footer      string
	Notice      string
}

// Render prints order to text.
func (r *Renderer) Render(order orders.Order) (string, error) {
	v := view{
		Store:       r.store,
		Number:      orderNumber(order),
		Date:        order.CreatedAt.Format(dateLayout),
		Customer:    order.CustomerName,
		Phone:       order.CustomerPhone,
		Delivery:    order.OrderType == enums.OrderTypeDelivery,
		Courier:     strings.ToUpper(order.CourierName),
		Subtotal:    order.Subtotal,
		DeliveryFee: order.DeliveryFee,
		Total:       order.Total,
		Change:      order.ChangeDue,
		Payments:    paymentSummary(order),
		Footer:      defaultFooter,
		Notice:      nonFiscalNotice,
	}
	if v.Customer == "" {
		v.Customer = "Visitante"
	}
	if v.Store.Name == "" {
		v.Store.Name = "PIZZARIA"
	}
	if order.Address != nil {
		v.Address = strings.ToUpper(order.Address.Format())
	}
	if order.FiscalID != nil {
		v.FiscalID = *order.FiscalID
		v.Notice = ""
	}
	v.Paid = decimal.Zero
	for _, p := range order.Payments {
		v.Paid = v.Paid.Add(p.Amount)
	}
	descWidth := r.columns - qtyColumn - len("R$ 0.000,00") - 2
	for _, line := range order.Lines {
		v.Items = append(v.Items, itemView{
			Qty:         fmt.Sprintf("%dx", line.Quantity),
			Description: wrapText(strings.ToUpper(Describe(line)), descWidth),
			Total:       line.Total(),
		})
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render receipt: %w", err)
	}
	return buf.String(), nil
}

// Describe is the line description with its size tag: "1/2 A + 1/2 B [GRANDE]".
func Describe(line cart.Line) string {
	return fmt.Sprintf("%s [%s]", line.Description(), sizeLabel(line.Size))
}

func sizeLabel(size enums.PizzaSize) string {
	switch size {
	case enums.PizzaSizeSMALL:
		return "BROTO"
	case enums.PizzaSizeMEDIUM:
		return "MEDIA"
	default:
		return "GRANDE"
	}
}

var methodLabels = map[enums.PaymentMethod]string{
	enums.PaymentMethodCreditCard: "CREDITO",
	enums.PaymentMethodDebitCard:  "DEBITO",
	enums.PaymentMethodPIX:        "PIX",
	enums.PaymentMethodCash:       "DINHEIRO",
}

func paymentSummary(order orders.Order) string {
	if len(order.Payments) == 0 {
		return methodLabels[order.PaymentMethod]
	}
	labels := make([]string, 0, len(order.Payments))
	for _, p := range order.Payments {
		labels = append(labels, methodLabels[p.Method])
	}
	return strings.Join(labels, " + ")
}

// orderNumber is the short number called at the counter: last 4 chars of the id.
func orderNumber(order orders.Order) string {
	id := strings.ReplaceAll(order.ID.String(), "-", "")
	return strings.ToUpper(id[len(id)-4:])
}

func brl(value decimal.Decimal) string {
	return "R$ " + money.Format(value)
}

func (r *Renderer) rule(ch string) string {
	return strings.Repeat(ch, r.columns)
}

func (r *Renderer) center(text string) string {
	n := utf8.RuneCountInString(text)
	if n >= r.columns {
		return text
	}
	return strings.Repeat(" ", (r.columns-n)/2) + text
}

// row prints left and right aligned on one line, breaking if they do not fit.
func (r *Renderer) row(left, right string) string {
	gap := r.columns - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap < 1 {
		return left + "\n" + strings.Repeat(" ", max(0, r.columns-utf8.RuneCountInString(right))) + right
	}
	return left + strings.Repeat(" ", gap) + right
}

func (r *Renderer) itemRows(item itemView) string {
	var b strings.Builder
	for i, desc := range item.Description {
		if i == 0 {
			b.WriteString(r.row(pad(item.Qty, qtyColumn)+desc, brl(item.Total)))
		} else {
			b.WriteString(strings.Repeat(" ", qtyColumn) + desc)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) wrap(text string) []string {
	return wrapText(text, r.columns)
}

func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	current := ""
	for _, w := range words {
		switch {
		case current == "":
			current = w
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(w) <= width:
			current += " " + w
		default:
			lines = append(lines, current)
			current = w
		}
	}
	return append(lines, current)
}

func pad(text string, width int) string {
	n := utf8.RuneCountInString(text)
	if n >= width {
		return text
	}
	return text + strings.Repeat(" ", width-n)
}
