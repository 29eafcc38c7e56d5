package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"storefront/internal/domain"
	"storefront/pkg/utils"
)

type CartLine struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type OrderLine struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Handoff 交给 Messenger 的订单摘要；不落库
type Handoff struct {
	Lines   []OrderLine `json:"items"`
	Message string      `json:"message"`
	Total   float64     `json:"total"`
	URL     string      `json:"url"`
}

type CheckoutService struct {
	items    domain.ItemRepository
	page     string
	currency string
	printer  *message.Printer
}

func NewCheckoutService(items domain.ItemRepository, messengerPage, currency string) *CheckoutService {
	if currency == "" {
		currency = "₱"
	}
	return &CheckoutService{
		items:    items,
		page:     strings.TrimSpace(messengerPage),
		currency: currency,
		printer:  message.NewPrinter(language.English),
	}
}

// Handoff 按目录价格重算金额（不信任客户端价格），相同 id 合并数量
func (s *CheckoutService) Handoff(ctx context.Context, cart []CartLine) (*Handoff, error) {
	if s.page == "" {
		return nil, domain.ErrCheckoutUnconfigured
	}
	if len(cart) == 0 {
		return nil, domain.NewValidationError("Cart is empty", "items")
	}

	var (
		lines []OrderLine
		index = map[string]int{}
		total float64
	)
	for _, c := range cart {
		if c.Quantity < 1 {
			return nil, domain.NewValidationError("quantity must be at least 1", "quantity")
		}
		if !utils.ValidID(c.ID) {
			return nil, domain.ErrInvalidID
		}
		if i, ok := index[c.ID]; ok {
			lines[i].Quantity += c.Quantity
			continue
		}
		it, err := s.items.FindByID(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		index[c.ID] = len(lines)
		lines = append(lines, OrderLine{ID: it.ID, Name: it.Name, Price: it.Price, Quantity: c.Quantity})
	}
	for _, l := range lines {
		total += l.Price * float64(l.Quantity)
	}

	msg := s.message(lines, total)
	return &Handoff{
		Lines:   lines,
		Message: msg,
		Total:   total,
		URL:     s.messengerURL(msg),
	}, nil
}

func (s *CheckoutService) amount(v float64) string {
	return s.currency + s.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

func (s *CheckoutService) message(lines []OrderLine, total float64) string {
	var b strings.Builder
	b.WriteString("🛒 *Order Summary*\n\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "• %s x%d — %s\n", l.Name, l.Quantity, s.amount(l.Price*float64(l.Quantity)))
	}
	fmt.Fprintf(&b, "\n*Total: %s*\n\n---\nCustomer message: (your instructions or notes here)", s.amount(total))
	return b.String()
}

// messengerURL 空格编码为 %20 而非 +
func (s *CheckoutService) messengerURL(msg string) string {
	text := strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
	return "https://m.me/" + url.PathEscape(s.page) + "?text=" + text
}
