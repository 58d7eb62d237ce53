package receipt

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/minsukim/fishmarket-api/internal/pricing"
	"github.com/minsukim/fishmarket-api/internal/types"
)

const lineWidth = 42

var printer = message.NewPrinter(language.Korean)

// Render produces the printable plain-text form of a trade receipt:
// shop header, localized date, line items and the commission summary.
func Render(t types.Trade, shop types.ShopInfo) string {
	total := pricing.CalculateTradeTotal(t.Cart)

	var b strings.Builder

	rule := strings.Repeat("=", lineWidth)
	thin := strings.Repeat("-", lineWidth)

	b.WriteString(rule + "\n")
	b.WriteString("거 래 명 세 서\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "%s\n", pricing.FormatTradeDate(t.Date))
	fmt.Fprintf(&b, "%s 귀하\n", t.CustomerName)

	if shop.Name != "" {
		b.WriteString(thin + "\n")
		fmt.Fprintf(&b, "공급자: %s", shop.Name)
		if shop.Owner != "" {
			fmt.Fprintf(&b, " (대표: %s)", shop.Owner)
		}
		b.WriteString("\n")
		for _, contact := range []struct{ label, value string }{
			{"휴대폰", shop.Mobile},
			{"사무실", shop.Phone},
			{"팩스", shop.Fax},
		} {
			if contact.value != "" {
				fmt.Fprintf(&b, "%s: %s\n", contact.label, contact.value)
			}
		}
	}

	b.WriteString(thin + "\n")
	for _, item := range t.Cart {
		fmt.Fprintf(&b, "%s  %s %s x %s = %s\n",
			item.Name, quantity(item.Weight), unitLabel(item.Unit), won(item.Price), won(item.Price*item.Weight))
	}
	b.WriteString(thin + "\n")

	fmt.Fprintf(&b, "소계      %s\n", won(total.SubTotal))
	fmt.Fprintf(&b, "수수료(8%%) %s\n", won(total.Commission))
	fmt.Fprintf(&b, "합계      %s\n", won(total.TotalAmount))

	if shop.Account1 != "" || shop.Account2 != "" {
		b.WriteString(thin + "\n")
		for _, account := range []string{shop.Account1, shop.Account2} {
			if account == "" {
				continue
			}
			if shop.Owner != "" {
				fmt.Fprintf(&b, "입금계좌: %s (예금주: %s)\n", account, shop.Owner)
			} else {
				fmt.Fprintf(&b, "입금계좌: %s\n", account)
			}
		}
	}

	b.WriteString(rule + "\n")
	return b.String()
}

func won(v float64) string {
	return printer.Sprintf("%v원", number.Decimal(v))
}

func quantity(w float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", w), "0"), ".")
}

func unitLabel(unit string) string {
	if unit == types.UnitPiece {
		return "낱개"
	}
	return "kg"
}
