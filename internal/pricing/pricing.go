package pricing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/minsukim/fishmarket-api/internal/types"
)

// CommissionRate is the fixed market commission applied to every trade.
const CommissionRate = 0.08

// CalculateTradeTotal sums a cart and applies the commission. The
// commission is truncated toward zero, never rounded. A nil or empty
// cart yields an all-zero result.
func CalculateTradeTotal(cart []types.CartItem) types.TradeTotal {
	if len(cart) == 0 {
		return types.TradeTotal{}
	}

	var subTotal float64
	for _, item := range cart {
		subTotal += item.Price * item.Weight
	}

	commission := math.Floor(subTotal * CommissionRate)

	return types.TradeTotal{
		SubTotal:    subTotal,
		Commission:  commission,
		TotalAmount: subTotal + commission,
	}
}

// FormatTradeDate renders an ISO "YYYY-MM-DD" date in the long Korean
// form used on receipts, with the month and day stripped of leading
// zeros. An empty input formats today's date in the local timezone.
// Input is split leniently: components that fail to parse render as 0.
func FormatTradeDate(date string) string {
	if date == "" {
		now := time.Now()
		return fmt.Sprintf("%d 년 %d 월 %d 일", now.Year(), int(now.Month()), now.Day())
	}

	parts := strings.SplitN(date, "-", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}

	month, _ := strconv.Atoi(parts[1])
	day, _ := strconv.Atoi(parts[2])

	return fmt.Sprintf("%s 년 %d 월 %d 일", parts[0], month, day)
}
