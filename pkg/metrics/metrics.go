package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TradesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fishmarket_trades_created_total",
		Help: "Trades persisted for the first time.",
	})
	TradesUpdated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fishmarket_trades_updated_total",
		Help: "Merge updates applied to existing trades.",
	})
	TradesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fishmarket_trades_deleted_total",
		Help: "Trades removed after user confirmation.",
	})
	TradeSaveFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fishmarket_trade_save_failures_total",
		Help: "Save or delete attempts that failed at the store.",
	})
)

// Handler exposes the default prometheus registry on a gin route.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
