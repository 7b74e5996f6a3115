package routes

import (
	"github.com/bazaarhub-dev/marketplace-api/checkout"
	"github.com/bazaarhub-dev/marketplace-api/config"
	"github.com/bazaarhub-dev/marketplace-api/metrics"
	"github.com/bazaarhub-dev/marketplace-api/store"
	"github.com/bazaarhub-dev/marketplace-api/ws"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// Deps bundles everything the route groups need. Built once in main.
type Deps struct {
	DB        *gorm.DB
	Cfg       config.Config
	Ledger    *store.Ledger
	Carts     *store.CartStore
	Orders    *store.OrderStore
	Converter *checkout.Converter
	Hub       *ws.Hub
	Metrics   *metrics.CheckoutMetrics
}

func NewDeps(db *gorm.DB, cfg config.Config) Deps {
	ledger := store.NewLedger(db)
	carts := store.NewCartStore(db)
	hub := ws.NewHub()
	m := metrics.New(prometheus.DefaultRegisterer)

	return Deps{
		DB:        db,
		Cfg:       cfg,
		Ledger:    ledger,
		Carts:     carts,
		Orders:    store.NewOrderStore(db),
		Converter: checkout.NewConverter(db, ledger, carts, hub, m),
		Hub:       hub,
		Metrics:   m,
	}
}

// SetupRoutes is the single entry point that wires up all route groups.
func SetupRoutes(r *gin.Engine, deps Deps) {
	SetupUserRoutes(r, deps)
	SetupProductRoutes(r, deps)
	SetupCartRoutes(r, deps)
	SetupOrderRoutes(r, deps)
	SetupAdminRoutes(r, deps)

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}
