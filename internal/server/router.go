package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	ordercontroller "vitrine/internal/order/controller"
	productcontroller "vitrine/internal/product/controller"
	"vitrine/internal/response"
	"vitrine/internal/session"
	shippingcontroller "vitrine/internal/shipping/controller"
)

type Controllers struct {
	Products *productcontroller.Controller
	Stock    *productcontroller.StockController
	Shipping *shippingcontroller.ShippingController
	Checkout *ordercontroller.CheckoutController
	Orders   *ordercontroller.OrderController
	Admin    *ordercontroller.AdminController
}

func NewRouter(c Controllers, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	})

	r.Get("/products/{productId}", c.Products.GetProduct)
	r.Post("/products/search", c.Products.SearchProducts)
	r.Post("/shipping/quote", c.Shipping.Quote)
	r.Get("/tracking/{code}", c.Shipping.Track)

	r.Group(func(r chi.Router) {
		r.Use(session.Authenticated(logger))

		r.Post("/checkout", c.Checkout.Checkout)
		r.Get("/orders", c.Orders.ListMyOrders)
		r.Get("/orders/{orderId}", c.Orders.GetOrder)

		r.Route("/admin", func(r chi.Router) {
			r.Use(session.RequireAdmin(logger))
			r.Patch("/orders/{orderId}/status", c.Admin.UpdateOrderStatus)
			r.Put("/orders/{orderId}/tracking", c.Admin.AssignTracking)
			r.Patch("/orders/{orderId}/shipment/status", c.Admin.UpdateShipmentStatus)
			r.Post("/products/{productId}/stock", c.Stock.Restock)
		})
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int64("durationMs", time.Since(start).Milliseconds()),
				zap.String("requestId", chimw.GetReqID(r.Context())),
			)
		})
	}
}
