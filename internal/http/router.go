package httpapi

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"dinehall-pos-services/internal/auth"
	"dinehall-pos-services/internal/config"
	"dinehall-pos-services/internal/http/handlers"
	"dinehall-pos-services/internal/middleware"
	"dinehall-pos-services/internal/queue"
	"dinehall-pos-services/internal/ws"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func NewRouter(db *pgxpool.Pool, logger *zap.Logger, cfg config.Config, queueClient *queue.Client, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(logger))
	r.Use(middleware.RequestID())

	if cfg.Env == "development" || len(cfg.CorsAllowedOrigins) > 0 {
		options := cors.Options{
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{
				"Accept",
				"Authorization",
				"Content-Type",
				"X-Requested-With",
				"Cache-Control",
			},
			AllowCredentials: true,
			MaxAge:           300,
		}

		if cfg.Env == "development" {
			options.AllowOriginFunc = func(_ *http.Request, origin string) bool {
				return true
			}
		} else {
			options.AllowedOrigins = cfg.CorsAllowedOrigins
		}

		r.Use(cors.Handler(options))
	}

	h := &handlers.Handler{DB: db, Logger: logger, Config: cfg, Queue: queueClient}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", h.AuthSignup)
		r.Post("/login", h.AuthLogin)
		r.Post("/logout", h.AuthLogout)
		r.With(middleware.StaffAuth(db, cfg)).Get("/me", h.AuthMe)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.StaffAuth(db, cfg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Require(auth.ResourceOrders))
			r.Post("/orders", h.OrderCreate)
			r.Put("/orders/items/{lineItemId}", h.OrderLineItemUpdate)
			r.Delete("/orders/items/{lineItemId}", h.OrderLineItemDelete)
			r.Get("/orders/table/{tableId}", h.OrderForTable)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Require(auth.ResourceBills))
			r.Get("/bills/{billId}", h.BillGet)
			r.Put("/bills/{billId}/settle", h.BillSettle)
			r.Get("/bills/{billId}/receipt", h.BillReceiptPDF)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Require(auth.ResourceTables))
			r.Get("/tables", h.TablesList)
			r.Get("/tables/available", h.TablesAvailable)
			r.Post("/tables", h.TableCreate)
			r.Put("/tables/{tableId}/status", h.TableStatusUpdate)
			r.Delete("/tables/{tableId}", h.TableDelete)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Require(auth.ResourceReservations))
			r.Get("/reservations", h.ReservationsList)
			r.Post("/reservations", h.ReservationCreate)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Require(auth.ResourceMenu))
			r.Post("/categories", h.CategoryCreate)
			r.Put("/categories/{categoryId}", h.CategoryUpdate)
			r.Delete("/categories/{categoryId}", h.CategoryDelete)
			r.Post("/items", h.ItemCreate)
			r.Put("/items/{itemId}", h.ItemUpdate)
			r.Delete("/items/{itemId}", h.ItemDelete)
		})

		// Reads used by the order screens stay open to every role.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Require(auth.ResourceOrders))
			r.Get("/categories", h.CategoriesList)
			r.Get("/items", h.ItemsList)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Require(auth.ResourceUploads))
			r.Post("/items/{itemId}/image", h.ItemImageUpload)
			r.Delete("/items/{itemId}/image", h.ItemImageDelete)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Require(auth.ResourceStaff))
			r.Get("/staff", h.StaffList)
			r.Post("/staff", h.StaffCreate)
			r.Put("/staff/{userId}", h.StaffUpdate)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Require(auth.ResourceReports))
			r.Get("/reports", h.ReportDaily)
		})
	})

	r.Get("/ws/floor", wsServer.FloorWS)

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
