package analytics

import (
	"encoding/csv"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/bodega-pos/bodega/internal/platform/httpx"
)

// Handler wires HTTP endpoints for analytics queries.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs analytics handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers analytics routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/net-profit", h.handleNetProfit)
	r.Get("/daily-profit", h.handleDailyProfit)
	r.Get("/daily-sales", h.handleDailySales)
	r.Get("/top-products", h.handleTopProducts)
	r.Get("/dashboard", h.handleDashboard)
	r.Get("/export", h.handleExport)
}

func (h *Handler) handleNetProfit(w http.ResponseWriter, r *http.Request) {
	net, err := h.service.NetProfit(r.Context())
	if err != nil {
		h.fail(w, "net profit", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]float64{"net_profit": net})
}

func (h *Handler) handleDailyProfit(w http.ResponseWriter, r *http.Request) {
	points, err := h.service.DailyProfit(r.Context())
	if err != nil {
		h.fail(w, "daily profit", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"series": points})
}

func (h *Handler) handleDailySales(w http.ResponseWriter, r *http.Request) {
	points, err := h.service.DailySales(r.Context())
	if err != nil {
		h.fail(w, "daily sales", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"series": points})
}

func (h *Handler) handleTopProducts(w http.ResponseWriter, r *http.Request) {
	ranking, err := h.service.TopProducts(r.Context())
	if err != nil {
		h.fail(w, "top products", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"ranking": ranking})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var dashboard Dashboard
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		dashboard.NetProfit, err = h.service.NetProfit(ctx)
		return err
	})
	g.Go(func() (err error) {
		dashboard.DailyProfit, err = h.service.DailyProfit(ctx)
		return err
	})
	g.Go(func() (err error) {
		dashboard.DailySales, err = h.service.DailySales(ctx)
		return err
	})
	g.Go(func() (err error) {
		dashboard.TopProducts, err = h.service.TopProducts(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(w, "dashboard", err)
		return
	}
	httpx.JSON(w, http.StatusOK, dashboard)
}

// handleExport streams the daily revenue and profit series as CSV.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	var salesSeries, profitSeries []DailyPoint
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		salesSeries, err = h.service.DailySales(ctx)
		return err
	})
	g.Go(func() (err error) {
		profitSeries, err = h.service.DailyProfit(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(w, "export", err)
		return
	}

	profitByDay := make(map[string]float64, len(profitSeries))
	for _, p := range profitSeries {
		profitByDay[p.Day] = p.Value
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="daily-summary.csv"`)

	printer := message.NewPrinter(language.English)
	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"day", "sales", "profit"})
	for _, p := range salesSeries {
		_ = writer.Write([]string{
			p.Day,
			printer.Sprintf("%.2f", p.Value),
			printer.Sprintf("%.2f", profitByDay[p.Day]),
		})
	}
	writer.Flush()
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op, slog.Any("error", err))
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}
