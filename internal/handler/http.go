package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mirkom117/Filiera-Agricola-IDS-sub000/internal/entities"
	"github.com/mirkom117/Filiera-Agricola-IDS-sub000/internal/service"
	"github.com/mirkom117/Filiera-Agricola-IDS-sub000/pkg/utils"
)

type OrderService interface {
	CreateOrder(ctx context.Context, in service.CreateOrderInput) (entities.Order, error)
	UpdateOrder(ctx context.Context, id string, in service.UpdateOrderInput) (entities.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status entities.OrderStatus) (entities.Order, bool, error)
	ConfirmOrder(ctx context.Context, id string) (entities.Order, error)
	ShipOrder(ctx context.Context, id string) (entities.Order, error)
	DeliverOrder(ctx context.Context, id string) (entities.Order, error)
	CancelOrder(ctx context.Context, id string) (entities.Order, error)
	GetOrderByID(ctx context.Context, id string) (entities.Order, error)
	ListOrders(ctx context.Context) []entities.Order
	OrdersByStatus(ctx context.Context, status entities.OrderStatus) []entities.Order
	OrdersByBuyer(ctx context.Context, buyerID string) []entities.Order
	OrdersBySeller(ctx context.Context, sellerID string) []entities.Order
}

type QueryService interface {
	ByDateRange(ctx context.Context, start, end time.Time) ([]entities.Order, error)
	ByAmountRange(ctx context.Context, min, max decimal.Decimal) ([]entities.Order, error)
	OverdueOrders(ctx context.Context) []entities.Order
	OrganicCertifiedOrders(ctx context.Context) []entities.Order
	CountByStatus(ctx context.Context) map[entities.OrderStatus]int
	TotalRevenue(ctx context.Context) decimal.Decimal
	TotalRevenueForSeller(ctx context.Context, sellerID string) decimal.Decimal
	AverageOrderValue(ctx context.Context) decimal.Decimal
}

type HTTPHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      OrderService
	queries  QueryService
}

func NewHTTPHandler(logger *slog.Logger, svc OrderService, queries QueryService) *HTTPHandler {
	return &HTTPHandler{
		logger:   logger.With(slog.String("handler", "http")),
		validate: validator.New(),
		svc:      svc,
		queries:  queries,
	}
}

func (h *HTTPHandler) Init(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/", h.ListOrders)
		r.Get("/overdue", h.OverdueOrders)
		r.Get("/organic", h.OrganicOrders)
		r.Get("/by-date", h.OrdersByDateRange)
		r.Get("/by-amount", h.OrdersByAmountRange)
		r.Get("/stats", h.OrderStats)

		r.Route("/{order_id}", func(r chi.Router) {
			r.Get("/", h.GetOrderByID)
			r.Put("/", h.UpdateOrder)
			r.Patch("/status", h.UpdateOrderStatus)
			r.Post("/confirm", h.ConfirmOrder)
			r.Post("/ship", h.ShipOrder)
			r.Post("/deliver", h.DeliverOrder)
			r.Post("/cancel", h.CancelOrder)
		})
	})

	r.Get("/sellers/{seller_id}/revenue", h.SellerRevenue)
}

func (h *HTTPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateOrderRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.svc.CreateOrder(ctx, CreateRequestToInput(req))
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusCreated)
}

func (h *HTTPHandler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "order_id")

	order, err := h.svc.GetOrderByID(ctx, orderID)
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// ListOrders returns every order, narrowed by the optional buyer_id,
// seller_id or status query parameters.
func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var orders []entities.Order
	switch {
	case r.URL.Query().Get("buyer_id") != "":
		orders = h.svc.OrdersByBuyer(ctx, r.URL.Query().Get("buyer_id"))
	case r.URL.Query().Get("seller_id") != "":
		orders = h.svc.OrdersBySeller(ctx, r.URL.Query().Get("seller_id"))
	case r.URL.Query().Get("status") != "":
		status, err := entities.ParseOrderStatus(r.URL.Query().Get("status"))
		if err != nil {
			h.writeServiceError(ctx, w, err)
			return
		}
		orders = h.svc.OrdersByStatus(ctx, status)
	default:
		orders = h.svc.ListOrders(ctx)
	}

	utils.WriteJSON(w, OrdersEntityToJSON(orders), http.StatusOK)
}

func (h *HTTPHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "order_id")

	var req UpdateOrderRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	status, err := entities.ParseOrderStatus(req.Status)
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}

	order, err := h.svc.UpdateOrder(ctx, orderID, UpdateRequestToInput(req, status))
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

func (h *HTTPHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "order_id")

	var req UpdateStatusRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	status, err := entities.ParseOrderStatus(req.Status)
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}

	order, changed, err := h.svc.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSON(w, StatusUpdateResponse{Changed: changed, Order: OrderEntityToJSON(order)}, http.StatusOK)
}

func (h *HTTPHandler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	h.namedTransition(w, r, h.svc.ConfirmOrder)
}

func (h *HTTPHandler) ShipOrder(w http.ResponseWriter, r *http.Request) {
	h.namedTransition(w, r, h.svc.ShipOrder)
}

func (h *HTTPHandler) DeliverOrder(w http.ResponseWriter, r *http.Request) {
	h.namedTransition(w, r, h.svc.DeliverOrder)
}

func (h *HTTPHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	h.namedTransition(w, r, h.svc.CancelOrder)
}

func (h *HTTPHandler) namedTransition(w http.ResponseWriter, r *http.Request, op func(context.Context, string) (entities.Order, error)) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "order_id")

	order, err := op(ctx, orderID)
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

func (h *HTTPHandler) OverdueOrders(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, OrdersEntityToJSON(h.queries.OverdueOrders(r.Context())), http.StatusOK)
}

func (h *HTTPHandler) OrganicOrders(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, OrdersEntityToJSON(h.queries.OrganicCertifiedOrders(r.Context())), http.StatusOK)
}

// OrdersByDateRange expects from and to as RFC 3339 timestamps, both inclusive.
func (h *HTTPHandler) OrdersByDateRange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		utils.WriteError(w, "invalid from date, expected RFC 3339", http.StatusBadRequest)
		return
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		utils.WriteError(w, "invalid to date, expected RFC 3339", http.StatusBadRequest)
		return
	}

	orders, err := h.queries.ByDateRange(ctx, from, to)
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSON(w, OrdersEntityToJSON(orders), http.StatusOK)
}

func (h *HTTPHandler) OrdersByAmountRange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	min, err := decimal.NewFromString(r.URL.Query().Get("min"))
	if err != nil {
		utils.WriteError(w, "invalid min amount", http.StatusBadRequest)
		return
	}
	max, err := decimal.NewFromString(r.URL.Query().Get("max"))
	if err != nil {
		utils.WriteError(w, "invalid max amount", http.StatusBadRequest)
		return
	}

	orders, err := h.queries.ByAmountRange(ctx, min, max)
	if err != nil {
		h.writeServiceError(ctx, w, err)
		return
	}
	utils.WriteJSON(w, OrdersEntityToJSON(orders), http.StatusOK)
}

func (h *HTTPHandler) OrderStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	counts := make(map[string]int, len(entities.AllStatuses))
	for status, n := range h.queries.CountByStatus(ctx) {
		counts[string(status)] = n
	}

	utils.WriteJSON(w, StatsResponse{
		CountByStatus:     counts,
		TotalRevenue:      h.queries.TotalRevenue(ctx).InexactFloat64(),
		AverageOrderValue: h.queries.AverageOrderValue(ctx).InexactFloat64(),
	}, http.StatusOK)
}

func (h *HTTPHandler) SellerRevenue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sellerID := chi.URLParam(r, "seller_id")

	utils.WriteJSON(w, SellerRevenueResponse{
		SellerID:     sellerID,
		TotalRevenue: h.queries.TotalRevenueForSeller(ctx, sellerID).InexactFloat64(),
	}, http.StatusOK)
}

func (h *HTTPHandler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entities.ErrOrderNotFound):
		utils.WriteError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, entities.ErrValidation):
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.ErrorContext(ctx, "request failed", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}
