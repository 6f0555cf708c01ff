package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/SamuelCev/KicksBackend-sub000/internal/checkout"
	"github.com/SamuelCev/KicksBackend-sub000/internal/domain"
	"github.com/SamuelCev/KicksBackend-sub000/internal/pricing"
	"github.com/SamuelCev/KicksBackend-sub000/internal/repository"
)

// CheckoutService is the place-order use case consumed by the handler.
type CheckoutService interface {
	PlaceOrder(ctx context.Context, req *checkout.PlaceOrderRequest) (*checkout.PlaceOrderResult, error)
}

// OrderReader provides the read side for the order endpoints.
type OrderReader interface {
	GetOrderByID(ctx context.Context, orderID, userID int64) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]*domain.Order, error)
}

type OrderHandler struct {
	service CheckoutService
	reader  OrderReader
	timeout time.Duration
	logger  zerolog.Logger
}

func NewOrderHandler(service CheckoutService, reader OrderReader, timeout time.Duration, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		reader:  reader,
		timeout: timeout,
		logger:  logger,
	}
}

type CardDetailsDTO struct {
	Number     string `json:"numero"`
	Holder     string `json:"titular"`
	Expiration string `json:"expiracion"`
	CVV        string `json:"cvv"`
}

type PlaceOrderRequestDTO struct {
	PaymentMethod   string          `json:"metodo_pago"`
	ShippingName    string          `json:"nombre_envio"`
	ShippingAddress string          `json:"direccion_envio"`
	City            string          `json:"ciudad"`
	PostalCode      string          `json:"codigo_postal"`
	Phone           string          `json:"telefono"`
	Country         string          `json:"pais"`
	Coupon          string          `json:"cupon,omitempty"`
	CardDetails     *CardDetailsDTO `json:"datos_pago,omitempty"`
}

type PlaceOrderResponseDTO struct {
	OK       bool     `json:"ok"`
	OrderID  int64    `json:"orderId"`
	Warnings []string `json:"warnings,omitempty"`
}

type OrderItemDTO struct {
	ProductID int64   `json:"producto_id"`
	Quantity  int32   `json:"cantidad"`
	UnitPrice float64 `json:"precio_unitario"`
	Category  string  `json:"categoria"`
}

type OrderResponseDTO struct {
	ID             int64          `json:"id"`
	Status         string         `json:"estado"`
	Subtotal       float64        `json:"subtotal"`
	TaxAmount      float64        `json:"impuestos"`
	ShippingAmount float64        `json:"envio"`
	Total          float64        `json:"total"`
	PaymentMethod  string         `json:"metodo_pago"`
	Country        string         `json:"pais"`
	Coupon         string         `json:"cupon,omitempty"`
	CreatedAt      string         `json:"creado_en"`
	Items          []OrderItemDTO `json:"detalles,omitempty"`
}

// POST /ordenes
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var dto PlaceOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	req := &checkout.PlaceOrderRequest{
		UserID:          userID,
		Email:           getUserEmailFromContext(r.Context()),
		PaymentMethod:   dto.PaymentMethod,
		ShippingName:    dto.ShippingName,
		ShippingAddress: dto.ShippingAddress,
		City:            dto.City,
		PostalCode:      dto.PostalCode,
		Phone:           dto.Phone,
		Country:         dto.Country,
		CouponCode:      dto.Coupon,
	}
	if dto.CardDetails != nil {
		req.Card = &checkout.CardDetails{
			Number:     dto.CardDetails.Number,
			Holder:     dto.CardDetails.Holder,
			Expiration: dto.CardDetails.Expiration,
			CVV:        dto.CardDetails.CVV,
		}
	}

	result, err := h.service.PlaceOrder(ctx, req)
	if err != nil {
		h.respondCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, PlaceOrderResponseDTO{
		OK:       true,
		OrderID:  result.OrderID,
		Warnings: result.Warnings,
	})
}

// respondCheckoutError maps domain failures onto the wire contract. Internal
// detail stays in the logs; clients get a generic message plus a code.
func (h *OrderHandler) respondCheckoutError(w http.ResponseWriter, err error) {
	var validationErr *checkout.ValidationError
	if errors.As(err, &validationErr) {
		respondError(w, http.StatusBadRequest, "validation_error", validationErr.Error())
		return
	}

	var countryErr *pricing.UnsupportedCountryError
	if errors.As(err, &countryErr) {
		respondError(w, http.StatusBadRequest, "unsupported_country", countryErr.Error())
		return
	}

	var couponErr *pricing.InvalidCouponError
	if errors.As(err, &couponErr) {
		respondError(w, http.StatusBadRequest, "invalid_coupon", couponErr.Error())
		return
	}

	if errors.Is(err, pricing.ErrEmptyCart) {
		respondError(w, http.StatusBadRequest, "empty_cart", "el carrito está vacío")
		return
	}

	var stockErr *repository.InsufficientStockError
	if errors.As(err, &stockErr) {
		respondError(w, http.StatusConflict, "insufficient_stock", stockErr.Error())
		return
	}

	if errors.Is(err, repository.ErrProductNotFound) {
		respondError(w, http.StatusConflict, "product_not_found", "un producto del carrito ya no existe")
		return
	}

	if errors.Is(err, checkout.ErrTimeout) {
		h.logger.Error().Err(err).Msg("checkout timed out")
		respondError(w, http.StatusInternalServerError, "timeout", "no se pudo completar la orden, intenta de nuevo")
		return
	}

	h.logger.Error().Err(err).Msg("checkout failed")
	respondError(w, http.StatusInternalServerError, "internal_error", "no se pudo completar la orden")
}

// GET /ordenes
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orders, err := h.reader.ListOrdersByUser(ctx, userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("list orders failed")
		respondError(w, http.StatusInternalServerError, "internal_error", "no se pudieron consultar las órdenes")
		return
	}

	dtos := make([]OrderResponseDTO, 0, len(orders))
	for _, order := range orders {
		dtos = append(dtos, convertOrder(order))
	}

	respondJSON(w, http.StatusOK, dtos)
}

// GET /ordenes/{orden_id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orderID, err := strconv.ParseInt(chi.URLParam(r, "orden_id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be numeric")
		return
	}

	order, err := h.reader.GetOrderByID(ctx, orderID, userID)
	if errors.Is(err, repository.ErrOrderNotFound) {
		respondError(w, http.StatusNotFound, "order_not_found", "orden no encontrada")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Int64("order_id", orderID).Msg("get order failed")
		respondError(w, http.StatusInternalServerError, "internal_error", "no se pudo consultar la orden")
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(order))
}

func convertOrder(order *domain.Order) OrderResponseDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPriceAtPurchase.InexactFloat64(),
			Category:  item.Category,
		})
	}

	return OrderResponseDTO{
		ID:             order.ID,
		Status:         string(order.Status),
		Subtotal:       order.Subtotal.InexactFloat64(),
		TaxAmount:      order.TaxAmount.InexactFloat64(),
		ShippingAmount: order.ShippingAmount.InexactFloat64(),
		Total:          order.Total.InexactFloat64(),
		PaymentMethod:  order.PaymentMethod,
		Country:        order.Country,
		Coupon:         order.CouponCode,
		CreatedAt:      order.CreatedAt.Format(time.RFC3339),
		Items:          items,
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers already sent, nothing left to do
		return
	}
}

type ErrorResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		OK:      false,
		Error:   code,
		Message: message,
	})
}
