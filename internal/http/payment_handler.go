package http

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/SamuelCev/KicksBackend-sub000/internal/kvstore"
	"github.com/SamuelCev/KicksBackend-sub000/internal/pricing"
)

const (
	transferReferenceTTL = 15 * time.Minute
	oxxoReferenceTTL     = 72 * time.Hour
)

// PaymentHandler serves the payment helper endpoints: the country table,
// coupon validation and the simulated transfer/OXXO reference payloads.
type PaymentHandler struct {
	refs   kvstore.Store
	logger zerolog.Logger
}

func NewPaymentHandler(refs kvstore.Store, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{refs: refs, logger: logger}
}

type CountryDTO struct {
	Country  string  `json:"pais"`
	TaxRate  float64 `json:"impuesto"`
	Shipping float64 `json:"envio"`
}

// GET /ordenes/paises
func (h *PaymentHandler) ListCountries(w http.ResponseWriter, r *http.Request) {
	rates := pricing.Countries()
	dtos := make([]CountryDTO, 0, len(rates))
	for _, rate := range rates {
		dtos = append(dtos, CountryDTO{
			Country:  rate.Country,
			TaxRate:  rate.TaxRate.InexactFloat64(),
			Shipping: rate.Shipping.InexactFloat64(),
		})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"paises": dtos})
}

type ValidateCouponRequestDTO struct {
	Coupon string `json:"cupon"`
}

type ValidateCouponResponseDTO struct {
	Coupon   string  `json:"cupon"`
	Discount float64 `json:"descuento"`
}

// POST /ordenes/validar-cupon
func (h *PaymentHandler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var dto ValidateCouponRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	discount, ok := pricing.CouponDiscount(dto.Coupon)
	if !ok {
		respondError(w, http.StatusNotFound, "invalid_coupon", "cupón no válido")
		return
	}

	respondJSON(w, http.StatusOK, ValidateCouponResponseDTO{
		Coupon:   dto.Coupon,
		Discount: discount.InexactFloat64(),
	})
}

type TransferInfoDTO struct {
	Bank      string `json:"banco"`
	Holder    string `json:"titular"`
	CLABE     string `json:"clabe"`
	Reference string `json:"referencia"`
	ExpiresIn int    `json:"vigencia_minutos"`
}

// GET /ordenes/info-transferencia
func (h *PaymentHandler) TransferInfo(w http.ResponseWriter, r *http.Request) {
	reference := fmt.Sprintf("%010d", rand.Int63n(1e10))
	h.storeReference(r.Context(), "transferencia:"+reference, transferReferenceTTL)

	respondJSON(w, http.StatusOK, TransferInfoDTO{
		Bank:      "BBVA México",
		Holder:    "Kicks SA de CV",
		CLABE:     "012180001234567895",
		Reference: reference,
		ExpiresIn: int(transferReferenceTTL.Minutes()),
	})
}

type OxxoDetailsDTO struct {
	Reference  string  `json:"referencia"`
	Commission float64 `json:"comision"`
	DueDate    string  `json:"vencimiento"`
}

// GET /ordenes/oxxo-details
func (h *PaymentHandler) OxxoDetails(w http.ResponseWriter, r *http.Request) {
	reference := fmt.Sprintf("%014d", rand.Int63n(1e14))
	h.storeReference(r.Context(), "oxxo:"+reference, oxxoReferenceTTL)

	respondJSON(w, http.StatusOK, OxxoDetailsDTO{
		Reference:  reference,
		Commission: 12.00,
		DueDate:    time.Now().Add(oxxoReferenceTTL).Format("2006-01-02"),
	})
}

// storeReference keeps the generated reference alive for its payment window
// so a later reconciliation can match it. Failures are logged only; the
// payload is still returned.
func (h *PaymentHandler) storeReference(ctx context.Context, key string, ttl time.Duration) {
	if err := h.refs.Set(ctx, key, time.Now().Format(time.RFC3339), ttl); err != nil {
		h.logger.Warn().Err(err).Str("key", key).Msg("failed to store payment reference")
	}
}
