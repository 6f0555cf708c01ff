package checkout

import "github.com/SamuelCev/KicksBackend-sub000/internal/pricing"

const (
	PaymentMethodCard     = "tarjeta"
	PaymentMethodOxxo     = "oxxo"
	PaymentMethodTransfer = "transferencia"
)

// CardDetails holds the simulated card payload. No real gateway is called;
// presence is validated when the payment method is tarjeta.
type CardDetails struct {
	Number     string
	Holder     string
	Expiration string
	CVV        string
}

// PlaceOrderRequest is the checkout input for one authenticated user.
type PlaceOrderRequest struct {
	UserID          int64
	Email           string
	PaymentMethod   string
	ShippingName    string
	ShippingAddress string
	City            string
	PostalCode      string
	Phone           string
	Country         string
	CouponCode      string
	Card            *CardDetails
}

// PlaceOrderResult is the terminal Completed state: the assigned order id
// plus warnings from best-effort post-commit steps.
type PlaceOrderResult struct {
	OrderID  int64
	Warnings []string
}

func validateRequest(req *PlaceOrderRequest) error {
	required := []struct {
		field string
		value string
	}{
		{"nombre_envio", req.ShippingName},
		{"direccion_envio", req.ShippingAddress},
		{"ciudad", req.City},
		{"codigo_postal", req.PostalCode},
		{"telefono", req.Phone},
		{"pais", req.Country},
	}
	for _, f := range required {
		if f.value == "" {
			return &ValidationError{Field: f.field, Reason: "is required"}
		}
	}

	switch req.PaymentMethod {
	case PaymentMethodCard, PaymentMethodOxxo, PaymentMethodTransfer:
	default:
		return &ValidationError{Field: "metodo_pago", Reason: "must be tarjeta, oxxo or transferencia"}
	}

	if req.PaymentMethod == PaymentMethodCard {
		if req.Card == nil || req.Card.Number == "" || req.Card.Holder == "" ||
			req.Card.Expiration == "" || req.Card.CVV == "" {
			return &ValidationError{Field: "datos_pago", Reason: "card details are required for tarjeta"}
		}
	}

	if !pricing.IsSupportedCountry(req.Country) {
		return &ValidationError{Field: "pais", Reason: "destination country is not supported"}
	}

	return nil
}
