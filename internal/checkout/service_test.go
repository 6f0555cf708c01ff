package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamuelCev/KicksBackend-sub000/internal/domain"
	"github.com/SamuelCev/KicksBackend-sub000/internal/pricing"
	"github.com/SamuelCev/KicksBackend-sub000/internal/receipt"
	"github.com/SamuelCev/KicksBackend-sub000/internal/repository"
)

type fixture struct {
	uow      *MockUnitOfWork
	ledger   *MockLedger
	orders   *MockOrderStore
	cart     *MockCartGateway
	renderer *MockRenderer
	mailer   *MockDispatcher
	svc      *Service
}

func newFixture() *fixture {
	f := &fixture{
		uow:    &MockUnitOfWork{},
		ledger: &MockLedger{},
		orders: &MockOrderStore{AssignID: 42},
		cart: &MockCartGateway{
			Lines: []domain.CartLine{
				{ProductID: 1, ProductName: "Runner", Category: "tenis", Quantity: 2, UnitPrice: decimal.NewFromFloat(1000.00)},
			},
		},
		renderer: &MockRenderer{Handle: &receipt.DocumentHandle{ID: "doc-1", Path: "/tmp/recibo-42.pdf"}},
		mailer:   &MockDispatcher{},
	}
	f.svc = NewService(f.uow, f.ledger, f.orders, f.cart, f.renderer, f.mailer, zerolog.Nop())
	return f
}

func validRequest() *PlaceOrderRequest {
	return &PlaceOrderRequest{
		UserID:          1,
		Email:           "ana@example.com",
		PaymentMethod:   PaymentMethodOxxo,
		ShippingName:    "Ana López",
		ShippingAddress: "Av. Reforma 100",
		City:            "CDMX",
		PostalCode:      "06600",
		Phone:           "5512345678",
		Country:         "mexico",
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	f := newFixture()

	result, err := f.svc.PlaceOrder(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(42), result.OrderID)
	assert.Empty(t, result.Warnings)
	assert.True(t, f.uow.Committed)
	assert.Equal(t, 1, f.cart.ClearCalls)
	assert.Equal(t, 1, f.renderer.Calls)
	assert.Equal(t, 1, f.mailer.Calls)
	assert.Equal(t, "ana@example.com", f.mailer.Recipient)
	assert.Equal(t, f.renderer.Handle, f.mailer.SentHandle)

	order := f.orders.CreatedOrder
	require.NotNil(t, order)
	assert.Equal(t, "2440", order.Total.String())
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "1000", order.Items[0].UnitPriceAtPurchase.String())
}

func TestPlaceOrder_CouponApplied(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.CouponCode = "DESCUENTO10"

	_, err := f.svc.PlaceOrder(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "2196", f.orders.CreatedOrder.Total.String())
	assert.Equal(t, "DESCUENTO10", f.orders.CreatedOrder.CouponCode)
}

func TestPlaceOrder_ReservesAscendingProductID(t *testing.T) {
	f := newFixture()
	f.cart.Lines = []domain.CartLine{
		{ProductID: 9, Quantity: 1, UnitPrice: decimal.NewFromInt(100)},
		{ProductID: 2, Quantity: 1, UnitPrice: decimal.NewFromInt(100)},
		{ProductID: 5, Quantity: 1, UnitPrice: decimal.NewFromInt(100)},
	}

	_, err := f.svc.PlaceOrder(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5, 9}, f.ledger.ReservedIDs)
}

func TestPlaceOrder_MissingShippingField(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.City = ""

	_, err := f.svc.PlaceOrder(context.Background(), req)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "ciudad", validationErr.Field)
	assert.False(t, f.uow.Committed)
	assert.Zero(t, f.cart.ClearCalls)
}

func TestPlaceOrder_UnknownPaymentMethod(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.PaymentMethod = "bitcoin"

	_, err := f.svc.PlaceOrder(context.Background(), req)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "metodo_pago", validationErr.Field)
}

func TestPlaceOrder_CardWithoutDetails(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.PaymentMethod = PaymentMethodCard
	req.Card = nil

	_, err := f.svc.PlaceOrder(context.Background(), req)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "datos_pago", validationErr.Field)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	f := newFixture()
	f.cart.Lines = nil

	_, err := f.svc.PlaceOrder(context.Background(), validRequest())

	assert.ErrorIs(t, err, pricing.ErrEmptyCart)
	assert.False(t, f.uow.Committed)
}

func TestPlaceOrder_InsufficientStockAbortsCheckout(t *testing.T) {
	f := newFixture()
	f.ledger.Err = &repository.InsufficientStockError{ProductID: 1, Requested: 2, Available: 1}

	_, err := f.svc.PlaceOrder(context.Background(), validRequest())

	var stockErr *repository.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(1), stockErr.ProductID)
	assert.True(t, f.uow.RolledBack)
	assert.False(t, f.uow.Committed)
	assert.Zero(t, f.cart.ClearCalls)
	assert.Zero(t, f.renderer.Calls)
	assert.Zero(t, f.mailer.Calls)
}

func TestPlaceOrder_PersistFailureRollsBack(t *testing.T) {
	f := newFixture()
	f.orders.Err = errors.New("connection reset")

	_, err := f.svc.PlaceOrder(context.Background(), validRequest())

	var persistErr *PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.True(t, f.uow.RolledBack)
	assert.Zero(t, f.cart.ClearCalls)
}

func TestPlaceOrder_ReceiptFailureIsWarning(t *testing.T) {
	f := newFixture()
	f.renderer.Err = errors.New("pdf engine exploded")

	result, err := f.svc.PlaceOrder(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(42), result.OrderID)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "recibo")
	// email still attempted, without attachment
	assert.Equal(t, 1, f.mailer.Calls)
	assert.Nil(t, f.mailer.SentHandle)
}

func TestPlaceOrder_EmailFailureIsWarning(t *testing.T) {
	f := newFixture()
	f.mailer.Err = errors.New("smtp refused")

	result, err := f.svc.PlaceOrder(context.Background(), validRequest())

	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "correo")
	assert.Equal(t, 1, f.cart.ClearCalls)
}

func TestPlaceOrder_CartClearFailureIsWarning(t *testing.T) {
	f := newFixture()
	f.cart.ClearErr = errors.New("redis down")

	result, err := f.svc.PlaceOrder(context.Background(), validRequest())

	require.NoError(t, err)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "carrito")
}

func TestPlaceOrder_TimeoutSurfaced(t *testing.T) {
	f := newFixture()
	f.uow.BeginErr = context.DeadlineExceeded

	_, err := f.svc.PlaceOrder(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrTimeout)
}
