package checkout

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/SamuelCev/KicksBackend-sub000/internal/domain"
	"github.com/SamuelCev/KicksBackend-sub000/internal/receipt"
)

// UnitOfWork runs a function inside one database transaction.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// InventoryLedger owns per-product stock counts.
type InventoryLedger interface {
	ReserveStock(ctx context.Context, tx *sql.Tx, productID int64, quantity int32) (int32, error)
}

// OrderStore persists an order header and its items as one durable unit.
type OrderStore interface {
	CreateOrder(ctx context.Context, tx *sql.Tx, order *domain.Order) (int64, error)
}

// CartGateway reads the user's current cart and clears it after commit.
type CartGateway interface {
	GetCartLines(ctx context.Context, userID int64) ([]domain.CartLine, error)
	ClearCart(ctx context.Context, userID int64) error
}

// ReceiptRenderer renders a committed order snapshot into a document.
type ReceiptRenderer interface {
	Render(ctx context.Context, order *domain.Order) (*receipt.DocumentHandle, error)
}

// NotificationDispatcher emails the receipt to the customer.
type NotificationDispatcher interface {
	Send(ctx context.Context, recipient string, order *domain.Order, handle *receipt.DocumentHandle) error
}

type Service struct {
	uow      UnitOfWork
	ledger   InventoryLedger
	orders   OrderStore
	cart     CartGateway
	receipts ReceiptRenderer
	notifier NotificationDispatcher
	logger   zerolog.Logger
}

func NewService(
	uow UnitOfWork,
	ledger InventoryLedger,
	orders OrderStore,
	cart CartGateway,
	receipts ReceiptRenderer,
	notifier NotificationDispatcher,
	logger zerolog.Logger,
) *Service {
	return &Service{
		uow:      uow,
		ledger:   ledger,
		orders:   orders,
		cart:     cart,
		receipts: receipts,
		notifier: notifier,
		logger:   logger,
	}
}
