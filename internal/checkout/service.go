// Package checkout coordinates pricing, stock reservation, order persistence
// and the post-commit receipt/notification pipeline for the place-order use
// case.
package checkout

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/SamuelCev/KicksBackend-sub000/internal/domain"
	"github.com/SamuelCev/KicksBackend-sub000/internal/pricing"
	"github.com/SamuelCev/KicksBackend-sub000/internal/repository"
)

// PlaceOrder turns the user's cart into a priced, persisted order.
//
// Everything up to the commit point (validation, pricing, stock reservation,
// order insert) either fully succeeds or leaves no trace. Receipt rendering
// and email delivery run strictly after commit and degrade to warnings on the
// result; the cart is cleared once the order is durable, regardless of how
// those steps fare.
func (s *Service) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*PlaceOrderResult, error) {
	state := domain.CheckoutStateValidating

	if err := validateRequest(req); err != nil {
		s.logger.Info().Err(err).Int64("user_id", req.UserID).
			Stringer("state", state).Msg("checkout rejected")
		return nil, err
	}

	lines, err := s.cart.GetCartLines(ctx, req.UserID)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}

	state, err = transition(state, domain.CheckoutStatePricing)
	if err != nil {
		return nil, err
	}

	totals, err := pricing.ComputeTotals(lines, req.Country, req.CouponCode)
	if err != nil {
		s.logger.Info().Err(err).Int64("user_id", req.UserID).
			Stringer("state", state).Msg("checkout pricing failed")
		return nil, err
	}

	state, err = transition(state, domain.CheckoutStateReserving)
	if err != nil {
		return nil, err
	}

	order := buildOrder(req, lines, totals)

	var orderID int64
	txErr := s.uow.WithinTx(ctx, func(tx *sql.Tx) error {
		// ascending product id keeps lock acquisition deterministic when
		// two checkouts contend on overlapping products
		sorted := make([]domain.CartLine, len(lines))
		copy(sorted, lines)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].ProductID < sorted[j].ProductID
		})

		for _, line := range sorted {
			if _, e := s.ledger.ReserveStock(ctx, tx, line.ProductID, line.Quantity); e != nil {
				return e
			}
		}

		id, e := s.orders.CreateOrder(ctx, tx, order)
		if e != nil {
			return e
		}
		orderID = id
		return nil
	})
	if txErr != nil {
		return nil, s.mapTxError(ctx, req.UserID, txErr)
	}

	state, err = transition(state, domain.CheckoutStatePersisted)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("user_id", req.UserID).Int64("order_id", orderID).
		Str("total", order.Total.StringFixed(2)).Msg("order committed")

	var warnings []string
	if e := s.cart.ClearCart(ctx, req.UserID); e != nil {
		s.logger.Error().Err(e).Int64("order_id", orderID).Msg("failed to clear cart after commit")
		warnings = append(warnings, "el carrito no pudo vaciarse, puede limpiarse manualmente")
	}

	state, err = transition(state, domain.CheckoutStateReceiptPending)
	if err != nil {
		return nil, err
	}

	handle, renderErr := s.receipts.Render(ctx, order)
	if renderErr != nil {
		s.logger.Error().Err(renderErr).Int64("order_id", orderID).Msg("receipt rendering failed")
		warnings = append(warnings, "no se pudo generar el recibo PDF")
	}

	state, err = transition(state, domain.CheckoutStateNotifyPending)
	if err != nil {
		return nil, err
	}

	if sendErr := s.notifier.Send(ctx, req.Email, order, handle); sendErr != nil {
		s.logger.Error().Err(sendErr).Int64("order_id", orderID).Msg("receipt email failed")
		warnings = append(warnings, "no se pudo enviar el correo de confirmación")
	}

	if _, err = transition(state, domain.CheckoutStateCompleted); err != nil {
		return nil, err
	}

	return &PlaceOrderResult{OrderID: orderID, Warnings: warnings}, nil
}

func (s *Service) mapTxError(ctx context.Context, userID int64, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		s.logger.Warn().Err(err).Int64("user_id", userID).Msg("checkout transaction timed out")
		return ErrTimeout
	}

	var stockErr *repository.InsufficientStockError
	if errors.As(err, &stockErr) || errors.Is(err, repository.ErrProductNotFound) {
		s.logger.Info().Err(err).Int64("user_id", userID).Msg("checkout aborted on inventory")
		return err
	}

	s.logger.Error().Err(err).Int64("user_id", userID).Msg("checkout transaction failed")
	return &PersistenceError{Err: err}
}

func buildOrder(req *PlaceOrderRequest, lines []domain.CartLine, totals *pricing.Result) *domain.Order {
	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, domain.OrderItem{
			ProductID:           line.ProductID,
			Quantity:            line.Quantity,
			UnitPriceAtPurchase: line.EffectiveUnitPrice().Round(2),
			Category:            line.Category,
		})
	}

	return &domain.Order{
		UserID:          req.UserID,
		Status:          domain.OrderStatusPending,
		Subtotal:        totals.Subtotal,
		TaxAmount:       totals.TaxAmount,
		ShippingAmount:  totals.ShippingAmount,
		Total:           totals.Total,
		PaymentMethod:   req.PaymentMethod,
		ShippingName:    req.ShippingName,
		ShippingAddress: req.ShippingAddress,
		City:            req.City,
		PostalCode:      req.PostalCode,
		Phone:           req.Phone,
		Country:         req.Country,
		CouponCode:      totals.CouponCode,
		Items:           items,
	}
}

func transition(from, to domain.CheckoutState) (domain.CheckoutState, error) {
	if !domain.CanTransitionTo(from, to) {
		return from, IllegalTransitionError
	}
	return to, nil
}
