package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SamuelCev/KicksBackend-sub000/internal/domain"
)

var ErrOrderNotFound = errors.New("order not found")

// CreateOrder persists the order header and all its items inside the caller's
// transaction and returns the assigned order id. Header and items commit (or
// roll back) together with the stock decrements of the same checkout.
func (r *Repository) CreateOrder(ctx context.Context, tx *sql.Tx, order *domain.Order) (int64, error) {
	query := `INSERT INTO ordenes
	          (usuario_id, estado, subtotal, impuestos, envio, total, metodo_pago,
	           nombre_envio, direccion_envio, ciudad, codigo_postal, telefono, pais, cupon, creado_en)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
	          RETURNING id, creado_en`

	var orderID int64
	err := tx.QueryRowContext(ctx, query,
		order.UserID,
		order.Status,
		order.Subtotal,
		order.TaxAmount,
		order.ShippingAmount,
		order.Total,
		order.PaymentMethod,
		order.ShippingName,
		order.ShippingAddress,
		order.City,
		order.PostalCode,
		order.Phone,
		order.Country,
		nullableString(order.CouponCode),
	).Scan(&orderID, &order.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `INSERT INTO orden_detalles (orden_id, producto_id, cantidad, precio_unitario, categoria)
	              VALUES ($1, $2, $3, $4, $5)`
	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = orderID
		if _, err := tx.ExecContext(ctx, itemQuery,
			orderID,
			item.ProductID,
			item.Quantity,
			item.UnitPriceAtPurchase,
			item.Category,
		); err != nil {
			return 0, fmt.Errorf("insert order item for product %d: %w", item.ProductID, err)
		}
	}

	order.ID = orderID
	return orderID, nil
}

// GetOrderByID loads one order with its items. The user id scopes the read so
// callers can only see their own orders.
func (r *Repository) GetOrderByID(ctx context.Context, orderID, userID int64) (*domain.Order, error) {
	query := `SELECT id, usuario_id, estado, subtotal, impuestos, envio, total, metodo_pago,
	                 nombre_envio, direccion_envio, ciudad, codigo_postal, telefono, pais,
	                 COALESCE(cupon, ''), creado_en
	          FROM ordenes WHERE id = $1 AND usuario_id = $2`

	var order domain.Order
	err := r.db.QueryRowContext(ctx, query, orderID, userID).Scan(
		&order.ID,
		&order.UserID,
		&order.Status,
		&order.Subtotal,
		&order.TaxAmount,
		&order.ShippingAmount,
		&order.Total,
		&order.PaymentMethod,
		&order.ShippingName,
		&order.ShippingAddress,
		&order.City,
		&order.PostalCode,
		&order.Phone,
		&order.Country,
		&order.CouponCode,
		&order.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}

	items, err := r.loadOrderItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

// ListOrdersByUser returns the caller's orders, newest first, without items.
func (r *Repository) ListOrdersByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	query := `SELECT id, usuario_id, estado, subtotal, impuestos, envio, total, metodo_pago,
	                 nombre_envio, direccion_envio, ciudad, codigo_postal, telefono, pais,
	                 COALESCE(cupon, ''), creado_en
	          FROM ordenes WHERE usuario_id = $1 ORDER BY creado_en DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders by user id: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.Status,
			&order.Subtotal,
			&order.TaxAmount,
			&order.ShippingAmount,
			&order.Total,
			&order.PaymentMethod,
			&order.ShippingName,
			&order.ShippingAddress,
			&order.City,
			&order.PostalCode,
			&order.Phone,
			&order.Country,
			&order.CouponCode,
			&order.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, &order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return orders, nil
}

func (r *Repository) loadOrderItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	query := `SELECT orden_id, producto_id, cantidad, precio_unitario, categoria
	          FROM orden_detalles WHERE orden_id = $1 ORDER BY producto_id`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.UnitPriceAtPurchase,
			&item.Category,
		); err != nil {
			return nil, fmt.Errorf("scan order item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
