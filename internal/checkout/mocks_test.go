package checkout

import (
	"context"
	"database/sql"

	"github.com/SamuelCev/KicksBackend-sub000/internal/domain"
	"github.com/SamuelCev/KicksBackend-sub000/internal/receipt"
)

// MockUnitOfWork implements UnitOfWork for testing. The callback receives a
// nil *sql.Tx; collaborator mocks ignore it.
type MockUnitOfWork struct {
	BeginErr   error
	CommitErr  error
	Committed  bool
	RolledBack bool
}

func (m *MockUnitOfWork) WithinTx(_ context.Context, fn func(tx *sql.Tx) error) error {
	if m.BeginErr != nil {
		return m.BeginErr
	}
	if err := fn(nil); err != nil {
		m.RolledBack = true
		return err
	}
	if m.CommitErr != nil {
		m.RolledBack = true
		return m.CommitErr
	}
	m.Committed = true
	return nil
}

// MockLedger implements InventoryLedger and records reservation order.
type MockLedger struct {
	ReservedIDs []int64
	FailOn      int64
	Err         error
}

func (m *MockLedger) ReserveStock(_ context.Context, _ *sql.Tx, productID int64, _ int32) (int32, error) {
	if m.Err != nil && (m.FailOn == 0 || m.FailOn == productID) {
		return 0, m.Err
	}
	m.ReservedIDs = append(m.ReservedIDs, productID)
	return 1, nil
}

// MockOrderStore implements OrderStore and captures the persisted order.
type MockOrderStore struct {
	AssignID     int64
	Err          error
	CreatedOrder *domain.Order
}

func (m *MockOrderStore) CreateOrder(_ context.Context, _ *sql.Tx, order *domain.Order) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.CreatedOrder = order
	order.ID = m.AssignID
	return m.AssignID, nil
}

// MockCartGateway implements CartGateway.
type MockCartGateway struct {
	Lines      []domain.CartLine
	LinesErr   error
	ClearErr   error
	ClearCalls int
}

func (m *MockCartGateway) GetCartLines(_ context.Context, _ int64) ([]domain.CartLine, error) {
	return m.Lines, m.LinesErr
}

func (m *MockCartGateway) ClearCart(_ context.Context, _ int64) error {
	m.ClearCalls++
	return m.ClearErr
}

// MockRenderer implements ReceiptRenderer.
type MockRenderer struct {
	Handle *receipt.DocumentHandle
	Err    error
	Calls  int
}

func (m *MockRenderer) Render(_ context.Context, _ *domain.Order) (*receipt.DocumentHandle, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Handle, nil
}

// MockDispatcher implements NotificationDispatcher.
type MockDispatcher struct {
	Err        error
	Calls      int
	Recipient  string
	SentHandle *receipt.DocumentHandle
}

func (m *MockDispatcher) Send(_ context.Context, recipient string, _ *domain.Order, handle *receipt.DocumentHandle) error {
	m.Calls++
	m.Recipient = recipient
	m.SentHandle = handle
	return m.Err
}
