package server

import (
	"context"
	"io"

	"compustore-be/internal/cart"
	"compustore-be/internal/customer"
	"compustore-be/internal/discount"
	"compustore-be/internal/notification"
	"compustore-be/internal/order"
	"compustore-be/internal/payment"
	"compustore-be/internal/product"
	"compustore-be/internal/staff"

	"github.com/stretchr/testify/mock"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, customerID uint, lines []order.CartLine, method string, externalReference *string) (*order.Order, error) {
	args := m.Called(ctx, customerID, lines, method, externalReference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, orderID int64) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, filter *order.Filter, sortField, sortDir string, limit, page int) ([]*order.Order, error) {
	args := m.Called(ctx, filter, sortField, sortDir, limit, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderService) CancelOrder(ctx context.Context, orderID int64, reason string) (*order.Order, error) {
	args := m.Called(ctx, orderID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) StaffCancelOrder(ctx context.Context, orderID int64, reason string) (*order.Order, error) {
	args := m.Called(ctx, orderID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) CancelItems(ctx context.Context, orderID int64, cancels map[int64]int, reason string) (*order.CancelLinesResult, error) {
	args := m.Called(ctx, orderID, cancels, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.CancelLinesResult), args.Error(1)
}

func (m *MockOrderService) Approve(ctx context.Context, orderID int64, staffID uint) error {
	args := m.Called(ctx, orderID, staffID)
	return args.Error(0)
}

func (m *MockOrderService) Reject(ctx context.Context, orderID int64, staffID uint) error {
	args := m.Called(ctx, orderID, staffID)
	return args.Error(0)
}

func (m *MockOrderService) CompleteFromSession(ctx context.Context, session *payment.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockOrderService) ListPendingQROrders(ctx context.Context, olderThanSeconds int) ([]*order.Order, error) {
	args := m.Called(ctx, olderThanSeconds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockPaymentRegistry struct {
	mock.Mock
}

func (m *MockPaymentRegistry) CreateSession(ctx context.Context, amount float64, currency string, orderID *int64, customerID *uint, reference string) (*payment.CreateSessionResult, error) {
	args := m.Called(ctx, amount, currency, orderID, customerID, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CreateSessionResult), args.Error(1)
}

func (m *MockPaymentRegistry) GetSession(ctx context.Context, sessionID string) (*payment.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Session), args.Error(1)
}

func (m *MockPaymentRegistry) LookupByFingerprint(ctx context.Context, fingerprint string) (*payment.Session, error) {
	args := m.Called(ctx, fingerprint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Session), args.Error(1)
}

func (m *MockPaymentRegistry) AttachEvidence(ctx context.Context, sessionID, filename string, src io.Reader, size int64) (*payment.Session, error) {
	args := m.Called(ctx, sessionID, filename, src, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Session), args.Error(1)
}

func (m *MockPaymentRegistry) FailSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockPaymentRegistry) ExpireStale(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Create(ctx context.Context, p *product.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductService) Update(ctx context.Context, p *product.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductService) Get(ctx context.Context, id int64) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) List(ctx context.Context, includeHidden bool) ([]product.Product, error) {
	args := m.Called(ctx, includeHidden)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductService) Archive(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductService) Unarchive(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductService) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductService) Restore(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductService) ApplyPromotion(ctx context.Context, id int64, pct float64) (*product.Product, error) {
	args := m.Called(ctx, id, pct)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) ClearPromotion(ctx context.Context, id int64) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Emit(ctx context.Context, customerID uint, message, kind string, relatedID *int64) error {
	args := m.Called(ctx, customerID, message, kind, relatedID)
	return args.Error(0)
}

func (m *MockNotificationService) List(ctx context.Context, customerID uint, unreadOnly bool) ([]notification.Notification, error) {
	args := m.Called(ctx, customerID, unreadOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, id int64, customerID uint) error {
	args := m.Called(ctx, id, customerID)
	return args.Error(0)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, customerID uint) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

func (m *MockNotificationService) Sweep(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) Register(ctx context.Context, firstName, lastName, email, password string) (string, *customer.Customer, error) {
	args := m.Called(ctx, firstName, lastName, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*customer.Customer), args.Error(2)
}

func (m *MockCustomerService) Login(ctx context.Context, email, password string) (string, *customer.Customer, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*customer.Customer), args.Error(2)
}

func (m *MockCustomerService) Get(ctx context.Context, id uint) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerService) SoftDelete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerService) List(ctx context.Context) ([]customer.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]customer.Customer), args.Error(1)
}

type MockStaffService struct {
	mock.Mock
}

func (m *MockStaffService) Login(ctx context.Context, email, password string) (string, *staff.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*staff.User), args.Error(2)
}

type MockCartStore struct {
	mock.Mock
}

func (m *MockCartStore) Add(ctx context.Context, sessionID string, productID int64, qty int) error {
	args := m.Called(ctx, sessionID, productID, qty)
	return args.Error(0)
}

func (m *MockCartStore) Set(ctx context.Context, sessionID string, productID int64, qty int) error {
	args := m.Called(ctx, sessionID, productID, qty)
	return args.Error(0)
}

func (m *MockCartStore) Remove(ctx context.Context, sessionID string, productID int64) error {
	args := m.Called(ctx, sessionID, productID)
	return args.Error(0)
}

func (m *MockCartStore) Get(ctx context.Context, sessionID string) ([]cart.Line, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.Line), args.Error(1)
}

func (m *MockCartStore) Clear(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

type MockDiscountRepository struct {
	mock.Mock
}

func (m *MockDiscountRepository) Create(ctx context.Context, r *discount.Rule) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockDiscountRepository) ListActive(ctx context.Context) ([]discount.Rule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]discount.Rule), args.Error(1)
}

func (m *MockDiscountRepository) GetByID(ctx context.Context, id int64) (*discount.Rule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discount.Rule), args.Error(1)
}

func (m *MockDiscountRepository) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDiscountRepository) UpdatePercentage(ctx context.Context, id int64, pct float64) error {
	args := m.Called(ctx, id, pct)
	return args.Error(0)
}
