package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citywaste/waste-flow-api/internal/dto"
	"github.com/citywaste/waste-flow-api/internal/gateway"
	"github.com/citywaste/waste-flow-api/internal/model"
)

type stubGateway struct {
	resp     *gateway.ChargeResponse
	err      error
	requests []gateway.ChargeRequest
}

func (s *stubGateway) CreateCharge(_ context.Context, req gateway.ChargeRequest) (*gateway.ChargeResponse, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

type paymentFixture struct {
	svc      *PaymentService
	gateway  *stubGateway
	users    *mockUserRepo
	orders   *mockOrderRepo
	payments *mockPaymentRepo
}

func newPaymentFixture(gw *stubGateway) *paymentFixture {
	users := newMockUserRepo()
	orders := newMockOrderRepo()
	payments := newMockPaymentRepo()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewPaymentService(
		payments, orders, users, gw,
		"https://example.com/return", "https://example.com/notify", "https://example.com/logo.png",
		nil, log,
	)
	return &paymentFixture{svc: svc, gateway: gw, users: users, orders: orders, payments: payments}
}

func (f *paymentFixture) seedOrder(t *testing.T, userID int64, price int64, qty int) *model.Order {
	t.Helper()
	ctx := context.Background()
	user := &model.User{Username: "amina", Email: "amina@example.com", Role: model.RoleCitizen, IsActive: true}
	require.NoError(t, f.users.Create(ctx, user))
	require.Equal(t, userID, user.ID)
	order := &model.Order{
		UserID:     userID,
		ProductID:  3,
		Quantity:   qty,
		TotalPrice: decimal.NewFromInt(price).Mul(decimal.NewFromInt(int64(qty))),
		Status:     model.OrderStatusPending,
	}
	require.NoError(t, f.orders.Create(ctx, order))
	return order
}

func TestPaymentService_Initiate(t *testing.T) {
	gw := &stubGateway{resp: &gateway.ChargeResponse{
		Success: true, PaymentURL: "https://monetbil.example/pay/abc",
	}}
	f := newPaymentFixture(gw)
	order := f.seedOrder(t, 1, 1000, 2)

	resp, err := f.svc.Initiate(context.Background(), 1, dto.PaymentRequest{
		OrderID: order.ID, Phone: "670000000",
	})
	require.NoError(t, err)

	assert.Equal(t, model.PaymentStatusPending, resp.Status)
	assert.Equal(t, "ORD-1", resp.PaymentRef)
	assert.Equal(t, "https://monetbil.example/pay/abc", resp.PaymentURL)
	assert.True(t, resp.Amount.Equal(decimal.NewFromInt(2000)))

	require.Len(t, gw.requests, 1)
	sent := gw.requests[0]
	assert.Equal(t, "2000", sent.Amount)
	assert.Equal(t, "XAF", sent.Currency)
	assert.Equal(t, "CM", sent.Country)
	assert.Equal(t, "670000000", sent.Phone)
	assert.Equal(t, "CM_MTNMOBILEMONEY", sent.Operator)
	assert.Equal(t, "ORD-1", sent.PaymentRef)
	assert.Equal(t, "amina", sent.FirstName)
	assert.Equal(t, "amina@example.com", sent.Email)
}

func TestPaymentService_Initiate_GatewayReference(t *testing.T) {
	gw := &stubGateway{resp: &gateway.ChargeResponse{
		Success: true, PaymentRef: "MB-777", PaymentURL: "https://monetbil.example/pay/x",
	}}
	f := newPaymentFixture(gw)
	order := f.seedOrder(t, 1, 500, 1)

	resp, err := f.svc.Initiate(context.Background(), 1, dto.PaymentRequest{
		OrderID: order.ID, Phone: "670000000",
	})
	require.NoError(t, err)
	assert.Equal(t, "MB-777", resp.PaymentRef)
}

func TestPaymentService_Initiate_NotYourOrder(t *testing.T) {
	f := newPaymentFixture(&stubGateway{resp: &gateway.ChargeResponse{Success: true}})
	order := f.seedOrder(t, 1, 500, 1)

	_, err := f.svc.Initiate(context.Background(), 2, dto.PaymentRequest{
		OrderID: order.ID, Phone: "670000000",
	})
	assert.ErrorIs(t, err, ErrNotYourOrder)

	_, err = f.svc.Initiate(context.Background(), 1, dto.PaymentRequest{
		OrderID: 999, Phone: "670000000",
	})
	assert.ErrorIs(t, err, ErrNotYourOrder)
	assert.Empty(t, f.gateway.requests)
}

func TestPaymentService_Initiate_GatewayRejected(t *testing.T) {
	gw := &stubGateway{resp: &gateway.ChargeResponse{Success: false, Message: "invalid operator"}}
	f := newPaymentFixture(gw)
	order := f.seedOrder(t, 1, 500, 1)

	_, err := f.svc.Initiate(context.Background(), 1, dto.PaymentRequest{
		OrderID: order.ID, Phone: "670000000",
	})

	var rejected *GatewayRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "invalid operator", rejected.Message)
	assert.Empty(t, f.payments.payments, "no payment row on rejection")
}

func TestPaymentService_Initiate_GatewayUnreachable(t *testing.T) {
	gw := &stubGateway{err: errors.New("dial tcp: i/o timeout")}
	f := newPaymentFixture(gw)
	order := f.seedOrder(t, 1, 500, 1)

	_, err := f.svc.Initiate(context.Background(), 1, dto.PaymentRequest{
		OrderID: order.ID, Phone: "670000000",
	})
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
	assert.Empty(t, f.payments.payments, "no payment row on transport failure")
}

func TestPaymentService_Webhook_SuccessCascadesToOrder(t *testing.T) {
	gw := &stubGateway{resp: &gateway.ChargeResponse{Success: true, PaymentURL: "https://pay"}}
	f := newPaymentFixture(gw)
	order := f.seedOrder(t, 1, 1000, 2)
	ctx := context.Background()

	resp, err := f.svc.Initiate(ctx, 1, dto.PaymentRequest{OrderID: order.ID, Phone: "670000000"})
	require.NoError(t, err)

	msg, err := f.svc.HandleWebhook(ctx, dto.WebhookPayload{PaymentRef: resp.PaymentRef, Status: "success"})
	require.NoError(t, err)
	assert.Equal(t, "Webhook processed", msg)

	payment, _ := f.payments.GetByReference(ctx, resp.PaymentRef)
	assert.Equal(t, model.PaymentStatusSuccess, payment.Status)
	stored, _ := f.orders.GetByID(ctx, order.ID)
	assert.Equal(t, model.OrderStatusDelivered, stored.Status)
}

func TestPaymentService_Webhook_ReplayIsIdempotent(t *testing.T) {
	gw := &stubGateway{resp: &gateway.ChargeResponse{Success: true}}
	f := newPaymentFixture(gw)
	order := f.seedOrder(t, 1, 1000, 1)
	ctx := context.Background()

	resp, err := f.svc.Initiate(ctx, 1, dto.PaymentRequest{OrderID: order.ID, Phone: "670000000"})
	require.NoError(t, err)

	payload := dto.WebhookPayload{PaymentRef: resp.PaymentRef, Status: "success"}
	_, err = f.svc.HandleWebhook(ctx, payload)
	require.NoError(t, err)
	msg, err := f.svc.HandleWebhook(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, "Webhook processed", msg)

	payment, _ := f.payments.GetByReference(ctx, resp.PaymentRef)
	assert.Equal(t, model.PaymentStatusSuccess, payment.Status)
	stored, _ := f.orders.GetByID(ctx, order.ID)
	assert.Equal(t, model.OrderStatusDelivered, stored.Status)
}

func TestPaymentService_Webhook_UnknownReference(t *testing.T) {
	f := newPaymentFixture(&stubGateway{})

	msg, err := f.svc.HandleWebhook(context.Background(), dto.WebhookPayload{
		PaymentRef: "ORD-404", Status: "success",
	})
	require.NoError(t, err)
	assert.Equal(t, "Payment not found", msg)
}

func TestPaymentService_Webhook_Failed(t *testing.T) {
	gw := &stubGateway{resp: &gateway.ChargeResponse{Success: true}}
	f := newPaymentFixture(gw)
	order := f.seedOrder(t, 1, 1000, 1)
	ctx := context.Background()

	resp, err := f.svc.Initiate(ctx, 1, dto.PaymentRequest{OrderID: order.ID, Phone: "670000000"})
	require.NoError(t, err)

	_, err = f.svc.HandleWebhook(ctx, dto.WebhookPayload{PaymentRef: resp.PaymentRef, Status: "failed"})
	require.NoError(t, err)

	payment, _ := f.payments.GetByReference(ctx, resp.PaymentRef)
	assert.Equal(t, model.PaymentStatusFailed, payment.Status)
	stored, _ := f.orders.GetByID(ctx, order.ID)
	assert.Equal(t, model.OrderStatusPending, stored.Status, "order untouched on failure")
}

func TestPaymentService_Webhook_UnrecognizedStatusIgnored(t *testing.T) {
	gw := &stubGateway{resp: &gateway.ChargeResponse{Success: true}}
	f := newPaymentFixture(gw)
	order := f.seedOrder(t, 1, 1000, 1)
	ctx := context.Background()

	resp, err := f.svc.Initiate(ctx, 1, dto.PaymentRequest{OrderID: order.ID, Phone: "670000000"})
	require.NoError(t, err)

	msg, err := f.svc.HandleWebhook(ctx, dto.WebhookPayload{PaymentRef: resp.PaymentRef, Status: "cancelled_by_carrier"})
	require.NoError(t, err)
	assert.Equal(t, "Webhook processed", msg)

	payment, _ := f.payments.GetByReference(ctx, resp.PaymentRef)
	assert.Equal(t, model.PaymentStatusPending, payment.Status)
}
