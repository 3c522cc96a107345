package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/citywaste/waste-flow-api/internal/dto"
	"github.com/citywaste/waste-flow-api/internal/events"
	"github.com/citywaste/waste-flow-api/internal/gateway"
	"github.com/citywaste/waste-flow-api/internal/model"
	"github.com/citywaste/waste-flow-api/internal/repository"
)

var (
	// ErrNotYourOrder covers both an unknown order id and an order owned by
	// someone else, so callers cannot probe for other users' order ids.
	ErrNotYourOrder = errors.New("you cannot pay for this order")

	ErrGatewayUnavailable = errors.New("payment request failed")
)

// GatewayRejectedError reports a well-formed gateway response with
// success=false; the message is surfaced to the caller.
type GatewayRejectedError struct {
	Message string
}

func (e *GatewayRejectedError) Error() string {
	return fmt.Sprintf("monetbil rejected payment: %s", e.Message)
}

type PaymentService struct {
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	gateway     gateway.MonetbilClient
	returnURL   string
	notifyURL   string
	logoURL     string
	publisher   *events.Publisher
	log         *slog.Logger
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	client gateway.MonetbilClient,
	returnURL, notifyURL, logoURL string,
	publisher *events.Publisher,
	log *slog.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		gateway:     client,
		returnURL:   returnURL,
		notifyURL:   notifyURL,
		logoURL:     logoURL,
		publisher:   publisher,
		log:         log,
	}
}

// Initiate submits a charge to the gateway and, only on acceptance, records a
// pending payment. A transport failure or rejection leaves no payment row.
func (s *PaymentService) Initiate(ctx context.Context, userID int64, req dto.PaymentRequest) (*dto.PaymentResponse, error) {
	order, err := s.orderRepo.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil || order.UserID != userID {
		return nil, ErrNotYourOrder
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	operator := req.Operator
	if operator == "" {
		operator = gateway.DefaultOperator
	}
	firstName := req.FirstName
	if firstName == "" {
		firstName = user.Username
	}
	email := req.Email
	if email == "" {
		email = user.Email
	}
	localRef := fmt.Sprintf("ORD-%d", order.ID)

	charge, err := s.gateway.CreateCharge(ctx, gateway.ChargeRequest{
		Amount:     order.TotalPrice.String(),
		Currency:   gateway.Currency,
		Phone:      req.Phone,
		Operator:   operator,
		Country:    gateway.Country,
		ItemRef:    fmt.Sprintf("%d", order.ID),
		PaymentRef: localRef,
		User:       fmt.Sprintf("%d", user.ID),
		FirstName:  firstName,
		LastName:   req.LastName,
		Email:      email,
		ReturnURL:  s.returnURL,
		NotifyURL:  s.notifyURL,
		Logo:       s.logoURL,
	})
	if err != nil {
		s.log.Error("monetbil charge failed", "order_id", order.ID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	if !charge.Success {
		return nil, &GatewayRejectedError{Message: charge.Message}
	}

	reference := charge.PaymentRef
	if reference == "" {
		reference = localRef
	}

	payment := &model.Payment{
		UserID:    user.ID,
		OrderID:   order.ID,
		Amount:    order.TotalPrice,
		Status:    model.PaymentStatusPending,
		Reference: reference,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	return &dto.PaymentResponse{
		ID:         payment.ID,
		OrderID:    payment.OrderID,
		Amount:     payment.Amount,
		Operator:   operator,
		Status:     payment.Status,
		PaymentRef: payment.Reference,
		PaymentURL: charge.PaymentURL,
		CreatedAt:  payment.CreatedAt,
	}, nil
}

// HandleWebhook reconciles a gateway callback. Unknown references and
// unrecognized statuses are benign no-ops; replaying a terminal status
// re-applies the same write.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload dto.WebhookPayload) (string, error) {
	payment, err := s.paymentRepo.GetByReference(ctx, payload.PaymentRef)
	if err != nil {
		return "", fmt.Errorf("get payment: %w", err)
	}
	if payment == nil {
		s.log.Info("webhook for unknown reference", "payment_ref", payload.PaymentRef)
		return "Payment not found", nil
	}

	switch payload.Status {
	case "success":
		if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, model.PaymentStatusSuccess); err != nil {
			return "", fmt.Errorf("mark payment success: %w", err)
		}
		if err := s.orderRepo.UpdateStatus(ctx, payment.OrderID, model.OrderStatusDelivered); err != nil {
			return "", fmt.Errorf("mark order delivered: %w", err)
		}
		s.publisher.Publish(ctx, events.PaymentQueue, model.PaymentEvent{
			PaymentID: payment.ID,
			OrderID:   payment.OrderID,
			Reference: payment.Reference,
			Status:    string(model.PaymentStatusSuccess),
		})
	case "failed":
		if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, model.PaymentStatusFailed); err != nil {
			return "", fmt.Errorf("mark payment failed: %w", err)
		}
	default:
		// Anything else is ignored, not rejected.
		s.log.Info("webhook with unrecognized status", "payment_ref", payload.PaymentRef, "status", payload.Status)
	}
	return "Webhook processed", nil
}
