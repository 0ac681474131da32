package payment_method

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Jaysins/ohship-tenant-sub001/apperrors"
	"github.com/Jaysins/ohship-tenant-sub001/models"
)

// ProviderStripe marks tenant methods settled through Stripe Checkout.
const ProviderStripe = "stripe"

type InitiateRequest struct {
	Method       models.TenantPaymentMethod
	PaymentID    string
	Payer        models.Payer
	Amount       float64
	Currency     string
	ShipmentID   string
	ShipmentCode string
}

// Initiator starts a payment attempt with one provider.
type Initiator interface {
	Initiate(ctx context.Context, req InitiateRequest) (*models.PaymentTransaction, error)
}

type Service interface {
	ListEnabled(ctx context.Context) ([]models.TenantPaymentMethod, error)
	Get(ctx context.Context, id string) (*models.TenantPaymentMethod, error)
	Initiate(ctx context.Context, req InitiateRequest) (*models.PaymentTransaction, error)
}

type service struct {
	repo      Repository
	backend   Initiator
	providers map[string]Initiator
	logger    *zap.Logger
}

// NewService routes initiation by provider; methods whose provider has no
// registered initiator go through the backend.
func NewService(repo Repository, backend Initiator, providers map[string]Initiator, logger *zap.Logger) Service {
	return &service{
		repo:      repo,
		backend:   backend,
		providers: providers,
		logger:    logger,
	}
}

func (s *service) ListEnabled(ctx context.Context) ([]models.TenantPaymentMethod, error) {
	methods, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	enabled := make([]models.TenantPaymentMethod, 0, len(methods))
	for _, m := range methods {
		if m.IsEnabled {
			enabled = append(enabled, m)
		}
	}
	return enabled, nil
}

// Get returns an enabled tenant method by its tenant id or its method id.
func (s *service) Get(ctx context.Context, id string) (*models.TenantPaymentMethod, error) {
	methods, err := s.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}
	for i := range methods {
		if methods[i].ID == id || methods[i].Method.ID == id {
			return &methods[i], nil
		}
	}
	return nil, apperrors.NotFound("Payment method is not available")
}

func (s *service) Initiate(ctx context.Context, req InitiateRequest) (*models.PaymentTransaction, error) {
	initiator := s.backend
	if p, ok := s.providers[strings.ToLower(req.Method.Provider)]; ok {
		initiator = p
	}

	tx, err := initiator.Initiate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to initiate payment %s: %w", req.PaymentID, err)
	}

	s.logger.Info("payment initiated",
		zap.String("payment_id", req.PaymentID),
		zap.String("provider", req.Method.Provider),
		zap.String("method_type", string(req.Method.Method.Type)),
		zap.String("transaction_id", tx.TransactionID))

	return tx, nil
}
