package shipment

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/Jaysins/ohship-tenant-sub001/driver"
	"github.com/Jaysins/ohship-tenant-sub001/models"
)

var ErrMissingShipmentID = errors.New("shipment id is required")

type Service interface {
	Create(ctx context.Context, req *models.ShipmentRequest) (*models.Shipment, error)
	Update(ctx context.Context, req *models.ShipmentRequest) (*models.Shipment, error)
	Get(ctx context.Context, id string) (*models.Shipment, error)
	Track(ctx context.Context, code string) (*models.TrackingInfo, error)
	UpdatePaymentMethod(ctx context.Context, id, paymentMethodID string) (*models.Shipment, error)
}

type service struct {
	client driver.APIClient
	logger *zap.Logger
}

func NewService(client driver.APIClient, logger *zap.Logger) Service {
	return &service{
		client: client,
		logger: logger,
	}
}

func shipmentPath(id string) string {
	return fmt.Sprintf("/shipments/%s/", url.PathEscape(id))
}

func (s *service) Create(ctx context.Context, req *models.ShipmentRequest) (*models.Shipment, error) {
	var shipment models.Shipment
	if err := s.client.Post(ctx, "/shipments/", req, &shipment); err != nil {
		return nil, err
	}

	s.logger.Info("shipment created", zap.String("shipment_id", shipment.ID), zap.String("quote_id", req.QuoteID))
	return &shipment, nil
}

func (s *service) Update(ctx context.Context, req *models.ShipmentRequest) (*models.Shipment, error) {
	if !req.IsUpdate() {
		return nil, ErrMissingShipmentID
	}

	var shipment models.Shipment
	if err := s.client.Patch(ctx, shipmentPath(req.ID), req, &shipment); err != nil {
		return nil, err
	}

	s.logger.Info("shipment updated", zap.String("shipment_id", shipment.ID), zap.String("quote_id", req.QuoteID))
	return &shipment, nil
}

func (s *service) Get(ctx context.Context, id string) (*models.Shipment, error) {
	if id == "" {
		return nil, ErrMissingShipmentID
	}

	var shipment models.Shipment
	if err := s.client.Get(ctx, shipmentPath(id), &shipment); err != nil {
		return nil, err
	}
	return &shipment, nil
}

func (s *service) Track(ctx context.Context, code string) (*models.TrackingInfo, error) {
	var info models.TrackingInfo
	if err := s.client.Get(ctx, fmt.Sprintf("/shipments/%s/track/", url.PathEscape(code)), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *service) UpdatePaymentMethod(ctx context.Context, id, paymentMethodID string) (*models.Shipment, error) {
	if id == "" {
		return nil, ErrMissingShipmentID
	}

	body := map[string]string{"payment_method_id": paymentMethodID}

	var shipment models.Shipment
	if err := s.client.Patch(ctx, shipmentPath(id), body, &shipment); err != nil {
		return nil, fmt.Errorf("failed to set payment method on shipment %s: %w", id, err)
	}
	return &shipment, nil
}
