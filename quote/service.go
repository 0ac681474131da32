package quote

import (
	"context"

	"go.uber.org/zap"

	"github.com/Jaysins/ohship-tenant-sub001/driver"
	"github.com/Jaysins/ohship-tenant-sub001/models"
)

type Service interface {
	Fetch(ctx context.Context, req *models.QuoteRequest) (*models.QuoteResponse, error)
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

func (s *service) Fetch(ctx context.Context, req *models.QuoteRequest) (*models.QuoteResponse, error) {
	var resp models.QuoteResponse
	if err := s.client.Post(ctx, "/quotes/", req, &resp); err != nil {
		return nil, err
	}

	s.logger.Info("quotes fetched",
		zap.String("origin", req.Origin.Country+"/"+req.Origin.State),
		zap.String("destination", req.Destination.Country+"/"+req.Destination.State),
		zap.Int("rates", len(resp.Rates)))

	return &resp, nil
}
