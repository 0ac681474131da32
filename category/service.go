package category

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Jaysins/ohship-tenant-sub001/apperrors"
	"github.com/Jaysins/ohship-tenant-sub001/driver"
	"github.com/Jaysins/ohship-tenant-sub001/models"
)

type Service interface {
	List(ctx context.Context) ([]models.Category, error)
	Find(ctx context.Context, id string) (*models.Category, error)
}

type service struct {
	client   driver.APIClient
	cache    driver.Cache
	tenantID string
	logger   *zap.Logger
}

func NewService(client driver.APIClient, cache driver.Cache, tenantID string, logger *zap.Logger) Service {
	return &service{
		client:   client,
		cache:    cache,
		tenantID: tenantID,
		logger:   logger,
	}
}

func (s *service) cacheKey() string {
	return fmt.Sprintf("categories:tenant:%s", s.tenantID)
}

func (s *service) List(ctx context.Context) ([]models.Category, error) {
	cacheKey := s.cacheKey()

	var categories []models.Category
	found, err := s.cache.Get(ctx, cacheKey, &categories)
	if err != nil {
		s.logger.Warn("Failed to get categories from cache", zap.Error(err), zap.String("tenantID", s.tenantID))
	} else if found {
		return categories, nil
	}

	if err = s.client.Get(ctx, "/categories/", &categories); err != nil {
		s.logger.Error("error listing categories", zap.Error(err))
		return nil, err
	}

	if err = s.cache.Set(ctx, cacheKey, categories); err != nil {
		s.logger.Warn("Failed to cache categories", zap.Error(err), zap.String("tenantID", s.tenantID))
	}

	return categories, nil
}

func (s *service) Find(ctx context.Context, id string) (*models.Category, error) {
	categories, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i], nil
		}
	}
	return nil, apperrors.NotFound(fmt.Sprintf("Category %s not found", id))
}
