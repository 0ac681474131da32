package payment_method

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Jaysins/ohship-tenant-sub001/driver"
	"github.com/Jaysins/ohship-tenant-sub001/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.TenantPaymentMethod, error)
	Invalidate(ctx context.Context) error
}

type repository struct {
	client   driver.APIClient
	cache    driver.Cache
	tenantID string
	logger   *zap.Logger
}

func NewRepository(client driver.APIClient, cache driver.Cache, tenantID string, logger *zap.Logger) Repository {
	return &repository{
		client:   client,
		cache:    cache,
		tenantID: tenantID,
		logger:   logger,
	}
}

func (r *repository) cacheKey() string {
	return fmt.Sprintf("payment_methods:tenant:%s", r.tenantID)
}

func (r *repository) List(ctx context.Context) ([]models.TenantPaymentMethod, error) {
	cacheKey := r.cacheKey()

	// 嘗試從緩存中獲取
	var methods []models.TenantPaymentMethod
	found, err := r.cache.Get(ctx, cacheKey, &methods)
	if err != nil {
		r.logger.Warn("Failed to get payment methods from cache", zap.Error(err), zap.String("tenantID", r.tenantID))
	} else if found {
		return methods, nil
	}

	if err = r.client.Get(ctx, "/payment-methods/", &methods); err != nil {
		r.logger.Error("error listing payment methods", zap.Error(err))
		return nil, err
	}

	if err = r.cache.Set(ctx, cacheKey, methods); err != nil {
		r.logger.Warn("Failed to cache payment methods", zap.Error(err), zap.String("tenantID", r.tenantID))
	}

	return methods, nil
}

func (r *repository) Invalidate(ctx context.Context) error {
	if err := r.cache.Delete(ctx, r.cacheKey()); err != nil {
		return fmt.Errorf("failed to invalidate payment methods cache: %w", err)
	}
	return nil
}
