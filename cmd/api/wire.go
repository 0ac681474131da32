//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	checkout "github.com/Jaysins/ohship-tenant-sub001"
	"github.com/Jaysins/ohship-tenant-sub001/address"
	"github.com/Jaysins/ohship-tenant-sub001/category"
	"github.com/Jaysins/ohship-tenant-sub001/config"
	"github.com/Jaysins/ohship-tenant-sub001/driver"
	"github.com/Jaysins/ohship-tenant-sub001/handlers"
	"github.com/Jaysins/ohship-tenant-sub001/payment_method"
	"github.com/Jaysins/ohship-tenant-sub001/quote"
	"github.com/Jaysins/ohship-tenant-sub001/server"
	"github.com/Jaysins/ohship-tenant-sub001/shipment"
)

func InitializeCheckoutServer() (*server.Server, error) {

	wire.Build(
		config.ProvideApplicationConfig,
		config.NewLogger,
		config.ProvideRedis,
		config.ProvideEmber,
		config.ProvideIgnite,
		config.ProvideAPIClient,
		config.ProvideTenantID,
		config.ProvideSessionProvider,
		config.ProvideLocationSource,
		config.ProvideInitiators,
		driver.NewBufferPool,
		quote.NewService,
		shipment.NewService,
		category.NewService,
		address.NewService,
		payment_method.NewRepository,
		payment_method.NewBackendInitiator,
		payment_method.NewService,
		checkout.ProvideOptions,
		checkout.NewEngine,
		checkout.ProvideCheckout,
		handlers.NewCheckoutHandler,
		handlers.NewLookupHandler,
		server.NewServer,
	)

	return &server.Server{}, nil
}
