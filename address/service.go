package address

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Jaysins/ohship-tenant-sub001/driver"
	"github.com/Jaysins/ohship-tenant-sub001/models"
	"github.com/Jaysins/ohship-tenant-sub001/models/enum"
)

var ErrAddressNotFound = errors.New("saved address not found")

type Service interface {
	List(ctx context.Context) ([]models.SavedAddress, error)
	Default(ctx context.Context) (*models.SavedAddress, error)
}

type service struct {
	client driver.APIClient
	logger *zap.Logger
}

func NewService(client driver.APIClient, logger *zap.Logger) Service {
	return &service{client: client, logger: logger}
}

func (s *service) List(ctx context.Context) ([]models.SavedAddress, error) {
	var addresses []models.SavedAddress
	if err := s.client.Get(ctx, "/addresses/", &addresses); err != nil {
		s.logger.Error("error listing saved addresses", zap.Error(err))
		return nil, err
	}
	return addresses, nil
}

// Default returns the address flagged as default, or ErrAddressNotFound.
func (s *service) Default(ctx context.Context) (*models.SavedAddress, error) {
	addresses, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range addresses {
		if addresses[i].IsDefault {
			return &addresses[i], nil
		}
	}
	return nil, ErrAddressNotFound
}

// Find picks a saved address by id.
func Find(addresses []models.SavedAddress, id string) (*models.SavedAddress, error) {
	for i := range addresses {
		if addresses[i].ID == id {
			return &addresses[i], nil
		}
	}
	return nil, ErrAddressNotFound
}

// Apply copies a saved address into one party of the draft. Choosing an
// already saved address turns off "save this address" for that party.
func Apply(draft *models.ShipmentDraft, party enum.Party, saved models.SavedAddress) error {
	if err := draft.SetAddress(party, saved.AddressInput); err != nil {
		return err
	}
	return draft.SetSaveAddress(party, false)
}
