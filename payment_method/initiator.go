package payment_method

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Jaysins/ohship-tenant-sub001/driver"
	"github.com/Jaysins/ohship-tenant-sub001/models"
)

type backendInitiator struct {
	client driver.APIClient
}

func NewBackendInitiator(client driver.APIClient) Initiator {
	return &backendInitiator{client: client}
}

type initiateBody struct {
	PaymentMethodID string `json:"payment_method_id"`
	models.Payer
}

func (i *backendInitiator) Initiate(ctx context.Context, req InitiateRequest) (*models.PaymentTransaction, error) {
	body := initiateBody{PaymentMethodID: req.Method.ID, Payer: req.Payer}

	var tx models.PaymentTransaction
	path := fmt.Sprintf("/payments/%s/initiate/", url.PathEscape(req.PaymentID))
	if err := i.client.Post(ctx, path, body, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}
