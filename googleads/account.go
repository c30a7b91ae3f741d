package googleads

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultCurrencyCode = "USD"
	DefaultTimeZone     = "America/New_York"
)

type customerClient struct {
	DescriptiveName string `json:"descriptiveName"`
	CurrencyCode    string `json:"currencyCode"`
	TimeZone        string `json:"timeZone"`
}

type createCustomerClientRequest struct {
	CustomerClient customerClient `json:"customerClient"`
}

type createCustomerClientResponse struct {
	ResourceName string `json:"resourceName"`
}

// CreateAccount creates a client account under the manager account and returns
// its customer id.
func (c *Client) CreateAccount(ctx context.Context) (string, error) {
	if c.loginCustomerID == "" {
		return "", errors.New("manager customer id is not set (GOOGLE_ADS_LOGIN_CUSTOMER_ID)")
	}
	req := createCustomerClientRequest{CustomerClient: customerClient{
		DescriptiveName: "Account " + uuid.NewString(),
		CurrencyCode:    DefaultCurrencyCode,
		TimeZone:        DefaultTimeZone,
	}}
	var resp createCustomerClientResponse
	path := fmt.Sprintf("customers/%s:createCustomerClient", c.loginCustomerID)
	if err := c.post(ctx, path, req, &resp); err != nil {
		return "", err
	}
	if resp.ResourceName == "" {
		return "", errors.New("create customer client: empty resource name")
	}
	id := resp.ResourceName[strings.LastIndex(resp.ResourceName, "/")+1:]
	c.logger.Info("google ads account created", zap.String("customer_id", id), zap.String("name", req.CustomerClient.DescriptiveName))
	return id, nil
}
