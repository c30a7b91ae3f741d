package googleads

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultCampaignName = "Campaign"
	// DailyBudgetMicros is 1 USD.
	DailyBudgetMicros int64 = 1_000_000
)

type campaignBudget struct {
	Name           string `json:"name"`
	AmountMicros   int64  `json:"amountMicros,string"`
	DeliveryMethod string `json:"deliveryMethod"`
}

type manualCpc struct {
	EnhancedCpcEnabled bool `json:"enhancedCpcEnabled"`
}

type networkSettings struct {
	TargetGoogleSearch         bool `json:"targetGoogleSearch"`
	TargetSearchNetwork        bool `json:"targetSearchNetwork"`
	TargetContentNetwork       bool `json:"targetContentNetwork"`
	TargetPartnerSearchNetwork bool `json:"targetPartnerSearchNetwork"`
}

type campaign struct {
	Name                   string          `json:"name"`
	AdvertisingChannelType string          `json:"advertisingChannelType"`
	Status                 string          `json:"status"`
	ManualCpc              manualCpc       `json:"manualCpc"`
	CampaignBudget         string          `json:"campaignBudget"`
	NetworkSettings        networkSettings `json:"networkSettings"`
}

type operation[T any] struct {
	Create T `json:"create"`
}

type mutateRequest[T any] struct {
	Operations []operation[T] `json:"operations"`
}

// CreateCampaign creates a budget and a paused search campaign using it, and
// returns the campaign resource name. An empty name uses DefaultCampaignName.
func (c *Client) CreateCampaign(ctx context.Context, customerID, name string) (string, error) {
	id := string(NormalizeCustomerID(customerID))
	if id == "" {
		return "", fmt.Errorf("customer id is required")
	}
	if name == "" {
		name = DefaultCampaignName
	}

	budgetReq := mutateRequest[campaignBudget]{Operations: []operation[campaignBudget]{{Create: campaignBudget{
		Name:           fmt.Sprintf("%s Budget %s", name, uuid.NewString()),
		AmountMicros:   DailyBudgetMicros,
		DeliveryMethod: "STANDARD",
	}}}}
	var budgetResp mutateResponse
	if err := c.post(ctx, fmt.Sprintf("customers/%s/campaignBudgets:mutate", id), budgetReq, &budgetResp); err != nil {
		return "", err
	}
	budget, err := budgetResp.first()
	if err != nil {
		return "", fmt.Errorf("create campaign budget: %w", err)
	}

	campaignReq := mutateRequest[campaign]{Operations: []operation[campaign]{{Create: campaign{
		Name:                   name,
		AdvertisingChannelType: "SEARCH",
		Status:                 "PAUSED",
		ManualCpc:              manualCpc{EnhancedCpcEnabled: false},
		CampaignBudget:         budget,
		NetworkSettings: networkSettings{
			TargetGoogleSearch:  true,
			TargetSearchNetwork: true,
		},
	}}}}
	var campaignResp mutateResponse
	if err := c.post(ctx, fmt.Sprintf("customers/%s/campaigns:mutate", id), campaignReq, &campaignResp); err != nil {
		return "", err
	}
	resource, err := campaignResp.first()
	if err != nil {
		return "", fmt.Errorf("create campaign: %w", err)
	}
	c.logger.Info("google ads campaign created",
		zap.String("customer_id", id), zap.String("campaign", resource), zap.String("budget", budget))
	return resource, nil
}
