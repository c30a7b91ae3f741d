package googleads

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAds serves the OAuth token endpoint and a scripted Google Ads API.
type fakeAds struct {
	t        *testing.T
	mu       sync.Mutex
	bodies   map[string]map[string]any
	handlers map[string]http.HandlerFunc
}

func newFakeAds(t *testing.T) (*fakeAds, *httptest.Server) {
	f := &fakeAds{t: t, bodies: map[string]map[string]any{}, handlers: map[string]http.HandlerFunc{}}
	server := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(server.Close)
	return f, server
}

func (f *fakeAds) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/token" {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "ya29.test", "token_type": "Bearer", "expires_in": 3600}`))
		return
	}
	assert.Equal(f.t, "Bearer ya29.test", r.Header.Get("Authorization"))
	assert.Equal(f.t, "dev-token", r.Header.Get("developer-token"))
	assert.Equal(f.t, "1112223333", r.Header.Get("login-customer-id"))

	var body map[string]any
	assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
	f.mu.Lock()
	f.bodies[r.URL.Path] = body
	h, ok := f.handlers[r.URL.Path]
	f.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

func (f *fakeAds) on(path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[path] = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func testCreds() Credentials {
	return Credentials{
		DeveloperToken:  "dev-token",
		ClientID:        "client-id",
		ClientSecret:    "client-secret",
		RefreshToken:    "refresh",
		LoginCustomerID: "1112223333",
	}
}

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	c, err := New(testCreds(), Options{BaseURL: server.URL, TokenURL: server.URL + "/token"})
	require.NoError(t, err)
	return c
}

func TestCreateAccount(t *testing.T) {
	fake, server := newFakeAds(t)
	fake.on("/v18/customers/1112223333:createCustomerClient", http.StatusOK,
		`{"resourceName": "customers/9876543210"}`)

	id, err := newTestClient(t, server).CreateAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "9876543210", id)

	cc := fake.bodies["/v18/customers/1112223333:createCustomerClient"]["customerClient"].(map[string]any)
	assert.True(t, strings.HasPrefix(cc["descriptiveName"].(string), "Account "))
	assert.Equal(t, "USD", cc["currencyCode"])
	assert.Equal(t, "America/New_York", cc["timeZone"])
}

func TestCreateAccount_RequiresManager(t *testing.T) {
	creds := testCreds()
	creds.LoginCustomerID = ""
	c, err := New(creds, Options{})
	require.NoError(t, err)

	_, err = c.CreateAccount(context.Background())
	assert.Error(t, err)
}

func TestCreateCampaign(t *testing.T) {
	fake, server := newFakeAds(t)
	fake.on("/v18/customers/4445556666/campaignBudgets:mutate", http.StatusOK,
		`{"results": [{"resourceName": "customers/4445556666/campaignBudgets/77"}]}`)
	fake.on("/v18/customers/4445556666/campaigns:mutate", http.StatusOK,
		`{"results": [{"resourceName": "customers/4445556666/campaigns/88"}]}`)

	resource, err := newTestClient(t, server).CreateCampaign(context.Background(), "444-555-6666", "Test Campaign")
	require.NoError(t, err)
	assert.Equal(t, "customers/4445556666/campaigns/88", resource)

	budgetOps := fake.bodies["/v18/customers/4445556666/campaignBudgets:mutate"]["operations"].([]any)
	budget := budgetOps[0].(map[string]any)["create"].(map[string]any)
	assert.True(t, strings.HasPrefix(budget["name"].(string), "Test Campaign Budget "))
	assert.Equal(t, "1000000", budget["amountMicros"])
	assert.Equal(t, "STANDARD", budget["deliveryMethod"])

	campaignOps := fake.bodies["/v18/customers/4445556666/campaigns:mutate"]["operations"].([]any)
	camp := campaignOps[0].(map[string]any)["create"].(map[string]any)
	assert.Equal(t, "Test Campaign", camp["name"])
	assert.Equal(t, "SEARCH", camp["advertisingChannelType"])
	assert.Equal(t, "PAUSED", camp["status"])
	assert.Equal(t, "customers/4445556666/campaignBudgets/77", camp["campaignBudget"])
	assert.Equal(t, map[string]any{"enhancedCpcEnabled": false}, camp["manualCpc"])
	assert.Equal(t, map[string]any{
		"targetGoogleSearch":         true,
		"targetSearchNetwork":        true,
		"targetContentNetwork":       false,
		"targetPartnerSearchNetwork": false,
	}, camp["networkSettings"])
}

func TestCreateCampaign_DefaultNameAndBudgetFailure(t *testing.T) {
	fake, server := newFakeAds(t)
	fake.on("/v18/customers/4445556666/campaignBudgets:mutate", http.StatusBadRequest, `{
		"error": {
			"code": 400,
			"message": "Request contains an invalid argument.",
			"status": "INVALID_ARGUMENT",
			"details": [{
				"@type": "type.googleapis.com/google.ads.googleads.v18.errors.GoogleAdsFailure",
				"errors": [{
					"errorCode": {"campaignBudgetError": "NON_MULTIPLE_OF_MINIMUM_CURRENCY_UNIT"},
					"message": "The budget amount is invalid.",
					"location": {"fieldPathElements": [{"fieldName": "operations", "index": 0}, {"fieldName": "create"}, {"fieldName": "amount_micros"}]}
				}],
				"requestId": "req-123"
			}]
		}
	}`)

	_, err := newTestClient(t, server).CreateCampaign(context.Background(), "4445556666", "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Request with ID 'req-123' failed with status 'INVALID_ARGUMENT'\n"+
		"\tError: The budget amount is invalid.\n"+
		"\t\tField: operations\n"+
		"\t\tField: create\n"+
		"\t\tField: amount_micros", err.Error())

	budget := fake.bodies["/v18/customers/4445556666/campaignBudgets:mutate"]["operations"].([]any)[0].(map[string]any)["create"].(map[string]any)
	assert.True(t, strings.HasPrefix(budget["name"].(string), "Campaign Budget "))
	_, called := fake.bodies["/v18/customers/4445556666/campaigns:mutate"]
	assert.False(t, called)
}

func TestCreateCampaign_RequiresCustomerID(t *testing.T) {
	_, server := newFakeAds(t)
	_, err := newTestClient(t, server).CreateCampaign(context.Background(), " ", "x")
	assert.Error(t, err)
}

func TestDecodeFailure_NonJSON(t *testing.T) {
	err := decodeFailure(http.StatusBadGateway, []byte("upstream down"))
	assert.Equal(t, "Request with ID '' failed with status 'Bad Gateway'\n\tError: upstream down", err.Error())
}

func TestLoadCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "google-ads.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`developer_token: dev-token
client_id: client-id
client_secret: client-secret
refresh_token: refresh
login_customer_id: 111-222-3333
use_proto_plus: True
`), 0o600))

	creds, err := LoadCredentials(path)
	require.NoError(t, err)
	assert.Equal(t, testCreds(), creds)

	bare := filepath.Join(t.TempDir(), "bare.yaml")
	require.NoError(t, os.WriteFile(bare, []byte("developer_token: d\nclient_id: c\nclient_secret: s\nrefresh_token: r\nlogin_customer_id: 1112223333\n"), 0o600))
	creds, err = LoadCredentials(bare)
	require.NoError(t, err)
	assert.Equal(t, CustomerID("1112223333"), creds.LoginCustomerID)
}

func TestLoadCredentials_Errors(t *testing.T) {
	_, err := LoadCredentials("")
	assert.Error(t, err)

	_, err = LoadCredentials(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "error initializing google ads client")

	partial := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(partial, []byte("developer_token: d\n"), 0o600))
	_, err = LoadCredentials(partial)
	assert.ErrorContains(t, err, "client_id, client_secret, refresh_token")
}
