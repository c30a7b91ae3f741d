package googleads

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Credentials mirrors the keys of a google-ads.yaml file.
type Credentials struct {
	DeveloperToken  string     `yaml:"developer_token"`
	ClientID        string     `yaml:"client_id"`
	ClientSecret    string     `yaml:"client_secret"`
	RefreshToken    string     `yaml:"refresh_token"`
	LoginCustomerID CustomerID `yaml:"login_customer_id"`
}

// CustomerID is a Google Ads customer id without dashes. It decodes from both
// quoted and bare YAML scalars.
type CustomerID string

func (id *CustomerID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: customer id must be a scalar", node.Line)
	}
	*id = NormalizeCustomerID(node.Value)
	return nil
}

// NormalizeCustomerID strips the dashes of the 123-456-7890 display form.
func NormalizeCustomerID(s string) CustomerID {
	return CustomerID(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))
}

// LoadCredentials reads a google-ads.yaml file.
func LoadCredentials(path string) (Credentials, error) {
	if path == "" {
		return Credentials{}, errors.New("google ads yaml location is not set (GOOGLE_ADS_YAML_LOCATION)")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("error initializing google ads client: %w", err)
	}
	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("error initializing google ads client: parse %s: %w", path, err)
	}
	return creds, creds.validate()
}

func (c Credentials) validate() error {
	var missing []string
	if c.DeveloperToken == "" {
		missing = append(missing, "developer_token")
	}
	if c.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if c.RefreshToken == "" {
		missing = append(missing, "refresh_token")
	}
	if len(missing) > 0 {
		return fmt.Errorf("google ads credentials missing %s", strings.Join(missing, ", "))
	}
	return nil
}
