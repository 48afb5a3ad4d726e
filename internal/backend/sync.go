package backend

import (
	"context"
)

// Integration is one connectable external service.
type Integration struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Glyph     string `json:"glyph,omitempty"`
	Connected bool   `json:"connected"`
}

// SyncUser identifies the sync account for this desktop.
type SyncUser struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

// SyncUserToken issues (or returns) the sync user token.
func (c *Client) SyncUserToken(ctx context.Context) (*SyncUser, error) {
	var out SyncUser
	if err := c.postJSON(ctx, "sync.token", "/api/sync/user-token", map[string]string{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Integrations fetches the integration catalog.
func (c *Client) Integrations(ctx context.Context) ([]Integration, error) {
	var out struct {
		Success      bool          `json:"success"`
		Integrations []Integration `json:"integrations"`
	}
	if err := c.getJSON(ctx, "sync.integrations", "/api/sync/integrations", nil, &out); err != nil {
		return nil, err
	}
	return out.Integrations, nil
}

// IntegrationLink returns the external connect URL for an integration.
func (c *Client) IntegrationLink(ctx context.Context, integrationID, token string) (string, error) {
	body := map[string]string{"integration_id": integrationID, "token": token}
	var out struct {
		URL string `json:"url"`
	}
	if err := c.postJSON(ctx, "sync.link", "/api/sync/integration-link", body, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

// ConnectedIntegrations lists the integrations connected for a user.
func (c *Client) ConnectedIntegrations(ctx context.Context, userID string) ([]Integration, error) {
	var out struct {
		Success      bool          `json:"success"`
		Integrations []Integration `json:"integrations"`
	}
	query := map[string]string{"user_id": userID}
	if err := c.getJSON(ctx, "sync.connected", "/api/sync/connected", query, &out); err != nil {
		return nil, err
	}
	return out.Integrations, nil
}
