package backend

import (
	"context"
)

// NavigateResponse is the proxied result of one navigation.
type NavigateResponse struct {
	Success   bool   `json:"success"`
	URL       string `json:"url"`
	ProxyURL  string `json:"proxy_url"`
	Title     string `json:"title"`
	AgentGoal string `json:"agent_goal,omitempty"`
}

// NavigateResult is one entry of a batched navigation.
type NavigateResult struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
	ProxyURL  string `json:"proxy_url"`
	AgentGoal string `json:"agent_goal,omitempty"`
}

// AgentLog is one status line from the browsing agent.
type AgentLog struct {
	Action    string `json:"action"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Progress  string `json:"progress,omitempty"`
	Next      string `json:"next,omitempty"`
}

// AgentStatus is the agent overlay state for one session.
type AgentStatus struct {
	Status string     `json:"status"`
	Logs   []AgentLog `json:"logs"`
}

// Terminal reports whether the agent has finished.
func (s *AgentStatus) Terminal() bool {
	return s.Status == "completed" || s.Status == "error"
}

// Navigate loads a URL in the given browser session.
func (c *Client) Navigate(ctx context.Context, url, sessionID, agentGoal string) (*NavigateResponse, error) {
	body := map[string]string{"url": url, "session_id": sessionID}
	if agentGoal != "" {
		body["agent_goal"] = agentGoal
	}
	var out NavigateResponse
	if err := c.postJSON(ctx, "browser.navigate", "/api/browser/navigate", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NavigateMultiple opens sessions for a batch of URLs in one call.
func (c *Client) NavigateMultiple(ctx context.Context, urls, agentGoals []string) ([]NavigateResult, error) {
	body := map[string]any{"urls": urls, "agent_goals": agentGoals}
	var out struct {
		Success bool             `json:"success"`
		Results []NavigateResult `json:"results"`
	}
	if err := c.postJSON(ctx, "browser.navigate_multiple", "/api/browser/navigate-multiple", body, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// BrowserAction performs history navigation ("back" or "forward").
func (c *Client) BrowserAction(ctx context.Context, action, sessionID string) (*NavigateResponse, error) {
	body := map[string]string{"action": action, "session_id": sessionID}
	var out NavigateResponse
	if err := c.postJSON(ctx, "browser.action", "/api/browser/action", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BrowserControl sends a free-form command to the session.
func (c *Client) BrowserControl(ctx context.Context, command, sessionID string) (*NavigateResponse, error) {
	body := map[string]string{"command": command, "session_id": sessionID}
	var out struct {
		Success bool `json:"success"`
		Data    struct {
			ProxyURL string `json:"proxy_url"`
			URL      string `json:"url"`
		} `json:"data"`
	}
	if err := c.postJSON(ctx, "browser.control", "/api/browser/control", body, &out); err != nil {
		return nil, err
	}
	return &NavigateResponse{
		Success:  out.Success,
		URL:      out.Data.URL,
		ProxyURL: out.Data.ProxyURL,
	}, nil
}

// AgentStatus fetches the browsing agent's state for a session.
func (c *Client) AgentStatus(ctx context.Context, sessionID string) (*AgentStatus, error) {
	var out AgentStatus
	if err := c.getJSON(ctx, "browser.agent", "/api/browser/agent/"+sessionID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
