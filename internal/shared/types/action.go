package types

// ActionKind discriminates the structured actions the assistant backend can
// attach to a chat response.
type ActionKind string

const (
	ActionOpenApp         ActionKind = "open_app"
	ActionOpenSlideshow   ActionKind = "open_slideshow"
	ActionCloseAll        ActionKind = "close_all"
	ActionCloseWindow     ActionKind = "close_window"
	ActionMinimizeWindow  ActionKind = "minimize_window"
	ActionMaximizeWindow  ActionKind = "maximize_window"
	ActionCreateFile      ActionKind = "create_file"
	ActionDeleteFile      ActionKind = "delete_file"
	ActionFindFile        ActionKind = "find_file"
	ActionListFiles       ActionKind = "list_files"
	ActionComposeEmail    ActionKind = "compose_email"
	ActionNavigateBrowser ActionKind = "navigate_browser"
	ActionControlBrowser  ActionKind = "control_browser"
)

// AssistantResult is the chat backend's non-streaming response shape.
type AssistantResult struct {
	Response string                 `json:"response"`
	Action   ActionKind             `json:"action,omitempty"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// StreamEventType discriminates incremental chat stream events.
type StreamEventType string

const (
	StreamProgress StreamEventType = "progress"
	StreamComplete StreamEventType = "complete"
	StreamError    StreamEventType = "error"
)

// StreamEvent is one decoded event from a text/event-stream chat response.
type StreamEvent struct {
	Type    StreamEventType `json:"type"`
	Message string          `json:"message"`
}

// Terminal reports whether the event ends the exchange.
func (e StreamEvent) Terminal() bool {
	return e.Type == StreamComplete || e.Type == StreamError
}

// String and array extraction helpers for action payloads. Action data
// arrives as decoded JSON, so shapes are loose; missing or mistyped
// fields read as zero values.

// DataString extracts a string field from an action payload.
func DataString(data map[string]interface{}, key string) string {
	if data == nil {
		return ""
	}
	s, _ := data[key].(string)
	return s
}

// DataInt extracts a numeric field from an action payload. Decoded JSON
// numbers arrive as float64.
func DataInt(data map[string]interface{}, key string) int {
	if data == nil {
		return 0
	}
	switch v := data[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// DataBool extracts a bool field from an action payload.
func DataBool(data map[string]interface{}, key string) bool {
	if data == nil {
		return false
	}
	b, _ := data[key].(bool)
	return b
}

// DataStrings extracts a field that may be a string or a []string-ish array.
func DataStrings(data map[string]interface{}, key string) []string {
	if data == nil {
		return nil
	}
	switch v := data[key].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
