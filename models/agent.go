package models

type AgentMessage struct {
	Role        string       `json:"role"`
	Content     string       `json:"content"`
	ToolCalls   []ToolCall   `json:"tool_calls,omitempty"`
	ToolResults []ToolResult `json:"tool_results,omitempty"`
}

type ToolCall struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

type ToolResult struct {
	ToolCallID string `json:"tool_call_id"`
	Content    string `json:"content"`
}

type ChatRequest struct {
	SessionID string         `json:"session_id,omitempty"`
	Messages  []AgentMessage `json:"messages"`
}

type ChatResponse struct {
	SessionID string         `json:"session_id"`
	Messages  []AgentMessage `json:"messages"`
}
