package shared

import "time"

// TokenUsage is the token accounting reported by a provider for one call.
// Providers that do not report a total leave TotalTokens at zero.
type TokenUsage struct {
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Total prefers the provider's total and falls back to prompt+completion.
func (u TokenUsage) Total() int {
	if u.TotalTokens > 0 {
		return u.TotalTokens
	}
	return u.PromptTokens + u.CompletionTokens
}

// Empty reports a call that consumed no tokens, such as a skipped or failed request.
func (u TokenUsage) Empty() bool {
	return u.Total() == 0
}

// AgentMeta describes one advisor call for the usage metrics.
type AgentMeta struct {
	AgentName string
	Usage     TokenUsage
	Latency   time.Duration
}
