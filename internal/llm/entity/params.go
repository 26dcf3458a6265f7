package entity

// LLMParams are the sampling parameters applied to every provider.
// Zero values and nil pointers keep the provider defaults.
type LLMParams struct {
	Temperature    *float32 `json:"temperature,omitempty"`
	MaxTokens      int      `json:"max_tokens,omitempty"`
	TopP           *float32 `json:"top_p,omitempty"`
	TopK           *int32   `json:"top_k,omitempty"`
	EnableThinking *bool    `json:"enable_thinking,omitempty"`
}

// Connection says which provider and model to talk to and how to reach it.
type Connection struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	APIKey   string `json:"-"`
	BaseURL  string `json:"base_url,omitempty"`
}

// ProviderDefaults are the values a provider falls back to when the
// configuration leaves them empty.
type ProviderDefaults struct {
	BaseURL string
	// APIKey is usually an "${ENV_VAR}" reference. Empty means the provider
	// does not need a key.
	APIKey string
	Model  string
}
