package model

// ================ Config ================
type SessionConfig struct {
	TTL   string `envconfig:"SESSION_TTL" default:"30m"`
	Store string `envconfig:"SESSION_STORE" default:"memory"`
	Context struct {
		KnowledgeTurns int `envconfig:"SESSION_CONTEXT_KNOWLEDGE_TURNS" default:"5"`
		ChatTurns      int `envconfig:"SESSION_CONTEXT_CHAT_TURNS" default:"7"`
	}
}

type ClassifierModelConfig struct {
	Model       string  `envconfig:"CLASSIFIER_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"CLASSIFIER_MAX_TOKENS" default:"200"`
	Temperature float32 `envconfig:"CLASSIFIER_TEMPERATURE" default:"0.0"`
}

type ResponderModelConfig struct {
	Model       string  `envconfig:"RESPONDER_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"RESPONDER_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"RESPONDER_TEMPERATURE" default:"0.4"`
}

type PromptConfig struct {
	ProductName string `envconfig:"PROMPT_PRODUCT_NAME" default:"AutoStream"`
	ProductLine string `envconfig:"PROMPT_PRODUCT_LINE" default:"automated video editing tools for content creators"`
}

type CollaboratorConfig struct {
	Timeout string `envconfig:"COLLABORATOR_TIMEOUT" default:"15s"`
}
