// Package llm constructs Gemini-backed collaborator implementations.
// Clients are built per credential: a turn that carries its own credential
// gets a fresh handle, and nothing mutates a shared process-wide client.
package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	"github.com/autostream-agent/server/internal/agent/chat"
	"github.com/autostream-agent/server/internal/agent/intent"
	"github.com/autostream-agent/server/internal/agent/kb"
	"github.com/autostream-agent/server/internal/agent/model"
	logx "github.com/autostream-agent/server/pkg/logger"
)

// Factory builds the model-backed collaborators for one credential.
type Factory struct {
	BaseURL    string
	Classifier model.ClassifierModelConfig
	Responder  model.ResponderModelConfig
	Prompt     model.PromptConfig
	Store      *kb.Store
}

// Set bundles the three model-backed collaborator implementations.
type Set struct {
	Classifier intent.Classifier
	Knowledge  kb.Responder
	Chat       chat.Responder
}

// Build constructs a genai client for the credential and the chat models on
// top of it. The returned Set is immutable after construction.
func (f *Factory) Build(ctx context.Context, apiKey string) (*Set, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if f.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = f.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	classifierModel, err := newChatModel(ctx, client, f.Classifier.Model, f.Classifier.Temperature, f.Classifier.MaxTokens)
	if err != nil {
		return nil, fmt.Errorf("error creating classifier model: %w", err)
	}

	responderModel, err := newChatModel(ctx, client, f.Responder.Model, f.Responder.Temperature, f.Responder.MaxTokens)
	if err != nil {
		return nil, fmt.Errorf("error creating responder model: %w", err)
	}

	return &Set{
		Classifier: intent.NewGeminiClassifier(classifierModel),
		Knowledge:  kb.NewGeminiResponder(responderModel, f.Store, f.Prompt),
		Chat:       chat.NewGeminiResponder(responderModel),
	}, nil
}

func newChatModel(ctx context.Context, client *genai.Client, name string, temperature float32, maxTokens int) (einomodel.BaseChatModel, error) {
	return gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       name,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
}
