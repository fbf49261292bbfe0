package config

import (
	"fmt"

	"github.com/OFFIS-RIT/pedigree/backend/pkg/ai"
	oai "github.com/OFFIS-RIT/pedigree/backend/pkg/ai/ollama"
	gai "github.com/OFFIS-RIT/pedigree/backend/pkg/ai/openai"
)

// NewAIClient creates the model client selected by AI_ADAPTER. It returns
// nil without error when AI is disabled.
func NewAIClient(cfg Config) (ai.PedigreeAIClient, error) {
	switch cfg.AIAdapter {
	case "", "none":
		return nil, nil
	case "ollama":
		client, err := oai.NewPedigreeOllamaClient(oai.NewPedigreeOllamaClientParams{
			ChatModel:       cfg.ChatModel,
			ExtractionModel: cfg.ExtractModel,
			ImageModel:      cfg.ImageModel,

			BaseURL: cfg.ChatURL,
			ApiKey:  cfg.ChatKey,

			MaxConcurrentRequests: int64(cfg.ParallelReq),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama client: %w", err)
		}
		return client, nil
	case "openai":
		return gai.NewPedigreeOpenAIClient(gai.NewPedigreeOpenAIClientParams{
			ChatModel:       cfg.ChatModel,
			ExtractionModel: cfg.ExtractModel,
			ImageModel:      cfg.ImageModel,

			ChatURL:  cfg.ChatURL,
			ChatKey:  cfg.ChatKey,
			ImageURL: cfg.ImageURL,
			ImageKey: cfg.ImageKey,

			MaxConcurrentRequests: int64(cfg.ParallelReq),
		}), nil
	default:
		return nil, fmt.Errorf("unknown AI adapter %q", cfg.AIAdapter)
	}
}
