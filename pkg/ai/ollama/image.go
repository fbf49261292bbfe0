package ollama

import (
	"context"
	"encoding/base64"

	"github.com/OFFIS-RIT/pedigree/backend/pkg/ai"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/loader"

	"github.com/ollama/ollama/api"
)

// GenerateImageDescription sends a vision chat request with a base64 image and
// returns the model's textual description.
func (c *PedigreeOllamaClient) GenerateImageDescription(
	ctx context.Context,
	prompt string,
	image loader.Base64File,
) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(image.Base64)
	if err != nil {
		return "", err
	}

	req := &api.ChatRequest{
		Model: c.imageModel,
		Messages: []api.Message{
			{Role: "system", Content: prompt},
			{
				Role:   ai.RoleUser,
				Images: []api.ImageData{raw},
			},
		},
		Options: map[string]any{"temperature": 0.0},
	}

	return c.chat(ctx, req)
}
