package openai

import (
	"context"

	"github.com/OFFIS-RIT/pedigree/backend/pkg/loader"

	"github.com/openai/openai-go/v3"
)

// GenerateImageDescription sends a vision request with a base64-encoded image
// and returns the model's textual description based on the provided prompt.
func (c *PedigreeOpenAIClient) GenerateImageDescription(
	ctx context.Context,
	prompt string,
	image loader.Base64File,
) (string, error) {
	body := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.imageModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt),
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: image.DataURL(),
				}),
			}),
		},
		Temperature: openai.Float(0),
	}

	return c.complete(ctx, c.ImageClient, body)
}
