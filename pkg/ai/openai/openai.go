package openai

import (
	"sync"

	"github.com/OFFIS-RIT/pedigree/backend/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/semaphore"
)

const defaultMaxConcurrentRequests = 8

// PedigreeOpenAIClient implements ai.PedigreeAIClient for OpenAI compatible
// APIs. Chat and vision requests may go to different endpoints.
//
// A PedigreeOpenAIClient should be created using NewPedigreeOpenAIClient.
type PedigreeOpenAIClient struct {
	chatModel       string
	extractionModel string
	imageModel      string

	chatURL string

	reqLock *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient  *openai.Client
	ImageClient *openai.Client
}

// NewPedigreeOpenAIClientParams defines the configuration parameters for
// creating a new PedigreeOpenAIClient.
//
// ChatURL and ChatKey configure the chat/completion API endpoint. An empty
// ChatURL targets api.openai.com. ImageURL and ImageKey default to the chat
// endpoint.
type NewPedigreeOpenAIClientParams struct {
	ChatModel       string
	ExtractionModel string
	ImageModel      string

	ChatURL  string
	ChatKey  string
	ImageURL string
	ImageKey string

	MaxConcurrentRequests int64
}

// NewPedigreeOpenAIClient creates and returns a new client.
//
// Example:
//
//	client := openai.NewPedigreeOpenAIClient(openai.NewPedigreeOpenAIClientParams{
//		ChatModel: "gpt-4o-mini",
//		ChatKey:   os.Getenv("OPENAI_API_KEY"),
//	})
func NewPedigreeOpenAIClient(
	params NewPedigreeOpenAIClientParams,
) *PedigreeOpenAIClient {
	imageURL, imageKey := params.ImageURL, params.ImageKey
	if imageKey == "" {
		imageURL, imageKey = params.ChatURL, params.ChatKey
	}

	extractionModel := params.ExtractionModel
	if extractionModel == "" {
		extractionModel = params.ChatModel
	}
	imageModel := params.ImageModel
	if imageModel == "" {
		imageModel = params.ChatModel
	}

	maxReq := params.MaxConcurrentRequests
	if maxReq <= 0 {
		maxReq = defaultMaxConcurrentRequests
	}

	return &PedigreeOpenAIClient{
		chatModel:       params.ChatModel,
		extractionModel: extractionModel,
		imageModel:      imageModel,

		chatURL: params.ChatURL,

		reqLock: semaphore.NewWeighted(maxReq),

		ChatClient:  newOpenaiClient(params.ChatURL, params.ChatKey),
		ImageClient: newOpenaiClient(imageURL, imageKey),
	}
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}

// GetMetrics returns the metrics accumulated by all requests.
func (c *PedigreeOpenAIClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}

func (c *PedigreeOpenAIClient) modifyMetrics(m ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	c.metrics.Add(m)
}

var _ ai.PedigreeAIClient = (*PedigreeOpenAIClient)(nil)
