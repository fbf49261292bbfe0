package ollama

import (
	"net/http"
	"net/url"
	"sync"

	"github.com/OFFIS-RIT/pedigree/backend/pkg/ai"

	"github.com/ollama/ollama/api"
	"golang.org/x/sync/semaphore"
)

const defaultMaxConcurrentRequests = 4

// PedigreeOllamaClient implements ai.PedigreeAIClient against an Ollama
// server. Requests are limited by a semaphore so a busy server is not
// flooded by parallel OCR jobs.
type PedigreeOllamaClient struct {
	chatModel       string
	extractionModel string
	imageModel      string

	reqLock *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	Client *api.Client
}

// NewPedigreeOllamaClientParams contains configuration options for creating a
// new PedigreeOllamaClient. An empty ExtractionModel or ImageModel falls back
// to ChatModel.
type NewPedigreeOllamaClientParams struct {
	ChatModel       string
	ExtractionModel string
	ImageModel      string

	BaseURL string
	ApiKey  string

	MaxConcurrentRequests int64
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so original request isn't modified
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewPedigreeOllamaClient creates an Ollama client. Without a BaseURL the
// server is taken from OLLAMA_HOST, as the ollama CLI does.
func NewPedigreeOllamaClient(
	params NewPedigreeOllamaClientParams,
) (*PedigreeOllamaClient, error) {
	var (
		cli *api.Client
		err error
	)

	if params.BaseURL == "" {
		cli, err = api.ClientFromEnvironment()
		if err != nil {
			return nil, err
		}
	} else {
		u, err := url.Parse(params.BaseURL)
		if err != nil {
			return nil, err
		}
		httpClient := http.DefaultClient
		if params.ApiKey != "" {
			httpClient = &http.Client{
				Transport: &headerTransport{
					headers: map[string]string{
						"Authorization": "Bearer " + params.ApiKey,
					},
					rt: http.DefaultTransport,
				},
			}
		}
		cli = api.NewClient(u, httpClient)
	}

	maxReq := params.MaxConcurrentRequests
	if maxReq <= 0 {
		maxReq = defaultMaxConcurrentRequests
	}

	extractionModel := params.ExtractionModel
	if extractionModel == "" {
		extractionModel = params.ChatModel
	}
	imageModel := params.ImageModel
	if imageModel == "" {
		imageModel = params.ChatModel
	}

	return &PedigreeOllamaClient{
		chatModel:       params.ChatModel,
		extractionModel: extractionModel,
		imageModel:      imageModel,

		reqLock: semaphore.NewWeighted(maxReq),

		Client: cli,
	}, nil
}
