package ollama

import "github.com/OFFIS-RIT/pedigree/backend/pkg/ai"

// GetMetrics returns the token usage and timing accumulated by all requests.
func (c *PedigreeOllamaClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}

func (c *PedigreeOllamaClient) modifyMetrics(m ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	c.metrics.Add(m)
}

var _ ai.PedigreeAIClient = (*PedigreeOllamaClient)(nil)
