// Package analysis turns a validated pedigree into a clinician-facing risk
// triage: a structural inbreeding score, inheritance pattern flags, a risk
// bucket and recommendations.
//
// Every function in this package is pure. The same pedigree always yields
// the same result and nothing is shared between calls.
package analysis

import "github.com/OFFIS-RIT/pedigree/backend/pkg/pedigree"

// Recommendations present in every result.
const (
	AdvisoryNotMedicalAdvice = "This tool is not medical advice; review with a licensed genetic counselor."
	AdvisoryConfirmatoryTest = "Consider confirmatory genetic testing if there are multiple affected relatives."
)

// Recommendations added for elevated risk levels.
const (
	RecommendationHigh     = "Recommend expedited specialist referral and targeted screening."
	RecommendationModerate = "Recommend non-urgent genetics referral and family-wide history validation."
)

// Result is the outcome of analysing a pedigree.
type Result struct {
	InbreedingCoefficient float64   `json:"inbreeding_coefficient"`
	InheritanceFlags      []string  `json:"inheritance_flags"`
	RiskLevel             RiskLevel `json:"risk_level"`
	Recommendations       []string  `json:"recommendations"`
}

// Engine runs the analysis on a fixed graph backend. It is immutable and
// safe for concurrent use.
type Engine struct {
	backend Backend
}

// NewEngineParams configures an Engine. A zero Backend selects
// DefaultBackend.
type NewEngineParams struct {
	Backend Backend
}

func NewEngine(params NewEngineParams) *Engine {
	backend := params.Backend
	if backend == "" {
		backend = DefaultBackend
	}
	return &Engine{backend: backend}
}

// Backend returns the graph backend the engine builds graphs with.
func (e *Engine) Backend() Backend {
	return e.backend
}

// Analyze builds the family graph, scores it and collects recommendations.
// It never fails for a pedigree accepted by pedigree.Validate, including an
// empty one.
func (e *Engine) Analyze(p pedigree.Pedigree) Result {
	g := BuildGraph(e.backend, p)
	inbreeding := EstimateInbreeding(g)
	flags := InferInheritancePatterns(g, p)
	risk := RiskBucket(inbreeding, flags)

	return Result{
		InbreedingCoefficient: inbreeding,
		InheritanceFlags:      flags,
		RiskLevel:             risk,
		Recommendations:       Recommendations(risk),
	}
}

// Analyze runs the analysis with DefaultBackend.
func Analyze(p pedigree.Pedigree) Result {
	return NewEngine(NewEngineParams{}).Analyze(p)
}

// Recommendations returns the advisory lines for a risk level.
func Recommendations(risk RiskLevel) []string {
	recs := []string{AdvisoryNotMedicalAdvice, AdvisoryConfirmatoryTest}
	switch risk {
	case RiskHigh:
		recs = append(recs, RecommendationHigh)
	case RiskModerate:
		recs = append(recs, RecommendationModerate)
	}
	return recs
}
