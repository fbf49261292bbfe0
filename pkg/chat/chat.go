// Package chat builds pedigrees from a conversation. Every user message is
// sent to a language model together with the conversation so far; the model
// answers with the updated pedigree as JSON, optionally followed by a
// follow-up question.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/OFFIS-RIT/pedigree/backend/internal/util"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/ai"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/logger"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/pedigree"
)

// DefaultModel is used when NewEngineParams.Model is empty.
const DefaultModel = "qwen2.5:7b-instruct"

// DefaultFollowUpQuestion is asked by the offline parser.
const DefaultFollowUpQuestion = "Who else in your family should be included?"

const (
	defaultMaxRetries = 2
	chatTemperature   = 0.1
)

// Message is one turn of the conversation history.
type Message struct {
	Role    string `json:"role" validate:"required"`
	Content string `json:"content"`
}

// Response is the result of processing a user message.
type Response struct {
	Pedigree         pedigree.Pedigree `json:"pedigree"`
	FollowUpQuestion string            `json:"follow_up_question,omitempty"`
	RawText          string            `json:"raw_text"`
	// Offline is set when the reply came from the offline parser because no
	// model was reachable.
	Offline bool `json:"offline"`
}

// Engine turns chat messages into pedigrees. It is safe for concurrent use.
type Engine struct {
	aiClient   ai.PedigreeAIClient
	model      string
	maxRetries int
	retryDelay time.Duration
}

// NewEngineParams configures an Engine. Without an AIClient every message is
// answered by the offline parser.
type NewEngineParams struct {
	AIClient   ai.PedigreeAIClient
	Model      string
	MaxRetries int
	RetryDelay time.Duration
}

func NewEngine(params NewEngineParams) *Engine {
	model := params.Model
	if model == "" {
		model = DefaultModel
	}
	maxRetries := params.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &Engine{
		aiClient:   params.AIClient,
		model:      model,
		maxRetries: maxRetries,
		retryDelay: params.RetryDelay,
	}
}

// Model returns the model name requests are sent to.
func (e *Engine) Model() string {
	return e.model
}

// BuildPrompt renders the counselor prompt for the history and the latest
// user message.
func BuildPrompt(history []Message, userInput string) string {
	return fmt.Sprintf(ai.ChatPrompt, formatHistory(history), userInput)
}

func formatHistory(history []Message) string {
	if len(history) == 0 {
		return "No prior history"
	}
	lines := make([]string, 0, len(history))
	for _, m := range history {
		lines = append(lines, m.Role+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}

// ProcessUserMessage asks the model for the updated pedigree.
//
// Model calls are retried. When the model keeps answering with something
// that is not a valid pedigree the last *pedigree.ValidationError is
// returned. When the model cannot be reached at all, the offline parser
// answers instead and Response.Offline is set.
func (e *Engine) ProcessUserMessage(ctx context.Context, history []Message, userInput string) (Response, error) {
	if e.aiClient == nil {
		return e.offline(userInput)
	}

	prompt := BuildPrompt(history, userInput)
	resp, err := util.RetryWithBackoff(ctx, e.maxRetries, e.retryDelay, func(ctx context.Context) (Response, error) {
		text, err := e.aiClient.GenerateChat(
			ctx,
			[]ai.ChatMessage{{Role: ai.RoleUser, Message: prompt}},
			ai.WithModel(e.model),
			ai.WithTemperature(chatTemperature),
		)
		if err != nil {
			return Response{}, fmt.Errorf("model request failed: %w", err)
		}
		resp, err := SplitResponse(text)
		if err != nil {
			logger.Debug("[Chat] Model reply is not a valid pedigree", "err", err)
		}
		return resp, err
	})
	if err == nil {
		ai.LogUsage("[Chat]", e.aiClient)
		return resp, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Response{}, ctxErr
	}

	var vErr *pedigree.ValidationError
	if errors.As(err, &vErr) {
		return Response{}, err
	}

	logger.Warn("[Chat] Model unavailable, using offline parser", "model", e.model, "err", err)
	return e.offline(userInput)
}

func (e *Engine) offline(userInput string) (Response, error) {
	resp, err := SplitResponse(OfflineReply(userInput))
	if err != nil {
		return Response{}, err
	}
	resp.Offline = true
	return resp, nil
}

// SplitResponse separates the pedigree JSON from the follow-up question in a
// model reply and loads the pedigree.
//
// A first line that is a complete JSON document is taken as the pedigree
// and the remaining lines form the question. Otherwise the span from the
// first "{" to the last "}" is the pedigree and the text around it is the
// question. Slightly malformed JSON is repaired before loading.
func SplitResponse(text string) (Response, error) {
	trimmed := strings.TrimSpace(text)
	lines := strings.Split(trimmed, "\n")

	candidate := strings.TrimSpace(lines[0])
	var followUp string
	if len(lines) > 1 {
		rest := make([]string, 0, len(lines)-1)
		for _, l := range lines[1:] {
			if l = strings.TrimSpace(l); l != "" {
				rest = append(rest, l)
			}
		}
		followUp = strings.Join(rest, " ")
	}

	if !strings.HasPrefix(candidate, "{") || !json.Valid([]byte(candidate)) {
		start := strings.Index(trimmed, "{")
		end := strings.LastIndex(trimmed, "}")
		if start != -1 && end > start {
			candidate = trimmed[start : end+1]
			followUp = strings.Join(strings.Fields(trimmed[:start]+" "+trimmed[end+1:]), " ")
		}
	}

	if repaired, err := ai.RepairJSON(candidate); err == nil {
		candidate = repaired
	}

	p, err := pedigree.LoadPayload(candidate)
	if err != nil {
		return Response{}, err
	}
	return Response{
		Pedigree:         p,
		FollowUpQuestion: followUp,
		RawText:          text,
	}, nil
}

var selfReference = regexp.MustCompile(`\bme\b|\bi am\b|\bi'm\b`)

// OfflineReply builds a reply in the model's format from keywords in the
// user message: mother, father and the user themself become people, and the
// first two people are joined as spouses.
func OfflineReply(userInput string) string {
	text := strings.ToLower(userInput)
	p := pedigree.Empty()

	add := func(name, gender string) {
		p.People = append(p.People, pedigree.Person{
			ID:         int64(len(p.People) + 1),
			Name:       name,
			Gender:     gender,
			DOB:        pedigree.ApproxDOB,
			Conditions: []string{},
		})
	}
	if strings.Contains(text, "mother") {
		add("Mother", pedigree.GenderFemale)
	}
	if strings.Contains(text, "father") {
		add("Father", pedigree.GenderMale)
	}
	if selfReference.MatchString(text) {
		add("Proband", pedigree.GenderOther)
	}
	if len(p.People) >= 2 {
		p.Relationships = append(p.Relationships, pedigree.Relationship{From: 1, To: 2, Type: pedigree.RelSpouse})
	}

	data, _ := json.Marshal(p)
	return string(data) + "\n" + DefaultFollowUpQuestion
}
