package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"miner-pulse/internal/domain"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultBatchSize = 24

type openAIChatClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// ModelClassifier scores items with a chat-completion model in batches,
// starting from the lexicon baseline so a model failure degrades to
// deterministic scores instead of an error.
type ModelClassifier struct {
	client    openAIChatClient
	model     string
	baseline  *LexiconClassifier
	batchSize int
}

// NewModelClassifier returns nil when no API key is configured; the
// caller then wires the lexicon classifier directly.
func NewModelClassifier(apiKey, model string) *ModelClassifier {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	if strings.TrimSpace(model) == "" {
		model = "gpt-4o-mini"
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &ModelClassifier{
		client:    &openAIClient{client: client},
		model:     model,
		baseline:  NewLexiconClassifier(),
		batchSize: defaultBatchSize,
	}
}

func (c *ModelClassifier) Classify(ctx context.Context, items []domain.SentimentItem) []domain.SentimentItem {
	out := c.baseline.Classify(ctx, items)
	if c.client == nil || len(out) == 0 {
		return out
	}

	for start := 0; start < len(out); start += c.batchSize {
		end := start + c.batchSize
		if end > len(out) {
			end = len(out)
		}
		scores, err := c.scoreBatch(ctx, out[start:end])
		if err != nil {
			log.Printf("model scoring batch failed, keeping lexicon scores: %v", err)
			continue
		}
		for idx, score := range scores {
			if idx < 0 || idx >= end-start {
				continue
			}
			out[start+idx].Score = score
			out[start+idx].Label = itemLabel(score)
		}
	}
	return out
}

// scoreBatch asks the model for one JSON array scoring the batch,
// keyed by the item's position. Missing ids keep their baseline score.
func (c *ModelClassifier) scoreBatch(ctx context.Context, batch []domain.SentimentItem) (map[int]float64, error) {
	var sb strings.Builder
	for i, item := range batch {
		sb.WriteString(fmt.Sprintf("id=%d\n", i))
		sb.WriteString(fmt.Sprintf("text=%s\n\n", strings.TrimSpace(item.Text())))
	}

	systemPrompt := "You score financial market sentiment for Bitcoin mining and proxy stocks. " +
		"Return ONLY a JSON array. Each object requires: id (int), score (float -1..1, " +
		"-1 most bearish, 1 most bullish). No markdown."
	userPrompt := "Items:\n" + sb.String()

	completion, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return nil, err
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("empty scorer completion")
	}

	raw := trimCodeFence(completion.Choices[0].Message.Content)
	var parsed []struct {
		ID    int     `json:"id"`
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("parse scorer json: %w", err)
	}

	scores := make(map[int]float64, len(parsed))
	for _, row := range parsed {
		scores[row.ID] = clamp(row.Score, -1, 1)
	}
	return scores, nil
}

func trimCodeFence(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "```") {
		v = strings.TrimPrefix(v, "```")
		v = strings.TrimSpace(v)
		if strings.HasPrefix(strings.ToLower(v), "json") {
			v = strings.TrimSpace(v[4:])
		}
		v = strings.TrimSuffix(v, "```")
		v = strings.TrimSpace(v)
	}
	return v
}

type openAIClient struct {
	client openai.Client
}

func (c *openAIClient) CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
