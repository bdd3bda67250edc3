package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
	"github.com/kirillkom/eac-compliance-desk/internal/infrastructure/llm/prompts"
	"github.com/kirillkom/eac-compliance-desk/internal/infrastructure/resilience"
)

type Config struct {
	APIKey string
	// BaseURL overrides the API endpoint; empty uses the public Gemini API.
	BaseURL     string
	ChatModel   string
	VisionModel string
}

// Advisor implements the advisory port on the Gemini API. Reasoning-heavy
// calls use ChatModel; extraction and commentary use VisionModel.
type Advisor struct {
	client      *genai.Client
	chatModel   string
	visionModel string
	executor    *resilience.Executor
}

func New(ctx context.Context, cfg Config, executor *resilience.Executor) (*Advisor, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini api key is empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if executor == nil {
		executor = resilience.NewExecutor(resilience.DefaultConfig())
	}
	return &Advisor{
		client:      client,
		chatModel:   cfg.ChatModel,
		visionModel: cfg.VisionModel,
		executor:    executor,
	}, nil
}

func (a *Advisor) Chat(ctx context.Context, req domain.ChatRequest) (string, error) {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, m := range req.History {
		role := genai.Role(genai.RoleUser)
		if m.Role == domain.ChatRoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(req.Message, genai.RoleUser))

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompts.SystemInstruction(req.Country), genai.RoleUser),
	}
	if req.DeepReasoning {
		cfg.ThinkingConfig = deepThinking()
	}
	return a.generate(ctx, "chat", a.chatModel, contents, cfg)
}

func (a *Advisor) ExtractReceipt(ctx context.Context, evidence domain.Evidence, country domain.Country) (domain.ReceiptDraft, error) {
	raw, err := a.generate(ctx, "extract_receipt", a.visionModel,
		withEvidence(prompts.ReceiptPrompt(country, evidence.Text), evidence),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   receiptSchema,
		})
	if err != nil {
		return domain.ReceiptDraft{}, err
	}
	return prompts.DecodeReceiptDraft(raw), nil
}

func (a *Advisor) AnalyzeAnomalies(ctx context.Context, txs []domain.Transaction, country domain.Country) ([]domain.AnomalyReport, error) {
	raw, err := a.generate(ctx, "analyze_anomalies", a.chatModel,
		genai.Text(prompts.AnomalyPrompt(txs, country)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(prompts.SystemInstruction(country), genai.RoleUser),
			ThinkingConfig:    deepThinking(),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    anomalySchema,
		})
	if err != nil {
		return nil, err
	}
	return prompts.DecodeAnomalies(raw), nil
}

func (a *Advisor) GenerateCommentary(ctx context.Context, txs []domain.Transaction, country domain.Country, lang domain.Language) (string, error) {
	return a.generate(ctx, "generate_commentary", a.visionModel, genai.Text(prompts.CommentaryPrompt(txs, country, lang)), nil)
}

func (a *Advisor) AnalyzeEvidence(ctx context.Context, evidence domain.Evidence, prompt string) (string, error) {
	return a.generate(ctx, "analyze_evidence", a.visionModel, withEvidence(prompts.EvidencePrompt(prompt, evidence.Text), evidence), nil)
}

func (a *Advisor) generate(ctx context.Context, operation, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	out, err := resilience.Call(ctx, a.executor, "gemini_"+operation, func(ctx context.Context) (string, error) {
		resp, err := a.client.Models.GenerateContent(ctx, model, contents, cfg)
		if err != nil {
			return "", fmt.Errorf("gemini %s: %w", operation, err)
		}
		return strings.TrimSpace(resp.Text()), nil
	}, classifyGeminiError)
	if err != nil {
		if classifyGeminiError(err).Retryable {
			return "", domain.WrapError(domain.ErrTemporary, "gemini "+operation, err)
		}
		return "", err
	}
	return out, nil
}

func withEvidence(prompt string, evidence domain.Evidence) []*genai.Content {
	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	if len(evidence.Data) > 0 && evidence.MimeType != "" {
		parts = append(parts, genai.NewPartFromBytes(evidence.Data, evidence.MimeType))
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

func deepThinking() *genai.ThinkingConfig {
	budget := int32(prompts.DeepReasoningBudget)
	return &genai.ThinkingConfig{ThinkingBudget: &budget}
}
