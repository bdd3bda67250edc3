package ollama

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/eac-compliance-desk/internal/core/domain"
	"github.com/kirillkom/eac-compliance-desk/internal/infrastructure/llm/prompts"
	"github.com/kirillkom/eac-compliance-desk/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, model string, executor *resilience.Executor) *Client {
	if executor == nil {
		executor = resilience.NewExecutor(resilience.DefaultConfig())
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
	}
}

type chatMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   any           `json:"format,omitempty"`
	Think    bool          `json:"think,omitempty"`
}

// generateRequest is a single-turn /api/generate call. Images attach to the prompt.
type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	System string   `json:"system,omitempty"`
	Images []string `json:"images,omitempty"`
	Stream bool     `json:"stream"`
	Format any      `json:"format,omitempty"`
	Think  bool     `json:"think,omitempty"`
}

// modelReply decodes both endpoints: /api/chat fills Message, /api/generate fills Response.
type modelReply struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Response string `json:"response"`
}

// Advisor implements the advisory port on a local Ollama model. Vision input
// requires a multimodal model; PDFs contribute only their text layer.
type Advisor struct {
	client *Client
}

func NewAdvisor(client *Client) *Advisor {
	return &Advisor{client: client}
}

func (a *Advisor) Chat(ctx context.Context, req domain.ChatRequest) (string, error) {
	messages := make([]chatMessage, 0, len(req.History)+2)
	messages = append(messages, chatMessage{Role: "system", Content: prompts.SystemInstruction(req.Country)})
	for _, m := range req.History {
		role := "user"
		if m.Role == domain.ChatRoleModel {
			role = "assistant"
		}
		messages = append(messages, chatMessage{Role: role, Content: m.Text})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Message})

	return a.client.chat(ctx, "chat", chatRequest{Messages: messages, Think: req.DeepReasoning})
}

func (a *Advisor) ExtractReceipt(ctx context.Context, evidence domain.Evidence, country domain.Country) (domain.ReceiptDraft, error) {
	raw, err := a.client.generate(ctx, "extract_receipt", generateRequest{
		Prompt: prompts.ReceiptPrompt(country, evidence.Text),
		Images: images(evidence),
		Format: receiptSchema,
	})
	if err != nil {
		return domain.ReceiptDraft{}, err
	}
	return prompts.DecodeReceiptDraft(raw), nil
}

func (a *Advisor) AnalyzeAnomalies(ctx context.Context, txs []domain.Transaction, country domain.Country) ([]domain.AnomalyReport, error) {
	raw, err := a.client.generate(ctx, "analyze_anomalies", generateRequest{
		System: prompts.SystemInstruction(country),
		Prompt: prompts.AnomalyPrompt(txs, country),
		Format: anomalySchema,
		Think:  true,
	})
	if err != nil {
		return nil, err
	}
	return prompts.DecodeAnomalies(raw), nil
}

func (a *Advisor) GenerateCommentary(ctx context.Context, txs []domain.Transaction, country domain.Country, lang domain.Language) (string, error) {
	return a.client.generate(ctx, "generate_commentary", generateRequest{
		Prompt: prompts.CommentaryPrompt(txs, country, lang),
	})
}

func (a *Advisor) AnalyzeEvidence(ctx context.Context, evidence domain.Evidence, prompt string) (string, error) {
	return a.client.generate(ctx, "analyze_evidence", generateRequest{
		Prompt: prompts.EvidencePrompt(prompt, evidence.Text),
		Images: images(evidence),
	})
}

// chat runs a multi-turn conversation through /api/chat.
func (c *Client) chat(ctx context.Context, operation string, req chatRequest) (string, error) {
	req.Model = c.model
	req.Stream = false
	reply, err := c.call(ctx, operation, "/api/chat", req)
	return strings.TrimSpace(reply.Message.Content), err
}

// generate runs a single prompt through /api/generate.
func (c *Client) generate(ctx context.Context, operation string, req generateRequest) (string, error) {
	req.Model = c.model
	req.Stream = false
	reply, err := c.call(ctx, operation, "/api/generate", req)
	return strings.TrimSpace(reply.Response), err
}

func (c *Client) call(ctx context.Context, operation, path string, payload any) (modelReply, error) {
	out, err := resilience.Call(ctx, c.executor, "ollama_"+operation, func(ctx context.Context) (modelReply, error) {
		var reply modelReply
		err := c.postJSON(ctx, path, payload, &reply, operation)
		return reply, err
	}, classifyOllamaError)
	if err != nil {
		return modelReply{}, wrapTemporaryIfNeeded("ollama "+operation, err)
	}
	return out, nil
}

func images(evidence domain.Evidence) []string {
	if len(evidence.Data) == 0 || !strings.HasPrefix(strings.ToLower(evidence.MimeType), "image/") {
		return nil
	}
	return []string{base64.StdEncoding.EncodeToString(evidence.Data)}
}
