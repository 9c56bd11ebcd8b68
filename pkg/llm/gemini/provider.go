package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"project-ledger-be/pkg/llm"
)

const (
	providerName = "gemini"

	DefaultBaseURL    = "https://generativelanguage.googleapis.com"
	DefaultModel      = "gemini-2.5-flash"
	DefaultImageModel = "imagen-4.0-generate-001"
)

// KeyFunc resolves the API key for one request, so a key changed at runtime
// takes effect without a restart. An empty key means none is configured.
type KeyFunc func(ctx context.Context) (string, error)

// StaticKey always returns key.
func StaticKey(key string) KeyFunc {
	return func(context.Context) (string, error) { return key, nil }
}

type GeminiProvider struct {
	BaseURL    string
	ModelName  string
	ImageModel string
	Key        KeyFunc
	Client     *http.Client
}

var (
	_ llm.LLMProvider    = &GeminiProvider{}
	_ llm.Grounder       = &GeminiProvider{}
	_ llm.ImageGenerator = &GeminiProvider{}
)

func NewGeminiProvider(key KeyFunc, modelName, imageModel string) *GeminiProvider {
	if modelName == "" {
		modelName = DefaultModel
	}
	if imageModel == "" {
		imageModel = DefaultImageModel
	}
	return &GeminiProvider{
		BaseURL:    DefaultBaseURL,
		ModelName:  modelName,
		ImageModel: imageModel,
		Key:        key,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs ---

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string        `json:"role,omitempty"`
	Parts []*geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	MaxOutputTokens  int      `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string   `json:"responseMimeType,omitempty"`
}

type geminiTool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

type geminiRequest struct {
	Contents          []*geminiContent        `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	Tools             []geminiTool            `json:"tools,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type groundingChunk struct {
	Web *struct {
		URI   string `json:"uri"`
		Title string `json:"title"`
	} `json:"web"`
}

type geminiCandidate struct {
	Content           *geminiContent `json:"content"`
	GroundingMetadata *struct {
		GroundingChunks []groundingChunk `json:"groundingChunks"`
	} `json:"groundingMetadata"`
}

type geminiResponse struct {
	Candidates []*geminiCandidate `json:"candidates"`
}

type imagenRequest struct {
	Instances  []imagenInstance `json:"instances"`
	Parameters imagenParameters `json:"parameters"`
}

type imagenInstance struct {
	Prompt string `json:"prompt"`
}

type imagenParameters struct {
	SampleCount int    `json:"sampleCount"`
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type imagenResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType"`
	} `json:"predictions"`
}

// --- Interface Implementation ---

func (g *GeminiProvider) Name() string {
	return providerName
}

func (g *GeminiProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	res, err := g.generate(ctx, history, false, opts...)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

func (g *GeminiProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return g.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

// GenerateGrounded enables the google_search tool and returns the distinct
// source URLs in the order the model cited them.
func (g *GeminiProvider) GenerateGrounded(ctx context.Context, prompt string, opts ...llm.Option) (llm.GroundedResponse, error) {
	return g.generate(ctx, []llm.Message{{Role: "user", Content: prompt}}, true, opts...)
}

func (g *GeminiProvider) GenerateImage(ctx context.Context, prompt string) (string, error) {
	payload := imagenRequest{
		Instances:  []imagenInstance{{Prompt: prompt}},
		Parameters: imagenParameters{SampleCount: 1, AspectRatio: "16:9"},
	}

	var res imagenResponse
	if err := g.post(ctx, g.ImageModel, "predict", payload, &res); err != nil {
		return "", err
	}
	if len(res.Predictions) == 0 || res.Predictions[0].BytesBase64Encoded == "" {
		return "", &llm.ProviderError{Provider: providerName, Message: "no image returned"}
	}

	mime := res.Predictions[0].MimeType
	if mime == "" {
		mime = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, res.Predictions[0].BytesBase64Encoded), nil
}

func (g *GeminiProvider) generate(ctx context.Context, history []llm.Message, grounded bool, opts ...llm.Option) (llm.GroundedResponse, error) {
	options := llm.ApplyOptions(llm.Options{Model: g.ModelName}, opts...)

	payload := geminiRequest{Contents: make([]*geminiContent, 0, len(history))}
	for _, msg := range history {
		part := []*geminiPart{{Text: msg.Content}}
		switch msg.Role {
		case "system":
			payload.SystemInstruction = &geminiContent{Parts: part}
		case "assistant", "model":
			payload.Contents = append(payload.Contents, &geminiContent{Role: "model", Parts: part})
		default:
			payload.Contents = append(payload.Contents, &geminiContent{Role: "user", Parts: part})
		}
	}

	config := &geminiGenerationConfig{MaxOutputTokens: options.MaxTokens}
	if options.Temperature > 0 {
		t := options.Temperature
		config.Temperature = &t
	}
	// the search tool cannot be combined with a JSON response type
	if options.JSON && !grounded {
		config.ResponseMimeType = "application/json"
	}
	payload.GenerationConfig = config
	if grounded {
		payload.Tools = []geminiTool{{GoogleSearch: &struct{}{}}}
	}

	var res geminiResponse
	if err := g.post(ctx, options.Model, "generateContent", payload, &res); err != nil {
		return llm.GroundedResponse{}, err
	}
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return llm.GroundedResponse{}, &llm.ProviderError{Provider: providerName, Message: "empty response"}
	}

	cand := res.Candidates[0]
	var text strings.Builder
	for _, p := range cand.Content.Parts {
		text.WriteString(p.Text)
	}
	if text.Len() == 0 {
		return llm.GroundedResponse{}, &llm.ProviderError{Provider: providerName, Message: "empty response"}
	}

	out := llm.GroundedResponse{Text: text.String()}
	if cand.GroundingMetadata != nil {
		seen := make(map[string]bool)
		for _, chunk := range cand.GroundingMetadata.GroundingChunks {
			if chunk.Web == nil || chunk.Web.URI == "" || seen[chunk.Web.URI] {
				continue
			}
			seen[chunk.Web.URI] = true
			out.URLs = append(out.URLs, chunk.Web.URI)
		}
	}
	return out, nil
}

func (g *GeminiProvider) post(ctx context.Context, model, method string, payload, out interface{}) error {
	key, err := g.resolveKey(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:%s", strings.TrimRight(g.BaseURL, "/"), model, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return &llm.ProviderError{Provider: providerName, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	resBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &llm.ProviderError{Provider: providerName, Message: "read response", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return llm.NewStatusError(providerName, resp.StatusCode, resBody)
	}

	if err := json.Unmarshal(resBody, out); err != nil {
		return &llm.ProviderError{Provider: providerName, Message: "unmarshal response", Err: err}
	}
	return nil
}

func (g *GeminiProvider) resolveKey(ctx context.Context) (string, error) {
	if g.Key == nil {
		return "", fmt.Errorf("%s: %w", providerName, llm.ErrAPIKeyMissing)
	}
	key, err := g.Key(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: resolve api key: %w", providerName, err)
	}
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("%s: %w", providerName, llm.ErrAPIKeyMissing)
	}
	return key, nil
}
