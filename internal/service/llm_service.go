package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"maxcavator/pkg/config"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"
)

// ErrVisionUnsupported is returned by providers that cannot accept images.
var ErrVisionUnsupported = errors.New("provider does not support image input")

// ChatRequest is a single-turn chat completion. ImageDataURL, when set, is sent
// as an image part after the User text.
type ChatRequest struct {
	Model        string
	System       string
	User         string
	ImageDataURL string
	Temperature  float64
	MaxTokens    int
	JSONMode     bool
}

type ChatResponse struct {
	Content     string
	Model       string
	TotalTokens int64
}

// ChatClient is the remote model API every adapter talks to.
type ChatClient interface {
	Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// NewChatClient builds the client for the configured provider.
func NewChatClient(cfg *config.Config, logger *zap.Logger) (ChatClient, error) {
	switch cfg.LLM.Provider {
	case "", config.ProviderGroq:
		if cfg.LLM.APIKey == "" {
			logger.Warn("LLM API key is empty, model calls will fail")
		}
		return NewOpenAIChatClient(&cfg.LLM, nil, logger), nil
	case config.ProviderGigaChat:
		return NewGigaChatClient(context.Background(), &cfg.GigaChat, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.LLM.Provider)
	}
}

// OpenAIChatClient talks to any OpenAI-compatible chat completions endpoint
// (Groq by default).
type OpenAIChatClient struct {
	client openai.Client
	logger *zap.Logger
}

// NewOpenAIChatClient creates the client. httpClient may be nil.
func NewOpenAIChatClient(cfg *config.LLMConfig, httpClient *http.Client, logger *zap.Logger) *OpenAIChatClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIChatClient{
		client: openai.NewClient(opts...),
		logger: logger,
	}
}

func (c *OpenAIChatClient) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	if req.ImageDataURL != "" {
		messages = append(messages, openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.TextContentPart(req.User),
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: req.ImageDataURL,
			}),
		}))
	} else {
		messages = append(messages, openai.UserMessage(req.User))
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	c.logger.Debug("Sending chat completion",
		zap.String("model", req.Model),
		zap.Bool("json_mode", req.JSONMode),
		zap.Bool("has_image", req.ImageDataURL != ""),
	)

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("no choices in chat completion response")
	}

	return &ChatResponse{
		Content:     completion.Choices[0].Message.Content,
		Model:       completion.Model,
		TotalTokens: completion.Usage.TotalTokens,
	}, nil
}

func imageDataURL(imageBase64 string) string {
	imageBase64 = strings.TrimSpace(imageBase64)
	if strings.HasPrefix(imageBase64, "data:") {
		return imageBase64
	}
	return "data:image/png;base64," + imageBase64
}
