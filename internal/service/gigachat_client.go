package service

import (
	"context"
	"fmt"

	"maxcavator/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

// GigaChatClient serves text-only completions through GigaChat. Sampling is
// pinned to temperature 0; JSON mode and max tokens are not forwarded since the
// prompts already demand bare JSON.
type GigaChatClient struct {
	client *gigago.Client
	model  string
	logger *zap.Logger
}

func NewGigaChatClient(ctx context.Context, cfg *config.GigaChatConfig, logger *zap.Logger) (*GigaChatClient, error) {
	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "GigaChat"
	}

	logger.Info("Using GigaChat provider", zap.String("model", model))

	return &GigaChatClient{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// Complete ignores req.Model; GigaChat serves its own model family.
func (c *GigaChatClient) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if req.ImageDataURL != "" {
		return nil, ErrVisionUnsupported
	}

	model := c.client.GenerativeModel(c.model)
	model.SystemInstruction = req.System
	model.Temperature = 0

	resp, err := model.Generate(ctx, []gigago.Message{
		{Role: gigago.RoleUser, Content: req.User},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from GigaChat")
	}

	return &ChatResponse{
		Content: resp.Choices[0].Message.Content,
		Model:   c.model,
	}, nil
}

func (c *GigaChatClient) Close() error {
	if c.client != nil {
		c.client.Close()
	}
	return nil
}
