// Package ai assembles model requests and resolves their structured output.
package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Generator is the opaque text-generation collaborator: assembled messages
// in, raw text out. Implementations may fail at any time.
type Generator interface {
	Complete(ctx context.Context, messages []*schema.Message) (string, error)
}

// Service adapts an eino chat model to the Generator contract.
type Service struct {
	chatModel model.ChatModel
}

// NewService wraps the configured chat model.
func NewService(chatModel model.ChatModel) *Service {
	return &Service{chatModel: chatModel}
}

// Complete invokes the chat model once and returns its raw text content.
func (s *Service) Complete(ctx context.Context, messages []*schema.Message) (string, error) {
	response, err := s.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("chat model generate: %w", err)
	}
	log.Printf("[ai] generated response, length=%d", len(response.Content))
	return response.Content, nil
}
