package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/jmoreau/recovery-squad/backend/internal/analysis/severity"
	"github.com/jmoreau/recovery-squad/backend/internal/config"
	"github.com/jmoreau/recovery-squad/backend/internal/model/chat"
	"github.com/jmoreau/recovery-squad/backend/internal/model/persona"
)

// Service encapsulates persona-driven text generation.
type Service struct {
	chatModel model.ChatModel
	personas  persona.Store
	cfg       config.AIConfig
	prompts   *PersonaPromptManager
	chain     compose.Runnable[map[string]any, *schema.Message]
	logger    *zap.Logger
}

// NewService builds the prompt/model chain once and reuses it for
// every persona; the persona only changes the system message.
func NewService(ctx context.Context, personas persona.Store, cfg config.AIConfig, logger *zap.Logger) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		personas:  personas,
		cfg:       cfg,
		prompts:   NewPersonaPromptManager(),
		chain:     runnable,
		logger:    logger,
	}, nil
}

// StreamingEnabled indicates whether SSE streaming output is on.
func (s *Service) StreamingEnabled() bool {
	return s.cfg.StreamResponse
}

// GenerateResponse produces one persona reply for a conversation turn.
func (s *Service) GenerateResponse(ctx context.Context, p *persona.Persona, history []chat.Message, userMessage string, guidance *severity.Decision) (*schema.Message, error) {
	input := s.buildChainInput(p, history, userMessage, guidance)

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to run AI chain: %w", err)
	}

	s.logger.Debug("generated response",
		zap.String("persona", p.ID),
		zap.Int("length", len(response.Content)))
	return response, nil
}

// Generate satisfies the dispatcher's TextGenerator contract: one
// history-free call, response content returned unmodified.
func (s *Service) Generate(ctx context.Context, p persona.Persona, userText string, guidance *severity.Decision) (string, error) {
	response, err := s.GenerateResponse(ctx, &p, nil, userText, guidance)
	if err != nil {
		return "", err
	}
	return response.Content, nil
}

// StreamResponse streams persona reply chunks via the configured chain.
func (s *Service) StreamResponse(ctx context.Context, p *persona.Persona, history []chat.Message, userMessage string, guidance *severity.Decision) (*schema.StreamReader[*schema.Message], error) {
	if !s.StreamingEnabled() {
		return nil, fmt.Errorf("streaming disabled in configuration")
	}

	input := s.buildChainInput(p, history, userMessage, guidance)

	stream, err := s.chain.Stream(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to stream AI chain output: %w", err)
	}

	return stream, nil
}

func (s *Service) buildChainInput(p *persona.Persona, history []chat.Message, userMessage string, guidance *severity.Decision) map[string]any {
	return map[string]any{
		"system":  s.prompts.BuildSystemPrompt(p, guidance),
		"history": buildHistoryMessages(history),
		"query":   userMessage,
	}
}

func buildHistoryMessages(messages []chat.Message) []*schema.Message {
	const historyLimit = 10

	if len(messages) == 0 {
		return nil
	}

	startIdx := 0
	if len(messages) > historyLimit {
		startIdx = len(messages) - historyLimit
	}

	history := make([]*schema.Message, 0, len(messages)-startIdx)
	for _, msg := range messages[startIdx:] {
		switch msg.Sender {
		case "user":
			history = append(history, schema.UserMessage(msg.Content))
		case "assistant":
			history = append(history, schema.AssistantMessage(msg.Content, nil))
		}
	}

	return history
}
