// Package vision forwards uploaded chat screenshots to an
// image-capable model and returns its description unmodified. No image
// processing happens locally.
package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/jmoreau/recovery-squad/backend/internal/config"
)

// screenshotInstruction is the fixed prompt sent with every screenshot.
const screenshotInstruction = `This is a chat conversation screenshot shared by someone going through a breakup.
Describe the emotional tone of the exchange, who seems more invested, and any
notable communication patterns (stonewalling, blame, mixed signals). Keep it
under 150 words, plain text, no headings.`

// Service wraps the Gemini client for screenshot analysis.
type Service struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewService creates the Gemini-backed analyzer.
func NewService(ctx context.Context, cfg config.VisionConfig, logger *zap.Logger) (*Service, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("vision credentials missing: set GEMINI_API_KEY")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Service{client: client, model: cfg.Model, logger: logger}, nil
}

// AnalyzeScreenshot decodes the base64 payload and forwards it with the
// fixed instruction to the vision model.
func (s *Service) AnalyzeScreenshot(ctx context.Context, encoded, mimeType string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", fmt.Errorf("invalid screenshot encoding: %w", err)
	}
	if mimeType == "" {
		mimeType = "image/png"
	}

	content := genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromBytes(data, mimeType),
		genai.NewPartFromText(screenshotInstruction),
	}, genai.RoleUser)

	resp, err := s.client.Models.GenerateContent(ctx, s.model, []*genai.Content{content}, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.2)),
	})
	if err != nil {
		return "", fmt.Errorf("vision call failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("vision model returned empty description")
	}

	s.logger.Debug("screenshot analyzed",
		zap.Int("imageBytes", len(data)),
		zap.Int("descriptionLength", len(text)))
	return text, nil
}
