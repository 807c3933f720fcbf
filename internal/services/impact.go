package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hopefund/backend/internal/config"
	"github.com/hopefund/backend/pkg/logger"
	"google.golang.org/genai"
)

// ImpactResult is the structured outcome of the societal impact analysis.
type ImpactResult struct {
	ImpactAnalysis string `json:"impact_analysis"`
	ImpactScore    int    `json:"impact_score"`
}

// ImpactService asks Gemini for a societal impact assessment of a project.
// The endpoint is unreliable: any failure degrades to "no score available"
// and must never abort project creation.
type ImpactService struct {
	cfg     *config.GeminiConfig
	timeout time.Duration
}

func NewImpactService(cfg *config.GeminiConfig) *ImpactService {
	return &ImpactService{
		cfg:     cfg,
		timeout: 30 * time.Second,
	}
}

const impactPrompt = `Analyze the societal impact of a project titled %q with the following description: %q.

Respond ONLY in strict JSON format with the following keys:
- "impact_analysis": string
- "impact_score": integer (1-100)`

// Analyze returns the impact assessment for a project, or an error the caller
// is expected to swallow.
func (s *ImpactService) Analyze(ctx context.Context, title, description string) (*ImpactResult, error) {
	if s.cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: s.cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client error: %w", err)
	}

	model := s.cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	prompt := fmt.Sprintf(impactPrompt, title, description)
	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini api error: %w", err)
	}

	result, err := parseImpactResponse(resp.Text())
	if err != nil {
		logger.Warn().Err(err).Str("title", title).Msg("impact analysis response unusable")
		return nil, err
	}

	return result, nil
}

// ImpactScorer joins analysis results back onto projects. It runs detached
// from the create-project flow, driven by the task queue.
type ImpactScorer struct {
	impact   *ImpactService
	projects *ProjectService
}

func NewImpactScorer(impact *ImpactService, projects *ProjectService) *ImpactScorer {
	return &ImpactScorer{impact: impact, projects: projects}
}

// Process handles one queued impact task. Errors are returned so the async
// queue can retry transient failures; nothing here ever reaches the client.
func (s *ImpactScorer) Process(ctx context.Context, task *ImpactTask) error {
	result, err := s.impact.Analyze(ctx, task.Title, task.Description)
	if err != nil {
		return err
	}

	if err := s.projects.AddImpactScore(task.ProjectID, result.ImpactScore); err != nil {
		logger.Warn().Err(err).Uint("project_id", task.ProjectID).Msg("impact score write failed")
		return err
	}

	logger.Info().
		Uint("project_id", task.ProjectID).
		Int("impact_score", result.ImpactScore).
		Msg("impact analysis applied")
	return nil
}

// parseImpactResponse extracts the JSON payload from the model output, which
// sometimes arrives wrapped in a ```json fence. The score is clamped to
// [0, 100].
func parseImpactResponse(raw string) (*ImpactResult, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.Trim(raw, "`")
		raw = strings.TrimPrefix(raw, "json")
		raw = strings.TrimSpace(raw)
	}

	var result ImpactResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("impact response is not valid JSON: %w", err)
	}

	if result.ImpactScore < 0 {
		result.ImpactScore = 0
	}
	if result.ImpactScore > 100 {
		result.ImpactScore = 100
	}

	return &result, nil
}
