package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"eventra/core/config"
	"eventra/core/constants"
	"eventra/core/errors"
	"eventra/core/logger"
	"eventra/core/params"
	"eventra/modules/extraction/dto"
	"eventra/modules/extraction/entity"
	"eventra/modules/extraction/repository"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
)

const llmProviderOpenAI = "openai"

const defaultAnalyticsDays = 30

// Error types recorded on failed parsing logs.
const (
	errTypeLLMRequest    = "llm_request"
	errTypeInvalidJSON   = "invalid_json"
	errTypeMissingFields = "missing_fields"
)

const systemPromptTemplate = `You are an assistant that extracts calendar event details from free-form text.
Today's date is %s.

Rules:
- If no date is mentioned, assume the event is today.
- If no end time is given, set end_time to one hour after start_time.
- If the text contains URLs, include them in the description.
- If the text contains email addresses, put them in guest_emails.
- Use RFC 3339 format for start_time and end_time.
- title, start_time and end_time are required. Leave other fields empty when absent.

Respond with a single JSON object and nothing else:
{"title": "...", "description": "...", "location": "...", "start_time": "...", "end_time": "...", "guest_emails": ["..."]}`

// chatClient is the slice of the OpenAI client the service needs.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type ExtractionService interface {
	Extract(ctx context.Context, userID uuid.UUID, req *dto.ExtractRequest) (*dto.EventDraft, error)
	Analytics(ctx context.Context, days int) (*dto.AnalyticsResponse, error)
	RecentLogs(ctx context.Context, p params.QueryParams) ([]entity.ParsingLog, error)
}

type extractionService struct {
	repo repository.ParsingLogRepository

	// overridable in tests
	client chatClient
	now    func() time.Time
}

func NewExtractionService(repo repository.ParsingLogRepository) ExtractionService {
	return &extractionService{
		repo: repo,
		now:  time.Now,
	}
}

// Extract turns free-form text into an event draft via the configured LLM.
func (s *extractionService) Extract(ctx context.Context, userID uuid.UUID, req *dto.ExtractRequest) (*dto.EventDraft, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "text is required", nil)
	}

	cfg, ok := config.GetSafe()
	if !ok || cfg.LLM.APIKey == "" {
		return nil, errors.NewAppError(errors.ErrNotConfigured, "event extraction is not configured, set the LLM API key", nil)
	}

	client := s.client
	if client == nil {
		client = openai.NewClient(cfg.LLM.APIKey)
	}

	started := s.now()
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: cfg.LLM.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(systemPromptTemplate, started.Format("2006-01-02")),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: 0.1,
	})
	elapsed := float64(s.now().Sub(started).Milliseconds())

	if err != nil {
		s.logAttempt(userID, text, cfg.LLM.Model, elapsed, nil, errTypeLLMRequest, err.Error())
		return nil, errors.NewAppError(errors.ErrExtractionFailed, "failed to reach the language model", err)
	}
	if len(resp.Choices) == 0 {
		s.logAttempt(userID, text, cfg.LLM.Model, elapsed, nil, errTypeLLMRequest, "empty completion")
		return nil, errors.NewAppError(errors.ErrExtractionFailed, "language model returned no output", nil)
	}

	content := stripMarkdownFences(resp.Choices[0].Message.Content)

	var parsed struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Location    string   `json:"location"`
		StartTime   string   `json:"start_time"`
		EndTime     string   `json:"end_time"`
		GuestEmails []string `json:"guest_emails"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		s.logAttempt(userID, text, cfg.LLM.Model, elapsed, nil, errTypeInvalidJSON, err.Error())
		return nil, errors.NewAppError(errors.ErrExtractionFailed, "could not understand the text, try rephrasing it", err)
	}

	draft, derr := buildDraft(parsed.Title, parsed.Description, parsed.Location, parsed.StartTime, parsed.EndTime, parsed.GuestEmails, text)
	if derr != nil {
		s.logAttempt(userID, text, cfg.LLM.Model, elapsed, nil, errTypeMissingFields, derr.Error())
		return nil, errors.NewAppError(errors.ErrExtractionFailed, "the text is missing a title or a time", derr)
	}

	s.logAttempt(userID, text, cfg.LLM.Model, elapsed, draft, "", "")
	return draft, nil
}

// Analytics aggregates the parsing logs of the last `days` days.
func (s *extractionService) Analytics(ctx context.Context, days int) (*dto.AnalyticsResponse, error) {
	if days <= 0 {
		days = defaultAnalyticsDays
	}

	stats, err := s.repo.GetStats(ctx, days)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load parsing analytics", err)
	}
	breakdown, err := s.repo.GetErrorBreakdown(ctx, days)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load parsing analytics", err)
	}

	resp := &dto.AnalyticsResponse{
		Days:              days,
		TotalRequests:     stats.TotalRequests,
		Successful:        stats.Successful,
		Failed:            stats.Failed,
		AvgResponseTimeMs: stats.AvgResponseTimeMs,
		AvgInputLength:    stats.AvgInputLength,
		ErrorBreakdown:    breakdown,
	}
	if stats.TotalRequests > 0 {
		resp.SuccessRate = float64(stats.Successful) / float64(stats.TotalRequests)
	}
	return resp, nil
}

// RecentLogs pages through parsing attempts, newest first.
func (s *extractionService) RecentLogs(ctx context.Context, p params.QueryParams) ([]entity.ParsingLog, error) {
	offset := (p.PageNumber - 1) * p.PageSize
	logs, err := s.repo.GetRecent(ctx, p.PageSize, offset)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load parsing logs", err)
	}
	return logs, nil
}

// logAttempt persists the parsing log. Failures here are logged and dropped,
// analytics never block extraction.
func (s *extractionService) logAttempt(userID uuid.UUID, text, model string, elapsedMs float64, draft *dto.EventDraft, errType, errMsg string) {
	log := &entity.ParsingLog{
		InputText:       text,
		InputTextLength: len(text),
		LLMProvider:     llmProviderOpenAI,
		LLMModel:        model,
		Success:         errType == "",
		ResponseTimeMs:  &elapsedMs,
	}
	if userID != uuid.Nil {
		log.UserID = &userID
	}
	if errType != "" {
		log.ErrorType = &errType
		log.ErrorMessage = &errMsg
	}
	if draft != nil {
		if data, err := json.Marshal(draft); err == nil {
			raw := string(data)
			log.ParsedData = &raw
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
	defer cancel()
	if err := s.repo.Create(ctx, log); err != nil {
		logger.Warn("ExtractionService:LogAttempt:Error", "error", err)
	}
}

func buildDraft(title, description, location, startStr, endStr string, guestEmails []string, originalText string) (*dto.EventDraft, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("missing title")
	}
	if startStr == "" {
		return nil, fmt.Errorf("missing start_time")
	}

	start, err := parseFlexibleTime(startStr)
	if err != nil {
		return nil, fmt.Errorf("invalid start_time %q: %w", startStr, err)
	}

	end := start.Add(time.Hour)
	if endStr != "" {
		parsedEnd, err := parseFlexibleTime(endStr)
		if err != nil {
			return nil, fmt.Errorf("invalid end_time %q: %w", endStr, err)
		}
		if !parsedEnd.Before(start) {
			end = parsedEnd
		}
	}

	emails := make([]string, 0, len(guestEmails))
	for _, e := range guestEmails {
		if e = strings.TrimSpace(e); e != "" {
			emails = append(emails, e)
		}
	}

	return &dto.EventDraft{
		Title:        title,
		Description:  strings.TrimSpace(description),
		Location:     strings.TrimSpace(location),
		StartTime:    start,
		EndTime:      end,
		GuestEmails:  emails,
		OriginalText: originalText,
	}, nil
}

// parseFlexibleTime accepts RFC 3339 and the bare forms models tend to emit.
func parseFlexibleTime(value string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, value, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// stripMarkdownFences removes a ```json ... ``` wrapper when the model adds one.
func stripMarkdownFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
