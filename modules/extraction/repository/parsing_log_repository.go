package repository

import (
	"context"

	"eventra/core/database"
	"eventra/core/logger"
	"eventra/modules/extraction/entity"
)

// AnalyticsStats aggregates parsing outcomes.
type AnalyticsStats struct {
	TotalRequests     int      `db:"total_requests"`
	Successful        int      `db:"successful"`
	Failed            int      `db:"failed"`
	AvgResponseTimeMs *float64 `db:"avg_response_time_ms"`
	AvgInputLength    *float64 `db:"avg_input_length"`
}

type ParsingLogRepository interface {
	Create(ctx context.Context, log *entity.ParsingLog) error
	GetStats(ctx context.Context, days int) (*AnalyticsStats, error)
	GetErrorBreakdown(ctx context.Context, days int) (map[string]int, error)
	GetRecent(ctx context.Context, limit, offset int) ([]entity.ParsingLog, error)
}

type parsingLogRepository struct {
	db database.IDatabase
}

func NewParsingLogRepository(db database.IDatabase) ParsingLogRepository {
	return &parsingLogRepository{db: db}
}

func (r *parsingLogRepository) Create(ctx context.Context, log *entity.ParsingLog) error {
	query := `
		INSERT INTO llm_parsing_logs (user_id, input_text, input_text_length, llm_provider,
			llm_model, success, response_time_ms, error_type, error_message, parsed_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	err := r.db.ExecContext(ctx, query,
		log.UserID, log.InputText, log.InputTextLength, log.LLMProvider,
		log.LLMModel, log.Success, log.ResponseTimeMs, log.ErrorType,
		log.ErrorMessage, log.ParsedData,
	)
	if err != nil {
		logger.Error("ParsingLogRepository:Create:Error", "error", err)
		return err
	}
	return nil
}

// GetStats aggregates parsing attempts from the last `days` days.
func (r *parsingLogRepository) GetStats(ctx context.Context, days int) (*AnalyticsStats, error) {
	var stats AnalyticsStats
	query := `
		SELECT
			COUNT(*) AS total_requests,
			COUNT(*) FILTER (WHERE success) AS successful,
			COUNT(*) FILTER (WHERE NOT success) AS failed,
			AVG(response_time_ms) AS avg_response_time_ms,
			AVG(input_text_length) AS avg_input_length
		FROM llm_parsing_logs
		WHERE created_at >= NOW() - ($1 * INTERVAL '1 day')
	`
	if err := r.db.GetContext(ctx, &stats, query, days); err != nil {
		logger.Error("ParsingLogRepository:GetStats:Error", "error", err)
		return nil, err
	}
	return &stats, nil
}

// GetErrorBreakdown counts failed attempts per error type over the same window.
func (r *parsingLogRepository) GetErrorBreakdown(ctx context.Context, days int) (map[string]int, error) {
	query := `
		SELECT error_type, COUNT(*) AS count
		FROM llm_parsing_logs
		WHERE NOT success
			AND error_type IS NOT NULL
			AND created_at >= NOW() - ($1 * INTERVAL '1 day')
		GROUP BY error_type
	`
	var rows []struct {
		ErrorType string `db:"error_type"`
		Count     int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, days); err != nil {
		logger.Error("ParsingLogRepository:GetErrorBreakdown:Error", "error", err)
		return nil, err
	}

	breakdown := make(map[string]int, len(rows))
	for _, row := range rows {
		breakdown[row.ErrorType] = row.Count
	}
	return breakdown, nil
}

func (r *parsingLogRepository) GetRecent(ctx context.Context, limit, offset int) ([]entity.ParsingLog, error) {
	query := `
		SELECT id, user_id, input_text, input_text_length, llm_provider, llm_model,
			success, response_time_ms, error_type, error_message, parsed_data, created_at
		FROM llm_parsing_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	var logs []entity.ParsingLog
	if err := r.db.SelectContext(ctx, &logs, query, limit, offset); err != nil {
		logger.Error("ParsingLogRepository:GetRecent:Error", "error", err)
		return nil, err
	}
	return logs, nil
}
