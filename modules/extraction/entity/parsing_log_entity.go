package entity

import (
	"time"

	"github.com/google/uuid"
)

// ParsingLog records one LLM extraction attempt for the analytics view.
type ParsingLog struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	UserID          *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	InputText       string     `db:"input_text" json:"input_text"`
	InputTextLength int        `db:"input_text_length" json:"input_text_length"`
	LLMProvider     string     `db:"llm_provider" json:"llm_provider"`
	LLMModel        string     `db:"llm_model" json:"llm_model"`
	Success         bool       `db:"success" json:"success"`
	ResponseTimeMs  *float64   `db:"response_time_ms" json:"response_time_ms,omitempty"`
	ErrorType       *string    `db:"error_type" json:"error_type,omitempty"`
	ErrorMessage    *string    `db:"error_message" json:"error_message,omitempty"`
	ParsedData      *string    `db:"parsed_data" json:"parsed_data,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}
