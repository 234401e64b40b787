package dto

import "time"

type ExtractRequest struct {
	Text string `json:"text" validate:"required"`
}

// EventDraft is the structured result of one extraction. It is not persisted;
// the client reviews it and submits it as a create event request.
type EventDraft struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	GuestEmails  []string  `json:"guest_emails,omitempty"`
	OriginalText string    `json:"original_text"`
}

type AnalyticsResponse struct {
	Days              int            `json:"days"`
	TotalRequests     int            `json:"total_requests"`
	Successful        int            `json:"successful"`
	Failed            int            `json:"failed"`
	SuccessRate       float64        `json:"success_rate"`
	AvgResponseTimeMs *float64       `json:"avg_response_time_ms,omitempty"`
	AvgInputLength    *float64       `json:"avg_input_length,omitempty"`
	ErrorBreakdown    map[string]int `json:"error_breakdown"`
}
