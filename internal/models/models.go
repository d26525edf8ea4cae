// Package models defines the core data structures used throughout the application.
package models

import (
	"time"
)

// Category is the topic a claim is routed to for comparison.
type Category string

const (
	CategoryAward    Category = "award"
	CategoryDirector Category = "director"
	CategoryYear     Category = "year"
	CategoryCast     Category = "cast"
	CategoryGeneric  Category = "generic"
)

// Confidence is the ordinal confidence attached to a verdict.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Method records how a verdict was reached.
type Method string

const (
	MethodNone   Method = "none"
	MethodRules  Method = "rules"
	MethodOracle Method = "oracle"
)

// Intent is the user's goal as detected by the interpreter.
type Intent string

const (
	IntentSearch    Intent = "search"
	IntentAnalysis  Intent = "analysis"
	IntentFactCheck Intent = "fact_check"
	IntentReport    Intent = "report"
	IntentUnknown   Intent = "unknown"
)

// Valid reports whether i is one of the known intents.
func (i Intent) Valid() bool {
	switch i {
	case IntentSearch, IntentAnalysis, IntentFactCheck, IntentReport, IntentUnknown:
		return true
	}
	return false
}

// MediaType distinguishes TMDB movies from TV series.
type MediaType string

const (
	MediaMovie MediaType = "movie"
	MediaTV    MediaType = "tv"
)

// Verdict is the result of checking one claim against one evidence record.
type Verdict struct {
	Claim      string     `json:"claim"`
	IsTrue     Truth      `json:"is_true"`
	Evidence   string     `json:"evidence"`
	Confidence Confidence `json:"confidence"`
	Category   Category   `json:"category,omitempty"`
	Method     Method     `json:"method"`
}

// TitleRef identifies the film or series a query is about.
type TitleRef struct {
	Title     string    `json:"title"`
	TMDBID    int       `json:"tmdb_id,omitempty"`
	MediaType MediaType `json:"media_type,omitempty"`
}

// Interpretation is the interpreter's reading of a user query.
type Interpretation struct {
	Intent         Intent   `json:"intent"`
	Target         TitleRef `json:"target"`
	Person         string   `json:"person,omitempty"`
	Claim          string   `json:"claim"`
	Task           string   `json:"task,omitempty"`
	NeedsWeb       bool     `json:"needs_web"`
	NeedsFactCheck bool     `json:"needs_fact_check"`
	Purpose        string   `json:"query_purpose,omitempty"`
}

// Report describes a rendered markdown report.
type Report struct {
	Summary   string `json:"summary"`
	Filename  string `json:"filename"`
	Timestamp string `json:"timestamp"`
	Content   string `json:"-"`
}

// ChatResult is what the assistant returns for a chat query.
type ChatResult struct {
	ID             string          `json:"id"`
	Response       string          `json:"response"`
	Interpretation Interpretation  `json:"interpretation"`
	Evidence       *EvidenceRecord `json:"evidence,omitempty"`
	Verdict        *Verdict        `json:"verdict,omitempty"`
	Report         *Report         `json:"report,omitempty"`
}

// QueryRecord is a persisted chat query with its outcome.
type QueryRecord struct {
	ID         string     `json:"id"`
	Query      string     `json:"query"`
	Intent     Intent     `json:"intent"`
	Title      string     `json:"title"`
	Claim      string     `json:"claim,omitempty"`
	IsTrue     Truth      `json:"is_true"`
	Confidence Confidence `json:"confidence,omitempty"`
	Category   Category   `json:"category,omitempty"`
	Method     Method     `json:"method,omitempty"`
	Evidence   string     `json:"evidence,omitempty"`
	ReportPath string     `json:"report_path,omitempty"`
	Response   string     `json:"response"`
	CreatedAt  time.Time  `json:"created_at"`
}

// AuditLog represents an API request audit entry.
type AuditLog struct {
	ID           string    `json:"id"`
	RequestID    string    `json:"request_id"`
	Endpoint     string    `json:"endpoint"`
	Method       string    `json:"method"`
	RemoteAddr   string    `json:"remote_addr"`
	RequestSize  int64     `json:"request_size"`
	ResponseCode int       `json:"response_code"`
	DurationMs   int64     `json:"duration_ms"`
	Timestamp    time.Time `json:"timestamp"`
}

// ChatRequest is the request body for the chat endpoint.
type ChatRequest struct {
	Query string `json:"query"`
}

// VerifyRequest is the request body for direct claim verification.
type VerifyRequest struct {
	Query    string          `json:"query"`
	Evidence *EvidenceRecord `json:"evidence"`
}
