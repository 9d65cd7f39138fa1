package api

import (
	"time"
)

// Role represents the author of a conversation message
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// SessionStatus represents the lifecycle state of a session
type SessionStatus string

const (
	StatusActive   SessionStatus = "active"
	StatusInactive SessionStatus = "inactive"
	StatusExpired  SessionStatus = "expired"
)

// Session is a server-tracked conversational context
type Session struct {
	ID             string                 `json:"id"`
	OwnerID        string                 `json:"owner_id,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	LastAccessedAt time.Time              `json:"last_accessed_at"`
	ExpiresAt      *time.Time             `json:"expires_at,omitempty"`
	Status         SessionStatus          `json:"status"`
	Settings       Settings               `json:"settings"`
	History        []Message              `json:"history"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	CollectionName string                 `json:"collection_name,omitempty"`
}

// Message represents a single conversation exchange entry
type Message struct {
	Role      Role                   `json:"role"`
	Content   string                 `json:"content"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Settings contains per-session search and display preferences
type Settings struct {
	SearchMode         string                 `json:"search_mode"`
	ResultCount        int                    `json:"result_count"`
	UseReranking       bool                   `json:"use_reranking"`
	UseQueryExpansion  bool                   `json:"use_query_expansion"`
	UseDiversification bool                   `json:"use_diversification"`
	ShowScores         bool                   `json:"show_scores"`
	ShowMetadata       bool                   `json:"show_metadata"`
	MaxContentLength   int                    `json:"max_content_length"`
	DefaultCollection  string                 `json:"default_collection,omitempty"`
	CustomMetadata     map[string]interface{} `json:"custom_metadata,omitempty"`
}

// DefaultSettings returns the settings applied to new sessions when the
// caller does not override them
func DefaultSettings() Settings {
	return Settings{
		SearchMode:       "hybrid",
		ResultCount:      5,
		UseReranking:     true,
		MaxContentLength: 2000,
	}
}

// CreateSessionRequest is the body for POST /sessions
type CreateSessionRequest struct {
	OwnerID        string    `json:"owner_id,omitempty"`
	TTLMinutes     int       `json:"ttl_minutes,omitempty"`
	Settings       *Settings `json:"settings,omitempty"`
	CollectionName string    `json:"collection_name,omitempty"`
}

// ChatRequest is the body for POST /chat
type ChatRequest struct {
	Message            string    `json:"message"`
	SessionID          string    `json:"session_id"`
	History            []Message `json:"conversation_history,omitempty"`
	EnableURLScraping  bool      `json:"enable_url_scraping,omitempty"`
	EnableAutoIndexing bool      `json:"enable_auto_indexing,omitempty"`
	AgentType          string    `json:"agent_type,omitempty"`
}

// Source is a citation attached to an assistant response
type Source struct {
	Title   string  `json:"title,omitempty"`
	URL     string  `json:"url,omitempty"`
	Snippet string  `json:"snippet,omitempty"`
	Score   float64 `json:"score,omitempty"`
}

// ChatResponse is the reply for POST /chat
type ChatResponse struct {
	Response         string   `json:"response"`
	ScrapedURLs      []string `json:"scraped_urls,omitempty"`
	Sources          []Source `json:"sources,omitempty"`
	IndexedDocuments int      `json:"indexed_documents,omitempty"`
	SessionID        string   `json:"session_id"`
	Error            string   `json:"error,omitempty"`
}

// ListSessionsResponse is the reply for GET /sessions
type ListSessionsResponse struct {
	Sessions []Session `json:"sessions"`
	Total    int       `json:"total"`
}

// sessionEnvelope wraps a single session in create/get responses
type sessionEnvelope struct {
	Session *Session `json:"session"`
}

// ClientOptions contains options for creating an API client
type ClientOptions struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Headers map[string]string
}

// ClientOption is a functional option for configuring the client
type ClientOption func(*ClientOptions)

// WithBaseURL sets the service base URL
func WithBaseURL(url string) ClientOption {
	return func(o *ClientOptions) {
		o.BaseURL = url
	}
}

// WithAPIKey sets the API key sent as a bearer token
func WithAPIKey(key string) ClientOption {
	return func(o *ClientOptions) {
		o.APIKey = key
	}
}

// WithTimeout sets the request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(o *ClientOptions) {
		o.Timeout = timeout
	}
}

// WithHeaders sets additional headers
func WithHeaders(headers map[string]string) ClientOption {
	return func(o *ClientOptions) {
		if o.Headers == nil {
			o.Headers = make(map[string]string)
		}
		for k, v := range headers {
			o.Headers[k] = v
		}
	}
}
