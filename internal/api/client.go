// Package api wraps the agent backend's HTTP endpoints. One request per
// call: no retry, no internal timeout, no cancellation beyond the caller's
// context.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/pkg/errors"
)

const (
	// envBaseURL overrides the configured host when set.
	envBaseURL = "CHATTERM_API_URL"
	// defaultBaseURL is the fallback host when nothing is configured.
	defaultBaseURL = "http://localhost:8000"
)

// HTTPError is returned for any non-2xx response, folding the status code
// and raw body text into its message.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client talks to one agent backend.
type Client struct {
	baseURL    string
	sessionID  string
	httpClient *http.Client
}

// NewClient instantiates a client for the given base URL and session.
func NewClient(baseURL, sessionID string) *Client {
	return &Client{
		baseURL:    baseURL,
		sessionID:  sessionID,
		httpClient: &http.Client{},
	}
}

// ResolveBaseURL picks the backend host: the environment override wins,
// then the configured host, then the hardcoded fallback. A trailing slash
// is stripped before path concatenation.
func ResolveBaseURL(configured string) string {
	baseURL := configured
	if override := os.Getenv(envBaseURL); override != "" {
		baseURL = override
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return strings.TrimSuffix(baseURL, "/")
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Input     string `json:"input"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// Chat sends one user input and returns the assistant's reply text. A
// success body without a usable response field yields an empty string, not
// an error; the caller decides what to show instead.
func (c *Client) Chat(ctx context.Context, input string) (string, error) {
	request := &chatRequest{SessionID: c.sessionID, Input: input}
	response := &chatResponse{}
	if err := c.post(ctx, "/chat", request, response); err != nil {
		return "", err
	}
	return response.Response, nil
}

// Evaluation is the grading backend's verdict on an essay.
type Evaluation struct {
	Essay          string  `json:"essay"`
	RelevanceScore float64 `json:"relevance_score"`
	GrammarScore   float64 `json:"grammar_score"`
	StructureScore float64 `json:"structure_score"`
	DepthScore     float64 `json:"depth_score"`
	FinalScore     float64 `json:"final_score"`
	Grade          string  `json:"grade"`
}

type gradeRequest struct {
	Essay string `json:"essay"`
}

// GradeEssay submits an essay for grading and returns the full evaluation.
func (c *Client) GradeEssay(ctx context.Context, essay string) (*Evaluation, error) {
	request := &gradeRequest{Essay: essay}
	evaluation := &Evaluation{}
	if err := c.post(ctx, "/grade-essay", request, evaluation); err != nil {
		return nil, err
	}
	return evaluation, nil
}

// Health reports whether the backend is up.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// CheckHealth pings the backend's health endpoint.
func (c *Client) CheckHealth(ctx context.Context) (*Health, error) {
	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	health := &Health{}
	if err := c.do(httpRequest, health); err != nil {
		return nil, err
	}
	return health, nil
}

func (c *Client) post(ctx context.Context, path string, request, response any) error {
	body, err := json.Marshal(request)
	if err != nil {
		return errors.Wrap(err, "marshaling request")
	}
	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	return c.do(httpRequest, response)
}

func (c *Client) do(httpRequest *http.Request, response any) error {
	httpResponse, err := c.httpClient.Do(httpRequest)
	if err != nil {
		return errors.Wrap(err, "sending request")
	}
	defer httpResponse.Body.Close()

	body, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return errors.Wrap(err, "reading response body")
	}

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode > 299 {
		return &HTTPError{StatusCode: httpResponse.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.Unmarshal(body, response); err != nil {
		return errors.Wrap(err, "unmarshaling response body")
	}
	return nil
}
