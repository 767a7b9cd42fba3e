// Package judge adapts the remote Judge0 CE execution service for grading
// coding questions. Failures never escape this boundary: transport errors,
// missing credentials and unsupported languages all degrade to failed test
// results so the rest of a submission can still be scored.
package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/codexam/codexam-backend/internal/config"
	"github.com/codexam/codexam-backend/internal/model"
)

// Judge0 language ids for the supported languages.
var languageIDs = map[string]int{
	"javascript": 63, // Node.js
	"python":     71, // Python 3
	"c++":        54, // C++ (GCC 9.2.0)
	"java":       62, // Java (OpenJDK 13.0.1)
}

// TestResult is the verdict for one test case.
//
// ConfigError distinguishes "the judge could not run at all" (bad
// credentials, unsupported language) from a genuine wrong answer, so the
// UI and manual graders can tell the difference.
type TestResult struct {
	Passed         bool   `json:"passed"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	ActualOutput   string `json:"actual_output,omitempty"`
	Error          string `json:"error,omitempty"`
	ConfigError    bool   `json:"config_error,omitempty"`
}

// Client talks to a Judge0-compatible execution service.
type Client struct {
	baseURL string
	apiHost string
	apiKey  string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a judge client from configuration. The per-request
// timeout bounds every remote execution so a stuck judge cannot block a
// submission indefinitely.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	apiHost := ""
	if u, err := url.Parse(cfg.JudgeBaseURL); err == nil {
		apiHost = u.Host
	}
	return &Client{
		baseURL: cfg.JudgeBaseURL,
		apiHost: apiHost,
		apiKey:  cfg.JudgeAPIKey,
		http:    &http.Client{Timeout: cfg.JudgeTimeout},
		log:     log.With().Str("component", "judge").Logger(),
	}
}

// SupportedLanguages returns the language identifiers the judge accepts.
func SupportedLanguages() []string {
	langs := make([]string, 0, len(languageIDs))
	for l := range languageIDs {
		langs = append(langs, l)
	}
	return langs
}

// Run executes the source against every test case, sequentially to respect
// the remote service's rate limits, and returns one result per case.
func (c *Client) Run(ctx context.Context, source, language string, cases []model.TestCase) []TestResult {
	results := make([]TestResult, 0, len(cases))

	langID, ok := languageIDs[strings.ToLower(language)]
	if !ok {
		msg := fmt.Sprintf("language %q is not supported (supported: %s)",
			language, strings.Join(SupportedLanguages(), ", "))
		return c.failAll(cases, msg, true)
	}
	if c.apiKey == "" {
		return c.failAll(cases, "judge API key is not configured", true)
	}

	for _, tc := range cases {
		results = append(results, c.runOne(ctx, source, langID, tc))
	}
	return results
}

type submissionRequest struct {
	LanguageID int    `json:"language_id"`
	SourceCode string `json:"source_code"`
	Stdin      string `json:"stdin"`
}

type submissionResponse struct {
	Stdout        string `json:"stdout"`
	Stderr        string `json:"stderr"`
	CompileOutput string `json:"compile_output"`
	Message       string `json:"message"`
}

// runOne submits one execution and waits synchronously for the verdict.
// Non-empty compile_output means a compilation failure, non-empty stderr a
// runtime failure; otherwise the trimmed stdout is compared to the trimmed
// expected output.
func (c *Client) runOne(ctx context.Context, source string, langID int, tc model.TestCase) TestResult {
	result := TestResult{Input: tc.Input, ExpectedOutput: tc.ExpectedOutput}

	resp, err := c.execute(ctx, source, langID, tc.Input)
	if err != nil {
		c.log.Warn().Err(err).Msg("judge execution failed")
		result.Error = fmt.Sprintf("execution error: %v", err)
		return result
	}

	switch {
	case resp.CompileOutput != "":
		result.Error = resp.CompileOutput
	case resp.Stderr != "":
		result.Error = resp.Stderr
	default:
		result.ActualOutput = resp.Stdout
		result.Passed = strings.TrimSpace(resp.Stdout) == strings.TrimSpace(tc.ExpectedOutput)
	}
	return result
}

func (c *Client) execute(ctx context.Context, source string, langID int, stdin string) (*submissionResponse, error) {
	body, err := json.Marshal(submissionRequest{
		LanguageID: langID,
		SourceCode: source,
		Stdin:      stdin,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal submission: %w", err)
	}

	endpoint := c.baseURL + "?base64_encoded=false&wait=true"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.apiHost)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit code: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("judge returned HTTP %d", resp.StatusCode)
	}

	var out submissionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode verdict: %w", err)
	}

	c.log.Debug().
		Dur("elapsed", time.Since(start)).
		Int("language_id", langID).
		Msg("judge verdict received")

	return &out, nil
}

func (c *Client) failAll(cases []model.TestCase, msg string, configErr bool) []TestResult {
	c.log.Warn().Str("reason", msg).Msg("judge unavailable, failing all test cases")
	results := make([]TestResult, 0, len(cases))
	for _, tc := range cases {
		results = append(results, TestResult{
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			Error:          msg,
			ConfigError:    configErr,
		})
	}
	return results
}
