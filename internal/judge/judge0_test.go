package judge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codexam/codexam-backend/internal/config"
	"github.com/codexam/codexam-backend/internal/model"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		JudgeBaseURL: srv.URL + "/submissions",
		JudgeAPIKey:  "test-key",
		JudgeTimeout: 5 * time.Second,
	}
	return NewClient(cfg, zerolog.Nop())
}

func respond(t *testing.T, w http.ResponseWriter, body submissionResponse) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestRunComparesTrimmedStdout(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "false", r.URL.Query().Get("base64_encoded"))
		assert.Equal(t, "true", r.URL.Query().Get("wait"))
		assert.Equal(t, "test-key", r.Header.Get("X-RapidAPI-Key"))

		var req submissionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 71, req.LanguageID)

		respond(t, w, submissionResponse{Stdout: "42\n"})
	})

	results := c.Run(context.Background(), "print(42)", "python", []model.TestCase{
		{Input: "", ExpectedOutput: "42"},
	})

	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)
	assert.Equal(t, "42\n", results[0].ActualOutput)
	assert.False(t, results[0].ConfigError)
}

func TestRunWrongOutputFails(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, submissionResponse{Stdout: "41"})
	})

	results := c.Run(context.Background(), "print(41)", "python", []model.TestCase{
		{ExpectedOutput: "42"},
	})

	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.Empty(t, results[0].Error)
}

func TestRunCompileErrorFails(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, submissionResponse{CompileOutput: "syntax error near line 3"})
	})

	results := c.Run(context.Background(), "int main( {", "c++", []model.TestCase{
		{ExpectedOutput: "42"},
	})

	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.Contains(t, results[0].Error, "syntax error")
}

func TestRunStderrFails(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, submissionResponse{Stdout: "42", Stderr: "panic: index out of range"})
	})

	results := c.Run(context.Background(), "x", "javascript", []model.TestCase{
		{ExpectedOutput: "42"},
	})

	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.Contains(t, results[0].Error, "panic")
}

func TestRunUnsupportedLanguage(t *testing.T) {
	called := false
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	results := c.Run(context.Background(), "puts 42", "ruby", []model.TestCase{
		{ExpectedOutput: "42"}, {ExpectedOutput: "43"},
	})

	require.Len(t, results, 2)
	for _, r := range results {
		assert.False(t, r.Passed)
		assert.True(t, r.ConfigError)
	}
	assert.False(t, called, "no request should reach the judge")
}

func TestRunMissingAPIKey(t *testing.T) {
	cfg := &config.Config{
		JudgeBaseURL: "https://judge.invalid/submissions",
		JudgeTimeout: time.Second,
	}
	c := NewClient(cfg, zerolog.Nop())

	results := c.Run(context.Background(), "print(42)", "python", []model.TestCase{
		{ExpectedOutput: "42"},
	})

	require.Len(t, results, 1)
	assert.True(t, results[0].ConfigError)
}

func TestRunServerErrorDegradesToFailure(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	results := c.Run(context.Background(), "print(42)", "python", []model.TestCase{
		{ExpectedOutput: "42"},
	})

	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.Contains(t, results[0].Error, "execution error")
	assert.False(t, results[0].ConfigError)
}

func TestRunOneResultPerCase(t *testing.T) {
	var inputs []string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req submissionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		inputs = append(inputs, req.Stdin)
		respond(t, w, submissionResponse{Stdout: "ok"})
	})

	cases := []model.TestCase{
		{Input: "1", ExpectedOutput: "ok"},
		{Input: "2", ExpectedOutput: "ok"},
		{Input: "3", ExpectedOutput: "nope"},
	}
	results := c.Run(context.Background(), "src", "java", cases)

	require.Len(t, results, 3)
	assert.Equal(t, []string{"1", "2", "3"}, inputs)
	assert.True(t, results[0].Passed)
	assert.True(t, results[1].Passed)
	assert.False(t, results[2].Passed)
}
