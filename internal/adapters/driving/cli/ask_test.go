package cli

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

func testAnswer() *domain.Answer {
	return &domain.Answer{
		Topic:    "Speed limits",
		Category: "Traffic",
		Summary:  "Cars may drive at most 50 in town.",
		Findings: []domain.Finding{
			{Group: "Urban", Item: "Cars", Limit: "50 km/h", Note: "unless signed"},
			{Group: "Rural", Item: "Cars", Limit: "80 km/h"},
			{Group: "Urban", Item: "Trucks", Limit: "40 km/h"},
		},
		Sources: []domain.AnswerSource{
			{Title: "limits.txt", SourceType: "remote"},
			{Title: "notes.md", SourceType: "local"},
		},
	}
}

func TestAskCmd_PrintsAnswer(t *testing.T) {
	ts := setupTestServices(t)
	ts.ask.answer = testAnswer()
	ts.ask.hits = testHits()

	out, _, err := execute(t, "", "ask", "what is the limit?")

	require.NoError(t, err)
	assert.Contains(t, out, "Speed limits")
	assert.Contains(t, out, "Traffic")
	assert.Contains(t, out, "Cars may drive at most 50 in town.")
	assert.Contains(t, out, "- Cars: 50 km/h")
	assert.Contains(t, out, "unless signed")
	assert.Contains(t, out, "- Trucks: 40 km/h")
	assert.Contains(t, out, "[1] limits.txt")
	assert.Contains(t, out, "https://drive.google.com/file/d/f1/view")

	// Groups are printed once, in first-seen order.
	assert.Equal(t, 1, strings.Count(out, "Urban"))
	assert.Less(t, strings.Index(out, "Urban"), strings.Index(out, "Rural"))
}

func TestAskCmd_JSON(t *testing.T) {
	ts := setupTestServices(t)
	ts.ask.answer = testAnswer()
	ts.ask.hits = testHits()

	out, _, err := execute(t, "", "ask", "limit?", "--json")
	require.NoError(t, err)

	var got domain.Answer
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Speed limits", got.Topic)
	require.Len(t, got.Sources, 2)
	assert.Equal(t, "https://drive.google.com/file/d/f1/view", got.Sources[0].URL)
	assert.Empty(t, got.Sources[1].URL)
}

func TestAskCmd_LLMUnavailable(t *testing.T) {
	ts := setupTestServices(t)
	ts.ask.err = domain.ErrLLMUnavailable

	_, _, err := execute(t, "", "ask", "q")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm.api_key")
}

func TestAskCmd_NoRelevantData(t *testing.T) {
	ts := setupTestServices(t)
	ts.ask.err = &domain.RetrievalError{Kind: domain.ErrNoRelevantData, Scope: domain.ScopeBoth, Query: "q"}

	out, _, err := execute(t, "", "ask", "q")

	require.NoError(t, err)
	assert.Contains(t, out, `no relevant data for "q"`)
}

func TestAskCmd_SynthesisError(t *testing.T) {
	ts := setupTestServices(t)
	ts.ask.err = errors.New("quota exceeded")

	_, _, err := execute(t, "", "ask", "q")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ask failed: quota exceeded")
}
