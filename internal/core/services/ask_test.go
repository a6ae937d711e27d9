package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

func TestAskService_NoSynthesizer(t *testing.T) {
	svc := NewAskService(newRetrievalEnv(t, nil, nil), nil)

	_, _, err := svc.Ask(context.Background(), "tea", domain.RetrieveOptions{})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestAskService_PassesRetrievedChunks(t *testing.T) {
	synth := &mockSynthesizer{answer: &domain.Answer{Topic: "Tea", Summary: "Limit is 0.1 ppm"}}
	retrieval := newRetrievalEnv(t,
		[]domain.Chunk{remoteChunk("r1", "limits.txt", "tea limit 0.1 ppm")},
		[]domain.LocalDocument{localDoc("l1", "notes.txt", "tea notes")},
	)

	answer, hits, err := NewAskService(retrieval, synth).Ask(context.Background(), "tea limit", domain.RetrieveOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Limit is 0.1 ppm", answer.Summary)
	require.Len(t, hits, 2)
	assert.Equal(t, "tea limit", synth.query)
	require.Len(t, synth.passages, 2)
	assert.Equal(t, domain.Passage{SourceLabel: domain.DocSourceRemote, FileName: "limits.txt", Text: "tea limit 0.1 ppm"}, synth.passages[0])
	assert.Equal(t, domain.DocSourceLocal, synth.passages[1].SourceLabel)
}

func TestAskService_RetrievalErrorSkipsSynthesis(t *testing.T) {
	synth := &mockSynthesizer{}
	svc := NewAskService(newRetrievalEnv(t, nil, nil), synth)

	_, _, err := svc.Ask(context.Background(), "tea", domain.RetrieveOptions{})
	assert.ErrorIs(t, err, domain.ErrEmptyScope)
	assert.Empty(t, synth.query)
}

func TestAskService_SynthesisFailureKeepsHits(t *testing.T) {
	synth := &mockSynthesizer{err: errors.New("quota exceeded")}
	svc := NewAskService(newRetrievalEnv(t, []domain.Chunk{remoteChunk("r1", "a.txt", "tea")}, nil), synth)

	_, hits, err := svc.Ask(context.Background(), "tea", domain.RetrieveOptions{})
	assert.ErrorContains(t, err, "quota exceeded")
	assert.Len(t, hits, 1)
}
