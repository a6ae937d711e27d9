package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, 1000, s.Chunking.WindowSize)
	assert.Equal(t, 200, s.Chunking.Overlap)
	assert.Equal(t, 50, s.Chunking.MinLength)
	assert.Equal(t, 6, s.Retrieval.TopK)
	assert.Equal(t, 10.0, s.Retrieval.ContentWeight)
	assert.Equal(t, 20.0, s.Retrieval.NameWeight)
	assert.Equal(t, 50, s.Ingest.BatchSize)
	assert.Equal(t, 500, s.Ingest.OutcomeLogLimit)
	assert.Equal(t, 5, s.Ingest.MinContentLength)
	assert.Equal(t, StorageSQLite, s.Storage.Backend)
	assert.False(t, s.Drive.IsConfigured())
	assert.False(t, s.LLM.IsConfigured())
	require.NoError(t, s.Validate())
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero window", func(s *Settings) { s.Chunking.WindowSize = 0 }},
		{"negative overlap", func(s *Settings) { s.Chunking.Overlap = -1 }},
		{"zero top k", func(s *Settings) { s.Retrieval.TopK = 0 }},
		{"zero batch", func(s *Settings) { s.Ingest.BatchSize = 0 }},
		{"bad backend", func(s *Settings) { s.Storage.Backend = "redis" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidInput)
		})
	}
}

func TestSettings_ProblemsListsEveryKey(t *testing.T) {
	s := DefaultSettings()
	s.Retrieval.TopK = 0
	s.Ingest.BatchSize = 0

	problems := s.Problems()
	require.Len(t, problems, 2)
	assert.Contains(t, problems[0].Error(), "retrieval.top_k")
	assert.Contains(t, problems[1].Error(), "ingest.batch_size")
	assert.Equal(t, problems[0], s.Validate())
	assert.Empty(t, DefaultSettings().Problems())
}

func TestDriveSettings_IsConfigured(t *testing.T) {
	assert.False(t, DriveSettings{RootFolderID: "abc"}.IsConfigured())
	assert.True(t, DriveSettings{RootFolderID: "abc", AccessToken: "tok"}.IsConfigured())
	assert.True(t, DriveSettings{RootFolderID: "abc", CredentialsFile: "sa.json"}.IsConfigured())
}

func TestDuration_Text(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("90s")))
	assert.Equal(t, 90*time.Second, time.Duration(d))

	b, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(b))

	assert.ErrorIs(t, d.UnmarshalText([]byte("soon")), ErrInvalidInput)
}

func TestScope(t *testing.T) {
	tests := []struct {
		scope  Scope
		remote bool
		local  bool
	}{
		{ScopeRemote, true, false},
		{ScopeLocal, false, true},
		{ScopeBoth, true, true},
		{Scope("other"), false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.scope), func(t *testing.T) {
			assert.Equal(t, tt.remote, tt.scope.Includes(DocSourceRemote))
			assert.Equal(t, tt.local, tt.scope.Includes(DocSourceLocal))
		})
	}
}

func TestParseScope(t *testing.T) {
	s, err := ParseScope("")
	require.NoError(t, err)
	assert.Equal(t, ScopeBoth, s)

	s, err = ParseScope("local")
	require.NoError(t, err)
	assert.Equal(t, ScopeLocal, s)

	_, err = ParseScope("drive")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestIngestItem_Fingerprint(t *testing.T) {
	mod := time.UnixMilli(1700000000123)

	item := IngestItem{Name: "a.txt", RelativePath: "docs/a.txt", Size: 42, ModTime: mod}
	assert.Equal(t, "42-1700000000123-docs/a.txt", item.Fingerprint())

	item.RelativePath = ""
	assert.Equal(t, "42-1700000000123-a.txt", item.Fingerprint())
}

func TestSyncReport_Duration(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	r := SyncReport{StartedAt: start}
	assert.Zero(t, r.Duration())

	r.FinishedAt = start.Add(3 * time.Second)
	assert.Equal(t, 3*time.Second, r.Duration())
}

func TestIngestResult_Count(t *testing.T) {
	r := &IngestResult{Outcomes: []ProcessingOutcome{
		{Status: OutcomeSuccess}, {Status: OutcomeSkipped}, {Status: OutcomeSuccess},
	}}
	assert.Equal(t, 2, r.Count(OutcomeSuccess))
	assert.Equal(t, 1, r.Count(OutcomeSkipped))
	assert.Zero(t, r.Count(OutcomeDuplicate))
}

func TestDecodeResult(t *testing.T) {
	assert.True(t, Decoded("x").OK())
	assert.False(t, DecodeFailed(ErrDecodeFailed).OK())
}
