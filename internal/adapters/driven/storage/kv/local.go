package kv

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
	"github.com/custodia-labs/ragdrive/internal/core/ports/driven"
)

// Ensure the local stores implement the interfaces.
var (
	_ driven.LocalDocumentStore = (*DocumentStore)(nil)
	_ driven.OutcomeStore       = (*OutcomeStore)(nil)
)

// DocumentStore keeps the whole local library under one key.
type DocumentStore struct {
	kv driven.KVStore
}

// NewDocumentStore creates a document store over kv.
func NewDocumentStore(kv driven.KVStore) *DocumentStore {
	return &DocumentStore{kv: kv}
}

// Load returns every document.
func (s *DocumentStore) Load(ctx context.Context) ([]domain.LocalDocument, error) {
	docs := []domain.LocalDocument{}
	if err := getJSONOrEmpty(ctx, s.kv, documentsKey, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Save replaces the library.
func (s *DocumentStore) Save(ctx context.Context, docs []domain.LocalDocument) error {
	if docs == nil {
		docs = []domain.LocalDocument{}
	}
	b, err := marshal(documentsKey, docs)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, documentsKey, b); err != nil {
		return fmt.Errorf("save documents: %w", err)
	}
	return nil
}

// OutcomeStore keeps the outcome log under one key.
type OutcomeStore struct {
	kv driven.KVStore
}

// NewOutcomeStore creates an outcome store over kv.
func NewOutcomeStore(kv driven.KVStore) *OutcomeStore {
	return &OutcomeStore{kv: kv}
}

// Load returns the log, newest first.
func (s *OutcomeStore) Load(ctx context.Context) ([]domain.ProcessingOutcome, error) {
	log := []domain.ProcessingOutcome{}
	if err := getJSONOrEmpty(ctx, s.kv, outcomesKey, &log); err != nil {
		return nil, err
	}
	return log, nil
}

// Save replaces the log.
func (s *OutcomeStore) Save(ctx context.Context, outcomes []domain.ProcessingOutcome) error {
	if outcomes == nil {
		outcomes = []domain.ProcessingOutcome{}
	}
	b, err := marshal(outcomesKey, outcomes)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, outcomesKey, b); err != nil {
		return fmt.Errorf("save outcomes: %w", err)
	}
	return nil
}
