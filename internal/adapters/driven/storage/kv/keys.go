// Package kv implements the ragdrive stores on top of any driven.KVStore.
//
// Values are JSON. The key layout is:
//
//	index/<root>              []IndexEntry of the last commit
//	chunkset/<root>           flattened []Chunk of the last commit
//	meta/<root>               SyncMetadata of the last commit
//	chunks/<root>/<fileID>@<modifiedTime>
//	                          []Chunk of one version of a remote file
//	local/documents           []LocalDocument
//	local/outcomes            []ProcessingOutcome, newest first
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
	"github.com/custodia-labs/ragdrive/internal/core/ports/driven"
)

// Key builders.
func indexKey(rootID string) string { return "index/" + rootID }
func chunkSetKey(rootID string) string { return "chunkset/" + rootID }
func metaKey(rootID string) string { return "meta/" + rootID }
func fileChunksKey(rootID, fileID, version string) string {
	return "chunks/" + rootID + "/" + fileID + "@" + version
}

const (
	documentsKey = "local/documents"
	outcomesKey  = "local/outcomes"
)

// getJSON decodes the value under key into v. A missing key leaves v
// untouched and returns domain.ErrNotFound.
func getJSON(ctx context.Context, kv driven.KVStore, key string, v any) error {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// getJSONOrEmpty is getJSON that treats a missing key as empty.
func getJSONOrEmpty(ctx context.Context, kv driven.KVStore, key string, v any) error {
	err := getJSON(ctx, kv, key, v)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

func marshal(key string, v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", key, err)
	}
	return b, nil
}
