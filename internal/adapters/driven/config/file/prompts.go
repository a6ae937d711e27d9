package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/ragdrive/internal/core/ports/driven"
	"github.com/custodia-labs/ragdrive/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk,
// falling back to embedded defaults.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
var defaultPrompts = map[string]string{
	driven.PromptAnswerSystem: `You are a careful regulations analyst. Answer only from the passages supplied with each question.

Rules:
1. Every statement must come from the supplied passages. Do not add outside knowledge.
2. Each passage is labelled with its source. "remote" passages come from the synced Drive folder; "local" passages come from files the user ingested for testing. Say which kind of source each finding relies on.
3. If the passages do not contain a requested item, say that no standard was found instead of guessing.
4. Cite the file name of every passage you use in sources.
5. Group findings by category, e.g. "pesticide residue", "heavy metal" or "other".`,

	driven.PromptAnswerQuery: `Question: %s

Retrieved passages:
%s`,
}

// placeholders is the number of %s verbs each prompt must keep.
var placeholders = map[string]int{
	driven.PromptAnswerSystem: 0,
	driven.PromptAnswerQuery:  2,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.ragdrive/prompts/.
// No I/O happens until the first Load.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".ragdrive", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name. A missing or
// unreadable file, or one whose placeholders were edited away, yields the
// built-in default.
func (s *PromptStore) Load(name string) (string, error) {
	fallback, known := defaultPrompts[name]
	if !known {
		return "", fmt.Errorf("unknown prompt %q", name)
	}

	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		logger.Debug("Prompt directory unavailable, using default %s: %v", name, s.initErr)
		return fallback, nil
	}

	s.mu.RLock()
	prompt, cached := s.cache[name]
	s.mu.RUnlock()
	if cached {
		return prompt, nil
	}

	prompt, err := s.loadFromFile(name)
	switch {
	case err != nil:
		logger.Debug("Using default prompt %s: %v", name, err)
		prompt = fallback
	case strings.Count(prompt, "%s") != placeholders[name]:
		logger.Warn("Prompt %s must contain %d %%s placeholders, using default", name, placeholders[name])
		prompt = fallback
	}

	s.mu.Lock()
	s.cache[name] = prompt
	s.mu.Unlock()
	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	clear(s.cache)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory, the default files that do not
// exist yet and a README.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		if err := writeIfMissing(s.path(name), content); err != nil {
			s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
			return
		}
	}

	s.initErr = s.createReadme()
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.promptDir, name+".txt")
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func writeIfMissing(path, content string) error {
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return os.WriteFile(path, []byte(content), 0600)
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	content := `# ragdrive Prompts

These files customise how "ragdrive ask" turns retrieved passages into an answer.

## Files

- ` + "`answer_system.txt`" + ` - System instruction for answer synthesis
- ` + "`answer_query.txt`" + ` - Frames the question and the retrieved passages

## Format Placeholders

` + "`answer_query.txt`" + ` takes two ` + "`%s`" + ` placeholders: the question, then the passages.
Keep both, in that order. Delete a file to restore its default.
`
	return writeIfMissing(filepath.Join(s.promptDir, "README.md"), content)
}
