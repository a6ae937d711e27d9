package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
	"github.com/custodia-labs/ragdrive/internal/core/ports/driven"
	"github.com/custodia-labs/ragdrive/internal/logger"
)

// RootFolderName is the name reported for the crawl root.
const RootFolderName = "Root"

// FolderProgressFunc is called with a folder's name before it is listed.
type FolderProgressFunc func(folderName string)

// Crawler flattens a remote folder tree into a list of files.
type Crawler struct {
	provider driven.RemoteFileProvider
	log      logger.Component
}

// NewCrawler creates a crawler over the given provider.
func NewCrawler(provider driven.RemoteFileProvider) *Crawler {
	return &Crawler{provider: provider, log: logger.For("crawler")}
}

type queuedFolder struct {
	id   string
	name string
	path string
}

// Crawl walks the tree under rootID breadth-first and returns every
// non-folder descendant. Folders already visited are skipped, so cycles
// and shared folders are listed once. Each folder is paged until the
// provider returns no next page token.
//
// A listing failure aborts the crawl: the returned result carries only
// diagnostics and the error is a *domain.CrawlError.
func (c *Crawler) Crawl(ctx context.Context, rootID string, onFolder FolderProgressFunc) (*domain.CrawlResult, error) {
	result := &domain.CrawlResult{
		Diagnostics: domain.CrawlDiagnostics{RootID: rootID},
	}
	diag := &result.Diagnostics

	queue := []queuedFolder{{id: rootID, name: RootFolderName}}
	visited := make(map[string]bool)
	seenFiles := make(map[string]bool)
	var files []domain.RemoteFileDescriptor

	for len(queue) > 0 {
		folder := queue[0]
		queue = queue[1:]

		if visited[folder.id] {
			continue
		}
		visited[folder.id] = true
		diag.FoldersVisited++

		if onFolder != nil {
			onFolder(folder.name)
		}
		c.log.Debug("listing folder %s (%s)", folder.name, folder.id)

		pageToken := ""
		for {
			if err := ctx.Err(); err != nil {
				return result, fmt.Errorf("crawl: %w", err)
			}

			page, err := c.provider.List(ctx, folder.id, pageToken)
			if err != nil {
				crawlErr := newCrawlError(folder.id, err)
				diag.LastStatus = crawlErr.Status
				diag.ErrorMessage = crawlErr.Message
				c.log.Warn("listing %s failed: %v", folder.id, err)
				return result, crawlErr
			}
			diag.PagesFetched++
			diag.LastStatus = 200
			diag.Query = page.Query

			for _, entry := range page.Entries {
				entryPath := joinPath(folder.path, entry.Name)
				if entry.IsFolder {
					if !visited[entry.ID] {
						queue = append(queue, queuedFolder{id: entry.ID, name: entry.Name, path: entryPath})
					}
					continue
				}
				if seenFiles[entry.ID] {
					continue
				}
				seenFiles[entry.ID] = true

				file := entry.RemoteFileDescriptor
				file.Path = entryPath
				files = append(files, file)
			}

			if page.NextPageToken == "" {
				break
			}
			pageToken = page.NextPageToken
		}
	}

	result.Files = files
	c.log.Info("crawl of %s found %d files in %d folders", rootID, len(files), diag.FoldersVisited)
	return result, nil
}

func newCrawlError(folderID string, err error) *domain.CrawlError {
	ce := &domain.CrawlError{FolderID: folderID, Message: err.Error(), Err: err}
	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		ce.Status = pe.Status
		ce.Message = pe.Message
	}
	return ce
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}
