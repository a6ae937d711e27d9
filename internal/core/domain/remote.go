package domain

// RemoteFileDescriptor describes a non-folder file found while crawling
// a remote folder tree.
type RemoteFileDescriptor struct {
	// ID is the provider's stable file identifier.
	ID string `json:"id"`

	// Name is the display name of the file.
	Name string `json:"name"`

	// MIMEType is the provider-reported MIME type.
	MIMEType string `json:"mimeType"`

	// Size is the byte size reported by the provider. Zero for
	// provider-native documents that have no binary size.
	Size int64 `json:"size,omitempty"`

	// ModifiedTime is the provider's RFC 3339 modification timestamp.
	// It is compared verbatim and never parsed.
	ModifiedTime string `json:"modifiedTime"`

	// Checksum is the provider's content hash, when available.
	Checksum string `json:"checksum,omitempty"`

	// Path is the slash-joined folder path from the crawl root,
	// including the file name.
	Path string `json:"path"`
}

// RemoteEntry is a single item returned by a folder listing page.
type RemoteEntry struct {
	RemoteFileDescriptor

	// IsFolder marks entries that must be descended into.
	IsFolder bool
}

// ListPage is one page of a folder listing.
type ListPage struct {
	// Entries are the children returned in this page.
	Entries []RemoteEntry

	// NextPageToken is empty on the final page.
	NextPageToken string

	// Query is the provider query used, kept for diagnostics.
	Query string
}

// CrawlDiagnostics records what the crawler did. It is populated on
// success and on failure.
type CrawlDiagnostics struct {
	// RootID is the folder the crawl started from.
	RootID string

	// FoldersVisited counts folders whose listing was started.
	FoldersVisited int

	// PagesFetched counts listing pages returned by the provider.
	PagesFetched int

	// LastStatus is the last HTTP status seen. Zero if none was reported.
	LastStatus int

	// ErrorMessage is the provider message of the failing request.
	ErrorMessage string

	// Query is the last listing query issued.
	Query string
}

// CrawlResult is the flat listing of every file under a root.
type CrawlResult struct {
	// Files holds every non-folder descendant of the root.
	Files []RemoteFileDescriptor

	// Diagnostics describes the traversal.
	Diagnostics CrawlDiagnostics
}
