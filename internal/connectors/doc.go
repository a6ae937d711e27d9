// Package connectors holds the sources documents are read from: the
// Google Drive folder tree (google/drive) and local files handed to the
// ingestion pipeline (filesystem).
package connectors
