// Package driving declares what the CLI and the MCP server may ask of the
// core: syncing a Drive folder, retrieving and answering, and managing the
// local library. internal/core/services implements them.
package driving
