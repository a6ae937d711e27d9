// Package google provides shared infrastructure for the Google Drive
// connector.
//
// It contains:
//   - token sources for a static access token or a service account key
//   - the Drive API service factory
//   - mapping of Google API errors to *domain.ProviderError
//   - a token bucket rate limiter and a retrying call wrapper
//
// # Usage
//
//	ts, err := google.NewTokenSource(ctx, settings.Drive)
//	svc, err := google.NewDriveService(ctx, ts)
//	retrier := google.NewRetrier(google.NewRateLimiter(8, 10), 3)
//
// # OAuth2 Scopes
//
// Only https://www.googleapis.com/auth/drive.readonly is requested.
package google
