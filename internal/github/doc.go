// Package github fetches release metadata and merged pull requests from the
// GitHub REST API for changelog generation.
//
// Requests go through go-github for request construction, authentication and
// error decoding. Throttled responses (HTTP 429, or a 403 that reports a rate
// limit) are retried with exponential backoff; every other failure is returned
// immediately.
package github
