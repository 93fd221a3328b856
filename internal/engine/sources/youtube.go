// Package sources holds the upstream API clients.
//
// The YouTube Data API v3 client is split across three files:
//
//	youtube_types.go   response types for playlistItems, videos and commentThreads
//	youtube_client.go  client construction, API key decoration, request plumbing
//	youtube_errors.go  UpstreamError and Google error envelope parsing
package sources
