package domain

import "errors"

var (
	// ErrInvalidRequest signals a malformed search request (empty query, bad limit).
	ErrInvalidRequest = errors.New("invalid request")
	// ErrSearchFailed is the umbrella error for any failed search call.
	ErrSearchFailed = errors.New("search failed")
	// ErrEmbeddingFailed signals an embedding provider failure.
	ErrEmbeddingFailed = errors.New("embedding failed")
	// ErrIndexQueryFailed signals a vector index failure.
	ErrIndexQueryFailed = errors.New("index query failed")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrLocationNotFound signals a missing location record.
	ErrLocationNotFound = errors.New("location not found")
	// ErrChatFailed signals an assistant provider failure.
	ErrChatFailed = errors.New("chat failed")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
)
