package apperror

import (
	"fmt"
	"net/http"
)

// Coded is the contract handlers use to map an error onto an HTTP reply.
type Coded interface {
	error
	ErrCode() string
	StatusCode() int
}

type ValidationError string

func (err ValidationError) Error() string   { return string(err) }
func (err ValidationError) ErrCode() string { return "VALIDATION_ERROR" }
func (err ValidationError) StatusCode() int { return http.StatusBadRequest }

type UnauthorizedError string

func (err UnauthorizedError) Error() string   { return string(err) }
func (err UnauthorizedError) ErrCode() string { return "UNAUTHORIZED" }
func (err UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }

type NotFoundError string

func (err NotFoundError) Error() string   { return string(err) }
func (err NotFoundError) ErrCode() string { return "NOT_FOUND" }
func (err NotFoundError) StatusCode() int { return http.StatusNotFound }

// ConflictError is kept distinct from validation so the UI can offer
// "choose another" messaging, e.g. for an already-claimed booking slug.
type ConflictError string

func (err ConflictError) Error() string   { return string(err) }
func (err ConflictError) ErrCode() string { return "CONFLICT" }
func (err ConflictError) StatusCode() int { return http.StatusConflict }

// UpstreamError reports a failed round-trip to the generation service.
// Retryable by the caller.
type UpstreamError struct {
	Status  int
	Message string
}

func (err UpstreamError) Error() string {
	if err.Status != 0 {
		return fmt.Sprintf("upstream error (%d): %s", err.Status, err.Message)
	}
	return "upstream error: " + err.Message
}
func (err UpstreamError) ErrCode() string { return "UPSTREAM_ERROR" }
func (err UpstreamError) StatusCode() int { return http.StatusBadGateway }

// ExtractionError means the upstream answered but no response shape
// yielded a valid plan. The raw payload goes to the log, never to the
// caller.
type ExtractionError string

func (err ExtractionError) Error() string   { return string(err) }
func (err ExtractionError) ErrCode() string { return "EXTRACTION_ERROR" }
func (err ExtractionError) StatusCode() int { return http.StatusBadGateway }
