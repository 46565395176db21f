package errors

import "net/http"

// Store errors
var (
	ErrStorageInit = New(
		"STORAGE_INIT_FAILED",
		"Storage engine failed to open",
		http.StatusInternalServerError,
	)

	ErrValidation = New(
		"VALIDATION_ERROR",
		"Resource failed validation",
		http.StatusBadRequest,
	)

	ErrResourceNotFound = New(
		"RESOURCE_NOT_FOUND",
		"Resource not found",
		http.StatusNotFound,
	)

	ErrStorageWrite = New(
		"STORAGE_WRITE_FAILED",
		"Write transaction failed to commit",
		http.StatusInternalServerError,
	)

	ErrStorageRead = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrIngestionMapping = New(
		"INGESTION_MAPPING_FAILED",
		"External place could not be mapped to a resource",
		http.StatusUnprocessableEntity,
	)
)

// Request and collaborator errors
var (
	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidRadius = New(
		"INVALID_RADIUS",
		"Invalid radius value",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrPlacesUnavailable = New(
		"PLACES_UNAVAILABLE",
		"Place search provider is unavailable",
		http.StatusBadGateway,
	)

	ErrPlacesRateLimited = New(
		"PLACES_RATE_LIMITED",
		"Place search provider rate limit exceeded",
		http.StatusTooManyRequests,
	)

	ErrPlacesNotConfigured = New(
		"PLACES_NOT_CONFIGURED",
		"Place search provider is not configured",
		http.StatusServiceUnavailable,
	)

	ErrQueueUnavailable = New(
		"QUEUE_UNAVAILABLE",
		"Ingestion queue is unavailable",
		http.StatusServiceUnavailable,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
