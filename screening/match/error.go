package match

import (
	"net/http"

	"github.com/Abraxas-365/sift/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("MATCH")

// Error codes
var (
	CodeMatchNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Match not found")
	CodeMatchAlreadyExists = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Match already exists for this job and candidate")
	CodeInvalidMatch       = ErrRegistry.Register("INVALID", errx.TypeValidation, http.StatusBadRequest, "Invalid match data")
	CodeEmptyShortlist     = ErrRegistry.Register("EMPTY_SHORTLIST", errx.TypeBusiness, http.StatusUnprocessableEntity, "No shortlisted candidates to schedule")
	CodeQueueFailed        = ErrRegistry.Register("QUEUE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to enqueue matching run")
)

// Helper functions
func ErrMatchNotFound() *errx.Error {
	return ErrRegistry.New(CodeMatchNotFound)
}

func ErrMatchAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeMatchAlreadyExists)
}

func ErrInvalidMatch() *errx.Error {
	return ErrRegistry.New(CodeInvalidMatch)
}

func ErrEmptyShortlist() *errx.Error {
	return ErrRegistry.New(CodeEmptyShortlist)
}

func ErrQueueFailed() *errx.Error {
	return ErrRegistry.New(CodeQueueFailed)
}
