package candidate

import (
	"net/http"

	"github.com/Abraxas-365/sift/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("CANDIDATE")

// Error codes
var (
	CodeCandidateNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Candidate not found")
	CodeCandidateAlreadyExists = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Candidate with this email already exists")
	CodeInvalidCandidate       = ErrRegistry.Register("INVALID", errx.TypeValidation, http.StatusBadRequest, "Invalid candidate data")
	CodeFileReadFailed         = ErrRegistry.Register("FILE_READ_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to read resume file")
	CodeFileWriteFailed        = ErrRegistry.Register("FILE_WRITE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to store resume file")
	CodeInvalidFileFormat      = ErrRegistry.Register("INVALID_FILE_FORMAT", errx.TypeValidation, http.StatusBadRequest, "Unsupported resume file format")
	CodeResumeReadFailed       = ErrRegistry.Register("RESUME_READ_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to transcribe resume")
	CodeEmbeddingFailed        = ErrRegistry.Register("EMBEDDING_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to generate candidate embedding")
)

// Helper functions
func ErrCandidateNotFound() *errx.Error {
	return ErrRegistry.New(CodeCandidateNotFound)
}

func ErrCandidateAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeCandidateAlreadyExists)
}

func ErrInvalidCandidate() *errx.Error {
	return ErrRegistry.New(CodeInvalidCandidate)
}

func ErrFileReadFailed() *errx.Error {
	return ErrRegistry.New(CodeFileReadFailed)
}

func ErrFileWriteFailed() *errx.Error {
	return ErrRegistry.New(CodeFileWriteFailed)
}

func ErrInvalidFileFormat() *errx.Error {
	return ErrRegistry.New(CodeInvalidFileFormat)
}

func ErrResumeReadFailed() *errx.Error {
	return ErrRegistry.New(CodeResumeReadFailed)
}

func ErrEmbeddingFailed() *errx.Error {
	return ErrRegistry.New(CodeEmbeddingFailed)
}
