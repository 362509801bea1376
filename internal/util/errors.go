package util

import "errors"

var (
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")

	// Not-found errors are returned uniformly whether the record is missing or
	// belongs to another user, so existence never leaks across owners.
	ErrDocumentNotFound     = errors.New("document not found")
	ErrQuizNotFound         = errors.New("quiz not found")
	ErrFlashcardSetNotFound = errors.New("flashcard set not found")

	ErrQuizNotCompleted = errors.New("quiz has not been completed yet")
	ErrDocumentNotReady = errors.New("document text is not ready")

	ErrGenerationFailed = errors.New("failed to generate content from AI provider")
	ErrTextExtraction   = errors.New("failed to extract text from PDF")
)
