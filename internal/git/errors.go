package git

import "errors"

var (
	// ErrDifferentRepo is returned when the target folder already holds a
	// checkout of another repository.
	ErrDifferentRepo = errors.New("target folder contains a different repo")

	// ErrNotARepository is returned when no git repository exists at or
	// above the source folder.
	ErrNotARepository = errors.New("source folder is not a git repository")
)
