package models

import (
	"errors"
	"fmt"
)

// ErrMissingField is wrapped by DataError when a required field is empty.
var ErrMissingField = errors.New("missing field")

// ConfigError is a fatal setup problem: a malformed ticker file,
// an unwritable output location, an unknown source name.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config error: %v", e.Err)
	}
	return fmt.Sprintf("config error (%s): %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// CollaboratorError is a failure of a scraper, recognizer or scoring model
// for a single item. It is logged and the item skipped.
type CollaboratorError struct {
	Collaborator string // e.g., "scraper:Reuters", "model:lexicon"
	Item         string // URL, chunk index, etc.
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s failed on %s: %v", e.Collaborator, e.Item, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// DataError marks an article with malformed fields; the article is dropped.
type DataError struct {
	Field string
	Item  string
	Err   error
}

func (e *DataError) Error() string {
	if e.Err == nil || errors.Is(e.Err, ErrMissingField) {
		return fmt.Sprintf("malformed article from %s: missing %s", e.Item, e.Field)
	}
	return fmt.Sprintf("malformed article from %s: %s: %v", e.Item, e.Field, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }
