package apperrors

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrNoSheets        = errors.New("no sheets provided")
	ErrNoRecords       = errors.New("no valid records were extracted")
	ErrMissingStudent  = errors.New("no column is mapped to the student name key")
	ErrMissingProject  = errors.New("project association missing")
	ErrUnknownType     = errors.New("unsupported import type")
	ErrDuplicateImport = errors.New("an import with the same type, project and cohort already exists")
)
