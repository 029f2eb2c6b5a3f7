// Package repositories provides pgx-backed data access for readiness-engine.
package repositories

import (
	"encoding/json"

	"github.com/google/uuid"
)

// nullString converts empty strings to nil for nullable columns.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// jsonbValue marshals a value for a jsonb column, nil-safe.
func jsonbValue(v any) any {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

// nullUUID converts the zero UUID to nil for nullable columns.
func nullUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
