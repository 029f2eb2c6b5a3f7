// Package models contains domain types for readiness-engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Program is a degree program that students belong to (e.g. "UG-MED").
type Program struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Student is the canonical identity record for one learner.
// CanonicalName is the single authoritative display name; Aliases are the
// alternate spellings seen in uploaded sheets. No two active students may
// share a canonical name or alias (case-insensitive) - that invariant is a
// data-quality concern enforced by admins, not by the import pipeline.
type Student struct {
	ID            uuid.UUID `json:"id"`
	StudentNumber int       `json:"student_number"`
	CanonicalName string    `json:"canonical_name"`
	Aliases       []string  `json:"aliases"`
	ProgramID     uuid.UUID `json:"program_id"`
	Cohort        string    `json:"cohort,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Project is an assessed unit of work (e.g. "Kickstart", "Business X-Ray").
type Project struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	InternalName  string    `json:"internal_name,omitempty"`
	Sequence      int       `json:"sequence"`
	SequenceLabel string    `json:"sequence_label,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ReadinessDomain groups scoring parameters (e.g. "Commercial Readiness").
type ReadinessDomain struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ShortName    string    `json:"short_name"`
	DisplayOrder int       `json:"display_order"`
}

// ReadinessParameter is one scoring dimension within a domain. Code is the
// short human key that appears in matrix sheets (e.g. "C1"). Immutable
// reference data during import.
type ReadinessParameter struct {
	ID          uuid.UUID `json:"id"`
	DomainID    uuid.UUID `json:"domain_id"`
	Name        string    `json:"name"`
	Code        string    `json:"code,omitempty"`
	Description string    `json:"description,omitempty"`
	ParamNumber int       `json:"param_number"`
}
