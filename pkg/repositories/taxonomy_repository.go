package repositories

import (
	"context"
	"fmt"

	"github.com/readinesslab/readiness-engine/pkg/database"
	"github.com/readinesslab/readiness-engine/pkg/models"
)

// TaxonomyRepository provides data access for the readiness parameter
// taxonomy (domains and parameters). Reference data is read-only during
// imports; the upserts exist for the seeding CLI.
type TaxonomyRepository interface {
	ListDomains(ctx context.Context) ([]*models.ReadinessDomain, error)
	ListParameters(ctx context.Context) ([]*models.ReadinessParameter, error)
	UpsertDomain(ctx context.Context, domain *models.ReadinessDomain) error
	UpsertParameter(ctx context.Context, param *models.ReadinessParameter) error
}

type taxonomyRepository struct {
	db *database.DB
}

// NewTaxonomyRepository creates a new TaxonomyRepository.
func NewTaxonomyRepository(db *database.DB) TaxonomyRepository {
	return &taxonomyRepository{db: db}
}

var _ TaxonomyRepository = (*taxonomyRepository)(nil)

func (r *taxonomyRepository) ListDomains(ctx context.Context) ([]*models.ReadinessDomain, error) {
	query := `
		SELECT id, name, short_name, display_order
		FROM readiness_domains
		ORDER BY display_order`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query readiness domains: %w", err)
	}
	defer rows.Close()

	var domains []*models.ReadinessDomain
	for rows.Next() {
		var d models.ReadinessDomain
		if err := rows.Scan(&d.ID, &d.Name, &d.ShortName, &d.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to scan readiness domain: %w", err)
		}
		domains = append(domains, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating readiness domains: %w", err)
	}

	return domains, nil
}

func (r *taxonomyRepository) ListParameters(ctx context.Context) ([]*models.ReadinessParameter, error) {
	query := `
		SELECT id, domain_id, name, COALESCE(code, ''), COALESCE(description, ''), param_number
		FROM readiness_parameters
		ORDER BY param_number`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query readiness parameters: %w", err)
	}
	defer rows.Close()

	var params []*models.ReadinessParameter
	for rows.Next() {
		var p models.ReadinessParameter
		if err := rows.Scan(&p.ID, &p.DomainID, &p.Name, &p.Code, &p.Description, &p.ParamNumber); err != nil {
			return nil, fmt.Errorf("failed to scan readiness parameter: %w", err)
		}
		params = append(params, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating readiness parameters: %w", err)
	}

	return params, nil
}

func (r *taxonomyRepository) UpsertDomain(ctx context.Context, domain *models.ReadinessDomain) error {
	query := `
		INSERT INTO readiness_domains (name, short_name, display_order)
		VALUES ($1, $2, $3)
		ON CONFLICT (short_name) DO UPDATE
		SET name = EXCLUDED.name, display_order = EXCLUDED.display_order
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		domain.Name,
		domain.ShortName,
		domain.DisplayOrder,
	).Scan(&domain.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert readiness domain %q: %w", domain.ShortName, err)
	}

	return nil
}

func (r *taxonomyRepository) UpsertParameter(ctx context.Context, param *models.ReadinessParameter) error {
	query := `
		INSERT INTO readiness_parameters (domain_id, name, code, description, param_number)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (domain_id, param_number) DO UPDATE
		SET name = EXCLUDED.name, code = EXCLUDED.code, description = EXCLUDED.description
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		param.DomainID,
		param.Name,
		nullString(param.Code),
		nullString(param.Description),
		param.ParamNumber,
	).Scan(&param.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert readiness parameter %q: %w", param.Name, err)
	}

	return nil
}
