// seed-taxonomy loads the readiness domain/parameter taxonomy from a YAML
// file and upserts it into the database. Safe to re-run: domains are keyed by
// short name, parameters by (domain, param number).
//
// Usage: go run ./scripts/seed-taxonomy [-file seed/readiness_taxonomy.yaml]
//
// Database connection: Uses standard PG* environment variables
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/readinesslab/readiness-engine/pkg/config"
	"github.com/readinesslab/readiness-engine/pkg/database"
	"github.com/readinesslab/readiness-engine/pkg/models"
	"github.com/readinesslab/readiness-engine/pkg/repositories"
)

type taxonomyFile struct {
	Domains []struct {
		Name         string `yaml:"name"`
		ShortName    string `yaml:"short_name"`
		DisplayOrder int    `yaml:"display_order"`
		Parameters   []struct {
			Name        string `yaml:"name"`
			Code        string `yaml:"code"`
			Description string `yaml:"description"`
			ParamNumber int    `yaml:"param_number"`
		} `yaml:"parameters"`
	} `yaml:"domains"`
}

func main() {
	file := flag.String("file", "seed/readiness_taxonomy.yaml", "Taxonomy YAML file to load")
	flag.Parse()

	raw, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read %s: %v\n", *file, err)
		os.Exit(1)
	}

	var taxonomy taxonomyFile
	if err := yaml.Unmarshal(raw, &taxonomy); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse %s: %v\n", *file, err)
		os.Exit(1)
	}

	cfg, err := config.Load("seed")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := database.NewConnection(ctx, &database.Config{URL: cfg.Database.URL()})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := repositories.NewTaxonomyRepository(db)

	domains, parameters := 0, 0
	for _, d := range taxonomy.Domains {
		domain := &models.ReadinessDomain{
			Name:         d.Name,
			ShortName:    d.ShortName,
			DisplayOrder: d.DisplayOrder,
		}
		if err := repo.UpsertDomain(ctx, domain); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to upsert domain %s: %v\n", d.ShortName, err)
			os.Exit(1)
		}
		domains++

		for _, p := range d.Parameters {
			param := &models.ReadinessParameter{
				DomainID:    domain.ID,
				Name:        p.Name,
				Code:        p.Code,
				Description: p.Description,
				ParamNumber: p.ParamNumber,
			}
			if err := repo.UpsertParameter(ctx, param); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to upsert parameter %s: %v\n", p.Code, err)
				os.Exit(1)
			}
			parameters++
		}
	}

	fmt.Printf("Seeded %d domains, %d parameters from %s\n", domains, parameters, *file)
}
