// internal/dataset/postgres.go
package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"country-match-workers/internal/models"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// PostgresSource reads countries from a table ordered by its position column.
type PostgresSource struct {
	db    *sql.DB
	table string
}

func NewPostgresSource(db *sql.DB, table string) (*PostgresSource, error) {
	if table == "" {
		table = "countries"
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &PostgresSource{db: db, table: table}, nil
}

func (s *PostgresSource) String() string {
	return "postgres:" + s.table
}

func (s *PostgresSource) Countries(ctx context.Context) ([]models.Country, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, code, education_level, cost_level, economic_opportunity_level,
		       safety_level, healthcare_level, climate_preference, population, gdp_per_capita
		FROM `+s.table+`
		ORDER BY position, name`)
	if err != nil {
		return nil, fmt.Errorf("query countries: %w", err)
	}
	defer rows.Close()

	countries := []models.Country{}
	for rows.Next() {
		var name string
		var code, education, jobs, safety, healthcare, climate sql.NullString
		var cost, population, gdpPerCapita sql.NullFloat64

		if err := rows.Scan(
			&name, &code, &education, &cost, &jobs,
			&safety, &healthcare, &climate, &population, &gdpPerCapita,
		); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}

		c := models.Country{
			Name:            name,
			Code:            code.String,
			EducationLevel:  education.String,
			JobsLevel:       jobs.String,
			SafetyLevel:     safety.String,
			HealthcareLevel: healthcare.String,
			Climate:         climate.String,
		}
		if cost.Valid {
			c.CostLevel = models.NewCostLevel(cost.Float64)
		}
		if population.Valid {
			v := population.Float64
			c.Population = &v
		}
		if gdpPerCapita.Valid {
			v := gdpPerCapita.Float64
			c.GDPPerCapita = &v
		}
		countries = append(countries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate countries: %w", err)
	}
	return countries, nil
}
