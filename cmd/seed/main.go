// seed loads a small reference dataset for local development.
// Inserts are idempotent via ON CONFLICT DO NOTHING, so rerunning is safe.
package main

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/unipath/catalog/internal/app"
	"github.com/unipath/catalog/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := app.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := seed(ctx, pool); err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}

	logger.Info("reference data seeded")
}

func seed(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`INSERT INTO countries (name, code) VALUES
			('United Kingdom', 'GB'),
			('United States', 'US'),
			('Australia', 'AU'),
			('Canada', 'CA')
			ON CONFLICT DO NOTHING`,
		`INSERT INTO pathways (name) VALUES
			('Foundation'),
			('Direct Entry'),
			('Pre-Masters'),
			('Pathway Diploma')
			ON CONFLICT DO NOTHING`,
		`INSERT INTO universities (name, city, state, country_id)
			SELECT v.name, v.city, v.state, c.id
			FROM (VALUES
				('University of Cambridge', 'Cambridge', 'Cambridgeshire', 'GB'),
				('Imperial College London', 'London', 'Greater London', 'GB'),
				('University of Melbourne', 'Melbourne', 'Victoria', 'AU'),
				('University of Toronto', 'Toronto', 'Ontario', 'CA')
			) AS v(name, city, state, code)
			JOIN countries c ON c.code = v.code
			ON CONFLICT DO NOTHING`,
		`INSERT INTO courses (program_name, degree_level, university_id)
			SELECT v.program_name, v.degree_level, u.id
			FROM (VALUES
				('Computer Science', 'bachelor', 'University of Cambridge'),
				('Data Science', 'master', 'University of Melbourne'),
				('Mechanical Engineering', 'bachelor', 'Imperial College London'),
				('Applied Statistics', 'master', 'University of Toronto')
			) AS v(program_name, degree_level, uni)
			JOIN universities u ON u.name = v.uni
			ON CONFLICT DO NOTHING`,
		`INSERT INTO counselors (full_name, email, is_available, specializations, hourly_rate, currency, average_rating) VALUES
			('Priya Raman', 'priya@unipath.example', TRUE, '{"UK admissions","scholarships"}', 55.00, 'USD', 4.8),
			('Daniel Okafor', 'daniel@unipath.example', TRUE, '{"engineering","Australia"}', 40.00, 'USD', 4.5),
			('Mei Lin', 'mei@unipath.example', FALSE, '{"graduate programs"}', 65.00, 'USD', 4.9)
			ON CONFLICT DO NOTHING`,
	}

	for _, query := range statements {
		if _, err := pool.Exec(ctx, query); err != nil {
			return err
		}
	}

	return nil
}
