package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sachinottawa/call-agent-backend/internal/logger"
	"github.com/sachinottawa/call-agent-backend/internal/types"
	"github.com/sachinottawa/call-agent-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "callagent", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.Upload{},
		&types.CallEvent{},
		&types.User{},
		&types.GraphPoint{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	if err := s.db.Exec(`
		ALTER TABLE "call_events"
		DROP CONSTRAINT IF EXISTS "fk_call_events_upload_id";
	`).Error; err != nil {
		return fmt.Errorf("failed to drop fk_call_events_upload_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "call_events"
		ADD CONSTRAINT "fk_call_events_upload_id"
		FOREIGN KEY ("upload_id")
		REFERENCES "uploads"("id")
		ON DELETE CASCADE
	`).Error; err != nil {
		return fmt.Errorf("failed to add fk_call_events_upload_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "graph_data"
		DROP CONSTRAINT IF EXISTS "fk_graph_data_user_id";
	`).Error; err != nil {
		return fmt.Errorf("failed to drop fk_graph_data_user_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "graph_data"
		ADD CONSTRAINT "fk_graph_data_user_id"
		FOREIGN KEY ("user_id")
		REFERENCES "users"("id")
		ON DELETE CASCADE
	`).Error; err != nil {
		return fmt.Errorf("failed to add fk_graph_data_user_id: %w", err)
	}

	return s.createAggregates()
}

// createAggregates installs the hourly aggregation function. The chart
// endpoint calls it as an opaque procedure; the reduction over call_events
// stays database-side.
func (s *PostgresService) createAggregates() error {
	s.log.Info("Installing get_hourly_call_stats...")
	if err := s.db.Exec(`
		CREATE OR REPLACE FUNCTION get_hourly_call_stats(p_email text)
		RETURNS TABLE (
			hour integer,
			total bigint,
			converted bigint,
			conversion_rate double precision
		)
		LANGUAGE sql
		STABLE
		AS $$
			SELECT
				EXTRACT(HOUR FROM ce."timestamp")::integer AS hour,
				COUNT(*)::bigint AS total,
				COUNT(*) FILTER (WHERE ce.converted)::bigint AS converted,
				ROUND(100.0 * COUNT(*) FILTER (WHERE ce.converted) / COUNT(*), 2)::double precision AS conversion_rate
			FROM call_events ce
			JOIN uploads u ON u.id = ce.upload_id
			WHERE u.email = p_email
			GROUP BY 1
		$$;
	`).Error; err != nil {
		s.log.Error("Failed to install get_hourly_call_stats", "error", err)
		return fmt.Errorf("failed to install get_hourly_call_stats: %w", err)
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
