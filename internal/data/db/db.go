package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/medialib-admin/internal/platform/envutil"
	"github.com/yungbote/medialib-admin/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresName     string
	PostgresSSLMode  string

	SQLitePath string
}

func ConfigFromEnv() Config {
	return Config{
		Driver:           strings.ToLower(envutil.String("DB_DRIVER", DriverPostgres)),
		PostgresHost:     envutil.String("POSTGRES_HOST", "localhost"),
		PostgresPort:     envutil.String("POSTGRES_PORT", "5432"),
		PostgresUser:     envutil.String("POSTGRES_USER", "postgres"),
		PostgresPassword: envutil.String("POSTGRES_PASSWORD", ""),
		PostgresName:     envutil.String("POSTGRES_NAME", "medialib"),
		PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),
		SQLitePath:       envutil.String("SQLITE_PATH", "medialib.db"),
	}
}

func (c Config) dsn() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresName,
		c.PostgresSSLMode,
	)
}

type Service struct {
	db     *gorm.DB
	driver string
	log    *logger.Logger
}

func NewService(logg *logger.Logger, cfg Config) (*Service, error) {
	serviceLog := logg.With("service", "DBService", "driver", cfg.Driver)

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	gcfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case DriverPostgres, "":
		db, err = gorm.Open(postgres.Open(cfg.dsn()), gcfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		cfg.Driver = DriverPostgres
	case DriverSQLite:
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gcfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite %q: %w", cfg.SQLitePath, err)
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}

	serviceLog.Info("database connected")
	return &Service{db: db, driver: cfg.Driver, log: serviceLog}, nil
}

func (s *Service) DB() *gorm.DB    { return s.db }
func (s *Service) Driver() string { return s.driver }

func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
