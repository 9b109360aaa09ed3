package config

import (
	"fmt"
	stdlog "log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PostgresDSN returns DATABASE_URL or a DSN assembled from PG* variables.
func PostgresDSN() string {
	if dsn := GetEnv("DATABASE_URL", ""); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		GetEnv("PGHOST", "localhost"),
		GetEnv("PGUSER", "postgres"),
		GetEnv("PGPASSWORD", ""),
		GetEnv("PGDATABASE", "postgres"),
		GetEnv("PGPORT", "5432"),
		GetEnv("PGSSLMODE", "require"),
	)
}

func mysqlDSN() string {
	if dsn := GetEnv("MYSQL_DSN", ""); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=Local",
		GetEnv("MYSQL_USER", ""),
		GetEnv("MYSQL_PASS", ""),
		GetEnv("MYSQL_HOST", "localhost"),
		GetEnv("MYSQL_PORT", "3306"),
		GetEnv("MYSQL_DB", ""),
	)
}

// Dialector picks the GORM driver from DB_DRIVER (postgres, mysql, sqlite).
func Dialector() (gorm.Dialector, error) {
	switch driver := GetEnv("DB_DRIVER", "postgres"); driver {
	case "postgres":
		return postgres.New(postgres.Config{
			DSN: PostgresDSN(),
			// The hosted pooler runs in transaction mode; prepared statements cannot be shared.
			PreferSimpleProtocol: true,
		}), nil
	case "mysql":
		return mysql.Open(mysqlDSN()), nil
	case "sqlite":
		return sqlite.Open(GetEnv("SQLITE_PATH", "sareeadmin.db")), nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}
}

func NewDB() (*gorm.DB, error) {
	dialector, err := Dialector()
	if err != nil {
		return nil, err
	}

	logMode := logger.Warn
	if GetEnvBool("DEBUG", false) {
		logMode = logger.Info
	}
	if GetEnv("GORM_LOG", "") == "off" {
		logMode = logger.Silent
	}

	gormLogger := logger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags), // Use log.Logger for Printf support
		logger.Config{
			SlowThreshold: time.Second, // Slow SQL threshold
			LogLevel:      logMode,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}
