package database

import (
	"fmt"
	"stocktake-app/config"
	"sync"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
)

var (
	dbMutex sync.Mutex
	dbConn  *gorm.DB
)

func getDSNAndDialector() (string, gorm.Dialector) {
	var dsn string
	var dialector gorm.Dialector

	switch config.DBDriver {
	case "postgres":
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			config.DBHost, config.DBUser, config.DBPassword, config.DBName, config.DBPort)
		dialector = postgres.Open(dsn)
	case "mysql":
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort, config.DBName)
		dialector = mysql.Open(dsn)
	case "mssql":
		dsn = "sqlserver://" + config.DBUser + ":" + config.DBPassword + "@" + config.DBHost + ":" + config.DBPort + "?database=" + config.DBName
		dialector = sqlserver.Open(dsn)
	}

	return dsn, dialector
}

// OpenDatabaseConnection always opens a fresh connection.
func OpenDatabaseConnection() (*gorm.DB, error) {
	_, dialector := getDSNAndDialector()
	if dialector == nil {
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", config.DBDriver)
	}
	return gorm.Open(dialector, &gorm.Config{})
}

// GetDBConnection returns the shared connection, opening it on first use.
func GetDBConnection() (*gorm.DB, error) {
	dbMutex.Lock()
	defer dbMutex.Unlock()

	if dbConn != nil {
		return dbConn, nil
	}

	db, err := OpenDatabaseConnection()
	if err != nil {
		return nil, err
	}

	dbConn = db
	return dbConn, nil
}
