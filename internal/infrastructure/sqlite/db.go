// Package sqlite es el almacenamiento embebido (DB_DRIVER=sqlite) sobre gorm.
// Implementa los mismos puertos que el adaptador postgres; los tests de integración lo usan
// con una base en memoria.
package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jhoicas/invoicing-api/internal/domain"
)

// Open abre (o crea) la base y aplica AutoMigrate.
// path puede ser una ruta a archivo o ":memory:".
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(DSN(path)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: abrir %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	// SQLite admite un único escritor.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&groupModel{}, &userModel{}, &userGroupModel{}, &customerModel{}, &supplierModel{}, &invoiceModel{}); err != nil {
		return nil, fmt.Errorf("sqlite: migrar: %w", err)
	}
	return db, nil
}

// DSN arma el data source name para go-sqlite3.
func DSN(path string) string {
	if path == ":memory:" {
		return "file::memory:?cache=shared"
	}
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + path + "?_busy_timeout=5000"
}

// writeErr traduce errores de escritura de gorm al dominio.
func writeErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domain.Invalid("reference", "la referencia no existe")
	case errors.Is(err, gorm.ErrCheckConstraintViolated), strings.Contains(err.Error(), "CHECK constraint failed"):
		return domain.Invalid("invoice", "la fila viola una restricción de la tabla")
	}
	return domain.NewStorageError(op, err)
}

func readErr(op string, err error) error {
	return domain.NewStorageError(op, err)
}
