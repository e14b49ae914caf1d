package sqlstore

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// Driver names a supported database/sql driver.
type Driver string

const (
	// DriverMySQL uses github.com/go-sql-driver/mysql.
	DriverMySQL Driver = "mysql"

	// DriverPostgres uses github.com/lib/pq.
	DriverPostgres Driver = "postgres"
)

// ValidDrivers returns all supported drivers.
func ValidDrivers() []Driver {
	return []Driver{DriverMySQL, DriverPostgres}
}

// IsValid returns true if the driver is supported.
func (d Driver) IsValid() bool {
	for _, valid := range ValidDrivers() {
		if d == valid {
			return true
		}
	}
	return false
}

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// dialect holds the statements that differ between drivers.
type dialect struct {
	driver Driver
	table  string
}

func newDialect(driver Driver, table string) (dialect, error) {
	if !driver.IsValid() {
		return dialect{}, fmt.Errorf("unsupported sql driver %q", driver)
	}
	if !tableNamePattern.MatchString(table) {
		return dialect{}, fmt.Errorf("invalid table name %q", table)
	}
	return dialect{driver: driver, table: table}, nil
}

func (d dialect) quotedTable() string {
	if d.driver == DriverPostgres {
		return pq.QuoteIdentifier(d.table)
	}
	return "`" + d.table + "`"
}

func (d dialect) placeholder(n int) string {
	if d.driver == DriverPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (d dialect) createTable() string {
	if d.driver == DriverPostgres {
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    id BIGSERIAL PRIMARY KEY,
    task TEXT NOT NULL CHECK (length(trim(task)) > 0),
    completed_at TIMESTAMPTZ NULL
)`, d.quotedTable())
	}
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    id BIGINT PRIMARY KEY AUTO_INCREMENT,
    task TEXT NOT NULL,
    completed_at TIMESTAMP NULL DEFAULT NULL
)`, d.quotedTable())
}

func (d dialect) selectAll() string {
	return fmt.Sprintf("SELECT id, task, completed_at FROM %s ORDER BY id ASC", d.quotedTable())
}

func (d dialect) insert() string {
	query := fmt.Sprintf("INSERT INTO %s (task, completed_at) VALUES (%s, %s)",
		d.quotedTable(), d.placeholder(1), d.placeholder(2))
	if d.driver == DriverPostgres {
		query += " RETURNING id"
	}
	return query
}

// update returns an UPDATE for the given columns, in order, with the id
// as the final argument.
func (d dialect) update(columns []string) string {
	assignments := make([]string, len(columns))
	for i, column := range columns {
		assignments[i] = fmt.Sprintf("%s = %s", column, d.placeholder(i+1))
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = %s",
		d.quotedTable(), strings.Join(assignments, ", "), d.placeholder(len(columns)+1))
}

func (d dialect) delete() string {
	return fmt.Sprintf("DELETE FROM %s WHERE id = %s", d.quotedTable(), d.placeholder(1))
}

// prepareDSN adjusts a MySQL DSN so timestamps scan into time.Time and
// UPDATE reports matched rather than changed rows.
func prepareDSN(driver Driver, dsn string) (string, error) {
	if driver != DriverMySQL {
		return dsn, nil
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}
