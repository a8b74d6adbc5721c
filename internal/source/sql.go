package source

import (
	"context"
	"fmt"
	"iter"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/birthday-greeter/internal/model"
)

// table names the backing store in error messages.
const table = "contacts table"

// CreateTable is the schema of the contacts table.
const CreateTable = `
	CREATE TABLE IF NOT EXISTS contacts (
		id        BIGINT       NOT NULL AUTO_INCREMENT PRIMARY KEY,
		lastname  VARCHAR(255) NOT NULL,
		firstname VARCHAR(255) NOT NULL,
		birthday  DATE         NOT NULL,
		email     VARCHAR(255) NOT NULL
	)`

const selectAll = `
	SELECT lastname, firstname, birthday, email
	FROM contacts
	ORDER BY id`

const insert = `
	INSERT INTO contacts (lastname, firstname, birthday, email)
	VALUES (:lastname, :firstname, :birthday, :email)`

// SQL reads contacts from the contacts table of a MySQL database.
type SQL struct {
	db *sqlx.DB
}

// OpenMySQL opens a database handle for the specified connection parameters. Dates are always
// scanned into time values.
func OpenMySQL(cfg *mysql.Config) (*sqlx.DB, error) {
	cfg.ParseTime = true
	db, err := sqlx.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", cfg.Addr, err)
	}
	return db, nil
}

// NewSQL returns a source backed by the database handle. The database argument can be a real
// database for production use or a mock database within unit tests.
func NewSQL(db *sqlx.DB) *SQL {
	return &SQL{db: db}
}

// All streams the rows of the contacts table in id order.
func (s *SQL) All(ctx context.Context) iter.Seq2[model.Contact, error] {
	return func(yield func(model.Contact, error) bool) {
		rows, err := s.db.QueryxContext(ctx, selectAll)
		if err != nil {
			yield(model.Contact{}, &ReadError{Path: table, Err: err})
			return
		}
		defer rows.Close()

		row := 0
		for rows.Next() {
			row++
			var contact model.Contact
			if err := rows.StructScan(&contact); err != nil {
				yield(model.Contact{}, &ParseError{Path: table, Line: row, Err: err})
				return
			}
			contact.Birthday = model.DateOf(contact.Birthday)
			if !yield(contact, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(model.Contact{}, &ReadError{Path: table, Err: err})
		}
	}
}

// Import inserts all contacts of the stream within a single transaction and returns how many
// were inserted. If the stream or any insert fails, nothing is kept.
func (s *SQL) Import(ctx context.Context, contacts iter.Seq2[model.Contact, error]) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, insert)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for contact, err := range contacts {
		if err != nil {
			return 0, err
		}
		if _, err := stmt.ExecContext(ctx, contact); err != nil {
			return 0, fmt.Errorf("inserting %s %s: %w", contact.FirstName, contact.LastName, err)
		}
		count++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}
	return count, nil
}
