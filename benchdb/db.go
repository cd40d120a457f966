// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchdb stores benchmark samples in a local SQL database so
// result files can be kept as a queryable history. It is tested
// against sqlite3 and mysql.
package benchdb

import (
	"bytes"
	"database/sql"
	"fmt"
	"strings"
	"text/template"
	"time"

	"golang.org/x/benchkit/benchfmt"
)

// A DB is a database of benchmark samples, grouped into uploads.
type DB struct {
	sql *sql.DB

	insertUpload *sql.Stmt
	insertRecord *sql.Stmt
}

// createTmpl is the template for the statements to create the upload
// and record tables. The schema is written in the common subset of the
// supported drivers' SQL dialects; the differences are keyed on the
// driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Uploads (
	UploadID INTEGER PRIMARY KEY {{if .sqlite3}}AUTOINCREMENT{{else}}AUTO_INCREMENT{{end}},
	UploadTime BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS Records (
	UploadID BIGINT NOT NULL,
	RecordID BIGINT NOT NULL,
	Name VARCHAR(300) NOT NULL,
	Axis BIGINT NOT NULL,
	Iters BIGINT NOT NULL,
	NsPerOp DOUBLE NOT NULL,
	BytesPerOp BIGINT NOT NULL,
	AllocsPerOp BIGINT NOT NULL,
	Mem BOOLEAN NOT NULL,
	PRIMARY KEY (UploadID, RecordID),
	FOREIGN KEY (UploadID) REFERENCES Uploads(UploadID){{if not .sqlite3}},
	INDEX (Name(100)){{end}}
);
{{if .sqlite3}}CREATE INDEX IF NOT EXISTS RecordName ON Records(Name);{{end}}
`))

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Any necessary tables are
// created if they do not already exist.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	conn, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	db := &DB{sql: conn}
	if err := db.createTables(driverName); err != nil {
		conn.Close()
		return nil, err
	}
	if err := db.prepareStatements(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// createTables creates the upload and record tables if they do not
// already exist.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if q = strings.TrimSpace(q); q == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

func (db *DB) prepareStatements() error {
	var err error
	db.insertUpload, err = db.sql.Prepare("INSERT INTO Uploads(UploadTime) VALUES (?)")
	if err != nil {
		return err
	}
	db.insertRecord, err = db.sql.Prepare(
		"INSERT INTO Records(UploadID, RecordID, Name, Axis, Iters, NsPerOp, BytesPerOp, AllocsPerOp, Mem) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)")
	return err
}

// SaveSamples stores samples as a new upload and returns the upload's
// ID. The upload is written in a single transaction, so a partially
// saved result file is never visible.
func (db *DB) SaveSamples(samples []*benchfmt.Sample) (uploadID int64, err error) {
	tx, err := db.sql.Begin()
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res, err := tx.Stmt(db.insertUpload).Exec(time.Now().Unix())
	if err != nil {
		return 0, err
	}
	uploadID, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}
	insert := tx.Stmt(db.insertRecord)
	for i, s := range samples {
		if _, err := insert.Exec(uploadID, i, s.Name, s.Axis, s.Iters, s.NsPerOp, s.BytesPerOp, s.AllocsPerOp, s.Mem); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uploadID, nil
}

// Samples returns the samples of one upload in the order they were
// saved.
func (db *DB) Samples(uploadID int64) ([]*benchfmt.Sample, error) {
	rows, err := db.sql.Query(
		"SELECT Name, Axis, Iters, NsPerOp, BytesPerOp, AllocsPerOp, Mem FROM Records WHERE UploadID = ? ORDER BY RecordID", uploadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []*benchfmt.Sample
	for rows.Next() {
		s := new(benchfmt.Sample)
		if err := rows.Scan(&s.Name, &s.Axis, &s.Iters, &s.NsPerOp, &s.BytesPerOp, &s.AllocsPerOp, &s.Mem); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// An Upload summarizes one stored upload.
type Upload struct {
	ID      int64
	Time    time.Time
	Records int
}

// Uploads lists the stored uploads, oldest first.
func (db *DB) Uploads() ([]Upload, error) {
	rows, err := db.sql.Query(`
SELECT u.UploadID, u.UploadTime, COUNT(r.RecordID)
FROM Uploads u LEFT JOIN Records r ON u.UploadID = r.UploadID
GROUP BY u.UploadID, u.UploadTime
ORDER BY u.UploadID`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uploads []Upload
	for rows.Next() {
		var u Upload
		var unix int64
		if err := rows.Scan(&u.ID, &unix, &u.Records); err != nil {
			return nil, err
		}
		u.Time = time.Unix(unix, 0)
		uploads = append(uploads, u)
	}
	return uploads, rows.Err()
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	if err := db.insertUpload.Close(); err != nil {
		return err
	}
	if err := db.insertRecord.Close(); err != nil {
		return err
	}
	return db.sql.Close()
}
