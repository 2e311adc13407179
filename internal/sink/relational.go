/*
	Copyright (c) 2025 OGN Ingest Contributors
	Distributable under the terms of The "BSD New" License
	that can be found in the LICENSE file.

	relational.go: buffers containers per variant and bulk-loads them into
	PostgreSQL every second via lib/pq's COPY protocol (pq.CopyIn), which
	is lib/pq's purpose-built bulk-insert helper and avoids hand-rolling
	CSV escaping over a raw COPY FROM STDIN connection. On a flush error
	the buffer for that table is discarded: at-most-once delivery into
	the store, per spec.
*/

package sink

import (
	"database/sql"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/ogn-network/ogn-ingest/internal/container"
	"github.com/ogn-network/ogn-ingest/internal/metrics"
	"github.com/ogn-network/ogn-ingest/internal/ognlog"
	"github.com/ogn-network/ogn-ingest/internal/serialize"
)

const flushInterval = 1 * time.Second

func tableName(kind container.Kind) string {
	switch kind {
	case container.KindPosition:
		return "positions"
	case container.KindStatus:
		return "statuses"
	case container.KindServerComment:
		return "server_comments"
	case container.KindParserError:
		return "errors"
	default:
		return ""
	}
}

// Relational is the bulk-loading sink. It owns its buffers exclusively;
// the 1 s flush ticker runs on its own goroutine, stopped by Close.
type Relational struct {
	db *sql.DB

	mu      sync.Mutex
	buffers map[container.Kind][][]string

	done chan struct{}
	wg   sync.WaitGroup
}

// NewRelational opens a connection pool against databaseURL and starts the
// periodic flush loop.
func NewRelational(databaseURL string) (*Relational, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	r := &Relational{
		db:      db,
		buffers: make(map[container.Kind][][]string),
		done:    make(chan struct{}),
	}
	r.wg.Add(1)
	go r.flushLoop()
	return r, nil
}

func (r *Relational) Write(c container.Container) error {
	row, err := serialize.CSVRow(c)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.buffers[c.Kind] = append(r.buffers[c.Kind], row)
	r.mu.Unlock()
	return nil
}

func (r *Relational) flushLoop() {
	defer r.wg.Done()
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.flushAll()
		case <-r.done:
			r.flushAll()
			return
		}
	}
}

func (r *Relational) flushAll() {
	for _, kind := range []container.Kind{
		container.KindPosition, container.KindStatus,
		container.KindServerComment, container.KindParserError,
	} {
		r.flushKind(kind)
	}
}

func (r *Relational) flushKind(kind container.Kind) {
	r.mu.Lock()
	rows := r.buffers[kind]
	r.buffers[kind] = nil
	r.mu.Unlock()

	if len(rows) == 0 {
		return
	}

	table := tableName(kind)
	columns, err := serialize.CSVHeader(kind)
	if err != nil {
		ognlog.Err("relational sink: %v", err)
		return
	}

	start := time.Now()
	outcome := "ok"
	if err := r.copyIn(table, columns, rows); err != nil {
		outcome = "error"
		ognlog.Err("relational sink: COPY into %s failed, dropping %d rows: %v", table, len(rows), err)
	}
	metrics.SinkFlushes.WithLabelValues("relational", outcome).Inc()
	metrics.SinkFlushDuration.WithLabelValues("relational").Observe(time.Since(start).Seconds())
}

func (r *Relational) copyIn(table string, columns []string, rows [][]string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(pq.CopyIn(table, columns...))
	if err != nil {
		tx.Rollback()
		return err
	}

	for _, row := range rows {
		args := make([]any, len(row))
		for i, v := range row {
			args[i] = v
		}
		if _, err := stmt.Exec(args...); err != nil {
			stmt.Close()
			tx.Rollback()
			return err
		}
	}

	if _, err := stmt.Exec(); err != nil {
		stmt.Close()
		tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r *Relational) Close() error {
	close(r.done)
	r.wg.Wait()
	return r.db.Close()
}
