package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// DefaultPoolStatsInterval период сбора статистики connection pool
const DefaultPoolStatsInterval = 15 * time.Second

// Observer получатель метрик запросов (реализуется *metrics.Metrics)
type Observer interface {
	ObserveDBQuery(operation string, duration time.Duration, err error)
}

// PoolObserver получатель метрик connection pool
type PoolObserver interface {
	Observer
	ObservePoolStats(stats sql.DBStats)
}

// DB обёртка над *sql.DB, измеряющая длительность запросов.
// С nil observer работает как прозрачный прокси.
type DB struct {
	db       *sql.DB
	observer Observer
}

// Wrap оборачивает *sql.DB; observer может быть nil
func Wrap(db *sql.DB, observer Observer) *DB {
	return &DB{db: db, observer: observer}
}

// WrapWithDefault оборачивает *sql.DB и запускает сбор статистики пула до закрытия stopCh
func WrapWithDefault(db *sql.DB, observer PoolObserver, stopCh <-chan struct{}) *DB {
	wrapped := Wrap(db, observer)
	go collectPoolStats(db, observer, DefaultPoolStatsInterval, stopCh)
	return wrapped
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.observe(query, start, err)
	return res, err
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.observe(query, start, err)
	return rows, err
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.observe(query, start, row.Err())
	return row
}

// BeginTx начинает транзакцию, запросы которой тоже измеряются
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, observer: d.observer}, nil
}

func (d *DB) observe(query string, start time.Time, err error) {
	if d.observer == nil {
		return
	}
	d.observer.ObserveDBQuery(operationName(query), time.Since(start), err)
}

// Tx транзакция с измерением запросов
type Tx struct {
	tx       *sql.Tx
	observer Observer
}

func (t *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := t.tx.ExecContext(ctx, query, args...)
	t.observe(query, start, err)
	return res, err
}

func (t *Tx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	t.observe(query, start, err)
	return rows, err
}

func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := t.tx.QueryRowContext(ctx, query, args...)
	t.observe(query, start, row.Err())
	return row
}

func (t *Tx) Commit() error {
	start := time.Now()
	err := t.tx.Commit()
	t.observe("COMMIT", start, err)
	return err
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

func (t *Tx) observe(query string, start time.Time, err error) {
	if t.observer == nil {
		return
	}
	t.observer.ObserveDBQuery(operationName(query), time.Since(start), err)
}

func collectPoolStats(db *sql.DB, observer PoolObserver, interval time.Duration, stopCh <-chan struct{}) {
	if observer == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	observer.ObservePoolStats(db.Stats())
	for {
		select {
		case <-ticker.C:
			observer.ObservePoolStats(db.Stats())
		case <-stopCh:
			return
		}
	}
}

// operationName первое ключевое слово запроса (SELECT, INSERT, ...) - низкая кардинальность лейбла
func operationName(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "UNKNOWN"
	}
	return strings.ToUpper(fields[0])
}
