package txmanager

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-RepairBookingService/pkg/dbmetrics"
)

const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = 20 * time.Millisecond
	maxDelay          = time.Second
)

// SQLSTATE коды, после которых транзакцию безопасно повторить целиком
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

var (
	// ErrBeginTx ошибка начала транзакции
	ErrBeginTx = errors.New("txmanager: begin transaction")

	// ErrCommitTx ошибка фиксации транзакции
	ErrCommitTx = errors.New("txmanager: commit transaction")

	// ErrRetriesExhausted все попытки исчерпаны, последняя ошибка обёрнута
	ErrRetriesExhausted = errors.New("txmanager: retries exhausted")
)

// TxBeginner источник транзакций (*dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// RetryObserver получатель событий повтора транзакции
type RetryObserver interface {
	ObserveTxRetry(isolation string)
}

// TransactionManager выполняет функцию в транзакции, кладя её в контекст.
// Транзакции, упавшие из-за конфликта сериализации или дедлока, повторяются
// с экспоненциальной задержкой. Бизнес-ошибки не повторяются.
type TransactionManager struct {
	db         TxBeginner
	maxRetries int
	baseDelay  time.Duration
	observer   RetryObserver
}

type Option func(*TransactionManager)

func WithMaxRetries(n int) Option {
	return func(m *TransactionManager) {
		if n >= 0 {
			m.maxRetries = n
		}
	}
}

func WithBaseDelay(d time.Duration) Option {
	return func(m *TransactionManager) {
		if d > 0 {
			m.baseDelay = d
		}
	}
}

func WithRetryObserver(o RetryObserver) Option {
	return func(m *TransactionManager) {
		m.observer = o
	}
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db TxBeginner, opts ...Option) *TransactionManager {
	m := &TransactionManager{
		db:         db,
		maxRetries: DefaultMaxRetries,
		baseDelay:  DefaultBaseDelay,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DoSerializable выполняет fn в транзакции SERIALIZABLE
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	var lastErr error
	for attempt := 0; attempt <= m.maxRetries; attempt++ {
		if attempt > 0 {
			if m.observer != nil {
				m.observer.ObserveTxRetry(isolationName(opts))
			}
			if err := sleep(ctx, m.backoff(attempt)); err != nil {
				return fmt.Errorf("%w: %w", err, lastErr)
			}
		}

		lastErr = m.attempt(ctx, opts, fn)
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, m.maxRetries+1, lastErr)
}

func (m *TransactionManager) attempt(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginTx, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitTx, err)
	}
	return nil
}

func (m *TransactionManager) backoff(attempt int) time.Duration {
	d := m.baseDelay << (attempt - 1)
	if d > maxDelay || d <= 0 {
		return maxDelay
	}
	return d
}

// IsRetryable сообщает, можно ли повторить транзакцию после ошибки err
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == codeSerializationFailure || pqErr.Code == codeDeadlockDetected
	}

	return errors.Is(err, driver.ErrBadConn)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isolationName(opts *sql.TxOptions) string {
	return strings.ToLower(strings.ReplaceAll(opts.Isolation.String(), " ", "_"))
}
