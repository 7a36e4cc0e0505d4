package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/metrics"
)

func fastRetrier(m *metrics.Metrics) *Retrier {
	r := NewRetrier(m).WithLogger(zerolog.Nop())
	r.maxRetries = 2
	r.initialInterval = 1 * time.Millisecond
	r.maxInterval = 2 * time.Millisecond
	r.maxElapsedTime = 50 * time.Millisecond
	return r
}

func TestRetrierRetriesOnRetryableError(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	r := fastRetrier(m)

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return storageErr("commit transaction", &pgconn.PgError{Code: pgErrDeadlock})
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
	if got := testutil.ToFloat64(m.DBRetries.WithLabelValues(pgErrDeadlock)); got != 1 {
		t.Fatalf("expected 1 recorded retry, got %v", got)
	}
}

func TestRetrierGivesUpAfterMaxRetries(t *testing.T) {
	r := fastRetrier(nil)

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		return &pgconn.PgError{Code: pgErrSerializationFailure}
	})

	if code, ok := retryableCode(err); !ok || code != pgErrSerializationFailure {
		t.Fatalf("expected the serialization failure back, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetrierStopsOnPermanentError(t *testing.T) {
	r := NewRetrier(nil)
	attempts := 0

	err := r.Retry(context.Background(), func() error {
		attempts++
		return domain.ErrEntryNotDraft
	})

	if !errors.Is(err, domain.ErrEntryNotDraft) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestRetryableCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		want     bool
	}{
		{"deadlock", &pgconn.PgError{Code: pgErrDeadlock}, pgErrDeadlock, true},
		{"serialization", &pgconn.PgError{Code: pgErrSerializationFailure}, pgErrSerializationFailure, true},
		{"wrapped", fmt.Errorf("commit: %w", &pgconn.PgError{Code: pgErrDeadlock}), pgErrDeadlock, true},
		{"unique violation", &pgconn.PgError{Code: pgErrUniqueViolation}, "", false},
		{"other", errors.New("other"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := retryableCode(tt.err)
			if ok != tt.want || code != tt.wantCode {
				t.Fatalf("retryableCode() = (%q, %v), want (%q, %v)", code, ok, tt.wantCode, tt.want)
			}
		})
	}
}
