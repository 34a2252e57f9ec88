package db

import (
	"context"
	"database/sql/driver"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// olderThan matches a cutoff argument at least d in the past.
type olderThan time.Duration

func (d olderThan) Match(v driver.Value) bool {
	ts, ok := v.(time.Time)
	return ok && time.Since(ts) >= time.Duration(d)
}

func TestPurgeDeleted(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer dbMock.Close()

	cutoff := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("DELETE FROM foods").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := PurgeDeleted(context.Background(), dbMock, cutoff)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	mock.ExpectExec("DELETE FROM foods").WillReturnError(fmt.Errorf("db fail"))
	_, err = PurgeDeleted(context.Background(), dbMock, cutoff)
	assert.ErrorContains(t, err, "purge deleted foods")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStartSoftDeleteCleaner(t *testing.T) {
	tests := []struct {
		name    string
		expect  func(sqlmock.Sqlmock)
		wantLog string
		level   zapcore.Level
	}{
		{
			name: "purges and reports",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectExec("DELETE FROM foods").
					WithArgs(olderThan(time.Hour)).
					WillReturnResult(sqlmock.NewResult(0, 3))
			},
			wantLog: "purged soft-deleted foods",
			level:   zapcore.InfoLevel,
		},
		{
			name: "error is logged",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectExec("DELETE FROM foods").
					WithArgs(sqlmock.AnyArg()).
					WillReturnError(fmt.Errorf("db fail"))
			},
			wantLog: "failed to purge soft-deleted foods",
			level:   zapcore.ErrorLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbMock, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer dbMock.Close()
			tt.expect(mock)

			core, logs := observer.New(zapcore.InfoLevel)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			StartSoftDeleteCleaner(ctx, dbMock, 10*time.Millisecond, time.Hour, zap.New(core))

			require.Eventually(t, func() bool {
				return logs.FilterMessage(tt.wantLog).Len() > 0
			}, 2*time.Second, 5*time.Millisecond)
			cancel()

			entry := logs.FilterMessage(tt.wantLog).All()[0]
			assert.Equal(t, tt.level, entry.Level)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStartSoftDeleteCleaner_CancelBeforeTicker(t *testing.T) {
	dbMock, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer dbMock.Close()

	ctx, cancel := context.WithCancel(context.Background())
	StartSoftDeleteCleaner(ctx, dbMock, 100*time.Millisecond, time.Hour, zap.NewNop())
	cancel()

	time.Sleep(150 * time.Millisecond)
	assert.NoError(t, mock.ExpectationsWereMet(), "unexpected sql calls")
}
