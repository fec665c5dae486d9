package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInTransaction(t *testing.T) {
	fnErr := errors.New("function failed")

	tests := []struct {
		name   string
		expect func(mock sqlmock.Sqlmock)
		fn     TxFn
		check  func(t *testing.T, err error)
	}{
		{
			name: "commits on success",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit()
			},
			fn:    func(ctx context.Context, tx *sql.Tx) error { return nil },
			check: func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name: "rolls back and returns the function error",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fn:    func(ctx context.Context, tx *sql.Tx) error { return fnErr },
			check: func(t *testing.T, err error) { assert.Equal(t, fnErr, err) },
		},
		{
			name: "begin failure",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("connection refused"))
			},
			fn: func(ctx context.Context, tx *sql.Tx) error { return nil },
			check: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to begin transaction")
			},
		},
		{
			name: "commit failure",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))
			},
			fn: func(ctx context.Context, tx *sql.Tx) error { return nil },
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrTransactionFailed)
				assert.Contains(t, err.Error(), "serialization failure")
			},
		},
		{
			name: "rollback failure keeps the original error",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback().WillReturnError(errors.New("rollback failed"))
			},
			fn: func(ctx context.Context, tx *sql.Tx) error { return fnErr },
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, fnErr)
				assert.Contains(t, err.Error(), "rollback failed")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			tt.expect(mock)
			tt.check(t, RunInTransaction(context.Background(), db, tt.fn))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRunInTransaction_PanicRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "boom", func() {
		_ = RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
