package results

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS validations").
		WillReturnResult(sqlmock.NewResult(0, 0))

	store, err := New(db)
	require.NoError(t, err)
	return store, mock
}

func TestNewCreatesSchema(t *testing.T) {
	store, mock := newMockStore(t)

	assert.NotEmpty(t, store.RunID())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddInsertsRecord(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO validations").
		WithArgs(store.RunID(), "1801.00001", "paper/main.tex", int64(1200), int64(3), int64(1500)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.Add(Record{
		ArxivID:    "1801.00001",
		Path:       "paper/main.tex",
		Characters: 1200,
		Matches:    3,
		Duration:   1500 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunIDsDiffer(t *testing.T) {
	first, _ := newMockStore(t)
	second, _ := newMockStore(t)
	assert.NotEqual(t, first.RunID(), second.RunID())
}
