package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradeseer/gradeseer-api/internal/models"
)

func TestListHistory(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewHistoryRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "subject_id", "user_id", "course_name", "target_grade", "final_grade", "status", "units", "finished_at"}).
		AddRow("h1", "s1", "u1", "Calculus", "3.00", "4.00", string(models.HistoryMissed), 3.0, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM history WHERE user_id = $1 ORDER BY finished_at DESC LIMIT 20 OFFSET 0")).
		WithArgs("u1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM history WHERE user_id = $1")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	records, total, err := repo.List(context.Background(), "u1", models.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.HistoryMissed, records[0].Status)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteHistoryRecord(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewHistoryRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM history WHERE id = $1 AND user_id = $2")).
		WithArgs("h1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "u1", "h1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
