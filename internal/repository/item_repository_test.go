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

func TestCreateItemKeepsNullableFields(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewItemRepository(db)

	mock.ExpectExec("INSERT INTO items").WillReturnResult(sqlmock.NewResult(1, 1))

	// A pending item has no score yet.
	item := &models.Item{ComponentID: "c1", Name: "Final Exam"}
	err := repo.Create(context.Background(), item)
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Nil(t, item.Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListItemsByComponent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewItemRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "component_id", "name", "score", "max", "date", "target", "topic", "created_at", "updated_at"}).
		AddRow("i1", "c1", "Quiz 1", 10.0, 10.0, "2026-08-20", nil, "limits", now, now).
		AddRow("i2", "c1", "Quiz 2", nil, 10.0, nil, nil, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM items WHERE component_id = $1 ORDER BY created_at ASC")).
		WithArgs("c1").
		WillReturnRows(rows)

	items, err := repo.ListByComponent(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.NotNil(t, items[0].Score)
	assert.Nil(t, items[1].Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateItem(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewItemRepository(db)

	mock.ExpectExec("UPDATE items SET").WillReturnResult(sqlmock.NewResult(0, 1))

	score := 8.5
	item := &models.Item{ID: "i1", ComponentID: "c1", Name: "Quiz 1", Score: &score}
	require.NoError(t, repo.Update(context.Background(), item))
	assert.NoError(t, mock.ExpectationsWereMet())
}
