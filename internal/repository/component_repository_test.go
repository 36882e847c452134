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

func TestListComponentsBySubject(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewComponentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "subject_id", "name", "percentage", "priority", "created_at", "updated_at"}).
		AddRow("c1", "s1", "Exams", "40", 1, now, now).
		AddRow("c2", "s1", "Quizzes", "60", 2, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM components WHERE subject_id = $1 ORDER BY priority ASC")).
		WithArgs("s1").
		WillReturnRows(rows)

	components, err := repo.ListBySubject(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, components, 2)
	assert.Equal(t, "40", components[0].Percentage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateComponent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewComponentRepository(db)

	mock.ExpectExec("INSERT INTO components").WillReturnResult(sqlmock.NewResult(1, 1))

	component := &models.Component{SubjectID: "s1", Name: "Labs", Percentage: "20", Priority: 3}
	err := repo.Create(context.Background(), component)
	require.NoError(t, err)
	assert.NotEmpty(t, component.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteComponent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewComponentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM components WHERE id = $1")).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "c1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
