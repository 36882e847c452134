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

func subjectRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "name", "is_major", "target_grade", "color", "units", "created_at", "updated_at"}).
		AddRow("s1", "u1", "Calculus", true, 2.0, nil, 3.0, now, now)
}

func TestListSubjects(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, name, is_major, target_grade, color, units, created_at, updated_at FROM subjects WHERE user_id = $1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs("u1").
		WillReturnRows(subjectRows(now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM subjects WHERE user_id = $1")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	subjects, total, err := repo.List(context.Background(), "u1", models.SubjectFilter{})
	require.NoError(t, err)
	assert.Len(t, subjects, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindTreeAssemblesNestedData(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM subjects WHERE id = $1 AND user_id = $2")).
		WithArgs("s1", "u1").
		WillReturnRows(subjectRows(now))

	componentRows := sqlmock.NewRows([]string{"id", "subject_id", "name", "percentage", "priority", "created_at", "updated_at"}).
		AddRow("c1", "s1", "Exams", "40", 1, now, now).
		AddRow("c2", "s1", "Quizzes", "40", 2, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM components WHERE subject_id = $1 ORDER BY priority ASC")).
		WithArgs("s1").
		WillReturnRows(componentRows)

	itemRows := sqlmock.NewRows([]string{"id", "component_id", "name", "score", "max", "date", "target", "topic", "created_at", "updated_at"}).
		AddRow("i1", "c1", "Midterm Exam", 12.0, 100.0, nil, nil, nil, now, now).
		AddRow("i2", "c2", "Quiz 1", 100.0, 100.0, nil, nil, nil, now, now)
	mock.ExpectQuery("FROM items i JOIN components c").
		WithArgs("s1").
		WillReturnRows(itemRows)

	tree, err := repo.FindTree(context.Background(), "u1", "s1")
	require.NoError(t, err)
	require.Len(t, tree.Components, 2)
	assert.Equal(t, "Exams", tree.Components[0].Name)
	require.Len(t, tree.Components[0].Items, 1)
	assert.Equal(t, "Midterm Exam", tree.Components[0].Items[0].Name)
	require.Len(t, tree.Components[1].Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinishArchivesAndDeletesAtomically(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO history").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM subjects WHERE id = $1 AND user_id = $2")).
		WithArgs("s1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	record := &models.HistoryRecord{
		SubjectID:   "s1",
		UserID:      "u1",
		CourseName:  "Calculus",
		TargetGrade: "3.00",
		FinalGrade:  "4.00",
		Status:      models.HistoryMissed,
		Units:       3,
	}
	err := repo.Finish(context.Background(), record)
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinishRollsBackOnDeleteFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO history").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM subjects").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.Finish(context.Background(), &models.HistoryRecord{SubjectID: "s1", UserID: "u1"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
