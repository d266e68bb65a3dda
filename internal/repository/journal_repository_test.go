package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var journalCols = []string{"id", "user_id", "title", "content", "created_at"}

func TestJournalRepo_List_WithSearch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJournalRepo(db)

	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM journals WHERE user_id = \? AND \(title LIKE \? OR content LIKE \?\)$`).
		WithArgs(uint64(7), "%A%", "%A%").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(1))
	mock.ExpectQuery(`(?s)^SELECT id, user_id, title, content, created_at FROM journals WHERE user_id = \? AND \(title LIKE \? OR content LIKE \?\)\s+ORDER BY created_at DESC, id DESC LIMIT \? OFFSET \?$`).
		WithArgs(uint64(7), "%A%", "%A%", 5, 0).
		WillReturnRows(sqlmock.NewRows(journalCols).AddRow(4, 7, "A", "B", time.Now()))

	page, err := repo.List(context.Background(), 7, JournalQuery{Search: "A", Page: 1, PageSize: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, page.TotalPages())
	require.Len(t, page.Items, 1)
	assert.Equal(t, "B", page.Items[0].Content)
	requireReleased(t, db)
}

func TestJournalRepo_List_SecondPageNoSearch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJournalRepo(db)

	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM journals WHERE user_id = \?$`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(6))
	mock.ExpectQuery(`FROM journals WHERE user_id = \?\s+ORDER BY`).
		WithArgs(uint64(7), 5, 5).
		WillReturnRows(sqlmock.NewRows(journalCols).AddRow(1, 7, "old", "entry", time.Now()))

	page, err := repo.List(context.Background(), 7, JournalQuery{Page: 2, PageSize: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.TotalPages())
	assert.Len(t, page.Items, 1)
}

func TestJournalRepo_List_NoMatchesIsEmptySlice(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJournalRepo(db)

	mock.ExpectQuery(`COUNT`).WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(0))
	mock.ExpectQuery(`ORDER BY`).WillReturnRows(sqlmock.NewRows(journalCols))

	page, err := repo.List(context.Background(), 7, JournalQuery{Search: "zzz", Page: 1, PageSize: 5})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalPages())
}

func TestJournalRepo_List_CountErrorReleasesConnection(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJournalRepo(db)

	mock.ExpectQuery(`COUNT`).WillReturnError(errors.New("gone away"))

	_, err := repo.List(context.Background(), 7, JournalQuery{Page: 1, PageSize: 5})
	require.ErrorContains(t, err, "count journals")
	requireReleased(t, db)
}

func TestJournalRepo_CreateUpdateDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJournalRepo(db)
	ctx := context.Background()

	mock.ExpectExec(`^INSERT INTO journals \(user_id, title, content\) VALUES \(\?, \?, \?\)$`).
		WithArgs(uint64(7), "A", "B").WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec(`^UPDATE journals SET title = \?, content = \? WHERE id = \? AND user_id = \?$`).
		WithArgs("A2", "B2", uint64(4), uint64(7)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^DELETE FROM journals WHERE id = \? AND user_id = \?$`).
		WithArgs(uint64(4), uint64(7)).WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := repo.Create(ctx, 7, "A", "B")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), id)

	n, err := repo.Update(ctx, 4, 7, "A2", "B2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.Delete(ctx, 4, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	requireReleased(t, db)
}
