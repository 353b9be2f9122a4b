package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"subscription-tracker/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "name", "cost", "start_date", "end_date", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (*SubscriptionRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSubscriptionRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestSubscriptionRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	start := date("2023-01-01")
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO subscriptions (id, name, cost, start_date, end_date)")).
		WithArgs(sqlmock.AnyArg(), "Netflix", 10.0, start, nil).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(id.String(), "Netflix", 10.0, start, nil, now, now))

	sub, err := repo.Create(context.Background(), &model.Subscription{Name: "Netflix", Cost: 10, StartDate: start})
	require.NoError(t, err)

	assert.Equal(t, id, sub.ID)
	assert.Equal(t, "Netflix", sub.Name)
	assert.Equal(t, 10.0, sub.Cost)
	assert.Nil(t, sub.EndDate)
	assert.Equal(t, now, sub.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepository_Create_NotNullViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO subscriptions").
		WillReturnError(&pq.Error{Code: "23502", Message: `null value in column "name"`})

	_, err := repo.Create(context.Background(), &model.Subscription{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "insert subscription")
}

func TestSubscriptionRepository_Create_DBError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO subscriptions").WillReturnError(errors.New("connection reset"))

	_, err := repo.Create(context.Background(), &model.Subscription{Name: "Netflix", StartDate: date("2023-01-01")})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestSubscriptionRepository_List(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	end := date("2023-12-31")
	mock.ExpectQuery(regexp.QuoteMeta("FROM subscriptions ORDER BY created_at, id")).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(uuid.NewString(), "Netflix", 10.0, date("2023-01-01"), nil, now, now).
			AddRow(uuid.NewString(), "Spotify", 5.0, date("2023-02-01"), end, now, now))

	subs, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "Spotify", subs[1].Name)
	require.NotNil(t, subs[1].EndDate)
	assert.Equal(t, end, *subs[1].EndDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepository_ScannedTimesAreUTC(t *testing.T) {
	repo, mock := newMockRepo(t)

	newYork := time.FixedZone("", -5*60*60)
	start := time.Date(2022, 12, 31, 19, 0, 0, 0, newYork)
	end := time.Date(2023, 12, 30, 19, 0, 0, 0, newYork)
	stamp := time.Date(2023, 3, 1, 7, 30, 0, 0, newYork)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(id.String(), "Netflix", 10.0, start, end, stamp, stamp))

	sub, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, time.UTC, sub.StartDate.Location())
	assert.Equal(t, "2023-01-01", model.DateOnly(sub.StartDate))
	require.NotNil(t, sub.EndDate)
	assert.Equal(t, "2023-12-31", model.DateOnly(*sub.EndDate))
	assert.Equal(t, time.UTC, sub.CreatedAt.Location())
	assert.Equal(t, time.UTC, sub.UpdatedAt.Location())
	assert.True(t, stamp.Equal(sub.CreatedAt))

	mock.ExpectQuery(regexp.QuoteMeta("FROM subscriptions ORDER BY created_at, id")).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(id.String(), "Netflix", 10.0, start, nil, stamp, stamp))

	subs, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "2023-01-01T00:00:00Z", subs[0].StartDate.Format(time.RFC3339))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepository_List_Empty(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT .* FROM subscriptions").WillReturnRows(sqlmock.NewRows(columns))

	subs, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, subs)
	assert.Empty(t, subs)
}

func TestSubscriptionRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepository_Update_OnlySuppliedFields(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	now := time.Now().UTC()
	name := "Disney+ Updated"
	cost := 12.0

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE subscriptions SET name = $1, cost = $2, updated_at = now() WHERE id = $3")).
		WithArgs(name, cost, id).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(id.String(), name, cost, date("2023-04-01"), nil, now.Add(-time.Hour), now))

	sub, err := repo.Update(context.Background(), id, model.SubscriptionPatch{Name: &name, Cost: &cost})
	require.NoError(t, err)
	assert.Equal(t, name, sub.Name)
	assert.True(t, sub.UpdatedAt.After(sub.CreatedAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepository_Update_ClearEndDate(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE subscriptions SET end_date = $1, updated_at = now() WHERE id = $2")).
		WithArgs(nil, id).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(id.String(), "Netflix", 10.0, date("2023-01-01"), nil, now, now))

	sub, err := repo.Update(context.Background(), id, model.SubscriptionPatch{SetEndDate: true})
	require.NoError(t, err)
	assert.Nil(t, sub.EndDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepository_Update_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	mock.ExpectQuery("UPDATE subscriptions").WillReturnRows(sqlmock.NewRows(columns))

	name := "Non-Existent"
	_, err := repo.Update(context.Background(), id, model.SubscriptionPatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubscriptionRepository_Delete(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM subscriptions WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(id.String(), "YouTube Premium", 11.0, date("2023-05-01"), nil, now, now))

	sub, err := repo.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, sub.ID)

	mock.ExpectQuery("DELETE FROM subscriptions").WithArgs(id).WillReturnRows(sqlmock.NewRows(columns))
	_, err = repo.Delete(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWrapError(t *testing.T) {
	dataErr := &pq.Error{Code: "22007", Message: "invalid datetime format"}
	assert.ErrorIs(t, wrapError("op", dataErr), ErrInvalid)

	checkErr := &pq.Error{Code: "23514", Message: "check violation"}
	assert.ErrorIs(t, wrapError("op", checkErr), ErrInvalid)

	uniqueErr := &pq.Error{Code: "23505", Message: "duplicate key"}
	err := wrapError("op", uniqueErr)
	assert.NotErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "op: ")
}
