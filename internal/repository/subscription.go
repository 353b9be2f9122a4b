package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"subscription-tracker/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const subscriptionColumns = "id, name, cost, start_date, end_date, created_at, updated_at"

type SubscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *model.Subscription) (*model.Subscription, error) {
	id := sub.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	query := `
		INSERT INTO subscriptions (id, name, cost, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + subscriptionColumns

	var saved model.Subscription
	err := r.db.QueryRowxContext(ctx, query, id, sub.Name, sub.Cost, sub.StartDate, sub.EndDate).StructScan(&saved)
	if err != nil {
		return nil, wrapError("insert subscription", err)
	}
	inUTC(&saved)
	return &saved, nil
}

func (r *SubscriptionRepository) List(ctx context.Context) ([]model.Subscription, error) {
	query := "SELECT " + subscriptionColumns + " FROM subscriptions ORDER BY created_at, id"

	subs := []model.Subscription{}
	if err := r.db.SelectContext(ctx, &subs, query); err != nil {
		return nil, wrapError("list subscriptions", err)
	}
	for i := range subs {
		inUTC(&subs[i])
	}
	return subs, nil
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Subscription, error) {
	query := "SELECT " + subscriptionColumns + " FROM subscriptions WHERE id = $1"

	var sub model.Subscription
	if err := r.db.GetContext(ctx, &sub, query, id); err != nil {
		return nil, wrapError(fmt.Sprintf("get subscription %s", id), err)
	}
	inUTC(&sub)
	return &sub, nil
}

func (r *SubscriptionRepository) Update(ctx context.Context, id uuid.UUID, patch model.SubscriptionPatch) (*model.Subscription, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Cost != nil {
		set("cost", *patch.Cost)
	}
	if patch.StartDate != nil {
		set("start_date", *patch.StartDate)
	}
	if patch.SetEndDate {
		set("end_date", patch.EndDate)
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE subscriptions SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), subscriptionColumns)

	var sub model.Subscription
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&sub); err != nil {
		return nil, wrapError(fmt.Sprintf("update subscription %s", id), err)
	}
	inUTC(&sub)
	return &sub, nil
}

func (r *SubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) (*model.Subscription, error) {
	query := "DELETE FROM subscriptions WHERE id = $1 RETURNING " + subscriptionColumns

	var sub model.Subscription
	if err := r.db.QueryRowxContext(ctx, query, id).StructScan(&sub); err != nil {
		return nil, wrapError(fmt.Sprintf("delete subscription %s", id), err)
	}
	inUTC(&sub)
	return &sub, nil
}

// inUTC drops the session time zone lib/pq attaches to scanned timestamps.
func inUTC(sub *model.Subscription) {
	sub.StartDate = sub.StartDate.UTC()
	sub.CreatedAt = sub.CreatedAt.UTC()
	sub.UpdatedAt = sub.UpdatedAt.UTC()
	if sub.EndDate != nil {
		end := sub.EndDate.UTC()
		sub.EndDate = &end
	}
}

// wrapError maps missing rows to ErrNotFound and constraint or data errors
// reported by PostgreSQL to ErrInvalid.
func wrapError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "23502", pqErr.Code == "23514", pqErr.Code.Class() == "22":
			return fmt.Errorf("%s: %w: %s", op, ErrInvalid, pqErr.Message)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}
