package auth

import (
	"context"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SessionTokens is the session descriptor store backed by bun.
type SessionTokens interface {
	SessionTokenStore

	GetByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) (*SessionToken, error)
	UpsertTx(ctx context.Context, tx bun.IDB, record *SessionToken) (*SessionToken, error)
	DeleteByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error
}

type sessionTokens struct {
	repo repository.Repository[*SessionToken]
	db   *bun.DB
}

var _ SessionTokens = (*sessionTokens)(nil)

func NewSessionTokensRepository(db *bun.DB) SessionTokens {
	repo := repository.NewRepository[*SessionToken](db, repository.ModelHandlers[*SessionToken]{
		NewRecord: func() *SessionToken { return &SessionToken{} },
		GetID: func(st *SessionToken) uuid.UUID {
			if st == nil {
				return uuid.Nil
			}
			return st.ID
		},
		SetID: func(st *SessionToken, id uuid.UUID) {
			if st != nil {
				st.ID = id
			}
		},
	})

	return &sessionTokens{
		repo: repo,
		db:   db,
	}
}

func (a *sessionTokens) GetByUser(ctx context.Context, userID uuid.UUID) (*SessionToken, error) {
	return a.GetByUserTx(ctx, a.db, userID)
}

func (a *sessionTokens) GetByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) (*SessionToken, error) {
	record := &SessionToken{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.user_id = ?", userID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"user_id": userID.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

// Upsert writes the one session row a user may hold. The unique index on
// user_id plus ON CONFLICT makes rapid concurrent logins resolve to a single
// row, last writer wins.
func (a *sessionTokens) Upsert(ctx context.Context, record *SessionToken) (*SessionToken, error) {
	return a.UpsertTx(ctx, a.db, record)
}

func (a *sessionTokens) UpsertTx(ctx context.Context, tx bun.IDB, record *SessionToken) (*SessionToken, error) {
	prepareSessionTokenDefaults(record)

	_, err := tx.NewInsert().
		Model(record).
		On("CONFLICT (user_id) DO UPDATE").
		Set("refresh_token = EXCLUDED.refresh_token").
		Set("ip = EXCLUDED.ip").
		Set("user_agent = EXCLUDED.user_agent").
		Set("is_valid = EXCLUDED.is_valid").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)

	if err != nil {
		return nil, err
	}

	return record, nil
}

// DeleteByUser removes the session row if present. Absence is not an error,
// which is what makes logout idempotent.
func (a *sessionTokens) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return a.DeleteByUserTx(ctx, a.db, userID)
}

func (a *sessionTokens) DeleteByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error {
	_, err := tx.NewDelete().
		Model((*SessionToken)(nil)).
		Where("?TableAlias.user_id = ?", userID).
		Exec(ctx)

	return err
}

// Invalidate flags the session so authentication fails even with the correct
// raw refresh value.
func (a *sessionTokens) Invalidate(ctx context.Context, userID uuid.UUID) error {
	res, err := a.db.NewUpdate().
		Model((*SessionToken)(nil)).
		Set("is_valid = FALSE").
		Where("?TableAlias.user_id = ?", userID).
		Exec(ctx)

	if err != nil {
		return err
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"user_id": userID.String(),
			})
	}

	return nil
}

func prepareSessionTokenDefaults(record *SessionToken) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	// Stamped here so the conflict update carries a fresh value instead of
	// keeping the reused row's original timestamp.
	now := time.Now()
	record.UpdatedAt = &now
}
