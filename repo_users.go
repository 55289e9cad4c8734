package auth

import (
	"context"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the credential store backed by bun.
type Users interface {
	UserStore

	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	MarkVerifiedTx(ctx context.Context, tx bun.IDB, id uuid.UUID, token string, at time.Time) error
}

type users struct {
	repo repository.Repository[*User]
	db   *bun.DB
}

var _ Users = (*users)(nil)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		repo: repo,
		db:   db,
	}
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	record := &User{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", NormalizeEmail(email)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"email": email,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	record := &User{}

	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"id": id.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

// Register inserts a new unverified account. The unique index on email decides
// concurrent duplicates; a violation comes back as ErrDuplicateEmail.
func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	prepareUserDefaults(user)

	record, err := a.repo.CreateTx(ctx, tx, user)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return record, nil
}

func (a *users) Update(ctx context.Context, user *User) (*User, error) {
	return a.repo.Update(ctx, user, repository.UpdateByID(user.ID.String()))
}

// MarkVerified flips the verified flag iff the stored token still matches, so
// a token can only ever be burned once even under concurrent verify calls.
func (a *users) MarkVerified(ctx context.Context, id uuid.UUID, token string, at time.Time) error {
	return a.MarkVerifiedTx(ctx, a.db, id, token, at)
}

func (a *users) MarkVerifiedTx(ctx context.Context, tx bun.IDB, id uuid.UUID, token string, at time.Time) error {
	res, err := tx.NewUpdate().
		Model((*User)(nil)).
		Set("is_verified = TRUE").
		Set("verification_token = ''").
		Set("verified_at = ?", at).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.verification_token = ?", token).
		Exec(ctx)

	if err != nil {
		return err
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrVerificationFailed
	}

	return nil
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	record.Email = NormalizeEmail(record.Email)

	if record.Role == "" {
		record.Role = RoleUser
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
