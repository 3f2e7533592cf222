package auth

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var updateUserPasswordSQL = `UPDATE "users" AS "usr"
SET
	"password_hash" = ?,
	"updated_at" = ?
WHERE
	"usr"."deleted_at" IS NULL
AND (
	"usr"."id" = ?
) RETURNING *;`

// ProfilePatch carries the profile fields a user may change. Password,
// permissions, and the enabled flag deliberately have no representation
// here: each of those goes through its own explicit operation.
type ProfilePatch struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone_number,omitempty"`
	Position  *string `json:"position,omitempty"`
	Avatar    *string `json:"avatar,omitempty"`
	Website   *string `json:"website,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

type Users interface {
	repository.Repository[*User]

	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*User, error)

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)

	UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (*User, error)
	UpdateProfileTx(ctx context.Context, tx bun.IDB, id uuid.UUID, patch ProfilePatch) (*User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, password string) error
	UpdatePasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, password string) error

	GrantPermission(ctx context.Context, id uuid.UUID, tag Permission) (*User, error)
	RevokePermission(ctx context.Context, id uuid.UUID, tag Permission) (*User, error)
	SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) (*User, error)

	Follow(ctx context.Context, followerID, followeeID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error
	Following(ctx context.Context, id uuid.UUID) ([]*User, error)

	TrackLastSeen(ctx context.Context, user *User) error
	TrackLastSeenTx(ctx context.Context, tx bun.IDB, user *User) error

	ListAll(ctx context.Context) ([]*User, error)
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ UserStore                    = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

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
		Repository: repo,
		db:         db,
	}
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	return a.getByColumnFold(ctx, tx, "email", email)
}

func (a *users) GetByUsername(ctx context.Context, username string) (*User, error) {
	return a.GetByUsernameTx(ctx, a.db, username)
}

func (a *users) GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*User, error) {
	return a.getByColumnFold(ctx, tx, "username", username)
}

// getByColumnFold matches case-insensitively; email and username uniqueness
// is case-insensitive throughout.
func (a *users) getByColumnFold(ctx context.Context, tx bun.IDB, column, value string) (*User, error) {
	record := &User{}

	err := tx.NewSelect().
		Model(record).
		Where("LOWER(?TableAlias."+column+") = LOWER(?)", strings.TrimSpace(value)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					column: value,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

// RegisterTx inserts a new user. The password must already be hashed by the
// caller; registration never sees or stores plaintext.
func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	prepareUserDefaults(user)
	return a.Repository.CreateTx(ctx, tx, user)
}

func (a *users) UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (*User, error) {
	return a.UpdateProfileTx(ctx, a.db, id, patch)
}

// UpdateProfileTx updates only the columns present in the patch. It cannot
// touch password_hash, permissions, or enabled.
func (a *users) UpdateProfileTx(ctx context.Context, tx bun.IDB, id uuid.UUID, patch ProfilePatch) (*User, error) {
	record := &User{ID: id}
	columns := make([]string, 0, 7)

	assign := func(column string, dst *string, src *string) {
		if src != nil {
			*dst = *src
			columns = append(columns, column)
		}
	}

	assign("first_name", &record.FirstName, patch.FirstName)
	assign("last_name", &record.LastName, patch.LastName)
	assign("phone_number", &record.Phone, patch.Phone)
	assign("position", &record.Position, patch.Position)
	assign("avatar", &record.Avatar, patch.Avatar)
	assign("website", &record.Website, patch.Website)
	assign("bio", &record.Bio, patch.Bio)

	if len(columns) == 0 {
		return a.Repository.GetByIdentifierTx(ctx, tx, id.String())
	}

	now := time.Now()
	record.UpdatedAt = &now
	columns = append(columns, "updated_at")

	res, err := tx.NewUpdate().
		Model(record).
		Column(columns...).
		WherePK().
		Where("?TableAlias.deleted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}

	return a.Repository.GetByIdentifierTx(ctx, tx, id.String())
}

func (a *users) UpdatePassword(ctx context.Context, id uuid.UUID, password string) error {
	return a.UpdatePasswordTx(ctx, a.db, id, password)
}

// UpdatePasswordTx always hashes its input. This is the only password write
// path besides registration; nothing else rehashes or rewrites the digest.
func (a *users) UpdatePasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	res, err := a.Repository.RawTx(ctx, tx, updateUserPasswordSQL, hash, time.Now(), id.String())
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}

// GrantPermission adds a permission tag. Granting an already held tag is a
// no-op. The read-modify-write runs in a transaction and only the
// permissions column is written back.
func (a *users) GrantPermission(ctx context.Context, id uuid.UUID, tag Permission) (*User, error) {
	return a.mutatePermissions(ctx, id, func(u *User) {
		u.GrantPermission(NormalizePermission(tag))
	})
}

// RevokePermission removes a permission tag. Revoking an absent tag is a
// no-op.
func (a *users) RevokePermission(ctx context.Context, id uuid.UUID, tag Permission) (*User, error) {
	return a.mutatePermissions(ctx, id, func(u *User) {
		u.RevokePermission(NormalizePermission(tag))
	})
}

func (a *users) mutatePermissions(ctx context.Context, id uuid.UUID, mutate func(*User)) (*User, error) {
	var record *User

	err := a.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := a.Repository.GetByIdentifierTx(ctx, tx, id.String())
		if err != nil {
			return err
		}

		mutate(user)

		now := time.Now()
		user.UpdatedAt = &now

		_, err = tx.NewUpdate().
			Model(user).
			Column("permissions", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return err
		}

		record = user
		return nil
	})

	return record, err
}

// SetEnabled flips the enabled flag. Disabling is the revocation path: every
// outstanding token for the account stops resolving on its next use.
func (a *users) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) (*User, error) {
	record := &User{ID: id, Enabled: enabled}
	now := time.Now()
	record.UpdatedAt = &now

	res, err := a.db.NewUpdate().
		Model(record).
		Column("enabled", "updated_at").
		WherePK().
		Where("?TableAlias.deleted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}

	return a.Repository.GetByIdentifier(ctx, id.String())
}

// Follow records a follower -> followee edge. The insert is idempotent; a
// duplicate edge is swallowed by the conflict clause rather than read back
// and rewritten.
func (a *users) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	if followerID == followeeID {
		return nil
	}

	edge := &UserFollow{
		UserID:    followerID,
		FollowsID: followeeID,
	}

	_, err := a.db.NewInsert().
		Model(edge).
		On("CONFLICT DO NOTHING").
		Exec(ctx)

	return err
}

// Unfollow removes an edge; removing an absent edge is a no-op.
func (a *users) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	_, err := a.db.NewDelete().
		Model((*UserFollow)(nil)).
		Where("?TableAlias.user_id = ?", followerID).
		Where("?TableAlias.follows_id = ?", followeeID).
		Exec(ctx)

	return err
}

func (a *users) Following(ctx context.Context, id uuid.UUID) ([]*User, error) {
	var records []*User

	err := a.db.NewSelect().
		Model(&records).
		Join(`JOIN user_follows AS uf ON uf.follows_id = ?TableAlias.id`).
		Where("uf.user_id = ?", id).
		Scan(ctx)

	return records, err
}

func (a *users) TrackLastSeen(ctx context.Context, user *User) error {
	return a.TrackLastSeenTx(ctx, a.db, user)
}

func (a *users) TrackLastSeenTx(ctx context.Context, tx bun.IDB, user *User) error {
	lastSeenAt := time.Now()
	_, err := tx.NewRaw(`
		UPDATE "users" AS "usr"
		SET
			"last_seen_at" = ?
		WHERE
			("usr".id = ?)
			AND "usr"."deleted_at" IS NULL;
	`, lastSeenAt, user.ID).Exec(ctx)

	if err == nil {
		user.LastSeenAt = &lastSeenAt
	}

	return err
}

func (a *users) ListAll(ctx context.Context) ([]*User, error) {
	var records []*User

	err := a.db.NewSelect().
		Model(&records).
		Order("username ASC").
		Scan(ctx)

	return records, err
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	record.Email = strings.TrimSpace(record.Email)
	record.Username = strings.TrimSpace(record.Username)
	record.Enabled = true

	if record.Permissions == nil {
		record.Permissions = []string{}
	}
}
