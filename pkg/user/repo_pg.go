package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	_ "github.com/jackc/pgx/v4/stdlib"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"forum/pkg/common"
)

const pgUniqueViolation = "23505"

const pgSchema = `CREATE TABLE IF NOT EXISTS users (
	id         CHAR(24) PRIMARY KEY,
	username   TEXT NOT NULL UNIQUE,
	email      TEXT NOT NULL UNIQUE,
	password   TEXT NOT NULL,
	avatar     TEXT NOT NULL DEFAULT '',
	bio        TEXT NOT NULL DEFAULT '',
	reputation INTEGER NOT NULL DEFAULT 0,
	role       TEXT NOT NULL DEFAULT 'user',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

const pgColumns = "id, username, email, password, avatar, bio, reputation, role, created_at, updated_at"

// PgUserRepo keeps users in PostgreSQL. Ids are still 24-hex ObjectIDs so
// posts and comments in MongoDB can reference them.
type PgUserRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewPgUserRepo(db *sql.DB) *PgUserRepo {
	return &PgUserRepo{
		db:  db,
		now: time.Now,
	}
}

func (r *PgUserRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, pgSchema); err != nil {
		return fmt.Errorf("user/pg: failed creating schema: %w", err)
	}
	return nil
}

func (r *PgUserRepo) Add(ctx context.Context, u *User) (primitive.ObjectID, error) {
	if u.Id.IsZero() {
		u.Id = primitive.NewObjectID()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	now := r.now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users("+pgColumns+") VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)",
		u.Id.Hex(), u.Username, u.Email, u.Password, u.Avatar, u.Bio, u.Reputation, string(u.Role), u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("user/pg: user wasn't added: %w", mapPgErr(err))
	}
	return u.Id, nil
}

func (r *PgUserRepo) GetById(ctx context.Context, id primitive.ObjectID) (*User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+pgColumns+" FROM users WHERE id=$1", id.Hex())
	return scanUser(row)
}

func (r *PgUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+pgColumns+" FROM users WHERE email=$1", email)
	return scanUser(row)
}

func (r *PgUserRepo) Taken(ctx context.Context, username, email string, except primitive.ObjectID) (bool, error) {
	var conds []string
	var args []interface{}
	if username != "" {
		args = append(args, username)
		conds = append(conds, "username=$"+strconv.Itoa(len(args)))
	}
	if email != "" {
		args = append(args, email)
		conds = append(conds, "email=$"+strconv.Itoa(len(args)))
	}
	if len(conds) == 0 {
		return false, nil
	}

	query := "SELECT COUNT(*) FROM users WHERE (" + strings.Join(conds, " OR ") + ")"
	if !except.IsZero() {
		args = append(args, except.Hex())
		query += " AND id<>$" + strconv.Itoa(len(args))
	}

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("user/pg: could not count users: %w", err)
	}
	return n > 0, nil
}

func (r *PgUserRepo) GetAll(ctx context.Context) ([]*User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+pgColumns+" FROM users ORDER BY username ASC")
	if err != nil {
		return nil, fmt.Errorf("user/pg: failed executing query for getting all users: %w", err)
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("user/pg: rows iteration failed: %w", err)
	}
	return users, nil
}

func (r *PgUserRepo) GetSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*Summary, error) {
	res := make(map[primitive.ObjectID]*Summary, len(ids))
	if len(ids) == 0 {
		return res, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		args[i] = id.Hex()
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, username, avatar FROM users WHERE id IN ("+strings.Join(placeholders, ", ")+")", args...)
	if err != nil {
		return nil, fmt.Errorf("user/pg: failed loading authors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var hex string
		s := new(Summary)
		if err := rows.Scan(&hex, &s.Username, &s.Avatar); err != nil {
			return nil, fmt.Errorf("user/pg: could not scan row: %w", err)
		}
		if s.Id, err = primitive.ObjectIDFromHex(hex); err != nil {
			return nil, fmt.Errorf("user/pg: bad id %q: %w", hex, err)
		}
		s.Username = common.Capitalize(s.Username)
		res[s.Id] = s
	}
	return res, rows.Err()
}

func (r *PgUserRepo) Update(ctx context.Context, u *User) error {
	u.UpdatedAt = r.now().UTC()
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET username=$1, email=$2, bio=$3, avatar=$4, updated_at=$5 WHERE id=$6",
		u.Username, u.Email, u.Bio, u.Avatar, u.UpdatedAt, u.Id.Hex())
	if err != nil {
		return fmt.Errorf("user/pg: failed updating user: %w", mapPgErr(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("user/pg: failed updating user: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgUserRepo) SetUsername(ctx context.Context, id primitive.ObjectID, username string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET username=$1, updated_at=$2 WHERE id=$3",
		username, r.now().UTC(), id.Hex())
	if err != nil {
		return fmt.Errorf("user/pg: failed updating username: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*User, error) {
	var hex, role string
	u := new(User)
	err := row.Scan(&hex, &u.Username, &u.Email, &u.Password, &u.Avatar, &u.Bio, &u.Reputation, &role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user/pg: could not scan row: %w", err)
	}
	if u.Id, err = primitive.ObjectIDFromHex(hex); err != nil {
		return nil, fmt.Errorf("user/pg: bad id %q: %w", hex, err)
	}
	u.Role = Role(role)
	return u, nil
}

func mapPgErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicate
	}
	return err
}
