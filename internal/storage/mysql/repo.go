package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"tripscout/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, insertSessionSQL, s.ID, s.Model)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return domain.ErrSessionExists
		}
		return err
	}
	return nil
}

func (r *Repo) GetSession(ctx context.Context, id string) (domain.Session, error) {
	var s domain.Session
	err := r.db.QueryRowContext(ctx, getSessionSQL, id).Scan(&s.ID, &s.Model, &s.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Session{}, domain.ErrSessionNotFound
		}
		return domain.Session{}, err
	}
	return s, nil
}

func (r *Repo) SaveMessage(ctx context.Context, sessionID string, m domain.Message) error {
	_, err := r.db.ExecContext(ctx, insertMessageSQL, sessionID, m.Role, m.Content)
	return err
}

func (r *Repo) ListMessages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, listMessagesSQL, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
