package repos

import (
	"dressmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id,email,name,password_hash,role,email_confirmed`

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Create(id, email, name, hash, role string) error {
	_, err := r.DB.Exec(`
		INSERT INTO users(id,email,name,password_hash,role,email_confirmed)
		VALUES(?,?,?,?,?,0)
	`, id, email, name, hash, role)
	return err
}

func (r *UserRepo) ConfirmEmail(id string) error {
	_, err := r.DB.Exec(`UPDATE users SET email_confirmed=1, updated_at=CURRENT_TIMESTAMP WHERE id=?`, id)
	return err
}

func (r *UserRepo) BindSession(sid, userID string) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	return err
}

func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
      SELECT u.id,u.email,u.name,u.password_hash,u.role,u.email_confirmed
      FROM sessions s
      JOIN users u ON u.id=s.user_id
      WHERE s.id=?`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}

// SaveSearchQuery persists the session's last validated search query so a
// fresh page load with no q parameter can restore it.
func (r *UserRepo) SaveSearchQuery(sid, q string) error {
	_, err := r.DB.Exec(`
		INSERT INTO sessions(id,last_search_query,last_seen)
		VALUES(?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET last_search_query=excluded.last_search_query,last_seen=CURRENT_TIMESTAMP
	`, sid, q)
	return err
}

func (r *UserRepo) LastSearchQuery(sid string) (string, error) {
	var q string
	err := r.DB.Get(&q, `SELECT last_search_query FROM sessions WHERE id=?`, sid)
	return q, err
}
