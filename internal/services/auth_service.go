package services

import (
	"errors"

	"dressmarket/internal/domain"
	"dressmarket/internal/repos"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrBadCreds          = errors.New("invalid email or password")
	ErrEmailNotConfirmed = errors.New("email not confirmed")
)

type AuthService struct {
	Users *repos.UserRepo
	Carts *repos.CartRepo
}

// Login binds the session to the user and merges any anonymous cart into the
// user's cart. Unconfirmed accounts are reported distinctly so the UI can
// show the right message.
func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if !u.EmailConfirmed {
		return nil, ErrEmailNotConfirmed
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	if s.Carts != nil {
		if err := s.Carts.MergeForLogin(u.ID, sid); err != nil {
			return nil, err
		}
	}
	return u, nil
}

func (s *AuthService) Register(email, name, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	if err := s.Users.Create(id, email, name, string(hash), "CUSTOMER"); err != nil {
		return nil, err
	}
	return s.Users.ByID(id)
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}
