package user

import (
	"errors"

	"github.com/kai-os/platform/internal/models"
	"github.com/kai-os/platform/internal/modules/webhook"
	"github.com/kai-os/platform/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// Service handles user CRUD against the users collection.
type Service struct {
	st    *store.Store
	hooks *webhook.Service
}

func NewService(st *store.Store, hooks *webhook.Service) *Service {
	return &Service{st: st, hooks: hooks}
}

func (s *Service) List() ([]models.UserModel, error) {
	records, err := s.st.List(models.CollectionUsers)
	if err != nil {
		return nil, err
	}
	items := make([]models.UserModel, 0, len(records))
	for _, rec := range records {
		var u models.UserModel
		if err := models.FromRecord(rec, &u); err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, nil
}

// GetByEmail scans for a user by email. Case-sensitive, like the unique
// constraint.
func (s *Service) GetByEmail(email string) (*models.UserModel, error) {
	records, err := s.st.List(models.CollectionUsers)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		var u models.UserModel
		if err := models.FromRecord(rec, &u); err != nil {
			return nil, err
		}
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

// Create stores a new user. Email must be unique within the collection; the
// conflict is detected under the collection lock so two racing creates
// cannot both succeed.
func (s *Service) Create(dto *CreateUserDTO) (*models.UserModel, error) {
	u := models.UserModel{
		Username: dto.Username,
		Email:    dto.Email,
		Hosts:    []string{},
	}
	if dto.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.Password = string(hash)
	}

	fields, err := models.ToRecord(&u)
	if err != nil {
		return nil, err
	}
	rec, err := s.st.Create(models.CollectionUsers, fields,
		store.Required("username", "email"), store.Unique("email"))
	if err != nil {
		return nil, err
	}
	if err := models.FromRecord(rec, &u); err != nil {
		return nil, err
	}

	s.hooks.Dispatch(EventUserCreated, toResponse(&u))
	return &u, nil
}

// VerifyPassword checks a login attempt against the stored bcrypt hash.
func (s *Service) VerifyPassword(u *models.UserModel, password string) bool {
	if u == nil || u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// IsConflict reports whether err is the duplicate-email case.
func IsConflict(err error) bool { return errors.Is(err, store.ErrConflict) }

func toResponse(u *models.UserModel) userResponse {
	hosts := u.Hosts
	if hosts == nil {
		hosts = []string{}
	}
	return userResponse{
		ID: u.ID, Username: u.Username, Email: u.Email,
		Hosts: hosts, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}
