package services

import (
	"context"

	"github.com/welcomedesk/userservice/types"
)

// UserRepository defines persistence operations for users.
// GetByID reports a missing user through its boolean result.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, bool, error)
	List(ctx context.Context) ([]types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Update(ctx context.Context, user types.User) (types.User, error)
}

// EmailService sends welcome notifications.
type EmailService interface {
	SendWelcome(ctx context.Context, address string) (bool, error)
	SendBulkWelcome(ctx context.Context, addresses []string) (bool, error)
}

// UserService encapsulates user use-cases. Collaborator errors are returned
// to the caller unchanged.
type UserService struct {
	repo  UserRepository
	email EmailService
}

func NewUserService(repo UserRepository, email EmailService) *UserService {
	return &UserService{repo: repo, email: email}
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, bool, error) {
	return s.repo.GetByID(ctx, id)
}

// Create persists a new user and sends a welcome email to the stored address.
// The send result is not inspected; a failed delivery does not undo the insert.
func (s *UserService) Create(ctx context.Context, name, email string) (types.User, error) {
	saved, err := s.repo.Create(ctx, types.User{ID: 0, Name: name, Email: email})
	if err != nil {
		return types.User{}, err
	}
	if _, err := s.email.SendWelcome(ctx, saved.Email); err != nil {
		return types.User{}, err
	}
	return saved, nil
}

func (s *UserService) List(ctx context.Context) ([]types.User, error) {
	return s.repo.List(ctx)
}

// Update replaces name and email of an existing user. It returns false
// without touching the repository's update path when the user does not exist.
func (s *UserService) Update(ctx context.Context, id int, name, email string) (types.User, bool, error) {
	existing, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.User{}, false, err
	}
	if !found {
		return types.User{}, false, nil
	}

	existing.Name = name
	existing.Email = email

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return types.User{}, false, err
	}
	return updated, true, nil
}

// SendBulkWelcomeEmails mails every stored user in repository order.
func (s *UserService) SendBulkWelcomeEmails(ctx context.Context) (bool, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return false, err
	}

	emails := make([]string, 0, len(users))
	for _, user := range users {
		emails = append(emails, user.Email)
	}
	return s.email.SendBulkWelcome(ctx, emails)
}
