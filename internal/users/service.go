package users

import (
	"context"
	"errors"

	"github.com/taskhub/taskhub/backend/go-services/internal/models"
)

// Service encapsulates user-directory business logic
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// ProvisionFromClaims resolves the directory record for verified token claims,
// creating it with the default role on first sight. Existing records are
// returned as-is: a stored role is never overwritten from claims.
func (s *Service) ProvisionFromClaims(ctx context.Context, claims map[string]interface{}) (*models.User, error) {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errors.New("token claims missing subject")
	}
	email, _ := claims["email"].(string)

	u, err := s.repo.GetBySubject(ctx, sub)
	if err != nil {
		return nil, err
	}
	if u != nil {
		return u, nil
	}
	return s.repo.CreateIfAbsent(ctx, &models.User{
		SubjectID: sub,
		Email:     email,
		Role:      models.RoleUser,
	})
}

func (s *Service) GetBySubject(ctx context.Context, subjectID string) (*models.User, error) {
	return s.repo.GetBySubject(ctx, subjectID)
}

// UpdateRole sets the stored role for the directory record with the given id.
// Returns (nil, nil) when no such record exists.
func (s *Service) UpdateRole(ctx context.Context, id, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, errors.New("invalid role")
	}
	return s.repo.UpdateRole(ctx, id, role)
}
