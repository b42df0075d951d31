package service

import (
	"context"
	"errors"
	"fmt"

	"smartsalle/gym-app/internal/domain"
	"smartsalle/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GymInput carries the fields for creating a gym.
type GymInput struct {
	Name    string
	Address string
	City    string
	Phone   string
	Email   string
}

// --- Service Interface ---
type GymService interface {
	Create(ctx context.Context, input GymInput) (*domain.Gym, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Gym, error)
	List(ctx context.Context) ([]domain.Gym, error)
}

// --- Service Implementation ---

type gymService struct {
	gymRepo repository.GymRepository
}

// NewGymService creates a new instance of gymService.
func NewGymService(gymRepo repository.GymRepository) GymService {
	return &gymService{gymRepo: gymRepo}
}

// Create validates and stores a new gym.
func (s *gymService) Create(ctx context.Context, input GymInput) (*domain.Gym, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: gym name is required", ErrInvalidInput)
	}

	gym := &domain.Gym{
		Name:    input.Name,
		Address: input.Address,
		City:    input.City,
		Phone:   input.Phone,
		Email:   input.Email,
	}

	gymID, err := s.gymRepo.Create(ctx, gym)
	if err != nil {
		return nil, err
	}
	gym.ID = gymID
	return gym, nil
}

// GetByID retrieves a single gym.
func (s *gymService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Gym, error) {
	gym, err := s.gymRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGymNotFound
		}
		return nil, err
	}
	return gym, nil
}

// List retrieves all gyms.
func (s *gymService) List(ctx context.Context) ([]domain.Gym, error) {
	return s.gymRepo.List(ctx)
}
