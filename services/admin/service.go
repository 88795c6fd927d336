package admin

import (
	"context"
	"fmt"
	"time"

	technicianRepo "repairhub/database/repository/technician"
	userRepo "repairhub/database/repository/user"
	"repairhub/models"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
)

// AccountService provisions accounts on behalf of administrators.
type AccountService interface {
	IsAdmin(ctx context.Context, uid string) (bool, error)
	CreateUser(ctx context.Context, callerUID string, req models.AccountRequest) (*models.CreatedAccount, error)
	CreateTechnician(ctx context.Context, callerUID string, req models.AccountRequest) (*models.CreatedAccount, error)
}

// AuthClient is the part of *auth.Client used to provision accounts.
type AuthClient interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	DeleteUser(ctx context.Context, uid string) error
}

// DefaultAccountService is the production implementation.
type DefaultAccountService struct {
	auth        AuthClient
	users       userRepo.UserRepository
	technicians technicianRepo.TechnicianRepository
	logger      *zap.Logger
	now         func() time.Time
}

func NewDefaultAccountService(authClient AuthClient, users userRepo.UserRepository, technicians technicianRepo.TechnicianRepository, logger *zap.Logger) *DefaultAccountService {
	return &DefaultAccountService{
		auth:        authClient,
		users:       users,
		technicians: technicians,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *DefaultAccountService) IsAdmin(ctx context.Context, uid string) (bool, error) {
	if uid == "" {
		return false, nil
	}
	return s.users.IsAdmin(ctx, uid)
}

// CreateUser creates the Auth account and the users/{uid} profile.
func (s *DefaultAccountService) CreateUser(ctx context.Context, callerUID string, req models.AccountRequest) (*models.CreatedAccount, error) {
	return s.create(ctx, callerUID, req, models.RoleUser, func(uid string, req models.AccountRequest, created time.Time) error {
		return s.users.Create(ctx, &models.User{
			UID:       uid,
			Name:      req.Name,
			Email:     req.Email,
			Phone:     req.Phone,
			Role:      models.RoleUser,
			CreatedAt: &created,
		})
	})
}

// CreateTechnician creates the Auth account and a pending, unsubmitted
// technicians/{uid} profile.
func (s *DefaultAccountService) CreateTechnician(ctx context.Context, callerUID string, req models.AccountRequest) (*models.CreatedAccount, error) {
	return s.create(ctx, callerUID, req, models.RoleTechnician, func(uid string, req models.AccountRequest, created time.Time) error {
		return s.technicians.Create(ctx, &models.Technician{
			UID:        uid,
			Name:       req.Name,
			Email:      req.Email,
			Phone:      req.Phone,
			Status:     models.TechnicianPending,
			Submitted:  false,
			Categories: []string{},
			CreatedAt:  &created,
		})
	})
}

// create runs the shared flow. If the profile write fails the Auth account
// is removed again so no orphan login remains.
func (s *DefaultAccountService) create(ctx context.Context, callerUID string, req models.AccountRequest, role string, writeProfile func(uid string, req models.AccountRequest, created time.Time) error) (*models.CreatedAccount, error) {
	ok, err := s.IsAdmin(ctx, callerUID)
	if err != nil {
		return nil, fmt.Errorf("failed to check admin membership: %w", err)
	}
	if !ok {
		return nil, ErrNotAdmin
	}

	clean, err := normalize(req)
	if err != nil {
		return nil, err
	}

	params := (&auth.UserToCreate{}).
		Email(clean.Email).
		Password(clean.Password).
		EmailVerified(false)
	if clean.Name != "" {
		params = params.DisplayName(clean.Name)
	}
	record, err := s.auth.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, fmt.Errorf("%w: %s", ErrEmailExists, clean.Email)
		}
		return nil, fmt.Errorf("failed to create auth user: %w", err)
	}

	if err := writeProfile(record.UID, clean, s.now().UTC()); err != nil {
		if delErr := s.auth.DeleteUser(ctx, record.UID); delErr != nil {
			s.logger.Error("failed to roll back auth user", zap.String("uid", record.UID), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to write %s profile: %w", role, err)
	}

	s.logger.Info("account created",
		zap.String("uid", record.UID),
		zap.String("role", role),
		zap.String("createdBy", callerUID),
	)
	return &models.CreatedAccount{UID: record.UID, Email: clean.Email, Role: role}, nil
}
