package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"SchoolAPI/internal/app_errors"
	"SchoolAPI/internal/models"
	"SchoolAPI/pkg/logger"
)

type AccountRepo interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	UserByName(ctx context.Context, username string) (*models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Users(ctx context.Context, limit, offset int) ([]models.User, error)
}

type RolesRepo interface {
	CreateRole(ctx context.Context, name string) (*models.Role, error)
	RoleByName(ctx context.Context, name string) (*models.Role, error)
	RolesByUserID(ctx context.Context, userID uuid.UUID) ([]string, error)
	AssignRole(ctx context.Context, userID uuid.UUID, roleID int) error
	RevokeRole(ctx context.Context, userID uuid.UUID, roleID int) error
}

type AccountService struct {
	log      logger.Log
	issuer   *TokenIssuer
	accounts AccountRepo
	roles    RolesRepo
}

func NewAccountService(l logger.Log, issuer *TokenIssuer, accounts AccountRepo, roles RolesRepo) *AccountService {
	return &AccountService{
		log:      l,
		issuer:   issuer,
		accounts: accounts,
		roles:    roles,
	}
}

// Register creates a new account with a hashed password and no roles.
// A duplicate username or email surfaces as ErrUserExists.
func (u *AccountService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	return u.accounts.CreateUser(ctx, user)
}

// Login verifies the credentials and resolves the user's roles. An unknown
// username and a wrong password both map to ErrIncorrectPassword so the
// response does not reveal which one failed.
func (u *AccountService) Login(ctx context.Context, username, password string) (*models.User, []string, error) {
	user, err := u.accounts.UserByName(ctx, username)
	if err != nil {
		if errors.Is(err, app_errors.ErrUserNotFound) {
			return nil, nil, app_errors.ErrIncorrectPassword
		}
		return nil, nil, err
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil {
		u.log.ErrorErr("password verification failed", err, "username", username)
		return nil, nil, err
	}
	if !ok {
		return nil, nil, app_errors.ErrIncorrectPassword
	}

	roles, err := u.roles.RolesByUserID(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user, roles, nil
}

// BuildToken issues a signed access token for the identity and roles
// returned by Login.
func (u *AccountService) BuildToken(username string, roles []string) (*models.UserToken, error) {
	return u.issuer.Issue(username, roles)
}

// TokenClaims validates a bearer token and returns the identity and role
// claims it carries. Used by the authorization middleware.
func (u *AccountService) TokenClaims(ctx context.Context, token string) (username string, roles []string, err error) {
	claims, err := u.issuer.Claims(token)
	if err != nil {
		return "", nil, err
	}
	return claims.Name, claims.Roles, nil
}

func (u *AccountService) AddRole(ctx context.Context, name string) (*models.Role, error) {
	return u.roles.CreateRole(ctx, name)
}

func (u *AccountService) AssignRole(ctx context.Context, userID uuid.UUID, roleName string) error {
	if _, err := u.accounts.UserByID(ctx, userID); err != nil {
		return err
	}

	role, err := u.roles.RoleByName(ctx, roleName)
	if err != nil {
		return err
	}

	return u.roles.AssignRole(ctx, userID, role.ID)
}

func (u *AccountService) RevokeRole(ctx context.Context, userID uuid.UUID, roleName string) error {
	if _, err := u.accounts.UserByID(ctx, userID); err != nil {
		return err
	}

	role, err := u.roles.RoleByName(ctx, roleName)
	if err != nil {
		return err
	}

	return u.roles.RevokeRole(ctx, userID, role.ID)
}

// RolesByUserID returns the role names assigned to the user, an empty list
// when none are assigned and ErrUserNotFound when the user does not exist.
func (u *AccountService) RolesByUserID(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if _, err := u.accounts.UserByID(ctx, userID); err != nil {
		return nil, err
	}

	return u.roles.RolesByUserID(ctx, userID)
}

func (u *AccountService) Users(ctx context.Context, limit, offset int) ([]models.User, error) {
	return u.accounts.Users(ctx, limit, offset)
}
