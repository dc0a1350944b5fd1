package commands

import (
	"context"
	"log/slog"

	"parkgate/internal/domain/operator"
	"parkgate/internal/infra"
	"parkgate/internal/pkg/clock"
	"parkgate/internal/pkg/errs"
	"parkgate/internal/pkg/jwt"
	"parkgate/internal/pkg/password"
	"parkgate/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrOperatorNotFound     = errs.New("operator not found")
	ErrInvalidCredentials   = errs.New("invalid credentials")
	ErrDuplicateOperator    = errs.New("operator already exists")
	ErrAuthenticationFailed = errs.New("authentication failed")
	ErrTokenGeneration      = errs.New("token generation failed")
)

type LoginResult struct {
	OperatorID uuid.UUID
	Role       operator.Role
	Token      string
}

type AuthCommands interface {
	Login(ctx context.Context, email, plainPassword string) (*LoginResult, error)
	RegisterOperator(ctx context.Context, email, plainPassword string, role operator.Role) (*operator.Operator, error)
}

type authUseCaseImpl struct {
	uow        shared.UnitOfWork
	jwtService *jwt.Service
	clock      clock.Clock
}

func NewAuthUseCase(uow shared.UnitOfWork, jwtService *jwt.Service, clk clock.Clock) AuthCommands {
	return &authUseCaseImpl{
		uow:        uow,
		jwtService: jwtService,
		clock:      clk,
	}
}

func (a *authUseCaseImpl) Login(ctx context.Context, email, plainPassword string) (*LoginResult, error) {
	addr, err := operator.NewEmail(email)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	op, err := a.uow.Reads().OperatorByEmail(ctx, addr.String())
	if err != nil {
		// Same error as a password mismatch to prevent account enumeration
		return nil, errs.Mark(err, ErrInvalidCredentials)
	}

	if err := password.ComparePassword(op.PasswordHash(), plainPassword); err != nil {
		return nil, errs.Mark(err, ErrInvalidCredentials)
	}

	token, err := a.jwtService.GenerateToken(op.ID(), op.Role())
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Operators().UpdateLastLogin(ctx, op.ID(), a.clock.Now())
	})
	if err != nil {
		// Not critical; the login itself succeeded.
		slog.Warn("failed to update last login", "operator_id", op.ID(), "error", err.Error())
	}

	return &LoginResult{
		OperatorID: op.ID(),
		Role:       op.Role(),
		Token:      token,
	}, nil
}

func (a *authUseCaseImpl) RegisterOperator(ctx context.Context, email, plainPassword string, role operator.Role) (*operator.Operator, error) {
	addr, err := operator.NewEmail(email)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	hash, err := password.HashPassword(plainPassword)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	op, err := operator.NewOperator(addr, hash, role, a.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Operators().Create(ctx, op); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.Mark(err, ErrDuplicateOperator)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}
