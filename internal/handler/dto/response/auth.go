package response

import (
	"time"

	"parkgate/internal/domain/operator"
	"parkgate/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"gopkg.in/guregu/null.v4"
)

type LoginResponse struct {
	Token      string    `json:"token"`
	OperatorID uuid.UUID `json:"operatorId"`
	Role       string    `json:"role"`
}

type OperatorResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	LastLogin null.Time `json:"lastLogin"`
}

func FromOperatorView(view *queries.OperatorView) *OperatorResponse {
	var resp OperatorResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromOperator(op *operator.Operator) *OperatorResponse {
	return &OperatorResponse{
		ID:        op.ID(),
		Email:     op.Email().String(),
		Role:      op.Role().String(),
		CreatedAt: op.CreatedAt(),
	}
}
