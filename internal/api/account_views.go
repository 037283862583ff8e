package api

import (
	"time"

	"socialite/internal/models"

	"github.com/google/uuid"
)

type AccountView struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewAccountView(account *models.Account) AccountView {
	return AccountView{
		ID:        account.ID,
		Username:  account.Username,
		Email:     account.Email,
		CreatedAt: account.CreatedAt,
	}
}
