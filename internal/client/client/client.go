package client

import (
	"context"

	"github.com/dmitrijs2005/stellarburgers/internal/client/models"
)

// Gateway is the remote boundary the state machines depend on.
type Gateway interface {
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)

	SubmitOrder(ctx context.Context, ingredientIDs []string) (*models.OrderReceipt, error)
	ListFeed(ctx context.Context) (*models.Feed, error)
	ListUserOrders(ctx context.Context) ([]models.Order, error)
	GetOrderByNumber(ctx context.Context, number int) ([]models.Order, error)

	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error)
	Logout(ctx context.Context) error
	RestoreSession(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, req models.ProfileUpdate) (*models.User, error)

	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, password, code string) error
}

// TokenStore is what the gateway needs from the credential store: reading
// both tokens and rotating them after a successful refresh. Rotate must
// refuse with common.ErrCredentialsChanged when the stored refresh token
// is no longer spent.
type TokenStore interface {
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	Rotate(ctx context.Context, spent, accessToken, refreshToken string) error
}
