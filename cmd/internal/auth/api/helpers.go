package authapi

import (
	"vectoredu/cmd/identity"
	"vectoredu/cmd/internal/auth/account"
)

func toAccountResponse(a identity.Account) accountResponse {
	return accountResponse{
		ID:          a.ID,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		Enabled:     a.Enabled,
		CreatedAt:   a.CreatedAt,
	}
}

func toTokenPairResponse(p account.TokenPair) tokenPairResponse {
	return tokenPairResponse{
		AccessToken:      p.AccessToken,
		AccessExpiresAt:  p.AccessExpiresAt,
		RefreshToken:     p.RefreshToken,
		RefreshExpiresAt: p.RefreshExpiresAt,
	}
}
