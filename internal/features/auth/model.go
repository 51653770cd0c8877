package auth

// TokenRequest asks for a session token. IDToken is required when the
// server verifies identities with an external provider.
type TokenRequest struct {
	Email   string `json:"email" binding:"required"`
	IDToken string `json:"idToken"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
