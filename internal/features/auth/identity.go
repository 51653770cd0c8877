package auth

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
)

// ErrNoEmailClaim is returned when a verified identity token carries no email.
var ErrNoEmailClaim = errors.New("identity token has no email claim")

// IdentityVerifier checks a provider-issued ID token and returns the email
// it was issued for.
type IdentityVerifier interface {
	VerifyIdentity(ctx context.Context, idToken string) (string, error)
}

// FirebaseVerifier verifies Firebase Authentication ID tokens.
type FirebaseVerifier struct {
	client *fbauth.Client
}

// NewFirebaseVerifier initializes the Firebase Admin SDK from a service
// account file.
func NewFirebaseVerifier(ctx context.Context, serviceAccountPath string) (*FirebaseVerifier, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("get firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) VerifyIdentity(ctx context.Context, idToken string) (string, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", fmt.Errorf("verify firebase token: %w", err)
	}
	return emailClaim(token.Claims)
}

// GoogleVerifier verifies Google Sign-In ID tokens issued for clientID.
type GoogleVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

func (v *GoogleVerifier) VerifyIdentity(ctx context.Context, idToken string) (string, error) {
	payload, err := idtoken.Validate(ctx, idToken, v.clientID)
	if err != nil {
		return "", fmt.Errorf("verify google token: %w", err)
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return "", errors.New("google account email is not verified")
	}
	return emailClaim(payload.Claims)
}

func emailClaim(claims map[string]interface{}) (string, error) {
	email, _ := claims["email"].(string)
	if email == "" {
		return "", ErrNoEmailClaim
	}
	return email, nil
}
