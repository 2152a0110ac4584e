package auth

import (
	"context"

	"google.golang.org/api/idtoken"
)

// GoogleIdentity is the subset of a verified Google ID token the sign-in
// flow needs.
type GoogleIdentity struct {
	Email string
	Name  string
}

// IDTokenVerifier validates a federated ID token and extracts the identity
// it asserts. Returns ErrInvalidToken for anything that does not check out.
type IDTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleIdentity, error)
}

// GoogleVerifier validates Google ID tokens against a client ID audience.
type GoogleVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*GoogleIdentity, error) {
	payload, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, ErrInvalidToken
	}
	name, _ := payload.Claims["name"].(string)
	if name == "" {
		name = email
	}

	return &GoogleIdentity{Email: email, Name: name}, nil
}
