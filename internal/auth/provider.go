package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/spec-kit/cms-service/internal/store"
	"github.com/spec-kit/cms-service/pkg/util"
)

// Provider is the authentication provider contract the identity binder
// consumes. Credentials are independent of User documents; a credential
// may exist without a profile (the IdentityOrphan case).
type Provider interface {
	CreateUser(ctx context.Context, email, password string) (string, error)
	SignIn(ctx context.Context, email, password string) (string, error)
}

// credentialProvider stores bcrypt credentials in the document store.
type credentialProvider struct {
	store      store.Store
	bcryptCost int
}

// NewCredentialProvider builds the store-backed provider.
func NewCredentialProvider(s store.Store, bcryptCost int) Provider {
	return &credentialProvider{store: s, bcryptCost: bcryptCost}
}

// CreateUser provisions a credential and returns the new userId.
func (p *credentialProvider) CreateUser(ctx context.Context, email, password string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))

	existing, err := p.store.Query(ctx, store.CollectionCredentials, store.WhereEqual("email", normalized))
	if err != nil {
		return "", util.NewStoreError(err)
	}
	if len(existing) > 0 {
		return "", util.NewIdentityError("email already registered", nil)
	}

	hash, err := HashPassword(password, p.bcryptCost)
	if err != nil {
		return "", util.NewIdentityError("credential creation failed", err)
	}

	userID := uuid.NewString()
	doc := store.Document{
		"email":        normalized,
		"passwordHash": hash,
		"userId":       userID,
	}
	if _, err := p.store.Add(ctx, store.CollectionCredentials, doc); err != nil {
		return "", util.NewStoreError(err)
	}
	return userID, nil
}

// SignIn verifies the credential and returns its userId.
func (p *credentialProvider) SignIn(ctx context.Context, email, password string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))

	snapshots, err := p.store.Query(ctx, store.CollectionCredentials, store.WhereEqual("email", normalized))
	if err != nil {
		return "", util.NewStoreError(err)
	}
	if len(snapshots) == 0 {
		return "", util.NewIdentityError("invalid credentials", nil)
	}

	cred := snapshots[0].Data
	hash, _ := cred["passwordHash"].(string)
	if err := ComparePassword(hash, password); err != nil {
		return "", util.NewIdentityError("invalid credentials", errors.New("password mismatch"))
	}
	userID, _ := cred["userId"].(string)
	if userID == "" {
		return "", util.NewIdentityError("credential missing user binding", nil)
	}
	return userID, nil
}
