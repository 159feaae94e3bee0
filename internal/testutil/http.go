package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/campusgrid/campusgrid/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID        string
	ProfileID string
	Name      string
	Role      string
}

// AdminUser returns a TestUser with admin role.
func AdminUser() TestUser {
	return TestUser{
		ID:        primitive.NewObjectID().Hex(),
		ProfileID: primitive.NewObjectID().Hex(),
		Name:      "Test Admin",
		Role:      "admin",
	}
}

// StudentUser returns a TestUser with student role.
func StudentUser() TestUser {
	return TestUser{
		ID:        primitive.NewObjectID().Hex(),
		ProfileID: primitive.NewObjectID().Hex(),
		Name:      "Test Student",
		Role:      "student",
	}
}

// StudentUserFor returns a student TestUser bound to an existing profile ID.
func StudentUserFor(profileID primitive.ObjectID) TestUser {
	return TestUser{
		ID:        primitive.NewObjectID().Hex(),
		ProfileID: profileID.Hex(),
		Name:      "Test Student",
		Role:      "student",
	}
}

// AdminUserFor returns an admin TestUser bound to an existing profile ID.
func AdminUserFor(profileID primitive.ObjectID) TestUser {
	return TestUser{
		ID:        primitive.NewObjectID().Hex(),
		ProfileID: profileID.Hex(),
		Name:      "Test Admin",
		Role:      "admin",
	}
}

// WithUser adds a user to the request context for testing authenticated handlers.
// This bypasses the session middleware and injects the user directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	sessionUser := &auth.SessionUser{
		ID:        user.ID,
		ProfileID: user.ProfileID,
		Name:      user.Name,
		Role:      user.Role,
	}
	return auth.WithTestUser(r, sessionUser)
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return WithUser(req, user)
}

// NewJSONRequest creates an HTTP request carrying a JSON body with a user in
// context.
func NewJSONRequest(method, target string, body io.Reader, user TestUser) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return WithUser(req, user)
}
