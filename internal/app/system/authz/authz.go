// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/campusgrid/campusgrid/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, profile ObjectID, and a
// found flag. If no user is present in context or the profile ID is
// malformed, it returns "visitor", "", NilObjectID, false, so ok=true always
// means a valid, authenticated user with a valid profile ObjectID.
func UserCtx(r *http.Request) (role string, name string, profileID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	profileID, err := primitive.ObjectIDFromHex(user.ProfileID)
	if err != nil {
		// Malformed profile ID in session - fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, profileID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "admin"
}

// IsStudent reports whether the current request's user is a student.
func IsStudent(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "student"
}

// HasAnyRole reports whether the current request's user has any of the given
// roles. Returns false if no user is present.
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}
