// internal/app/features/userinfo/handler.go
package userinfo

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/libraryhub/internal/app/system/auth"
)

// Handler reports who the caller is, as the API sees them.
type Handler struct{}

// NewHandler creates a new userinfo handler.
func NewHandler() *Handler {
	return &Handler{}
}

// ServeUserInfo returns JSON with the caller's authentication status and
// identity. Clients use it to check that a token or cookie is still
// accepted, and to learn the role refreshed from the users collection.
//
// Response format:
//
//	{ "isAuthenticated": bool, "id": "...", "name": "...", "email": "...", "role": "..." }
func (h *Handler) ServeUserInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	user, ok := auth.CurrentUser(r)
	if !ok {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"isAuthenticated": false,
			"id":              "",
			"name":            "",
			"email":           "",
			"role":            "",
		})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"isAuthenticated": true,
		"id":              user.ID,
		"name":            user.Name,
		"email":           user.Email,
		"role":            user.Role,
	})
}
