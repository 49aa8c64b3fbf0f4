package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/middleware"
	"github.com/pkordes/trip-planner/internal/service"
)

// SignUp handles POST /auth/signup.
func (s *Server) SignUp(w http.ResponseWriter, r *http.Request) {
	var body CredentialsRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err, "")
		return
	}
	res, err := s.auth.SignUp(r.Context(), body.Email, body.Password)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, authToResponse(res))
}

// SignIn handles POST /auth/signin.
func (s *Server) SignIn(w http.ResponseWriter, r *http.Request) {
	var body CredentialsRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err, "")
		return
	}
	res, err := s.auth.SignIn(r.Context(), body.Email, body.Password)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, authToResponse(res))
}

// SignInAnonymously handles POST /auth/anonymous.
func (s *Server) SignInAnonymously(w http.ResponseWriter, r *http.Request) {
	res, err := s.auth.SignInAnonymously(r.Context())
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, authToResponse(res))
}

// SignOut handles POST /auth/signout by revoking the presented session.
func (s *Server) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.SignOut(r.Context(), middleware.BearerToken(r)); err != nil {
		s.fail(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetMe handles GET /me.
func (s *Server) GetMe(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}
	writeJSON(w, http.StatusOK, userToResponse(p.User))
}

// ChangeEmail handles PUT /me/email.
func (s *Server) ChangeEmail(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body ChangeEmailRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err, "")
		return
	}
	user, err := s.auth.ChangeEmail(r.Context(), userID, body.Password, body.Email)
	if err != nil {
		s.fail(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, userToResponse(user))
}

// ChangePassword handles PUT /me/password.
func (s *Server) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body ChangePasswordRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err, "")
		return
	}
	if err := s.auth.ChangePassword(r.Context(), userID, body.CurrentPassword, body.NewPassword); err != nil {
		s.fail(w, r, err, "user not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LinkCredentials handles POST /me/link.
func (s *Server) LinkCredentials(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body CredentialsRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err, "")
		return
	}
	user, err := s.auth.LinkCredentials(r.Context(), userID, body.Email, body.Password)
	if err != nil {
		s.fail(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, userToResponse(user))
}

// DeleteMe handles DELETE /me. Anonymous accounts may omit the body.
func (s *Server) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body DeleteAccountRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &body); err != nil {
			s.fail(w, r, err, "")
			return
		}
	}
	if err := s.auth.DeleteAccount(r.Context(), userID, body.Password); err != nil {
		s.fail(w, r, err, "user not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

func authToResponse(res service.AuthResult) AuthResponse {
	return AuthResponse{
		User:      userToResponse(res.User),
		Token:     res.Session.Token,
		ExpiresAt: res.Session.ExpiresAt,
	}
}

func userToResponse(u domain.User) User {
	resp := User{
		Id:        u.ID,
		Anonymous: u.Anonymous,
		CreatedAt: u.CreatedAt,
	}
	if u.Email != "" {
		email := openapi_types.Email(u.Email)
		resp.Email = &email
	}
	return resp
}
