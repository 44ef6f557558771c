package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/accountd/internal/common"
	"github.com/dmitrijs2005/accountd/internal/server/models"
)

// maxBodyBytes caps request bodies; credentials are tiny.
const maxBodyBytes = 1 << 20

const (
	detailInvalidBody        = "Invalid request body"
	detailUsernameTaken      = "Username already exists"
	detailInvalidCredentials = "Invalid credentials"
	detailInvalidToken       = "Invalid token"
	detailMissingToken       = "Missing token"
	detailInvalidUserID      = "Invalid user id"
	detailUserNotFound       = "User not found"
	detailUserDeleted        = "User deleted"
	detailInternal           = "Internal server error"
)

// credentialsRequest uses pointers so an absent field is told apart from "".
type credentialsRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.UserName}
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	username, password, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := s.users.Register(r.Context(), username, password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrDuplicateUsername):
			writeDetail(w, http.StatusBadRequest, detailUsernameTaken)
		default:
			s.internalError(w, r, err)
		}
		return
	}

	s.logger.Info(r.Context(), "Registered", "id", user.ID, "request_id", requestIDFrom(r.Context()))
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	username, password, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	token, err := s.users.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			writeDetail(w, http.StatusUnauthorized, detailInvalidCredentials)
			return
		}
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *HTTPServer) handleListUsers(w http.ResponseWriter, r *http.Request) {
	token, ok := queryToken(w, r)
	if !ok {
		return
	}

	users, err := s.users.ListUsers(r.Context(), token)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			writeDetail(w, http.StatusUnauthorized, detailInvalidToken)
			return
		}
		s.internalError(w, r, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, detailInvalidUserID)
		return
	}

	token, ok := queryToken(w, r)
	if !ok {
		return
	}

	if err := s.users.DeleteUser(r.Context(), token, id); err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidToken):
			writeDetail(w, http.StatusUnauthorized, detailInvalidToken)
		case errors.Is(err, common.ErrorNotFound):
			writeDetail(w, http.StatusNotFound, detailUserNotFound)
		default:
			s.internalError(w, r, err)
		}
		return
	}

	s.logger.Info(r.Context(), "Deleted user", "id", id, "request_id", requestIDFrom(r.Context()))
	writeDetail(w, http.StatusOK, detailUserDeleted)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *HTTPServer) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error(r.Context(), "request failed", "error", err, "request_id", requestIDFrom(r.Context()))
	writeDetail(w, http.StatusInternalServerError, detailInternal)
}

// decodeCredentials reads a {username, password} body. On failure it has
// already answered 422 and returns ok=false. Unknown fields are ignored.
func decodeCredentials(w http.ResponseWriter, r *http.Request) (username, password string, ok bool) {
	var req credentialsRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil || req.Username == nil || req.Password == nil {
		writeDetail(w, http.StatusUnprocessableEntity, detailInvalidBody)
		return "", "", false
	}
	return *req.Username, *req.Password, true
}

// queryToken returns the token query parameter. An absent parameter is
// answered with 422; a present but empty one is passed on and fails
// authorization.
func queryToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	q := r.URL.Query()
	if !q.Has(common.TokenQueryParam) {
		writeDetail(w, http.StatusUnprocessableEntity, detailMissingToken)
		return "", false
	}
	return q.Get(common.TokenQueryParam), true
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, detailResponse{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
