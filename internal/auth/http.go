package auth

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"ShopEase/internal/docstore"
	"ShopEase/internal/validate"
	"ShopEase/pkg/kit"
)

type Server struct {
	Log   *zap.Logger
	Store *Store
	JWT   *TokenMaker
}

type adminSignUpReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	ShopName string `json:"shop_name"`
}

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	AccessToken string `json:"access_token"`
	ShopName    string `json:"shop_name,omitempty"`
}

type shopNameReq struct {
	ShopName string `json:"shop_name"`
}

type passwordReq struct {
	Password string `json:"password"`
}

func (s *Server) handleAdminSignUp(w http.ResponseWriter, r *http.Request) {
	var req adminSignUpReq
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.Store.SignUpAdmin(r.Context(), req.Username, req.Password, req.ShopName); err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, s.Store.AdminInfo())
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if !s.decode(w, r, &req) {
		return
	}

	username := strings.TrimSpace(req.Username)
	shop, err := s.Store.LoginAdmin(username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.issueToken(w, r, username, RoleAdmin, shop)
}

func (s *Server) handleAdminInfo(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Store.AdminInfo())
}

func (s *Server) handleChangeShopName(w http.ResponseWriter, r *http.Request) {
	var req shopNameReq
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.Store.ChangeShopName(r.Context(), req.ShopName); err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.Store.AdminInfo())
}

func (s *Server) handleUserSignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.Store.SignUpUser(r.Context(), req.Username, req.Password); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleUserLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if !s.decode(w, r, &req) {
		return
	}

	username := strings.TrimSpace(req.Username)
	if err := s.Store.LoginUser(username, req.Password); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.issueToken(w, r, username, RoleCustomer, "")
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	c, _ := ClaimsFromContext(r.Context())

	var req passwordReq
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.Store.UpdateUserPassword(r.Context(), c.Username, req.Password); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	c, _ := ClaimsFromContext(r.Context())

	profile, err := s.Store.Profile(c.Username)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, map[string]any{"username": c.Username, "profile": profile})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	c, _ := ClaimsFromContext(r.Context())

	var fields map[string]any
	if !s.decode(w, r, &fields) {
		return
	}

	if err := s.Store.UpdateProfile(r.Context(), c.Username, fields); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.handleGetProfile(w, r)
}

func (s *Server) handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	c, _ := ClaimsFromContext(r.Context())
	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"username": c.Username,
		"role":     c.Role,
		"shop":     c.Shop,
	})
}

func (s *Server) issueToken(w http.ResponseWriter, r *http.Request, username, role, shop string) {
	tok, err := s.JWT.New(username, role, shop)
	if err != nil {
		s.Log.Error("token issue", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, loginResp{AccessToken: tok, ShopName: shop})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := kit.DecodeJSON(w, r, v); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, validate.ErrInvalidUsername),
		errors.Is(err, validate.ErrInvalidPassword),
		errors.Is(err, validate.ErrEmptyShopName),
		errors.Is(err, validate.ErrEmptyName):
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, ErrInvalidCredentials):
		kit.WriteError(w, r, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, ErrUserNotFound):
		kit.WriteError(w, r, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, ErrAlreadySignedUp), errors.Is(err, ErrDuplicateUsername):
		kit.WriteError(w, r, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, docstore.ErrWriteFailed):
		kit.WriteError(w, r, http.StatusInternalServerError, docstore.ErrWriteFailed.Error(), nil)
	default:
		s.Log.Error("auth request failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}
