package api

import (
	"net/http"

	"github.com/quickbite/backend/internal/models"
	"github.com/quickbite/backend/internal/otp"
	"github.com/quickbite/backend/internal/store"
)

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := h.bind(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	user, err := h.auth.Signup(r.Context(), req.Name, req.Email, req.Mobile, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered",
		"userId":  user.ID,
	})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, otp.CustomerRole)
}

func (h *Handlers) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, otp.AdminRole)
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request, role otp.RoleClass) {
	var req loginRequest
	if err := h.bind(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.EmailOrMobile, req.Password, role)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"user":    map[string]interface{}{"id": user.ID, "name": user.Name},
	})
}

func (h *Handlers) GoogleSignIn(w http.ResponseWriter, r *http.Request) {
	var req googleSignInRequest
	if err := h.bind(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	token, user, err := h.auth.GoogleSignIn(r.Context(), req.IDToken)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"user":    map[string]interface{}{"id": user.ID, "name": user.Name, "email": user.Email},
	})
}

func (h *Handlers) SendOTP(w http.ResponseWriter, r *http.Request) {
	h.sendOTP(w, r, otp.CustomerRole)
}

func (h *Handlers) AdminSendOTP(w http.ResponseWriter, r *http.Request) {
	h.sendOTP(w, r, otp.AdminRole)
}

func (h *Handlers) sendOTP(w http.ResponseWriter, r *http.Request, role otp.RoleClass) {
	var req sendOTPRequest
	if err := h.bind(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	res, err := h.otp.Issue(r.Context(), req.EmailOrMobile, role)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "OTP sent",
		"delivered": res.Delivered,
	})
}

func (h *Handlers) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	h.verifyOTP(w, r, otp.CustomerRole)
}

func (h *Handlers) AdminVerifyOTP(w http.ResponseWriter, r *http.Request) {
	h.verifyOTP(w, r, otp.AdminRole)
}

func (h *Handlers) verifyOTP(w http.ResponseWriter, r *http.Request, role otp.RoleClass) {
	var req verifyOTPRequest
	if err := h.bind(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	token, user, err := h.otp.Verify(r.Context(), req.EmailOrMobile, req.OTP, role)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "OTP verified",
		"token":   token,
		"user": map[string]interface{}{
			"id":     user.ID,
			"name":   user.Name,
			"email":  user.Email,
			"mobile": user.Mobile,
		},
	})
}

func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := h.bind(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	if err := h.auth.ResetPassword(r.Context(), req.EmailOrMobile, req.Password); err != nil {
		h.respondError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Password reset successful")
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	user, err := h.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, models.User{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Mobile: user.Mobile,
	})
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var req updateProfileRequest
	if err := h.bind(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	upd := store.ProfileUpdate{
		Name:   req.Name,
		Email:  req.Email,
		Mobile: req.Mobile,
	}
	if req.Password != nil {
		hash, err := h.auth.HashPassword(*req.Password)
		if err != nil {
			h.respondError(w, err)
			return
		}
		upd.PasswordHash = &hash
	}

	if err := h.users.UpdateProfile(r.Context(), claims.UserID, upd); err != nil {
		h.respondError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "User updated successfully")
}
