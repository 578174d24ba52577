package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/devfolio/devfolio-api/internal/middleware"
	"github.com/devfolio/devfolio-api/internal/model"
	"github.com/devfolio/devfolio-api/internal/service"
)

const refreshCookieName = "refreshToken"

// maxUploadSize caps multipart bodies carrying a profile image.
const maxUploadSize = 10 << 20 // 10MB

// AuthHandler maps the /auth HTTP surface onto the AuthService. It owns the
// refresh-token cookie: the refresh token travels only as an httpOnly
// cookie, the access token only in response bodies.
type AuthHandler struct {
	service       *service.AuthService
	secureCookies bool
	refreshTTL    time.Duration
}

// NewAuthHandler creates an AuthHandler. production hardens the refresh
// cookie (Secure, SameSite=Strict instead of Lax).
func NewAuthHandler(svc *service.AuthService, production bool, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		service:       svc,
		secureCookies: production,
		refreshTTL:    refreshTTL,
	}
}

// HandleSignUp handles POST /auth/signup. Accepts JSON or, when a profile
// image is part of the submission, multipart/form-data with the same field
// names plus a "profileImage" file.
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	var req model.SignUpRequest
	var image *model.ImageUpload

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse("invalid multipart form"))
			return
		}
		req = model.SignUpRequest{
			LoginID:  r.FormValue("userId"),
			Password: r.FormValue("password"),
			Nickname: r.FormValue("nickname"),
		}
		file, header, err := r.FormFile("profileImage")
		switch {
		case err == nil:
			defer file.Close()
			image = &model.ImageUpload{Filename: header.Filename, Content: file}
		case errors.Is(err, http.ErrMissingFile):
			// image is optional
		default:
			writeJSON(w, http.StatusBadRequest, errorResponse("invalid profile image"))
			return
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
			return
		}
	}

	result, err := h.service.SignUp(r.Context(), req, image)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.setRefreshCookie(w, result.RefreshToken)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":     "signup completed successfully",
		"user":        result.User,
		"accessToken": result.AccessToken,
	})
}

// HandleSignIn handles POST /auth/signin.
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	result, err := h.service.SignIn(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.setRefreshCookie(w, result.RefreshToken)
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "signin completed successfully",
		"user":        result.User,
		"accessToken": result.AccessToken,
	})
}

// HandleRefresh handles POST /auth/refresh. The refresh token comes from
// the httpOnly cookie set at signup/signin.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	result, err := h.service.Refresh(r.Context(), cookie.Value)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "access token refreshed successfully",
		"accessToken": result.AccessToken,
		"user":        result.User,
	})
}

// HandleLogout handles POST /auth/logout. The server keeps no session
// state; logging out just clears the refresh cookie and is idempotent.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.clearRefreshCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "logout completed successfully",
	})
}

// HandleProfile handles GET /auth/profile.
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "profile retrieved successfully",
		"user":    user,
	})
}

// HandleUpdateProfile handles PUT /auth/update-profile.
func (h *AuthHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "profile updated successfully",
		"user":    user,
	})
}

// HandleCheckNickname handles GET /auth/check-nickname?nickname=.
func (h *AuthHandler) HandleCheckNickname(w http.ResponseWriter, r *http.Request) {
	nickname := r.URL.Query().Get("nickname")
	if nickname == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("nickname is required"))
		return
	}

	available, err := h.service.CheckNickname(r.Context(), nickname)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	msg := "nickname is already in use"
	if available {
		msg = "nickname is available"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"isAvailable": available,
		"message":     msg,
	})
}

// HandleDeleteAccount handles DELETE /auth/delete-account. The password is
// re-verified even though the caller already holds a valid access token.
func (h *AuthHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.DeleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	if err := h.service.DeleteAccount(r.Context(), userID, req.Password); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.clearRefreshCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "account deleted successfully",
	})
}

// HandleUploadProfileImage handles POST /auth/upload-profile-image. The
// frontend uploads the image first and sends the returned URL along with
// the profile update.
func (h *AuthHandler) HandleUploadProfileImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("no file uploaded"))
		return
	}
	defer file.Close()

	url, err := h.service.UploadImage(r.Context(), model.ImageUpload{
		Filename: header.Filename,
		Content:  file,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *AuthHandler) writeServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":      "validation failed",
			"violations": verr.Violations,
		})
	case errors.Is(err, service.ErrLoginIDTaken), errors.Is(err, service.ErrNicknameTaken):
		writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse(err.Error()))
	case errors.Is(err, service.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
	case errors.Is(err, service.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, h.refreshCookie(token, int(h.refreshTTL.Seconds())))
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, h.refreshCookie("", -1))
}

func (h *AuthHandler) refreshCookie(value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if h.secureCookies {
		sameSite = http.SameSiteStrictMode
	}
	return &http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: sameSite,
	}
}
