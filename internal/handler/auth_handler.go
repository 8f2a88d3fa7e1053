/*
Package handler provides HTTP handler functions for account management and authentication.
*/
package handler

import (
	"net/http"
	"regexp"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"socialhub/internal/app/db"
	"socialhub/internal/app/store"
	"socialhub/internal/pkg/auth/jwt"
	"socialhub/internal/pkg/errs"
	"socialhub/internal/pkg/logx"
	"socialhub/internal/pkg/randx"
	"socialhub/internal/pkg/req"
	"socialhub/internal/pkg/resp"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// refreshCookieName is the httpOnly cookie carrying the opaque refresh token.
const refreshCookieName = "refresh_token"

type RegisterInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// HandleRegister processes the request to create a new user account.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input RegisterInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !usernameRegex.MatchString(input.Username) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidUsername))
			return
		}

		if !emailRegex.MatchString(input.Email) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams, "invalid email address"))
			return
		}

		passwordLen := utf8.RuneCountInString(input.Password)
		if passwordLen < 6 || passwordLen > 50 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		user, err := deps.DB.CreateUser(r.Context(), input.Email, input.Username, input.FullName, string(hashedPassword))
		if err != nil {
			if db.IsUniqueViolation(err) {
				logx.Warn("Registration conflict: username or email already exists.", "username", input.Username)
				resp.RespondError(w, r, errs.NewError(errs.ErrUserAlreadyExists))
				return
			}

			logx.Error(err, "Failed to create user in database.")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		issueSession(w, r, deps, user)
	}
}

type LoginInput struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// HandleLogin verifies user credentials, issues a JWT access token and an
// opaque refresh token in an httpOnly cookie.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input LoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		user, err := deps.DB.GetUserByLogin(r.Context(), input.Login)
		if err != nil {
			logx.Warn("Login: user fetch failed.", "login", input.Login)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
			logx.Warn("Login: password mismatch.", "login", input.Login)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if !user.IsActive {
			resp.RespondError(w, r, errs.NewError(errs.ErrInactiveUser))
			return
		}

		issueSession(w, r, deps, user)
	}
}

// issueSession generates the access/refresh token pair for user and writes the
// successful auth response.
func issueSession(w http.ResponseWriter, r *http.Request, deps *AppDeps, user store.User) {
	payload := &jwt.Payload{
		UserID:   user.ID,
		Username: user.Username,
	}

	accessToken, err := jwt.GenerateToken(payload, deps.Config.JWTSecret, jwt.AccessTokenExpiration)
	if err != nil {
		logx.Error(err, "Failed to generate access token.", "user_id", user.ID)
		resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
		return
	}

	refreshToken, err := randx.RefreshToken()
	if err != nil {
		logx.Error(err, "Failed to generate refresh token.", "user_id", user.ID)
		resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
		return
	}

	expiresAt := time.Now().Add(jwt.RefreshTokenExpiration)
	if err := deps.DB.InsertRefreshToken(r.Context(), refreshToken, user.ID, expiresAt); err != nil {
		logx.Error(err, "Failed to store refresh token.", "user_id", user.ID)
		resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
		return
	}

	setRefreshCookie(w, deps, refreshToken, expiresAt)

	resp.RespondSuccess(w, r, map[string]any{
		"access_token": accessToken,
		"token_type":   "bearer",
		"user":         user,
	})
}

func setRefreshCookie(w http.ResponseWriter, deps *AppDeps, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/api/auth",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   !deps.Config.IsDevelopment(),
		SameSite: http.SameSiteStrictMode,
	})
}

// HandleRefresh rotates the refresh token from the httpOnly cookie and issues
// a fresh access token.
func HandleRefresh(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(refreshCookieName)
		if err != nil || cookie.Value == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrRefreshTokenInvalid))
			return
		}

		stored, err := deps.DB.GetRefreshToken(r.Context(), cookie.Value)
		if err != nil {
			logx.Warn("Refresh: unknown or expired refresh token.")
			resp.RespondError(w, r, errs.NewError(errs.ErrRefreshTokenInvalid))
			return
		}

		// single-use: the presented token is burned regardless of what follows
		if err := deps.DB.DeleteRefreshToken(r.Context(), cookie.Value); err != nil {
			logx.Error(err, "Refresh: failed to delete used refresh token.")
		}

		user, err := deps.DB.GetUserByID(r.Context(), stored.UserID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		if !user.IsActive {
			resp.RespondError(w, r, errs.NewError(errs.ErrInactiveUser))
			return
		}

		issueSession(w, r, deps, user)
	}
}

// HandleLogout discards the refresh token and clears its cookie.
func HandleLogout(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
			if err := deps.DB.DeleteRefreshToken(r.Context(), cookie.Value); err != nil {
				logx.Error(err, "Logout: failed to delete refresh token.")
			}
		}

		http.SetCookie(w, &http.Cookie{
			Name:     refreshCookieName,
			Value:    "",
			Path:     "/api/auth",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   !deps.Config.IsDevelopment(),
			SameSite: http.SameSiteStrictMode,
		})

		resp.RespondSuccess(w, r, map[string]string{"status": "logged_out"})
	}
}

// currentUser resolves the authenticated account behind the request. A nil
// error guarantees an active user row.
func currentUser(r *http.Request, deps *AppDeps) (store.User, error) {
	identity := jwt.GetPayloadFromContext(r)
	if identity == nil {
		return store.User{}, errs.NewError(errs.ErrUnauthorized)
	}

	user, err := deps.DB.GetUserByID(r.Context(), identity.UserID)
	if err != nil {
		return store.User{}, errs.NewError(errs.ErrUserNotFound)
	}

	if !user.IsActive {
		return store.User{}, errs.NewError(errs.ErrInactiveUser)
	}

	return user, nil
}

// HandleMe returns the authenticated user's own profile.
func HandleMe(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := currentUser(r, deps)
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}

		resp.RespondSuccess(w, r, user)
	}
}

// HandleListUsers returns all accounts with their live presence flag taken
// from the connection registry rather than the persisted column.
func HandleListUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := currentUser(r, deps); err != nil {
			resp.RespondError(w, r, err)
			return
		}

		users, err := deps.DB.ListUsers(r.Context())
		if err != nil {
			logx.Error(err, "Failed to list users.")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		for i := range users {
			users[i].IsOnline = deps.Hub.Registry.IsOnline(users[i].ID)
		}

		resp.RespondSuccess(w, r, users)
	}
}
