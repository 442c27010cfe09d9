package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mateh-lab/taskcast/pkg/domain/model/auth"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
	"github.com/mateh-lab/taskcast/pkg/usecase"
)

const (
	cookieSessionID     = "session_id"
	cookieSessionSecret = "session_secret"
)

type loginRequest struct {
	MemberID string `json:"member_id"`
}

type memberResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	UnitID string `json:"unit_id"`
}

// authLoginHandler issues a session cookie pair for a directory member
func authLoginHandler(authUC AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// NoAuthn mode has nothing to log in to
		if authUC.IsNoAuthn() {
			writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
			return
		}

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrValidation, "invalid login request body"))
			return
		}
		if req.MemberID == "" {
			handleError(r.Context(), w, goerr.Wrap(usecase.ErrValidation, "member_id is required"))
			return
		}

		sess, member, err := authUC.Login(r.Context(), types.UserID(req.MemberID))
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     cookieSessionID,
			Value:    string(sess.ID),
			Path:     "/",
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
			Expires:  sess.ExpiresAt,
		})
		http.SetCookie(w, &http.Cookie{
			Name:     cookieSessionSecret,
			Value:    string(sess.Secret),
			Path:     "/",
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
			Expires:  sess.ExpiresAt,
		})

		writeJSON(r.Context(), w, http.StatusOK, toMemberResponse(member))
	}
}

// authLogoutHandler deletes the session and clears the cookie pair
func authLogoutHandler(authUC AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessionIDCookie, err := r.Cookie(cookieSessionID); err == nil {
			if err := authUC.Logout(r.Context(), auth.SessionID(sessionIDCookie.Value)); err != nil {
				handleError(r.Context(), w, goerr.Wrap(err, "failed to logout"))
				return
			}
		}

		for _, name := range []string{cookieSessionID, cookieSessionSecret} {
			http.SetCookie(w, &http.Cookie{
				Name:     name,
				Value:    "",
				Path:     "/",
				HttpOnly: true,
				Secure:   r.TLS != nil,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   -1,
			})
		}

		writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
	}
}

// authMeHandler returns the member bound to the current session
func authMeHandler(authUC AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if authUC.IsNoAuthn() {
			member, err := authUC.ValidateSession(r.Context(), "", "")
			if err != nil {
				handleError(r.Context(), w, err)
				return
			}
			writeJSON(r.Context(), w, http.StatusOK, toMemberResponse(member))
			return
		}

		sessionIDCookie, err := r.Cookie(cookieSessionID)
		if err != nil {
			writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
			return
		}
		sessionSecretCookie, err := r.Cookie(cookieSessionSecret)
		if err != nil {
			writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
			return
		}

		member, err := authUC.ValidateSession(r.Context(),
			auth.SessionID(sessionIDCookie.Value),
			auth.SessionSecret(sessionSecretCookie.Value))
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, toMemberResponse(member))
	}
}
