package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	shopAuth "github.com/MrEthical07/shopAuth"
	"github.com/MrEthical07/shopAuth/middleware"
)

const maxBodyBytes = 1 << 20

func newRouter(engine *shopAuth.Engine) *http.ServeMux {
	mux := http.NewServeMux()
	h := &handlers{engine: engine}

	for _, role := range []shopAuth.Role{shopAuth.RoleUser, shopAuth.RoleSeller} {
		prefix := "POST /api/" + string(role)
		mux.HandleFunc(prefix+"-registration", h.register(role))
		mux.HandleFunc(prefix+"-verify", h.verify(role))
		mux.HandleFunc(prefix+"-login", h.login(role))
		mux.HandleFunc(prefix+"-logout", h.logout(role))
		mux.HandleFunc(prefix+"-forgot-password", h.forgotPassword(role))
		mux.HandleFunc(prefix+"-verify-forgot-password", h.verifyForgotPassword(role))
		// Not bound to a verified code: any caller who knows the email can
		// reset. Put it behind a gateway check before exposing it publicly.
		mux.HandleFunc(prefix+"-reset-password", h.resetPassword(role))
	}
	mux.HandleFunc("POST /api/refresh-token", h.refresh)

	authed := middleware.Authenticate(engine)
	mux.Handle("GET /api/user-logged-in", authed(middleware.RequireUser(engine)(http.HandlerFunc(h.me))))
	mux.Handle("GET /api/seller-logged-in", authed(middleware.RequireSeller(engine)(http.HandlerFunc(h.me))))
	mux.Handle("POST /api/create-shop", authed(middleware.RequireSeller(engine)(http.HandlerFunc(h.createShop))))
	mux.Handle("POST /api/link-payment-account", authed(middleware.RequireSeller(engine)(http.HandlerFunc(h.linkPaymentAccount))))

	return mux
}

type handlers struct {
	engine *shopAuth.Engine
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		middleware.WriteJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body!"})
		return false
	}
	return true
}

func accountKey(role shopAuth.Role) string {
	if role == shopAuth.RoleSeller {
		return "seller"
	}
	return "user"
}

func (h *handlers) register(role shopAuth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in shopAuth.RegisterInput
		if !decode(w, r, &in) {
			return
		}
		if err := h.engine.Register(middleware.RequestContext(r), role, in); err != nil {
			middleware.WriteError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"message": fmt.Sprintf("OTP sent to your email(%s). Please verify your account.", in.Email),
		})
	}
}

func (h *handlers) verify(role shopAuth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in shopAuth.VerifyRegistrationInput
		if !decode(w, r, &in) {
			return
		}
		acct, err := h.engine.VerifyRegistration(middleware.RequestContext(r), role, in)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		label := "User"
		if role == shopAuth.RoleSeller {
			label = "Seller"
		}
		middleware.WriteJSON(w, http.StatusCreated, map[string]any{
			"success":        true,
			"message":        label + " registered successfully.",
			accountKey(role): acct,
		})
	}
}

func (h *handlers) login(role shopAuth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if !decode(w, r, &in) {
			return
		}
		pair, err := h.engine.Login(middleware.RequestContext(r), role, in.Email, in.Password)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		shopAuth.SetCookies(w, h.engine.Cookies().LoginCookies(pair))
		middleware.WriteJSON(w, http.StatusOK, map[string]any{
			"message":        "Login Successful!",
			accountKey(role): map[string]string{
				"id":    pair.Account.AccountID(),
				"name":  pair.Account.AccountName(),
				"email": pair.Account.AccountEmail(),
			},
		})
	}
}

func (h *handlers) refresh(w http.ResponseWriter, r *http.Request) {
	access, role, err := h.engine.RefreshRequest(r.WithContext(middleware.RequestContext(r)))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	shopAuth.SetCookies(w, h.engine.Cookies().RefreshCookies(role, access))
	middleware.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *handlers) logout(role shopAuth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookies, err := h.engine.Logout(middleware.RequestContext(r), role)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		shopAuth.SetCookies(w, cookies)
		middleware.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (h *handlers) me(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromContext(r.Context())
	middleware.WriteJSON(w, http.StatusCreated, map[string]any{
		"success":          true,
		accountKey(p.Role): p.Account,
	})
}

func (h *handlers) forgotPassword(role shopAuth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Email string `json:"email"`
		}
		if !decode(w, r, &in) {
			return
		}
		if err := h.engine.ForgotPassword(middleware.RequestContext(r), role, in.Email); err != nil {
			middleware.WriteError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"message": "OTP sent to email. Please verify your account.",
		})
	}
}

func (h *handlers) verifyForgotPassword(role shopAuth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Email string `json:"email"`
			OTP   string `json:"otp"`
		}
		if !decode(w, r, &in) {
			return
		}
		if err := h.engine.VerifyForgotPasswordOTP(middleware.RequestContext(r), role, in.Email, in.OTP); err != nil {
			middleware.WriteError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"message": "OTP verified. You can now reset your password.",
		})
	}
}

func (h *handlers) resetPassword(role shopAuth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Email       string `json:"email"`
			NewPassword string `json:"newPassword"`
		}
		if !decode(w, r, &in) {
			return
		}
		if err := h.engine.ResetPassword(middleware.RequestContext(r), role, in.Email, in.NewPassword); err != nil {
			middleware.WriteError(w, err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password reset successfully!!"})
	}
}

func (h *handlers) createShop(w http.ResponseWriter, r *http.Request) {
	var in shopAuth.ShopInput
	if !decode(w, r, &in) {
		return
	}
	p, _ := middleware.PrincipalFromContext(r.Context())
	shop, err := h.engine.CreateShop(middleware.RequestContext(r), p.Account.AccountID(), in)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, map[string]any{"success": true, "shop": shop})
}

func (h *handlers) linkPaymentAccount(w http.ResponseWriter, r *http.Request) {
	var in struct {
		PaymentAccountID string `json:"paymentAccountId"`
	}
	if !decode(w, r, &in) {
		return
	}
	p, _ := middleware.PrincipalFromContext(r.Context())
	if err := h.engine.LinkPaymentAccount(middleware.RequestContext(r), p.Account.AccountID(), in.PaymentAccountID); err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
