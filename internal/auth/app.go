package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ShopEase/pkg/kit"
)

const (
	loginLimitPerMin  = 5
	signupLimitPerMin = 3
	limitWindow       = 60 * time.Second
)

// Routes serves everything under /auth. Mount it at "/auth".
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	loginLimiter := kit.NewIPRateLimiter(loginLimitPerMin, limitWindow)
	signupLimiter := kit.NewIPRateLimiter(signupLimitPerMin, limitWindow)
	authn := AuthJWT(s.JWT)

	r.Route("/admin", func(ar chi.Router) {
		ar.With(signupLimiter.Middleware).Post("/signup", s.handleAdminSignUp)
		ar.With(loginLimiter.Middleware).Post("/login", s.handleAdminLogin)

		ar.Group(func(pr chi.Router) {
			pr.Use(authn, RequireRole(RoleAdmin))
			pr.Get("/", s.handleAdminInfo)
			pr.Put("/shop", s.handleChangeShopName)
		})
	})

	r.Route("/users", func(ur chi.Router) {
		ur.With(signupLimiter.Middleware).Post("/signup", s.handleUserSignUp)
		ur.With(loginLimiter.Middleware).Post("/login", s.handleUserLogin)

		ur.Group(func(pr chi.Router) {
			pr.Use(authn, RequireRole(RoleCustomer))
			pr.Put("/me/password", s.handleUpdatePassword)
			pr.Get("/me/profile", s.handleGetProfile)
			pr.Patch("/me/profile", s.handleUpdateProfile)
		})
	})

	r.With(authn).Get("/whoami", s.handleWhoAmI)

	return r
}
