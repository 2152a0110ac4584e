package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/quickbite/backend/internal/auth"
	"github.com/quickbite/backend/internal/orders"
	"github.com/quickbite/backend/internal/otp"
	"github.com/quickbite/backend/internal/pricing"
	"github.com/quickbite/backend/internal/store"
	"go.uber.org/zap"
)

type Handlers struct {
	auth       *auth.Service
	otp        *otp.Service
	orders     *orders.Service
	tokens     *auth.TokenManager
	users      *store.Users
	catalog    *store.Catalog
	addresses  *store.Addresses
	orderStore *store.Orders
	stats      *store.Stats
	policy     pricing.Policy
	validate   *validator.Validate
	logger     *zap.Logger
}

type Deps struct {
	Auth       *auth.Service
	OTP        *otp.Service
	Orders     *orders.Service
	Tokens     *auth.TokenManager
	Users      *store.Users
	Catalog    *store.Catalog
	Addresses  *store.Addresses
	OrderStore *store.Orders
	Stats      *store.Stats
	Policy     pricing.Policy
	Logger     *zap.Logger
}

func NewHandlers(deps Deps) *Handlers {
	return &Handlers{
		auth:       deps.Auth,
		otp:        deps.OTP,
		orders:     deps.Orders,
		tokens:     deps.Tokens,
		users:      deps.Users,
		catalog:    deps.Catalog,
		addresses:  deps.Addresses,
		orderStore: deps.OrderStore,
		stats:      deps.Stats,
		policy:     deps.Policy,
		validate:   validator.New(),
		logger:     deps.Logger,
	}
}

func (h *Handlers) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.Post("/google-signin", h.GoogleSignIn)
		r.Post("/send-otp", h.SendOTP)
		r.Post("/verify-otp", h.VerifyOTP)
		r.Post("/reset-password", h.ResetPassword)

		r.Get("/categories", h.ListCategories)
		r.Get("/food-items", h.ListFoodItems)
		r.Get("/food-items/category/{id}", h.ListFoodItemsByCategory)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth(false))
			r.Get("/me", h.Me)
			r.Put("/update", h.UpdateProfile)
			r.Post("/cart/totals", h.CartTotals)
			r.Post("/order", h.SubmitOrder)
			r.Get("/orders", h.ListOrders)
			r.Post("/address", h.CreateAddress)
			r.Get("/addresses", h.ListAddresses)
			r.Put("/address/{id}", h.UpdateAddress)
			r.Delete("/address/{id}", h.DeleteAddress)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", h.AdminLogin)
		r.Post("/send-otp", h.AdminSendOTP)
		r.Post("/verify-otp", h.AdminVerifyOTP)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth(true))
			r.Get("/stats", h.AdminStats)
			r.Post("/categories", h.CreateCategory)
			r.Put("/categories/{id}", h.UpdateCategory)
			r.Delete("/categories/{id}", h.DeleteCategory)
			r.Post("/food-items", h.CreateFoodItem)
		})
	})

	return r
}
