package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pradyutnair/finance-sub003/src/handlers"
	"github.com/pradyutnair/finance-sub003/src/middleware"
)

// Deps bundles everything the routes need. The store typically satisfies all
// three store interfaces at once.
type Deps struct {
	Rules          handlers.RuleStore
	Transactions   handlers.TransactionStore
	Users          handlers.UserStore
	Cache          handlers.TransactionCache
	Applier        handlers.RuleApplier
	AllowedOrigins []string
	DemoMode       bool
}

func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(deps.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", handlers.Login(deps.Users))
		r.Post("/register", handlers.Register(deps.Users))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware, middleware.DemoModeMiddleware(deps.DemoMode)).Group(func(r chi.Router) {
			// Transaction Rules
			r.Post("/rules", handlers.CreateTransactionRule(deps.Rules))
			r.Get("/rules", handlers.GetAllTransactionRules(deps.Rules))
			r.Get("/rules/{rule_id}", handlers.GetTransactionRuleByID(deps.Rules))
			r.Patch("/rules/{rule_id}", handlers.UpdateTransactionRule(deps.Rules))
			r.Delete("/rules/{rule_id}", handlers.DeleteTransactionRule(deps.Rules))
			r.Post("/rules/{rule_id}/apply", handlers.ApplyTransactionRule(deps.Applier))

			// Transactions
			r.Get("/transactions", handlers.GetTransactions(deps.Cache))
			r.Patch("/transactions/{transaction_id}", handlers.UpdateTransaction(deps.Transactions, deps.Cache))
		})

		// Super Admin Routes
		r.With(middleware.JWTAuthMiddleware, middleware.SuperAdminMiddleware).Group(func(r chi.Router) {
			r.Post("/admin/cache/clear/{cache_name}", handlers.ClearCache(deps.Cache))
		})
	})

	return r
}
