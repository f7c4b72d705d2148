package routes

import (
	"net/http"

	"github.com/shashiranjanraj/chefhut/app/controllers"
	"github.com/shashiranjanraj/chefhut/app/models"
	"github.com/shashiranjanraj/chefhut/pkg/metrics"
	"github.com/shashiranjanraj/chefhut/pkg/middleware"
	"github.com/shashiranjanraj/chefhut/pkg/rbac"
	"github.com/shashiranjanraj/chefhut/pkg/response"
	"github.com/shashiranjanraj/chefhut/pkg/router"
)

// Controllers bundles everything the route table mounts.
type Controllers struct {
	Auth     *controllers.AuthController
	Users    *controllers.UserController
	Meals    *controllers.MealController
	Requests *controllers.RequestController
	Orders   *controllers.OrderController
	Payments *controllers.PaymentController
	Favs     *controllers.FavoriteController
	Reviews  *controllers.ReviewController
}

// RegisterAPI mounts the full HTTP surface.
func RegisterAPI(r *router.Router, c Controllers) {
	// Ops
	r.Get("/healthz", "ops.health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
	r.Get("/metrics", "ops.metrics", metrics.Handler())

	// Auth
	r.Post("/auth/token", "auth.token", c.Auth.Token)

	// Catalog
	r.Get("/featured-meals", "meals.featured", c.Meals.Featured)
	r.Get("/meals", "meals.list", c.Meals.List)
	r.Get("/meals/{id}", "meals.get", c.Meals.Get)
	r.Post("/meals", "meals.create", c.Meals.Create)
	r.Post("/meals/{id}/image", "meals.image", c.Meals.UploadImage)

	// Users
	r.Post("/users", "users.signup", c.Users.Signup)
	r.Get("/users/{email}", "users.get", c.Users.Get)

	// Elevation requests
	r.Post("/requests", "requests.submit", c.Requests.Submit)
	r.Get("/requests", "requests.list", c.Requests.List)
	r.Patch("/requests/{id}", "requests.resolve", c.Requests.Resolve)

	// Orders
	r.Post("/orders", "orders.create", c.Orders.Create)
	r.Patch("/orders/{id}", "orders.status", c.Orders.SetStatus)
	r.Get("/orders/chef", "orders.chef", c.Orders.ListForChef)
	r.Get("/orders", "orders.user", c.Orders.ListForUser)

	// Payments
	r.Post("/create-checkout-session", "payment.checkout", c.Payments.CreateCheckoutSession)
	r.Patch("/payment-success", "payment.confirm", c.Payments.ConfirmPayment)

	// Favorites
	r.Post("/favorites", "favorites.add", c.Favs.Add)
	r.Get("/favorites", "favorites.list", c.Favs.List)
	r.Delete("/favorites/{id}", "favorites.delete", c.Favs.Delete)

	// Reviews
	r.Post("/reviews", "reviews.add", c.Reviews.Add)
	r.Get("/reviews", "reviews.list", c.Reviews.List)
	r.Delete("/reviews/{id}", "reviews.delete", c.Reviews.Delete)

	// Admin surface behind auth + role check.
	admin := r.Group("/admin", middleware.Auth, rbac.HasRole(models.RoleAdmin))
	admin.Get("/users", "admin.users.list", c.Users.List)
	admin.Patch("/users/{email}/status", "admin.users.status", c.Users.SetStatus)
}
