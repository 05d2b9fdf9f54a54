package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, matched route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	RecipesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recipes_created_total",
			Help: "Recipes created.",
		},
	)

	RelationToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relation_toggles_total",
			Help: "Successful follow, favorite and shopping cart changes.",
		},
		[]string{"relation", "action"},
	)

	ShoppingListsGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shopping_lists_generated_total",
			Help: "Shopping lists rendered for download.",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests)
	prometheus.MustRegister(RecipesCreated)
	prometheus.MustRegister(RelationToggles)
	prometheus.MustRegister(ShoppingListsGenerated)
}

// Handler serves the default registry in the prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
