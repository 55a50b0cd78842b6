package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mww/draft_scout/controller"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/unrolled/render"
)

func getRouter(ctrl controller.C, render *render.Render, gatherer prometheus.Gatherer, timeout time.Duration) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(timeout))

	r.Get("/", rootHandler(render))
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/players", func(r chi.Router) {
			r.Get("/", playerSearchHandler(ctrl, render))
			r.Post("/", addPlayerHandler(ctrl, render))
			r.Get("/random", randomPlayerHandler(ctrl, render))
			r.Post("/merge-duplicates", mergeDuplicatesHandler(ctrl, render))

			r.Route("/{playerID:\\d+}", func(r chi.Router) {
				r.Get("/", getPlayerHandler(ctrl, render))
				r.Put("/profile", updateProfileHandler(ctrl, render))
				r.Put("/notes", updateNotesHandler(ctrl, render))
				r.Put("/games-watched", updateGamesWatchedHandler(ctrl, render))
				r.Put("/grade", updateGradeHandler(ctrl, render))
				r.Post("/scout", scoutHandler(ctrl, render))
				r.Post("/unscout", unscoutHandler(ctrl, render))
			})
		})

		r.Get("/positions", positionsHandler(ctrl, render))
		r.Get("/schools", schoolsHandler(ctrl, render))
		r.Get("/stats", statsHandler(ctrl, render))

		r.Route("/boards", func(r chi.Router) {
			r.Get("/", listBoardsHandler(ctrl, render))
			r.Put("/weights", setWeightsHandler(ctrl, render))
			r.Post("/recalculate", recalculateHandler(ctrl, render))
			r.Delete("/{boardKey}", removeBoardHandler(ctrl, render))

			r.Route("/import", func(r chi.Router) {
				r.Post("/tankathon", importTankathonHandler(ctrl, render))
				r.Post("/consensus", importConsensusHandler(ctrl, render))
				r.Post("/external", importExternalHandler(ctrl, render))
				r.Post("/csv", importCSVHandler(ctrl, render))
			})
		})

		r.Route("/bigboard/{kind}", func(r chi.Router) {
			r.Get("/", getBigBoardHandler(ctrl, render))
			r.Get("/export", exportBigBoardHandler(ctrl, render))
			r.Post("/players", addToBigBoardHandler(ctrl, render))
			r.Delete("/players/{playerID:\\d+}", removeFromBigBoardHandler(ctrl, render))
			r.Put("/order", reorderBigBoardHandler(ctrl, render))
			r.Post("/autosort", autoSortBigBoardHandler(ctrl, render))
		})
	})

	return r
}
