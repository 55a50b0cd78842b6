package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mww/draft_scout/controller"
	"github.com/mww/draft_scout/model"
	"github.com/unrolled/render"
)

// listIDParam reads the list from /bigboard/{kind}?position=EDGE. The controller
// validates it.
func listIDParam(r *http.Request) model.ListID {
	return model.ListID{
		Kind:  model.ListKind(chi.URLParam(r, "kind")),
		Scope: r.URL.Query().Get("position"),
	}
}

func getBigBoardHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := ctrl.GetBigBoard(r.Context(), listIDParam(r))
		if err != nil {
			writeError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, entries)
	}
}

func exportBigBoardHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, err := ctrl.ExportBigBoard(r.Context(), listIDParam(r))
		if err != nil {
			writeError(render, w, err)
			return
		}
		render.Text(w, http.StatusOK, text)
	}
}

func addToBigBoardHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PlayerID int64 `json:"player_id"`
		}
		if err := decodeJSON(r, &req); err != nil {
			badRequest(render, w, err.Error())
			return
		}

		if err := ctrl.AddToBigBoard(r.Context(), listIDParam(r), req.PlayerID); err != nil {
			writeError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func removeFromBigBoardHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := playerIDParam(r)
		if err != nil {
			badRequest(render, w, err.Error())
			return
		}

		if err := ctrl.RemoveFromBigBoard(r.Context(), listIDParam(r), id); err != nil {
			writeError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func reorderBigBoardHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PlayerIDs []int64 `json:"player_ids"`
		}
		if err := decodeJSON(r, &req); err != nil {
			badRequest(render, w, err.Error())
			return
		}

		if err := ctrl.ReorderBigBoard(r.Context(), listIDParam(r), req.PlayerIDs); err != nil {
			writeError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func autoSortBigBoardHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ctrl.AutoSortBigBoard(r.Context(), listIDParam(r)); err != nil {
			writeError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
