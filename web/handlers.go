package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mww/draft_scout/controller"
	"github.com/mww/draft_scout/model"
	"github.com/unrolled/render"
)

func rootHandler(render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.Text(w, http.StatusOK, "draft scout")
	}
}

// writeError maps the error kinds of the controller to status codes.
func writeError(render *render.Render, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, model.ErrPermission):
		status = http.StatusForbidden
	}
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
	}
	render.JSON(w, status, map[string]string{"error": err.Error()})
}

func badRequest(render *render.Render, w http.ResponseWriter, msg string) {
	render.JSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("error parsing request body: %v", err)
	}
	return nil
}

func playerIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "playerID"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing player id: %v", err)
	}
	return id, nil
}

// filterFromQuery reads a player filter from the query string:
// ?position=QB,WR&max_rank=50&include_scouted=true&q=ohio&school=Texas
func filterFromQuery(r *http.Request) (model.PlayerFilter, error) {
	q := r.URL.Query()
	f := model.PlayerFilter{
		Search: strings.TrimSpace(q.Get("q")),
		School: strings.TrimSpace(q.Get("school")),
	}

	for _, p := range q["position"] {
		for _, pos := range strings.Split(p, ",") {
			if pos = strings.TrimSpace(pos); pos != "" {
				f.Positions = append(f.Positions, pos)
			}
		}
	}

	if v := q.Get("max_rank"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, fmt.Errorf("error parsing max_rank: %v", err)
		}
		f.MaxRank = n
	}

	if v := q.Get("include_scouted"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, fmt.Errorf("error parsing include_scouted: %v", err)
		}
		f.IncludeScouted = b
	}

	return f, nil
}

func playerSearchHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := filterFromQuery(r)
		if err != nil {
			badRequest(render, w, err.Error())
			return
		}

		results, err := ctrl.SearchPlayers(r.Context(), f)
		if err != nil {
			writeError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, results)
	}
}

func randomPlayerHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := filterFromQuery(r)
		if err != nil {
			badRequest(render, w, err.Error())
			return
		}

		p, err := ctrl.RandomPlayer(r.Context(), f)
		if err != nil {
			writeError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, p)
	}
}

func getPlayerHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := playerIDParam(r)
		if err != nil {
			badRequest(render, w, err.Error())
			return
		}

		p, err := ctrl.GetPlayer(r.Context(), id)
		if err != nil {
			writeError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, p)
	}
}

type addPlayerRequest struct {
	Name      string `json:"name"`
	Rank      *int   `json:"rank"`
	Position  string `json:"position"`
	School    string `json:"school"`
	Height    string `json:"height"`
	Weight    string `json:"weight"`
	Jersey    string `json:"jersey"`
	PlayerURL string `json:"player_url"`
	Notes     string `json:"notes"`
	Grade     string `json:"grade"`
	Scouted   bool   `json:"scouted"`
}

func addPlayerHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addPlayerRequest
		if err := decodeJSON(r, &req); err != nil {
			badRequest(render, w, err.Error())
			return
		}

		p, err := ctrl.AddPlayer(r.Context(), model.NewPlayer(req))
		if err != nil {
			writeError(render, w, err)
			return
		}
		render.JSON(w, http.StatusCreated, p)
	}
}

type profileRequest struct {
	Name      *string `json:"name"`
	Position  *string `json:"position"`
	School    *string `json:"school"`
	Height    *string `json:"height"`
	Weight    *string `json:"weight"`
	Jersey    *string `json:"jersey"`
	PlayerURL *string `json:"player_url"`
	Stats     any     `json:"stats"`
}

func updateProfileHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := playerIDParam(r)
		if err != nil {
			badRequest(render, w, err.Error())
			return
		}
		var req profileRequest
		if err := decodeJSON(r, &req); err != nil {
			badRequest(render, w, err.Error())
			return
		}

		p, err := ctrl.UpdateProfile(r.Context(), id, model.ProfileUpdate(req))
		if err != nil {
			writeError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, p)
	}
}

func updateNotesHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return textFieldHandler(render, "notes", ctrl.UpdateNotes)
}

func updateGamesWatchedHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return textFieldHandler(render, "games_watched", ctrl.UpdateGamesWatched)
}

func updateGradeHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := playerIDParam(r)
		if err != nil {
			badRequest(render, w, err.Error())
			return
		}
		var req struct {
			Grade string `json:"grade"`
			Slot  string `json:"slot"`
		}
		if err := decodeJSON(r, &req); err != nil {
			badRequest(render, w, err.Error())
			return
		}

		if err := ctrl.UpdateGrade(r.Context(), id, req.Grade, model.GradeSlot(req.Slot)); err != nil {
			writeError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// textFieldHandler handles the updates of a single free text field of a player,
// sent as {"<field>": "..."}.
func textFieldHandler(render *render.Render, field string, update func(ctx context.Context, id int64, v string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := playerIDParam(r)
		if err != nil {
			badRequest(render, w, err.Error())
			return
		}
		var req map[string]string
		if err := decodeJSON(r, &req); err != nil {
			badRequest(render, w, err.Error())
			return
		}

		if err := update(r.Context(), id, req[field]); err != nil {
			writeError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func scoutHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return playerActionHandler(render, ctrl.MarkScouted)
}

func unscoutHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return playerActionHandler(render, ctrl.UnmarkScouted)
}

func playerActionHandler(render *render.Render, action func(ctx context.Context, id int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := playerIDParam(r)
		if err != nil {
			badRequest(render, w, err.Error())
			return
		}

		if err := action(r.Context(), id); err != nil {
			writeError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func mergeDuplicatesHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := ctrl.MergeDuplicates(r.Context())
		if err != nil {
			writeError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, res)
	}
}

func positionsHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		positions, err := ctrl.Positions(r.Context())
		if err != nil {
			writeError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, positions)
	}
}

func schoolsHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		schools, err := ctrl.Schools(r.Context())
		if err != nil {
			writeError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, schools)
	}
}

func statsHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := ctrl.Stats(r.Context())
		if err != nil {
			writeError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, stats)
	}
}
