package web

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mww/draft_scout/controller"
	"github.com/mww/draft_scout/model"
	"github.com/unrolled/render"
)

type rankEntryRequest struct {
	Rank      float64        `json:"rank"`
	Name      string         `json:"name"`
	Position  string         `json:"position"`
	School    string         `json:"school"`
	Height    string         `json:"height"`
	Weight    string         `json:"weight"`
	Jersey    string         `json:"jersey"`
	PlayerURL string         `json:"player_url"`
	Stats     map[string]any `json:"stats"`
}

func toRankEntries(req []rankEntryRequest) []model.RankEntry {
	entries := make([]model.RankEntry, 0, len(req))
	for _, e := range req {
		entries = append(entries, model.RankEntry(e))
	}
	return entries
}

func listBoardsHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boards, err := ctrl.ListBoards(r.Context())
		if err != nil {
			writeError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, boards)
	}
}

func setWeightsHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req []struct {
			Key     string  `json:"key"`
			Weight  float64 `json:"weight"`
			Primary bool    `json:"primary"`
		}
		if err := decodeJSON(r, &req); err != nil {
			badRequest(render, w, err.Error())
			return
		}

		updates := make([]model.WeightUpdate, 0, len(req))
		for _, u := range req {
			updates = append(updates, model.WeightUpdate(u))
		}
		if err := ctrl.SetWeights(r.Context(), updates); err != nil {
			writeError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func removeBoardHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ctrl.RemoveBoard(r.Context(), chi.URLParam(r, "boardKey")); err != nil {
			writeError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func recalculateHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ctrl.RecalculateRanks(r.Context()); err != nil {
			writeError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func importTankathonHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req []rankEntryRequest
		if err := decodeJSON(r, &req); err != nil {
			badRequest(render, w, err.Error())
			return
		}

		res, err := ctrl.ImportTankathonBoard(r.Context(), toRankEntries(req))
		if err != nil {
			writeError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, res)
	}
}

func importConsensusHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req []rankEntryRequest
		if err := decodeJSON(r, &req); err != nil {
			badRequest(render, w, err.Error())
			return
		}

		res, err := ctrl.ImportConsensusBoard(r.Context(), toRankEntries(req))
		if err != nil {
			writeError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, res)
	}
}

func importExternalHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Mode   string `json:"weighting_mode"`
			Boards []struct {
				Name      string             `json:"name"`
				SourceURL string             `json:"source_url"`
				Text      string             `json:"text"`
				CSV       string             `json:"csv"`
				Entries   []rankEntryRequest `json:"entries"`
				Weight    float64            `json:"weight"`
			} `json:"boards"`
		}
		if err := decodeJSON(r, &req); err != nil {
			badRequest(render, w, err.Error())
			return
		}
		if req.Mode == "" {
			req.Mode = string(model.WeightingEqual)
		}

		boards := make([]model.ExternalBoard, 0, len(req.Boards))
		for _, b := range req.Boards {
			boards = append(boards, model.ExternalBoard{
				Name:      b.Name,
				SourceURL: b.SourceURL,
				Text:      b.Text,
				CSV:       b.CSV,
				Entries:   toRankEntries(b.Entries),
				Weight:    b.Weight,
			})
		}

		res, err := ctrl.ImportExternalBoards(r.Context(), boards, model.WeightingMode(req.Mode))
		if err != nil {
			writeError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, res)
	}
}

// importCSVHandler takes a single board uploaded as a CSV file.
func importCSVHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Parse the multipart form. 5 << 20 specifices a maximum upload of 5 MB files.
		if err := r.ParseMultipartForm(5 << 20); err != nil {
			badRequest(render, w, fmt.Sprintf("error parsing upload: %v", err))
			return
		}

		file, handler, err := r.FormFile("board-file")
		if err != nil {
			badRequest(render, w, err.Error())
			return
		}
		defer file.Close()

		if handler.Header.Get("Content-Type") != "text/csv" {
			badRequest(render, w, fmt.Sprintf("Only CSV files are supported. Got %s", handler.Header.Get("Content-Type")))
			return
		}

		data, err := io.ReadAll(file)
		if err != nil {
			badRequest(render, w, fmt.Sprintf("error reading upload: %v", err))
			return
		}

		board := model.ExternalBoard{
			Name:      r.FormValue("board-name"),
			SourceURL: r.FormValue("source-url"),
			CSV:       string(data),
			Weight:    1,
		}
		mode := model.WeightingEqual
		if v := r.FormValue("weight"); v != "" {
			weight, err := strconv.ParseFloat(v, 64)
			if err != nil {
				badRequest(render, w, fmt.Sprintf("Unable to parse board weight: %v", err))
				return
			}
			board.Weight = weight
			mode = model.WeightingWeighted
		}

		res, err := ctrl.ImportExternalBoards(r.Context(), []model.ExternalBoard{board}, mode)
		if err != nil {
			writeError(render, w, err)
			return
		}
		render.JSON(w, http.StatusOK, res)
	}
}
