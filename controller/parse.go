package controller

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/mww/draft_scout/model"
)

var textRankRegex = regexp.MustCompile(`^(?P<rank>\d+)\s*[.):\-]?\s*(?P<name>.*)$`)

// ParseTextBoard parses a pasted board, one player per line. A line starting with
// a number, like "12. Caleb Downs" or "12) Caleb Downs", carries its rank. A line
// without one gets the rank after the previous line.
func ParseTextBoard(text string) []model.RankEntry {
	result := make([]model.RankEntry, 0, 64)
	prev := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		rank := prev + 1
		name := line
		if m := textRankRegex.FindStringSubmatch(line); m != nil {
			if r, err := strconv.Atoi(m[textRankRegex.SubexpIndex("rank")]); err == nil {
				rank = r
				name = strings.TrimSpace(m[textRankRegex.SubexpIndex("name")])
			}
		}
		prev = rank

		if name == "" {
			continue
		}
		result = append(result, model.RankEntry{Rank: float64(rank), Name: name})
	}
	return result
}

// ParseCSVBoard parses a CSV export with a header row. The rank and player name
// columns are required, position and school are used when present.
func ParseCSVBoard(r io.Reader) ([]model.RankEntry, error) {
	reader, err := newBoardCSVReader(r)
	if err != nil {
		return nil, err
	}

	result := make([]model.RankEntry, 0, 64)
	for {
		e, err := reader.readLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	return result, nil
}

type boardCSVReader struct {
	csvReader *csv.Reader
	rankIdx   int
	nameIdx   int
	posIdx    int
	schoolIdx int
}

func newBoardCSVReader(r io.Reader) (*boardCSVReader, error) {
	br := &boardCSVReader{
		csvReader: csv.NewReader(r),
		rankIdx:   -1,
		nameIdx:   -1,
		posIdx:    -1,
		schoolIdx: -1,
	}
	br.csvReader.FieldsPerRecord = -1
	br.csvReader.TrimLeadingSpace = true

	header, err := br.csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: error reading CSV board header: %v", model.ErrValidation, err)
	}

	for i, h := range header {
		switch strings.ToUpper(strings.TrimSpace(h)) {
		case "RK", "RANK":
			br.rankIdx = i
		case "PLAYER NAME", "PLAYER", "NAME":
			br.nameIdx = i
		case "POS", "POSITION":
			br.posIdx = i
		case "SCHOOL", "COLLEGE":
			br.schoolIdx = i
		}
	}

	if br.rankIdx == -1 || br.nameIdx == -1 {
		return nil, fmt.Errorf("%w: error finding required columns; rank: %d, name: %d",
			model.ErrValidation, br.rankIdx, br.nameIdx)
	}

	return br, nil
}

// readLine returns the next entry. A row with a bad rank comes back unranked so
// the import counts it as skipped.
func (br *boardCSVReader) readLine() (*model.RankEntry, error) {
	record, err := br.csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: error reading line in CSV board (%v): %v", model.ErrValidation, record, err)
	}

	e := model.RankEntry{
		Name:     column(record, br.nameIdx),
		Position: column(record, br.posIdx),
		School:   column(record, br.schoolIdx),
	}

	rank, err := strconv.ParseFloat(column(record, br.rankIdx), 64)
	if err != nil {
		log.Printf("bad rank for '%s' in CSV board: %v", e.Name, err)
	} else {
		e.Rank = rank
	}

	return &e, nil
}

func column(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
