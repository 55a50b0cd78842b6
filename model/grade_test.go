package model

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseGrade(t *testing.T) {
	Convey("Given grades from each vocabulary", t, func() {
		Convey("Poker chips sort by colour", func() {
			So(ParseGrade("Poker Chip - Purple"), ShouldResemble, GradePriority{Tier: GradeTierPokerChip, Ordinal: 0})
			So(ParseGrade("Poker Chip - White"), ShouldResemble, GradePriority{Tier: GradeTierPokerChip, Ordinal: 5})
			So(ParseGrade("poker chip - blue"), ShouldResemble, GradePriority{Tier: GradeTierPokerChip, Ordinal: 2})
			So(ParseGrade("Poker Chip - Gold"), ShouldResemble, GradePriority{Tier: GradeTierPokerChip, Ordinal: 99})
		})

		Convey("Higher numbers sort first", func() {
			So(ParseGrade("Numerical - 90"), ShouldResemble, GradePriority{Tier: GradeTierNumerical, Ordinal: 10})
			So(ParseGrade("Numerical - 150"), ShouldResemble, GradePriority{Tier: GradeTierNumerical, Ordinal: 0})
			So(ParseGrade("Numerical - -5"), ShouldResemble, GradePriority{Tier: GradeTierNumerical, Ordinal: 100})
			So(ParseGrade("Numerical - high"), ShouldResemble, GradePriority{Tier: GradeTierNone, Ordinal: gradeOrdinalNone})
		})

		Convey("Letters sort from A+ to F-", func() {
			So(ParseGrade("Alphabet - A+"), ShouldResemble, GradePriority{Tier: GradeTierAlphabet, Ordinal: 0})
			So(ParseGrade("alphabet - b-"), ShouldResemble, GradePriority{Tier: GradeTierAlphabet, Ordinal: 5})
			So(ParseGrade("Alphabet - Z"), ShouldResemble, GradePriority{Tier: GradeTierNone, Ordinal: gradeOrdinalNone})
		})

		Convey("Rounds sort by round, then early, mid, late", func() {
			So(ParseGrade("Early-Round 1"), ShouldResemble, GradePriority{Tier: GradeTierRound, Ordinal: 10})
			So(ParseGrade("Late-Round 1"), ShouldResemble, GradePriority{Tier: GradeTierRound, Ordinal: 12})
			So(ParseGrade("Mid-Round 3"), ShouldResemble, GradePriority{Tier: GradeTierRound, Ordinal: 31})
			So(ParseGrade("UDFA"), ShouldResemble, GradePriority{Tier: GradeTierRound, Ordinal: 100})
			So(ParseGrade("Early-Round 8"), ShouldResemble, GradePriority{Tier: GradeTierNone, Ordinal: gradeOrdinalNone})
		})

		Convey("Empty and unknown grades sort last", func() {
			So(ParseGrade(""), ShouldResemble, GradePriority{Tier: GradeTierNone, Ordinal: gradeOrdinalNone})
			So(ParseGrade("  "), ShouldResemble, GradePriority{Tier: GradeTierNone, Ordinal: gradeOrdinalNone})
			So(ParseGrade("great player"), ShouldResemble, GradePriority{Tier: GradeTierNone, Ordinal: gradeOrdinalNone})
		})
	})
}

func TestGradeOrdering(t *testing.T) {
	Convey("Grades across vocabularies are totally ordered", t, func() {
		chain := []string{
			"Poker Chip - Purple",
			"Poker Chip - Black",
			"Numerical - 90",
			"Numerical - 50",
			"Alphabet - A+",
			"Alphabet - C",
			"Early-Round 1",
			"Late-Round 7",
			"UDFA",
			"",
		}
		for i := 0; i < len(chain)-1; i++ {
			So(ParseGrade(chain[i]).Less(ParseGrade(chain[i+1])), ShouldBeTrue)
			So(ParseGrade(chain[i+1]).Compare(ParseGrade(chain[i])), ShouldEqual, 1)
		}
		So(ParseGrade("Alphabet - A").Compare(ParseGrade("alphabet - a")), ShouldEqual, 0)
	})
}

func TestListIDValidate(t *testing.T) {
	Convey("Given curated list ids", t, func() {
		Convey("Positional boards canonicalize their scope", func() {
			id, err := ListID{Kind: ListPosition, Scope: " qb "}.Validate()
			So(err, ShouldBeNil)
			So(id, ShouldResemble, PositionBoard("QB"))
			So(id.String(), ShouldEqual, "position:QB")
		})

		Convey("Positional boards need a scope", func() {
			_, err := ListID{Kind: ListPosition}.Validate()
			So(errors.Is(err, ErrValidation), ShouldBeTrue)
		})

		Convey("Overall and watchlist boards take no scope", func() {
			_, err := OverallBoard.Validate()
			So(err, ShouldBeNil)
			_, err = ListID{Kind: ListWatchlist, Scope: "QB"}.Validate()
			So(errors.Is(err, ErrValidation), ShouldBeTrue)
		})

		Convey("Unknown kinds are rejected", func() {
			_, err := ListID{Kind: "mock"}.Validate()
			So(errors.Is(err, ErrValidation), ShouldBeTrue)
		})
	})
}
