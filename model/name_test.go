package model

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalizeName(t *testing.T) {
	Convey("Given names written differently by different sources", t, func() {
		Convey("Initials with and without periods match", func() {
			So(NormalizeName("L.T. Overton"), ShouldEqual, "lt overton")
			So(NormalizeName("LT Overton"), ShouldEqual, "lt overton")
			So(NormalizeName("L T Overton"), ShouldEqual, "lt overton")
			So(NormalizeName("l.t. overton"), ShouldEqual, NormalizeName("LT Overton"))
		})

		Convey("Generational suffixes are dropped", func() {
			So(NormalizeName("Ruben Bain Jr."), ShouldEqual, "ruben bain")
			So(NormalizeName("Ruben Bain, Jr"), ShouldEqual, "ruben bain")
			So(NormalizeName("Marvin Harrison Sr."), ShouldEqual, "marvin harrison")
			So(NormalizeName("Kenneth Grant III"), ShouldEqual, "kenneth grant")
			So(NormalizeName("Ruben Bain"), ShouldEqual, NormalizeName("Ruben Bain Jr."))
		})

		Convey("Hyphens survive, other punctuation does not", func() {
			So(NormalizeName("Amon-Ra St. Brown"), ShouldEqual, "amon-ra st brown")
			So(NormalizeName("Ja'Marr Chase"), ShouldEqual, "jamarr chase")
		})

		Convey("Whitespace is collapsed", func() {
			So(NormalizeName("  Arch    Manning "), ShouldEqual, "arch manning")
		})

		Convey("Names that are only punctuation have no key", func() {
			So(NormalizeName(""), ShouldEqual, "")
			So(NormalizeName(" . , "), ShouldEqual, "")
			So(NormalizeName("Jr."), ShouldEqual, "")
		})
	})
}

func TestIsNormalizedName(t *testing.T) {
	Convey("Canonical names are recognized", t, func() {
		So(IsNormalizedName("Ruben Bain"), ShouldBeTrue)
		So(IsNormalizedName("LT Overton"), ShouldBeTrue)
		So(IsNormalizedName("Ruben Bain Jr."), ShouldBeFalse)
		So(IsNormalizedName("L.T. Overton"), ShouldBeFalse)
		So(IsNormalizedName(""), ShouldBeFalse)
	})
}

func TestNameIndex(t *testing.T) {
	Convey("Given an index built from the catalog", t, func() {
		idx := NewNameIndex([]Player{
			{ID: 1, Name: "Ruben Bain Jr."},
			{ID: 2, Name: "LT Overton"},
			{ID: 3, Name: "Ruben Bain"},
			{ID: 4, Name: "..."},
		})

		Convey("Lookups match on the normalized name", func() {
			id, found := idx.Lookup("L.T. Overton")
			So(found, ShouldBeTrue)
			So(id, ShouldEqual, 2)
		})

		Convey("The first player with a key keeps it", func() {
			id, found := idx.Lookup("Ruben Bain")
			So(found, ShouldBeTrue)
			So(id, ShouldEqual, 1)
		})

		Convey("Unknown and empty names are not found", func() {
			_, found := idx.Lookup("Arch Manning")
			So(found, ShouldBeFalse)
			_, found = idx.Lookup("...")
			So(found, ShouldBeFalse)
		})

		Convey("Added names can be found", func() {
			idx.Add("Arch Manning", 5)
			id, found := idx.Lookup("arch  manning")
			So(found, ShouldBeTrue)
			So(id, ShouldEqual, 5)
		})
	})
}

func TestSlugify(t *testing.T) {
	Convey("Board names become keys", t, func() {
		So(Slugify("PFF Big Board 2026"), ShouldEqual, "pff-big-board-2026")
		So(Slugify("  The Athletic: Brugler's Top 100! "), ShouldEqual, "the-athletic-brugler-s-top-100")
		So(Slugify("!!!"), ShouldEqual, "")
	})
}
