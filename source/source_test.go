package source

import (
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBestFormat(t *testing.T) {
	Convey("BestFormat", t, func() {
		Convey("Should return the last format", func() {
			entry := &MediaEntry{
				Title: "clip",
				Formats: []*FormatOption{
					{ID: "18", Ext: "mp4"},
					{ID: "22", Ext: "mp4"},
				},
			}
			So(entry.BestFormat().ID, ShouldEqual, "22")
		})

		Convey("Should return nil when no formats exist", func() {
			entry := &MediaEntry{Title: "clip"}
			So(entry.BestFormat(), ShouldBeNil)
		})
	})
}

func TestFormatOptionSizeString(t *testing.T) {
	Convey("SizeString", t, func() {
		Convey("Should print exact sizes", func() {
			f := &FormatOption{Size: mo.Some[int64](1024)}
			So(f.SizeString(), ShouldEqual, "1024")
		})
		Convey("Should fall back to N/A", func() {
			f := &FormatOption{}
			So(f.SizeString(), ShouldEqual, "N/A")
		})
	})
}

func TestMediaEntryString(t *testing.T) {
	Convey("MediaEntry String", t, func() {
		Convey("Should substitute a placeholder title", func() {
			entry := &MediaEntry{}
			So(entry.String(), ShouldContainSubstring, "No Title")
		})
		Convey("Should include best format columns", func() {
			entry := &MediaEntry{
				Title:   "clip",
				Formats: []*FormatOption{{ID: "best", Ext: "mp4"}},
			}
			row := entry.String()
			So(row, ShouldContainSubstring, "best")
			So(row, ShouldContainSubstring, "mp4")
			So(row, ShouldContainSubstring, "N/A")
		})
	})
}

func TestFetchOutcomeVariants(t *testing.T) {
	Convey("FetchOutcome", t, func() {
		outcomes := []FetchOutcome{
			&Results{},
			&DirectHlsFound{},
			&NeedsCookies{},
			&NeedsSelenium{},
			&Failure{},
		}

		Convey("All variants should satisfy the sum type", func() {
			for _, o := range outcomes {
				So(o, ShouldImplement, (*FetchOutcome)(nil))
			}
		})

		Convey("Variants should be distinguishable by type switch", func() {
			var seen int
			for _, o := range outcomes {
				switch o.(type) {
				case *Results, *DirectHlsFound, *NeedsCookies, *NeedsSelenium, *Failure:
					seen++
				}
			}
			So(seen, ShouldEqual, len(outcomes))
		})
	})
}

func TestHlsVariantString(t *testing.T) {
	Convey("HlsVariant String", t, func() {
		v := &HlsVariant{
			Bandwidth:  mo.Some(1280),
			Resolution: mo.Some(Resolution{Width: 640, Height: 360}),
			URI:        "low/index.m3u8",
		}
		So(v.String(), ShouldEqual, "1280 kbps  640x360  →  low/index.m3u8")

		empty := &HlsVariant{URI: "a.m3u8"}
		So(empty.String(), ShouldEqual, "?  ?  →  a.m3u8")
	})
}
