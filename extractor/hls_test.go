package extractor

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const masterManifest = `#EXTM3U
#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=1280000,RESOLUTION=640x360
low/index.m3u8
#EXT-X-STREAM-INF:PROGRAM-ID=1,BANDWIDTH=2560000,RESOLUTION=1280x720
high/index.m3u8
`

const mediaManifest = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:6
#EXTINF:6.0,
seg0.ts
#EXT-X-ENDLIST
`

func TestScanDirectM3U8(t *testing.T) {
	ctx := context.Background()

	Convey("ScanDirectM3U8", t, func() {
		Convey("Master playlist on page", func() {
			mux := http.NewServeMux()
			srv := httptest.NewServer(mux)
			defer srv.Close()

			playlistURL := srv.URL + "/master.m3u8"
			mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintf(w, `<html><video src="%s"></video></html>`, playlistURL)
			})
			mux.HandleFunc("/master.m3u8", func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, masterManifest)
			})

			result := ScanDirectM3U8(ctx, srv.URL+"/page", nil)
			So(result, ShouldNotBeNil)
			So(result.PlaylistURL, ShouldEqual, playlistURL)

			Convey("Headers carry UA and Referer", func() {
				So(result.Headers["Referer"], ShouldEqual, srv.URL+"/page")
				So(result.Headers["User-Agent"], ShouldNotBeEmpty)
			})

			Convey("Variants preserve source order", func() {
				So(result.Variants, ShouldHaveLength, 2)

				So(result.Variants[0].Bandwidth.MustGet(), ShouldEqual, 1280)
				res0 := result.Variants[0].Resolution.MustGet()
				So(res0.Width, ShouldEqual, 640)
				So(res0.Height, ShouldEqual, 360)
				So(result.Variants[0].URI, ShouldEqual, "low/index.m3u8")

				So(result.Variants[1].Bandwidth.MustGet(), ShouldEqual, 2560)
				res1 := result.Variants[1].Resolution.MustGet()
				So(res1.Width, ShouldEqual, 1280)
				So(res1.Height, ShouldEqual, 720)
				So(result.Variants[1].URI, ShouldEqual, "high/index.m3u8")
			})
		})

		Convey("Media playlist yields no variants", func() {
			mux := http.NewServeMux()
			srv := httptest.NewServer(mux)
			defer srv.Close()

			playlistURL := srv.URL + "/media.m3u8"
			mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintf(w, `<html>%s</html>`, playlistURL)
			})
			mux.HandleFunc("/media.m3u8", func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, mediaManifest)
			})

			result := ScanDirectM3U8(ctx, srv.URL+"/page", nil)
			So(result, ShouldNotBeNil)
			So(result.PlaylistURL, ShouldEqual, playlistURL)
			So(result.Variants, ShouldBeEmpty)
		})

		Convey("Playlist behind an embedded player iframe", func() {
			mux := http.NewServeMux()
			srv := httptest.NewServer(mux)
			defer srv.Close()

			playlistURL := srv.URL + "/master.m3u8"
			mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintf(w, `<html><iframe src="%s/blazestreaming/embed"></iframe></html>`, srv.URL)
			})
			mux.HandleFunc("/blazestreaming/embed", func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintf(w, `<html><script>var src = "%s";</script></html>`, playlistURL)
			})
			mux.HandleFunc("/master.m3u8", func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, masterManifest)
			})

			result := ScanDirectM3U8(ctx, srv.URL+"/page", nil)
			So(result, ShouldNotBeNil)
			So(result.PlaylistURL, ShouldEqual, playlistURL)
			So(result.Variants, ShouldHaveLength, 2)
		})

		Convey("No playlist on page returns nil", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `<html>nothing here</html>`)
			}))
			defer srv.Close()

			var messages []string
			result := ScanDirectM3U8(ctx, srv.URL, func(msg string) { messages = append(messages, msg) })
			So(result, ShouldBeNil)
			So(messages, ShouldContain, "[HLS] No playlist text found.")
		})

		Convey("Unreachable page returns nil instead of failing", func() {
			result := ScanDirectM3U8(ctx, "http://127.0.0.1:1/page", nil)
			So(result, ShouldBeNil)
		})
	})
}

func TestResolveURL(t *testing.T) {
	Convey("resolveURL", t, func() {
		So(resolveURL("https://host/page", "/embed/1"), ShouldEqual, "https://host/embed/1")
		So(resolveURL("https://host/page", "https://other/embed"), ShouldEqual, "https://other/embed")
		So(resolveURL("://bad", "x"), ShouldEqual, "x")
	})
}
