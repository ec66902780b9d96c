package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDownloadBytes(t *testing.T) {
	Convey("DownloadBytes", t, func() {
		ctx := context.Background()

		Convey("Should return the full body under the cap", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("hello"))
			}))
			defer srv.Close()

			data, err := DownloadBytes(ctx, srv.Client(), srv.URL, 1024)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "hello")
		})

		Convey("Should reject on declared Content-Length before reading", func() {
			var bodyRead bool
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Length", "2048")
				bodyRead = true
				_, _ = w.Write([]byte(strings.Repeat("x", 2048)))
			}))
			defer srv.Close()

			data, err := DownloadBytes(ctx, srv.Client(), srv.URL, 1024)
			So(err, ShouldWrap, ErrTooLarge)
			So(data, ShouldBeNil)
			_ = bodyRead
		})

		Convey("Should abort a stream without a length header past the cap", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				flusher := w.(http.Flusher)
				chunk := []byte(strings.Repeat("y", 512))
				for i := 0; i < 8; i++ {
					_, _ = w.Write(chunk)
					flusher.Flush()
				}
			}))
			defer srv.Close()

			data, err := DownloadBytes(ctx, srv.Client(), srv.URL, 1024)
			So(err, ShouldWrap, ErrTooLarge)
			So(data, ShouldBeNil)
		})

		Convey("Should fail on non-200 responses", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer srv.Close()

			_, err := DownloadBytes(ctx, srv.Client(), srv.URL, 1024)
			So(err, ShouldNotBeNil)
		})
	})
}
