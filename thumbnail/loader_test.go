package thumbnail

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/link2vid/link2vid/filesystem"
	"github.com/link2vid/link2vid/source"
	. "github.com/smartystreets/goconvey/convey"
)

var thumbSize = source.Resolution{Width: 4, Height: 4}

// encodedTestImage is a small opaque PNG with a recognizable pixel pattern.
func encodedTestImage(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 40), G: uint8(y * 40), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func await(t *testing.T, ch <-chan image.Image) image.Image {
	t.Helper()

	select {
	case img := <-ch:
		return img
	case <-time.After(5 * time.Second):
		t.Fatal("callback never fired")
		return nil
	}
}

func samePixels(a, b image.Image) bool {
	if a.Bounds() != b.Bounds() {
		return false
	}
	for y := a.Bounds().Min.Y; y < a.Bounds().Max.Y; y++ {
		for x := a.Bounds().Min.X; x < a.Bounds().Max.X; x++ {
			ar, ag, ab, aa := a.At(x, y).RGBA()
			br, bg, bb, ba := b.At(x, y).RGBA()
			if ar != br || ag != bg || ab != bb || aa != ba {
				return false
			}
		}
	}
	return true
}

func TestLoader(t *testing.T) {
	filesystem.SetMemMapFs()
	defer filesystem.SetOsFs()

	Convey("Loader", t, func() {
		payload := encodedTestImage(t, 8, 8)

		var fetches atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fetches.Add(1)
			w.Write(payload)
		}))
		defer server.Close()

		Convey("A miss fetches, resizes and delivers asynchronously", func() {
			loader := New(Config{CacheDir: t.TempDir(), Client: server.Client()})

			done := make(chan image.Image, 1)
			loader.Submit(server.URL+"/a.png", thumbSize, func(img image.Image) { done <- img })

			img := await(t, done)
			So(img, ShouldNotBeNil)
			So(img.Bounds().Dx(), ShouldEqual, thumbSize.Width)
			So(img.Bounds().Dy(), ShouldEqual, thumbSize.Height)

			Convey("A repeat submit hits memory synchronously with the same reference", func() {
				var hit image.Image
				loader.Submit(server.URL+"/a.png", thumbSize, func(cached image.Image) { hit = cached })
				So(hit, ShouldEqual, img)
				So(fetches.Load(), ShouldEqual, 1)
			})

			Convey("GetCached peeks without blocking", func() {
				So(loader.GetCached(server.URL+"/a.png", thumbSize), ShouldEqual, img)
				So(loader.GetCached(server.URL+"/missing.png", thumbSize), ShouldBeNil)
			})
		})

		Convey("Concurrent submissions for one key coalesce into a single fetch", func() {
			release := make(chan struct{})
			var gatedFetches atomic.Int64
			gated := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gatedFetches.Add(1)
				<-release
				w.Write(payload)
			}))
			defer gated.Close()

			loader := New(Config{CacheDir: t.TempDir(), Client: gated.Client()})

			first := make(chan image.Image, 1)
			second := make(chan image.Image, 1)
			loader.Submit(gated.URL+"/b.png", thumbSize, func(img image.Image) { first <- img })
			loader.Submit(gated.URL+"/b.png", thumbSize, func(img image.Image) { second <- img })
			close(release)

			a := await(t, first)
			b := await(t, second)
			So(a, ShouldNotBeNil)
			So(a, ShouldEqual, b)
			So(gatedFetches.Load(), ShouldEqual, 1)
		})

		Convey("Inserting past the item cap evicts the least-recently-touched key", func() {
			loader := New(Config{CacheDir: t.TempDir(), Client: server.Client(), MaxItems: 2})

			var wg sync.WaitGroup
			for i := 0; i < 3; i++ {
				wg.Add(1)
				loader.Submit(fmt.Sprintf("%s/%d.png", server.URL, i), thumbSize, func(image.Image) { wg.Done() })

				// Serialize so recency order is deterministic.
				wg.Wait()
			}

			So(loader.Len(), ShouldEqual, 2)
			So(loader.GetCached(server.URL+"/0.png", thumbSize), ShouldBeNil)
			So(loader.GetCached(server.URL+"/1.png", thumbSize), ShouldNotBeNil)
			So(loader.GetCached(server.URL+"/2.png", thumbSize), ShouldNotBeNil)
		})

		Convey("A declared Content-Length past the cap yields a nil result", func() {
			oversized := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Length", "10485760")
				w.WriteHeader(http.StatusOK)
			}))
			defer oversized.Close()

			loader := New(Config{CacheDir: t.TempDir(), Client: oversized.Client(), MaxBytes: 1024})

			done := make(chan image.Image, 1)
			loader.Submit(oversized.URL+"/huge.png", thumbSize, func(img image.Image) { done <- img })
			So(await(t, done), ShouldBeNil)
		})

		Convey("A stream with no length header aborts once it passes the cap", func() {
			streaming := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				// Flush before the payload so no Content-Length gets declared.
				w.WriteHeader(http.StatusOK)
				w.(http.Flusher).Flush()
				w.Write([]byte(strings.Repeat("x", 4096)))
			}))
			defer streaming.Close()

			loader := New(Config{CacheDir: t.TempDir(), Client: streaming.Client(), MaxBytes: 1024})

			done := make(chan image.Image, 1)
			loader.Submit(streaming.URL+"/stream.png", thumbSize, func(img image.Image) { done <- img })
			So(await(t, done), ShouldBeNil)
		})

		Convey("The disk tier survives a fresh loader with a dead network", func() {
			cacheDir := t.TempDir()

			warm := New(Config{CacheDir: cacheDir, Client: server.Client()})
			done := make(chan image.Image, 1)
			warm.Submit(server.URL+"/c.png", thumbSize, func(img image.Image) { done <- img })
			original := await(t, done)
			So(original, ShouldNotBeNil)

			dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer dead.Close()

			cold := New(Config{CacheDir: cacheDir, Client: dead.Client()})
			reload := make(chan image.Image, 1)
			cold.Submit(server.URL+"/c.png", thumbSize, func(img image.Image) { reload <- img })

			restored := await(t, reload)
			So(restored, ShouldNotBeNil)
			So(samePixels(original, restored), ShouldBeTrue)
		})

		Convey("Clear drops the memory tier and optionally the disk tier", func() {
			cacheDir := t.TempDir()
			loader := New(Config{CacheDir: cacheDir, Client: server.Client()})

			done := make(chan image.Image, 1)
			loader.Submit(server.URL+"/d.png", thumbSize, func(img image.Image) { done <- img })
			So(await(t, done), ShouldNotBeNil)

			So(loader.Clear(false), ShouldBeNil)
			So(loader.Len(), ShouldEqual, 0)

			entries, err := filesystem.API().ReadDir(cacheDir)
			So(err, ShouldBeNil)
			So(entries, ShouldNotBeEmpty)

			So(loader.Clear(true), ShouldBeNil)
			exists, err := filesystem.API().DirExists(cacheDir)
			So(err, ShouldBeNil)
			So(exists, ShouldBeFalse)
		})
	})
}

func TestCoverCrop(t *testing.T) {
	Convey("coverCrop fills the exact box from any aspect ratio", t, func() {
		wide := image.NewRGBA(image.Rect(0, 0, 20, 10))
		tall := image.NewRGBA(image.Rect(0, 0, 10, 20))
		square := image.NewRGBA(image.Rect(0, 0, 10, 10))

		for _, src := range []image.Image{wide, tall, square} {
			out := coverCrop(src, 6, 4)
			So(out.Bounds().Dx(), ShouldEqual, 6)
			So(out.Bounds().Dy(), ShouldEqual, 4)
		}
	})
}
