package download

import (
	"context"
	"errors"
	"testing"

	"github.com/link2vid/link2vid/cookies"
	"github.com/link2vid/link2vid/provider"
	"github.com/link2vid/link2vid/source"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeRunner scripts per-attempt results and records the options of every call.
type fakeRunner struct {
	infoCalls     []provider.Options
	downloadCalls []provider.Options

	// failUntilBrowser makes attempts fail unless cookies come from a browser.
	failUntilBrowser bool
	err              error
	entries          []*source.MediaEntry
}

func (f *fakeRunner) GetInfo(_ context.Context, _ string, opts provider.Options) ([]*source.MediaEntry, error) {
	f.infoCalls = append(f.infoCalls, opts)
	if f.failUntilBrowser && opts.CookiesFromBrowser == "" {
		return nil, f.err
	}
	if !f.failUntilBrowser && f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func (f *fakeRunner) Download(_ context.Context, _, _, _ string, opts provider.Options, _ func(float64)) error {
	f.downloadCalls = append(f.downloadCalls, opts)
	if f.failUntilBrowser && opts.CookiesFromBrowser == "" {
		return f.err
	}
	if !f.failUntilBrowser && f.err != nil {
		return f.err
	}
	return nil
}

func silentLadder(cookieFile string) *cookies.Ladder {
	return cookies.NewLadder(cookies.Hooks{
		CookieFile: func() string { return cookieFile },
	}, "chrome", nil)
}

func TestManager(t *testing.T) {
	ctx := context.Background()
	noCreds := mo.None[source.Credentials]()
	entry := &source.MediaEntry{Title: "clip"}

	Convey("GetInfo", t, func() {
		Convey("Non-family hosts attempt once with the stored cookie file", func() {
			runner := &fakeRunner{entries: []*source.MediaEntry{entry}}
			m := NewManager(runner, silentLadder("/tmp/cookies.txt"))

			entries, err := m.GetInfo(ctx, "https://youtube.com/watch?v=1", noCreds)
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 1)
			So(runner.infoCalls, ShouldHaveLength, 1)
			So(runner.infoCalls[0].CookieFile, ShouldEqual, "/tmp/cookies.txt")
			So(runner.infoCalls[0].CookiesFromBrowser, ShouldBeEmpty)
		})

		Convey("Non-family failures surface the raw provider error", func() {
			cause := &provider.Error{Message: "no extractor matched"}
			runner := &fakeRunner{err: cause}
			m := NewManager(runner, silentLadder(""))

			_, err := m.GetInfo(ctx, "https://example.com/v", noCreds)
			So(err, ShouldEqual, cause)
			So(runner.infoCalls, ShouldHaveLength, 1)
		})

		Convey("Family hosts run the ladder and succeed on the browser rung", func() {
			runner := &fakeRunner{
				failUntilBrowser: true,
				err:              &provider.Error{Message: "HTTP Error 403: Forbidden"},
				entries:          []*source.MediaEntry{entry},
			}
			m := NewManager(runner, silentLadder(""))

			entries, err := m.GetInfo(ctx, "https://twitter.com/user/status/1", noCreds)
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 1)
			So(runner.infoCalls, ShouldHaveLength, 2)
			So(runner.infoCalls[1].CookiesFromBrowser, ShouldEqual, "chrome")
		})

		Convey("An exhausted ladder returns the escalation error", func() {
			runner := &fakeRunner{err: &provider.Error{Message: "HTTP Error 403: Forbidden"}}
			m := NewManager(runner, silentLadder(""))

			_, err := m.GetInfo(ctx, "https://x.com/user/status/1", noCreds)
			var escErr *cookies.EscalationError
			So(errors.As(err, &escErr), ShouldBeTrue)
		})
	})

	Convey("Download", t, func() {
		Convey("A clean first attempt never escalates", func() {
			runner := &fakeRunner{}
			m := NewManager(runner, silentLadder("/tmp/cookies.txt"))

			err := m.Download(ctx, "https://example.com/v", "22", "out.mp4", noCreds, nil)
			So(err, ShouldBeNil)
			So(runner.downloadCalls, ShouldHaveLength, 1)
			So(runner.downloadCalls[0].CookieFile, ShouldEqual, "/tmp/cookies.txt")
		})

		Convey("A cookie-wall failure rolls the ladder even off-family", func() {
			runner := &fakeRunner{
				failUntilBrowser: true,
				err:              &provider.Error{Message: "Sign in to confirm you are not a bot"},
			}
			m := NewManager(runner, silentLadder(""))

			err := m.Download(ctx, "https://youtube.com/watch?v=1", "", "out.mp4", noCreds, nil)
			So(err, ShouldBeNil)

			// Direct attempt, ladder rung 0, then the browser rung.
			So(runner.downloadCalls, ShouldHaveLength, 3)
			So(runner.downloadCalls[2].CookiesFromBrowser, ShouldEqual, "chrome")
		})

		Convey("An unrelated failure is returned as-is", func() {
			cause := &provider.Error{Message: "requested format not available"}
			runner := &fakeRunner{err: cause}
			m := NewManager(runner, silentLadder(""))

			err := m.Download(ctx, "https://example.com/v", "", "out.mp4", noCreds, nil)
			So(err, ShouldEqual, cause)
			So(runner.downloadCalls, ShouldHaveLength, 1)
		})

		Convey("Family hosts escalate on any failure", func() {
			runner := &fakeRunner{
				failUntilBrowser: true,
				err:              &provider.Error{Message: "connection reset"},
			}
			m := NewManager(runner, silentLadder(""), WithHosts([]string{"twitter.com"}))

			err := m.Download(ctx, "https://twitter.com/user/status/1", "", "out.mp4", noCreds, nil)
			So(err, ShouldBeNil)
			So(runner.downloadCalls, ShouldHaveLength, 3)
		})
	})
}
