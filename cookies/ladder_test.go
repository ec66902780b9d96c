package cookies

import (
	"context"
	"errors"
	"testing"

	"github.com/link2vid/link2vid/provider"
	. "github.com/smartystreets/goconvey/convey"
)

// attemptRecorder captures the authentication options of every rung attempt.
type attemptRecorder struct {
	opts []provider.Options
	errs []error
}

func (r *attemptRecorder) attempt(_ context.Context, opts provider.Options) error {
	r.opts = append(r.opts, opts)
	if len(r.errs) == 0 {
		return nil
	}
	err := r.errs[0]
	r.errs = r.errs[1:]
	return err
}

func TestLadderRun(t *testing.T) {
	ctx := context.Background()

	Convey("Ladder Run", t, func() {
		Convey("Rung 0 success short-circuits the ladder", func() {
			rec := &attemptRecorder{}
			ladder := NewLadder(Hooks{CookieFile: func() string { return "/c/cookies.txt" }}, "chrome", nil)

			err := ladder.Run(ctx, provider.Options{}, rec.attempt)
			So(err, ShouldBeNil)
			So(rec.opts, ShouldHaveLength, 1)
			So(rec.opts[0].CookieFile, ShouldEqual, "/c/cookies.txt")
			So(rec.opts[0].CookiesFromBrowser, ShouldBeEmpty)
		})

		Convey("Rung 0 failure escalates to the browser session", func() {
			rec := &attemptRecorder{errs: []error{errors.New("403 Forbidden")}}
			ladder := NewLadder(Hooks{}, "chrome", nil)

			err := ladder.Run(ctx, provider.Options{}, rec.attempt)
			So(err, ShouldBeNil)
			So(rec.opts, ShouldHaveLength, 2)
			So(rec.opts[1].CookiesFromBrowser, ShouldEqual, "chrome")
			So(rec.opts[1].CookieFile, ShouldBeEmpty)
		})

		Convey("Rung 1 failure without approval is terminal", func() {
			first := errors.New("first failure")
			second := errors.New("second failure")
			rec := &attemptRecorder{errs: []error{first, second}}
			ladder := NewLadder(Hooks{Confirm: func(string) bool { return false }}, "chrome", nil)

			err := ladder.Run(ctx, provider.Options{}, rec.attempt)
			So(err, ShouldNotBeNil)
			So(rec.opts, ShouldHaveLength, 2)

			var esc *EscalationError
			So(errors.As(err, &esc), ShouldBeTrue)
			So(esc.Rung, ShouldEqual, RungBrowser)

			Convey("The cause chain retains both rung errors", func() {
				So(errors.Is(err, second), ShouldBeTrue)
				So(errors.Is(err, first), ShouldBeTrue)
			})
		})

		Convey("A credential-store failure escalates without confirmation", func() {
			rec := &attemptRecorder{errs: []error{
				errors.New("no cookies found"),
				errors.New("Failed to decrypt with DPAPI"),
			}}
			var confirmed bool
			ladder := NewLadder(Hooks{
				Confirm:        func(string) bool { confirmed = true; return false },
				PickCookieFile: func() string { return "/picked/cookies.txt" },
			}, "edge", nil)

			err := ladder.Run(ctx, provider.Options{}, rec.attempt)
			So(err, ShouldBeNil)
			So(confirmed, ShouldBeFalse)
			So(rec.opts, ShouldHaveLength, 3)

			Convey("The manual rung uses the picked file exclusively", func() {
				So(rec.opts[2].CookieFile, ShouldEqual, "/picked/cookies.txt")
				So(rec.opts[2].CookiesFromBrowser, ShouldBeEmpty)
			})
		})

		Convey("A configured cookie file skips the picker on the manual rung", func() {
			rec := &attemptRecorder{errs: []error{
				errors.New("a"),
				errors.New("b"),
			}}
			var picked bool
			ladder := NewLadder(Hooks{
				CookieFile:     func() string { return "/stored/cookies.txt" },
				PickCookieFile: func() string { picked = true; return "" },
				Confirm:        func(string) bool { return true },
			}, "chrome", nil)

			err := ladder.Run(ctx, provider.Options{}, rec.attempt)
			So(err, ShouldBeNil)
			So(picked, ShouldBeFalse)
			So(rec.opts[2].CookieFile, ShouldEqual, "/stored/cookies.txt")
		})

		Convey("Declining the picker propagates the browser error", func() {
			second := errors.New("browser cookies unreadable")
			rec := &attemptRecorder{errs: []error{errors.New("a"), second}}
			ladder := NewLadder(Hooks{
				Confirm:        func(string) bool { return true },
				PickCookieFile: func() string { return "" },
			}, "chrome", nil)

			err := ladder.Run(ctx, provider.Options{}, rec.attempt)
			So(errors.Is(err, second), ShouldBeTrue)
			So(rec.opts, ShouldHaveLength, 2)
		})

		Convey("A failed manual attempt still propagates the browser error", func() {
			second := errors.New("browser failure")
			rec := &attemptRecorder{errs: []error{
				errors.New("a"),
				second,
				errors.New("manual failure"),
			}}
			ladder := NewLadder(Hooks{
				Confirm:        func(string) bool { return true },
				PickCookieFile: func() string { return "/picked/cookies.txt" },
			}, "chrome", nil)

			err := ladder.Run(ctx, provider.Options{}, rec.attempt)
			var esc *EscalationError
			So(errors.As(err, &esc), ShouldBeTrue)
			So(esc.Rung, ShouldEqual, RungManual)
			So(errors.Is(err, second), ShouldBeTrue)
		})

		Convey("Base options carry through every rung unchanged", func() {
			rec := &attemptRecorder{errs: []error{errors.New("a")}}
			ladder := NewLadder(Hooks{}, "chrome", nil)

			base := provider.Options{}
			err := ladder.Run(ctx, base, rec.attempt)
			So(err, ShouldBeNil)
			So(rec.opts[0].Credentials, ShouldResemble, base.Credentials)
			So(rec.opts[1].Credentials, ShouldResemble, base.Credentials)
		})
	})
}

func TestIsCredentialStoreFailure(t *testing.T) {
	Convey("IsCredentialStoreFailure", t, func() {
		So(IsCredentialStoreFailure(errors.New("DPAPI decryption failed")), ShouldBeTrue)
		So(IsCredentialStoreFailure(errors.New("could not open keyring")), ShouldBeTrue)
		So(IsCredentialStoreFailure(errors.New("403 Forbidden")), ShouldBeFalse)
		So(IsCredentialStoreFailure(nil), ShouldBeFalse)
	})
}

func TestRungString(t *testing.T) {
	Convey("Rung String", t, func() {
		So(RungCookieFile.String(), ShouldEqual, "cookie file")
		So(RungBrowser.String(), ShouldEqual, "browser session")
		So(RungManual.String(), ShouldEqual, "manual cookie file")
		So(Rung(42).String(), ShouldEqual, "unknown")
	})
}
