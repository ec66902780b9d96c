// Package cmd implements the command-line interface for link2vid.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/link2vid/link2vid/color"
	"github.com/link2vid/link2vid/fetcher"
	"github.com/link2vid/link2vid/headless"
	"github.com/link2vid/link2vid/icon"
	"github.com/link2vid/link2vid/key"
	"github.com/link2vid/link2vid/source"
	"github.com/link2vid/link2vid/style"
	"github.com/link2vid/link2vid/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringP("username", "u", "", "Username for sites requiring a login")
	fetchCmd.Flags().StringP("password", "p", "", "Password for sites requiring a login")
	fetchCmd.Flags().BoolP("thumbnails", "t", false, "Pre-warm the preview image cache for the found entries")

	fetchCmd.SetOut(os.Stdout)
}

// fetchCmd resolves a page URL into playable media entries.
var fetchCmd = &cobra.Command{
	Use:   "fetch [url]",
	Short: "Resolve a page URL into playable media entries",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies("yt-dlp")

		url := util.NormalizeURL(args[0])
		creds := flagCredentials(cmd)

		f := fetcher.New(
			newManager(progressNotify).GetInfo,
			fetcher.WithNotify(progressNotify),
			fetcher.WithClassifier(fetcher.NewClassifier(
				viper.GetStringSlice(key.CookiesHosts),
				fetcher.CookieSignals,
			)),
		)

		outcome := f.Fetch(cmd.Context(), url, creds)
		switch o := outcome.(type) {
		case *source.Results:
			printWarning(o.Warning)
			printEntries(cmd, o.Entries)
			if lo.Must(cmd.Flags().GetBool("thumbnails")) {
				warmThumbnails(o.Entries)
			}
		case *source.DirectHlsFound:
			printWarning(o.Warning)
			printHls(cmd, o.Result)
		case *source.NeedsCookies:
			fmt.Printf("%s %s\n", icon.Get(icon.Lock), style.Faint("This content sits behind an authentication wall."))
			handleErr(fmt.Errorf(
				"%v\n%s", o.Cause,
				style.Faint("Set cookies.file in the config (or pass a cookies.txt when prompted) and retry."),
			))
		case *source.NeedsSelenium:
			printWarning(o.Cause)
			resolveHeadless(cmd.Context(), cmd, url)
		case *source.Failure:
			handleErr(o.Cause)
		}
	},
}

func flagCredentials(cmd *cobra.Command) mo.Option[source.Credentials] {
	username := lo.Must(cmd.Flags().GetString("username"))
	password := lo.Must(cmd.Flags().GetString("password"))
	if username == "" {
		return mo.None[source.Credentials]()
	}
	return mo.Some(source.Credentials{Username: username, Password: password})
}

func printWarning(warning error) {
	if warning == nil {
		return
	}
	fmt.Printf("%s %s\n", icon.Get(icon.Fail), style.Faint(warning.Error()))
}

func printEntries(cmd *cobra.Command, entries []*source.MediaEntry) {
	header := style.New().Bold(true).Foreground(color.HiPurple).Render
	cmd.Printf("%s %s\n\n", header(util.Quantify(len(entries), "entry", "entries")), header("found"))

	for _, entry := range entries {
		cmd.Printf("%s %s\n", icon.Get(icon.Video), entry)
	}
	cmd.Println()
	cmd.Println(style.Faint("Use 'link2vid download <url>' to save one of these."))
}

func printHls(cmd *cobra.Command, result *source.HlsScanResult) {
	cmd.Printf("%s Direct playlist: %s\n", icon.Get(icon.Video), style.Bold(result.PlaylistURL))

	for i := range result.Variants {
		cmd.Printf("  %s\n", &result.Variants[i])
	}
	cmd.Println(style.Faint("Use 'link2vid download' with this URL to convert it locally."))
}

// resolveHeadless is the last resort: a scripted login in a real browser.
func resolveHeadless(ctx context.Context, cmd *cobra.Command, url string) {
	if !promptConfirm("All automatic strategies failed. Try a headless browser login?") {
		handleErr(fmt.Errorf("no remaining strategy for %s", url))
		return
	}

	creds, err := promptCredentials(hostOf(viper.GetString(key.HeadlessLoginURL)))
	handleErr(err)

	erase := util.PrintErasable(fmt.Sprintf("%s Driving a headless browser...", icon.Get(icon.Progress)))
	playlist, err := headless.ResolvePlaylist(ctx, headlessConfig(), url, creds)
	erase()
	handleErr(err)

	if playlist == "" {
		handleErr(errors.New("the rendered page exposed no playlist"))
		return
	}
	printHls(cmd, &source.HlsScanResult{PlaylistURL: playlist})
}

// warmThumbnails pushes every entry's preview image through the cache so a
// later UI pass hits disk instead of the network.
func warmThumbnails(entries []*source.MediaEntry) {
	loader := newThumbnailLoader()
	size := source.Resolution{Width: 320, Height: 180}

	var wg sync.WaitGroup
	var hits int
	var mu sync.Mutex

	for _, entry := range entries {
		if entry.Thumbnail == "" {
			continue
		}
		wg.Add(1)
		loader.Submit(entry.Thumbnail, size, func(img image.Image) {
			if img != nil {
				mu.Lock()
				hits++
				mu.Unlock()
			}
			wg.Done()
		})
	}
	wg.Wait()

	fmt.Printf("%s cached %s\n", icon.Get(icon.Success), util.Quantify(hits, "preview image", "preview images"))
}
