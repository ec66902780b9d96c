// Package cmd implements the command-line interface for link2vid.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/link2vid/link2vid/constant"
	"github.com/link2vid/link2vid/icon"
	"github.com/link2vid/link2vid/key"
	"github.com/link2vid/link2vid/remux"
	"github.com/link2vid/link2vid/style"
	"github.com/link2vid/link2vid/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringP("format", "f", "", "Format selector or identifier to download")
	downloadCmd.Flags().StringP("output", "o", "", "Output directory (defaults to the configured downloads path)")
	downloadCmd.Flags().StringP("name", "n", "", "Output file name for playlist conversions")
	downloadCmd.Flags().StringP("referer", "r", "", "Referer header for playlist conversions")
	downloadCmd.Flags().StringP("username", "u", "", "Username for sites requiring a login")
	downloadCmd.Flags().StringP("password", "p", "", "Password for sites requiring a login")

	downloadCmd.SetOut(os.Stdout)
}

// downloadCmd saves a video or converts a raw HLS playlist into a local file.
var downloadCmd = &cobra.Command{
	Use:   "download [url]",
	Short: "Download a video, or convert a raw HLS playlist into a local file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		url := util.NormalizeURL(args[0])

		outDir := lo.Must(cmd.Flags().GetString("output"))
		if outDir == "" {
			outDir = viper.GetString(key.DownloadsPath)
		}

		if strings.Contains(url, ".m3u8") {
			convertPlaylist(cmd, url, outDir)
			return
		}

		CheckDependencies("yt-dlp")

		format := lo.Must(cmd.Flags().GetString("format"))
		if format == "" {
			format = viper.GetString(key.DownloadsFormat)
		}

		outPath := filepath.Join(outDir, "%(title)s.%(ext)s")
		progress := func(fraction float64) {
			fmt.Printf("\r%s Downloading... %3.0f%%", icon.Get(icon.Download), fraction*100)
		}

		manager := newManager(progressNotify)
		err := manager.Download(cmd.Context(), url, format, outPath, flagCredentials(cmd), progress)
		fmt.Println()
		handleErr(err)

		cmd.Printf("%s saved into %s\n", icon.Get(icon.Success), style.Bold(outDir))
	},
}

// convertPlaylist remuxes an HLS playlist URL into a local media file.
func convertPlaylist(cmd *cobra.Command, url, outDir string) {
	CheckDependencies("ffmpeg")

	name := lo.Must(cmd.Flags().GetString("name"))
	if name == "" {
		name = "video.mp4"
	}
	name = util.SanitizeFilename(name)

	headers := map[string]string{"User-Agent": constant.UserAgent}
	if referer := lo.Must(cmd.Flags().GetString("referer")); referer != "" {
		headers["Referer"] = referer
	}

	outPath := filepath.Join(outDir, name)
	erase := util.PrintErasable(fmt.Sprintf("%s Converting %s...", icon.Get(icon.Progress), url))
	err := remux.Run(cmd.Context(), remux.Job{
		PlaylistURL: url,
		Headers:     headers,
		OutPath:     outPath,
	})
	erase()
	handleErr(err)

	cmd.Printf("%s saved %s\n", icon.Get(icon.Success), style.Bold(outPath))
}
