// Package cmd implements the command-line interface for link2vid.
package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/link2vid/link2vid/color"
	"github.com/link2vid/link2vid/icon"
	"github.com/link2vid/link2vid/style"
	"github.com/charmbracelet/lipgloss"
)

// CheckDependencies verifies the availability of required system dependencies.
// Metadata extraction needs 'yt-dlp'; playlist conversion additionally needs 'ffmpeg'.
func CheckDependencies(deps ...string) {
	for _, dep := range deps {
		if _, err := exec.LookPath(dep); err != nil {
			printMissingDependencyError(dep)
			os.Exit(1)
		}
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case "darwin":
		installCmd = "brew install " + dep
	case "linux":
		installCmd = "sudo apt install " + dep
	case "windows":
		installCmd = "scoop install " + dep
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(color.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep)

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(color.HiYellow).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
