// Package cmd implements the command-line interface for link2vid.
package cmd

import (
	"github.com/AlecAivazis/survey/v2"
	"github.com/link2vid/link2vid/auth"
	"github.com/link2vid/link2vid/log"
	"github.com/link2vid/link2vid/source"
)

// promptConfirm asks a yes/no question, defaulting to yes. A failed terminal
// interaction counts as a decline.
func promptConfirm(question string) bool {
	var answer bool
	if err := survey.AskOne(&survey.Confirm{Message: question, Default: true}, &answer); err != nil {
		log.Warnf("confirmation prompt failed: %v", err)
		return false
	}
	return answer
}

// promptCookieFile asks for a cookies.txt path. An empty answer declines.
func promptCookieFile() string {
	var path string
	prompt := &survey.Input{
		Message: "Path to a cookies.txt file:",
		Suggest: func(toComplete string) []string {
			return nil
		},
	}
	if err := survey.AskOne(prompt, &path); err != nil {
		log.Warnf("cookie file prompt failed: %v", err)
		return ""
	}
	return path
}

// promptCredentials resolves credentials for host: the system keyring first,
// then an interactive prompt with an offer to remember the answer.
func promptCredentials(host string) (source.Credentials, error) {
	if creds, err := auth.GetCredentials(host); err == nil {
		return creds, nil
	}

	creds, err := askCredentials(host)
	if err != nil {
		return creds, err
	}

	if promptConfirm("Remember these credentials in the system keyring?") {
		if err := auth.SetCredentials(host, creds); err != nil {
			log.Warnf("storing credentials for %s failed: %v", host, err)
		}
	}
	return creds, nil
}

// askCredentials runs the interactive username/password prompt for host.
func askCredentials(host string) (source.Credentials, error) {
	var creds source.Credentials
	questions := []*survey.Question{
		{
			Name:     "username",
			Prompt:   &survey.Input{Message: "Username for " + host + ":"},
			Validate: survey.Required,
		},
		{
			Name:     "password",
			Prompt:   &survey.Password{Message: "Password:"},
			Validate: survey.Required,
		},
	}
	err := survey.Ask(questions, &creds)
	return creds, err
}
