// Command mentorctl works with the mentorship API from a terminal: attendance reports and
// edits, leave review and the user list.
package main

import (
	"context"
	"fmt"
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"mentorship/internal/apiclient"
	"mentorship/internal/config"
	"mentorship/internal/dashboard"
	"mentorship/internal/logger"
)

type app struct {
	cfg      config.App
	baseURL  string
	email    string
	password string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Load()}
	root := &cobra.Command{
		Use:           "mentorctl",
		Short:         "Mentorship program attendance and leave from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(a.cfg.LogLevel, a.cfg.LogFormat)
		},
	}
	root.PersistentFlags().StringVar(&a.baseURL, "base-url", a.cfg.APIBaseURL, "API base URL")
	root.PersistentFlags().StringVar(&a.email, "email", a.cfg.CLIEmail, "login email (MENTORCTL_EMAIL)")
	root.PersistentFlags().StringVar(&a.password, "password", a.cfg.CLIPassword, "login password (MENTORCTL_PASSWORD)")
	root.PersistentFlags().StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "debug|info|warn|error")

	root.AddCommand(newAttendanceCmd(a), newLeaveCmd(a), newUsersCmd(a))
	return root
}

// login opens an authenticated session for the configured account.
func (a *app) login(ctx context.Context) (*apiclient.Client, dashboard.Viewer, error) {
	if a.email == "" || a.password == "" {
		return nil, dashboard.Viewer{}, pkgerrors.New("--email and --password (or MENTORCTL_EMAIL and MENTORCTL_PASSWORD) are required")
	}
	api, err := apiclient.New(apiclient.Options{
		BaseURL:   a.baseURL,
		Timeout:   a.cfg.APITimeout,
		LoginPath: a.cfg.LoginPath,
		OnSessionExpired: func() {
			fmt.Fprintln(os.Stderr, "session expired, run the command again to log in")
		},
	})
	if err != nil {
		return nil, dashboard.Viewer{}, err
	}
	claims, err := api.Login(ctx, a.email, a.password)
	if err != nil {
		return nil, dashboard.Viewer{}, err
	}
	return api, dashboard.ViewerFrom(claims), nil
}
