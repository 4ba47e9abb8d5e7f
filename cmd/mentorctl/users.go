package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mentorship/internal/people"
	"mentorship/internal/profiles"
)

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Program members"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List users with their profile kind (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, _, err := a.login(cmd.Context())
			if err != nil {
				return err
			}
			list, err := people.NewRepository(api).List(cmd.Context())
			if err != nil {
				return err
			}
			all, err := profiles.NewRepository(api).List(cmd.Context())
			if err != nil {
				return err
			}
			byUser := make(map[int]*profiles.Profile, len(all))
			for i := range all {
				byUser[all[i].UserID] = &all[i]
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tMENTOR\tPROFILE")
			for _, p := range list {
				mentor := "-"
				if p.MentorID != nil {
					mentor = fmt.Sprint(*p.MentorID)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.FullName, p.Email, p.Role, mentor, profiles.Classify(byUser[p.ID]))
			}
			return tw.Flush()
		},
	})
	return cmd
}
