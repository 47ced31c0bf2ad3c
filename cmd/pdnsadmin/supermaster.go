package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *cli) supermasterCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "supermaster", Short: "Manage supermasters (autoprimaries)"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <ip> <nameserver> <account>",
			Short: "Register a supermaster",
			Args:  cobra.ExactArgs(3),
			RunE: c.withApp(func(cmd *cobra.Command, args []string, a *app) error {
				if err := a.supermasters.AddSupermaster(cmd.Context(), args[0], args[1], args[2]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "supermaster %s (%s) added\n", args[0], args[1])
				return nil
			}),
		},
		&cobra.Command{
			Use:   "delete <ip> <nameserver>",
			Short: "Remove a supermaster",
			Args:  cobra.ExactArgs(2),
			RunE: c.withApp(func(cmd *cobra.Command, args []string, a *app) error {
				if err := a.supermasters.DeleteSupermaster(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "supermaster %s (%s) deleted\n", args[0], args[1])
				return nil
			}),
		},
		&cobra.Command{
			Use:   "list",
			Short: "List supermasters",
			Args:  cobra.NoArgs,
			RunE: c.withApp(func(cmd *cobra.Command, _ []string, a *app) error {
				list, err := a.supermasters.GetSupermasters(cmd.Context())
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "IP\tNAMESERVER\tACCOUNT")
				for _, sm := range list {
					fmt.Fprintf(w, "%s\t%s\t%s\n", sm.IP, sm.Nameserver, sm.Account)
				}
				return w.Flush()
			}),
		},
	)
	return cmd
}
