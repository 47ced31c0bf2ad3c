package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/poyrazK/pdnsadmin/internal/core/domain"
)

func (c *cli) templateCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "template", Short: "Manage zone templates"}

	var description string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty zone template",
		Args:  cobra.ExactArgs(1),
		RunE: c.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := a.templates.CreateTemplate(cmd.Context(), domain.ZoneTemplate{
				Name:        args[0],
				Description: description,
				Owner:       c.cfg.CLI.UserID,
			}, nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "template %s created with id %d\n", args[0], id)
			return nil
		}),
	}
	create.Flags().StringVar(&description, "description", "", "template description")

	var ttl, prio int
	addRecord := &cobra.Command{
		Use:   "add-record <template-id> <name> <type> <content>",
		Short: "Append a record to a template; name and content may use [ZONE], [SERIAL], [NS1]..[NS4] and [HOSTMASTER]",
		Args:  cobra.ExactArgs(4),
		RunE: c.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			tmplID, err := parseID(args[0], "template id")
			if err != nil {
				return err
			}
			id, err := a.templates.AddTemplateRecord(cmd.Context(), domain.TemplateRecord{
				TemplateID: tmplID,
				Name:       args[1],
				Type:       domain.RecordType(strings.ToUpper(args[2])),
				Content:    args[3],
				TTL:        ttl,
				Prio:       prio,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "template record %d added\n", id)
			return nil
		}),
	}
	addRecord.Flags().IntVar(&ttl, "ttl", 0, "TTL in seconds (0 uses the configured default)")
	addRecord.Flags().IntVar(&prio, "prio", 0, "priority for MX and SRV records")

	list := &cobra.Command{
		Use:   "list",
		Short: "List zone templates",
		Args:  cobra.NoArgs,
		RunE: c.withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			templates, err := a.templates.ListTemplates(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tOWNER\tDESCRIPTION")
			for _, t := range templates {
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", t.ID, t.Name, t.Owner, t.Description)
			}
			return w.Flush()
		}),
	}

	cmd.AddCommand(create, addRecord, list)
	return cmd
}
