package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/poyrazK/pdnsadmin/internal/core/domain"
)

func (c *cli) recordCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "record", Short: "Manage records"}
	cmd.AddCommand(c.recordAddCmd(), c.recordEditCmd(), c.recordDeleteCmd(), c.recordListCmd())
	return cmd
}

func (c *cli) recordAddCmd() *cobra.Command {
	var (
		ttl, prio int
		disabled  bool
	)
	cmd := &cobra.Command{
		Use:   "add <zone-id> <name> <type> <content>",
		Short: "Add a record to a zone",
		Args:  cobra.ExactArgs(4),
		RunE: c.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			zoneID, err := parseID(args[0], "zone id")
			if err != nil {
				return err
			}
			id, err := a.records.AddRecordGetID(cmd.Context(), domain.RecordInput{
				ZoneID:   zoneID,
				Name:     args[1],
				Type:     domain.RecordType(strings.ToUpper(args[2])),
				Content:  args[3],
				TTL:      ttl,
				Prio:     prio,
				Disabled: disabled,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "record %d added\n", id)
			return nil
		}),
	}
	cmd.Flags().IntVar(&ttl, "ttl", 0, "TTL in seconds (0 uses the configured default)")
	cmd.Flags().IntVar(&prio, "prio", 0, "priority for MX and SRV records")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "add the record disabled")
	return cmd
}

func (c *cli) recordEditCmd() *cobra.Command {
	var (
		name, recType, content string
		ttl, prio              int
		disabled               bool
	)
	cmd := &cobra.Command{
		Use:   "edit <record-id>",
		Short: "Change a record; only the given flags are modified",
		Args:  cobra.ExactArgs(1),
		RunE: c.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "record id")
			if err != nil {
				return err
			}
			rec, err := a.records.GetRecord(cmd.Context(), id)
			if err != nil {
				return err
			}
			if rec == nil {
				return fmt.Errorf("record %d not found", id)
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				rec.Name = name
			}
			if flags.Changed("type") {
				rec.Type = domain.RecordType(strings.ToUpper(recType))
			}
			if flags.Changed("content") {
				rec.Content = content
			}
			if flags.Changed("ttl") {
				rec.TTL = ttl
			}
			if flags.Changed("prio") {
				rec.Prio = prio
			}
			if flags.Changed("disabled") {
				rec.Disabled = disabled
			}

			if err := a.records.EditRecord(cmd.Context(), *rec); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "record %d updated\n", id)
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "owner name")
	cmd.Flags().StringVar(&recType, "type", "", "record type")
	cmd.Flags().StringVar(&content, "content", "", "record content")
	cmd.Flags().IntVar(&ttl, "ttl", 0, "TTL in seconds")
	cmd.Flags().IntVar(&prio, "prio", 0, "priority")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "disable the record")
	return cmd
}

func (c *cli) recordDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <record-id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: c.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "record id")
			if err != nil {
				return err
			}
			if err := a.records.DeleteRecord(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "record %d deleted\n", id)
			return nil
		}),
	}
}

func (c *cli) recordListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <zone-id>",
		Short: "List the records of a zone",
		Args:  cobra.ExactArgs(1),
		RunE: c.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "zone id")
			if err != nil {
				return err
			}
			recs, err := a.records.ListRecords(cmd.Context(), id)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tTTL\tPRIO\tCONTENT\tDISABLED")
			for _, r := range recs {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%s\t%t\n", r.ID, r.Name, r.Type, r.TTL, r.Prio, r.Content, r.Disabled)
			}
			return w.Flush()
		}),
	}
}
