package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/poyrazK/pdnsadmin/internal/core/domain"
	"github.com/poyrazK/pdnsadmin/internal/core/services"
	"github.com/poyrazK/pdnsadmin/internal/zonefile"
)

func (c *cli) zoneCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "zone", Short: "Manage zones"}
	cmd.AddCommand(
		c.zoneAddCmd(),
		c.zoneDeleteCmd(),
		c.zoneListCmd(),
		c.zoneTypeCmd(),
		c.zoneMasterCmd(),
		c.zoneOwnerCmd(),
		c.zoneTemplateCmd(),
		c.zoneCommentCmd(),
		c.zoneImportCmd(),
		c.zoneExportCmd(),
	)
	return cmd
}

func (c *cli) zoneAddCmd() *cobra.Command {
	var (
		zoneType string
		master   string
		template string
		owner    int64
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a zone, optionally from a zone template",
		Args:  cobra.ExactArgs(1),
		RunE: c.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			tmpl, err := domain.ParseTemplateRef(template)
			if err != nil {
				return err
			}
			if owner == 0 {
				owner = c.cfg.CLI.UserID
			}
			id, err := a.zones.AddDomain(cmd.Context(), services.NewZone{
				Name:        args[0],
				Owner:       owner,
				Type:        domain.ZoneType(zoneType),
				SlaveMaster: master,
				Template:    tmpl,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "zone %s added with id %d\n", args[0], id)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&zoneType, "type", "t", string(domain.ZoneMaster), "zone type: NATIVE, MASTER or SLAVE")
	cmd.Flags().StringVar(&master, "master", "", "comma separated master addresses of a SLAVE zone")
	cmd.Flags().StringVar(&template, "template", "none", "zone template id or none")
	cmd.Flags().Int64Var(&owner, "owner", 0, "owning user id (defaults to the configured user)")
	return cmd
}

func (c *cli) zoneDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <zone-id>...",
		Short: "Delete zones with their records and ownership",
		Args:  cobra.MinimumNArgs(1),
		RunE: c.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := parseID(arg, "zone id")
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			if len(ids) == 1 {
				if err := a.zones.DeleteDomain(cmd.Context(), ids[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "zone %d deleted\n", ids[0])
				return nil
			}
			deleted, err := a.zones.DeleteDomains(cmd.Context(), ids)
			for _, id := range deleted {
				fmt.Fprintf(cmd.OutOrStdout(), "zone %d deleted\n", id)
			}
			return err
		}),
	}
}

func (c *cli) zoneListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List zones",
		Args:  cobra.NoArgs,
		RunE: c.withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			zones, err := a.zones.ListDomains(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tMASTER")
			for _, z := range zones {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", z.ID, z.Name, z.Type, z.Master)
			}
			return w.Flush()
		}),
	}
}

func (c *cli) zoneTypeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "type <zone-id> <NATIVE|MASTER|SLAVE>",
		Short: "Change the type of a zone",
		Args:  cobra.ExactArgs(2),
		RunE: c.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "zone id")
			if err != nil {
				return err
			}
			zoneType, err := domain.ParseZoneType(args[1])
			if err != nil {
				return err
			}
			if err := a.zones.ChangeZoneType(cmd.Context(), zoneType, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "zone %d is now %s\n", id, zoneType)
			return nil
		}),
	}
}

func (c *cli) zoneMasterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "master <zone-id> <ip[,ip...]>",
		Short: "Change the masters of a SLAVE zone",
		Args:  cobra.ExactArgs(2),
		RunE: c.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "zone id")
			if err != nil {
				return err
			}
			if err := a.zones.ChangeZoneSlaveMaster(cmd.Context(), id, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "zone %d masters updated\n", id)
			return nil
		}),
	}
}

func (c *cli) zoneOwnerCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "owner", Short: "Manage zone owners"}
	ownerRun := func(add bool) func(*cobra.Command, []string) error {
		return c.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			zoneID, err := parseID(args[0], "zone id")
			if err != nil {
				return err
			}
			userID, err := parseID(args[1], "user id")
			if err != nil {
				return err
			}
			if add {
				err = a.zones.AddOwnerToZone(cmd.Context(), zoneID, userID)
			} else {
				err = a.zones.DeleteOwnerFromZone(cmd.Context(), zoneID, userID)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "zone %d owners updated\n", zoneID)
			return nil
		})
	}
	cmd.AddCommand(
		&cobra.Command{Use: "add <zone-id> <user-id>", Short: "Add an owner to a zone", Args: cobra.ExactArgs(2), RunE: ownerRun(true)},
		&cobra.Command{Use: "remove <zone-id> <user-id>", Short: "Remove an owner from a zone", Args: cobra.ExactArgs(2), RunE: ownerRun(false)},
		&cobra.Command{
			Use:   "list <zone-id>",
			Short: "List the owners of a zone",
			Args:  cobra.ExactArgs(1),
			RunE: c.withApp(func(cmd *cobra.Command, args []string, a *app) error {
				zoneID, err := parseID(args[0], "zone id")
				if err != nil {
					return err
				}
				owners, err := a.zones.GetZoneOwners(cmd.Context(), zoneID)
				if err != nil {
					return err
				}
				for _, o := range owners {
					fmt.Fprintln(cmd.OutOrStdout(), o.Owner)
				}
				return nil
			}),
		},
	)
	return cmd
}

func (c *cli) zoneTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "template", Short: "Apply zone templates"}
	cmd.AddCommand(&cobra.Command{
		Use:   "apply <zone-id> <template-id|none>",
		Short: "Replace the template records of a zone",
		Args:  cobra.ExactArgs(2),
		RunE: c.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "zone id")
			if err != nil {
				return err
			}
			tmpl, err := domain.ParseTemplateRef(args[1])
			if err != nil {
				return err
			}
			if err := a.zones.UpdateZoneRecords(cmd.Context(), id, tmpl); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "zone %d synchronised with template %s\n", id, tmpl)
			return nil
		}),
	})
	return cmd
}

func (c *cli) zoneCommentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comment <zone-id> [comment]",
		Short: "Show or set the comment of a zone",
		Args:  cobra.RangeArgs(1, 2),
		RunE: c.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "zone id")
			if err != nil {
				return err
			}
			if len(args) == 1 {
				comment, err := a.records.GetZoneComment(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), comment)
				return nil
			}
			return a.records.EditZoneComment(cmd.Context(), id, args[1])
		}),
	}
}

func (c *cli) zoneImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <zone-id> <file>",
		Short: "Add the records of a master file to a zone; SOA records are skipped",
		Args:  cobra.ExactArgs(2),
		RunE: c.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "zone id")
			if err != nil {
				return err
			}
			d, err := a.zones.GetDomain(cmd.Context(), id)
			if err != nil {
				return err
			}
			if d == nil {
				return fmt.Errorf("zone %d not found", id)
			}

			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			inputs, err := zonefile.Parse(f, d.Name)
			if err != nil {
				return err
			}

			var added, skipped, failed int
			for _, in := range inputs {
				if in.Type == domain.TypeSOA {
					skipped++
					continue
				}
				in.ZoneID = id
				if err := a.records.AddRecord(cmd.Context(), in); err != nil {
					if !domain.IsSoft(err) {
						return err
					}
					failed++
					continue
				}
				added++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d records into %s (%d skipped, %d refused)\n", added, d.Name, skipped, failed)
			if failed > 0 {
				return errors.New("some records were refused")
			}
			return nil
		}),
	}
}

func (c *cli) zoneExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <zone-id>",
		Short: "Write the records of a zone as a master file",
		Args:  cobra.ExactArgs(1),
		RunE: c.withApp(func(cmd *cobra.Command, args []string, a *app) error {
			id, err := parseID(args[0], "zone id")
			if err != nil {
				return err
			}
			d, err := a.zones.GetDomain(cmd.Context(), id)
			if err != nil {
				return err
			}
			if d == nil {
				return fmt.Errorf("zone %d not found", id)
			}
			recs, err := a.records.ListRecords(cmd.Context(), id)
			if err != nil {
				return err
			}
			return zonefile.Write(cmd.OutOrStdout(), d.Name, recs)
		}),
	}
}
