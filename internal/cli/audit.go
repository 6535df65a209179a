package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mrlokans/bookstore/internal/audit"
	"github.com/mrlokans/bookstore/internal/config"
	"github.com/mrlokans/bookstore/internal/database"
	auditdb "github.com/mrlokans/bookstore/internal/database/audit"
	"github.com/mrlokans/bookstore/internal/entities"
)

func newAuditCmd() *cobra.Command {
	var (
		limit     int
		username  string
		eventType string
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List recent audit events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch entities.AuditEventType(eventType) {
			case "", entities.AuditEventAuth, entities.AuditEventCatalog:
			default:
				return fmt.Errorf("unknown event type %q (want %q or %q)", eventType, entities.AuditEventAuth, entities.AuditEventCatalog)
			}

			cfg := config.NewConfig()
			db, err := database.NewDatabase(cfg.Database.Path, cfg.Database.LogSQL)
			if err != nil {
				return err
			}
			defer db.Close()

			auditor := audit.NewService(auditdb.NewRepository(db.DB))
			events, total, err := auditor.GetEvents(auditdb.EventFilter{
				AdminUsername: username,
				EventType:     entities.AuditEventType(eventType),
			}, limit, 0)
			if err != nil {
				return fmt.Errorf("loading audit events: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(events) == 0 {
				warn(out, "No audit events")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tADMIN\tACTION\tSTATUS\tDETAILS")
			for _, e := range events {
				status := string(e.Status)
				if e.Status == entities.AuditStatusFailed {
					status = color.RedString(status)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					e.AdminUsername, e.Action, status, eventDetails(e))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(out, "\n%d of %d events\n", len(events), total)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of events to show")
	cmd.Flags().StringVar(&username, "user", "", "Only show events of this admin")
	cmd.Flags().StringVar(&eventType, "type", "", "Only show events of this type (auth, catalog)")

	return cmd
}

func eventDetails(e entities.AuditEvent) string {
	if e.Description != "" {
		return e.Description
	}
	if e.IPAddress != "" {
		return "from " + e.IPAddress
	}
	return e.UserAgent
}
