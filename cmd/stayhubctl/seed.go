package main

import (
	"context"

	"github.com/spf13/cobra"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	availabilityapp "stayhub/internal/app/handlers/availability"
	"stayhub/internal/app/registry"
	domainauth "stayhub/internal/domain/auth"
	"stayhub/internal/domain/user"
)

// operatorContext carries an admin principal so the authorization
// middleware accepts CLI commands.
func operatorContext(ctx context.Context) context.Context {
	return domainauth.ContextWithPrincipal(ctx, domainauth.Principal{
		UserID: user.ID("stayhubctl"),
		Roles:  []user.Role{user.RoleAdmin},
	})
}

func seedCmd() *cobra.Command {
	var days int
	var from string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Extend or repair availability calendars",
	}
	cmd.PersistentFlags().IntVar(&days, "days", 0, "Horizon in days (0 uses the configured default)")
	cmd.PersistentFlags().StringVar(&from, "from", "", "First day to seed, YYYY-MM-DD (default today)")

	cmd.AddCommand(&cobra.Command{
		Use:   "room <room-id>",
		Short: "Reseed one room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBuses(cmd.Context(), func(b registry.Buses) error {
				report, err := commands.Dispatch[availabilityapp.ReseedRoomCommand, *dto.SeedReport](
					operatorContext(cmd.Context()), b.Commands,
					availabilityapp.ReseedRoomCommand{RoomID: args[0], Days: days, From: from},
				)
				if err != nil {
					return err
				}
				return printJSON(report)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "room-type <room-type-id>",
		Short: "Reseed every room of a room type and its rates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBuses(cmd.Context(), func(b registry.Buses) error {
				report, err := commands.Dispatch[availabilityapp.ReseedRoomTypeCommand, *dto.SeedReport](
					operatorContext(cmd.Context()), b.Commands,
					availabilityapp.ReseedRoomTypeCommand{RoomTypeID: args[0], Days: days, From: from},
				)
				if err != nil {
					return err
				}
				return printJSON(report)
			})
		},
	})
	return cmd
}
