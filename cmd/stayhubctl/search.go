package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stayhub/internal/app/dto"
	searchapp "stayhub/internal/app/handlers/search"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/registry"
)

func searchCmd() *cobra.Command {
	var q searchapp.SearchStaysQuery

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search for stays with free capacity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if q.CheckIn == "" || q.CheckOut == "" {
				return fmt.Errorf("--check-in and --check-out are required")
			}
			return withBuses(cmd.Context(), func(b registry.Buses) error {
				result, err := queries.Ask[searchapp.SearchStaysQuery, dto.StaySearch](cmd.Context(), b.Queries, q)
				if err != nil {
					return err
				}
				return printJSON(result)
			})
		},
	}
	cmd.Flags().StringVar(&q.CheckIn, "check-in", "", "Check-in day, YYYY-MM-DD")
	cmd.Flags().StringVar(&q.CheckOut, "check-out", "", "Check-out day, YYYY-MM-DD")
	cmd.Flags().IntVar(&q.Adults, "adults", 1, "Adults")
	cmd.Flags().IntVar(&q.Children, "children", 0, "Children")
	cmd.Flags().IntVar(&q.Infants, "infants", 0, "Infants")
	cmd.Flags().IntVar(&q.Rooms, "rooms", 0, "Minimum number of rooms")
	cmd.Flags().BoolVar(&q.InfantsUseBed, "infants-use-bed", false, "Count infants as bed occupants")
	return cmd
}
