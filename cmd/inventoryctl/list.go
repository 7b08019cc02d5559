package main

import (
	"github.com/spf13/cobra"

	"github.com/kdcar/kdcar-backend/internal/inventory"
)

type listFlags struct {
	search       string
	vehicleMake  string
	model        string
	transmission string
	fuelType     string
	vehicleType  string
	minPrice     int64
	maxPrice     int64
	minPower     int64
	maxPower     int64
	page         int
	limit        int
}

func (f listFlags) filters(cmd *cobra.Command) inventory.Filters {
	out := inventory.Filters{
		Search:       f.search,
		Make:         f.vehicleMake,
		Model:        f.model,
		Transmission: f.transmission,
		FuelType:     f.fuelType,
		VehicleType:  f.vehicleType,
	}
	changed := cmd.Flags().Changed
	if changed("min-price") {
		out.MinPrice = &f.minPrice
	}
	if changed("max-price") {
		out.MaxPrice = &f.maxPrice
	}
	if changed("min-power") {
		out.MinPower = &f.minPower
	}
	if changed("max-power") {
		out.MaxPower = &f.maxPower
	}
	if changed("page") {
		out.Page = &f.page
	}
	if changed("limit") {
		out.Limit = &f.limit
	}
	return out
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cars the way GET /api/cars does",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			svc, err := opts.service(ctx, opts.logger(cmd))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), svc.ListCars(ctx, f.filters(cmd)))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.search, "search", "", "case-insensitive text search over make, model and title")
	flags.StringVar(&f.vehicleMake, "make", "", "exact make")
	flags.StringVar(&f.model, "model", "", "exact model")
	flags.StringVar(&f.transmission, "transmission", "", "exact transmission")
	flags.StringVar(&f.fuelType, "fuel-type", "", "exact fuel type")
	flags.StringVar(&f.vehicleType, "vehicle-type", "", "exact vehicle type")
	flags.Int64Var(&f.minPrice, "min-price", 0, "minimum price")
	flags.Int64Var(&f.maxPrice, "max-price", 0, "maximum price")
	flags.Int64Var(&f.minPower, "min-power", 0, "minimum power")
	flags.Int64Var(&f.maxPower, "max-power", 0, "maximum power")
	flags.IntVar(&f.page, "page", 1, "page to request from the inventory API")
	flags.IntVar(&f.limit, "limit", 12, "page size to request from the inventory API")
	return cmd
}

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <slug>",
		Short: "Fetch one car the way GET /api/cars/{slug} does",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			svc, err := opts.service(ctx, opts.logger(cmd))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), svc.GetCar(ctx, args[0]))
		},
	}
}
