package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sm8ta/webike_bike_registry/internal/core/ports"
)

// Bootstrap opens the registry for a single command. The returned func
// releases everything it opened.
type Bootstrap func(ctx context.Context) (ports.BikeService, func(), error)

// FormCmd starts the interactive bike editor.
func FormCmd(bootstrap Bootstrap) *cobra.Command {
	return &cobra.Command{
		Use:   "form",
		Short: "Edit bikes interactively",
		Long: `Opens the bike editor. Enter a frame number to load or create a bike,
fill in the fields and save. An empty frame number quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, closeFn, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			return RunForm(cmd.Context(), NewForm(service), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// ShowCmd prints a bike, or a note that the frame number is not registered.
func ShowCmd(bootstrap Bootstrap) *cobra.Command {
	return &cobra.Command{
		Use:   "show [frame-number]",
		Short: "Show a bike",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, closeFn, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			bike, err := service.SelectBike(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load bike: %w", err)
			}

			out := cmd.OutOrStdout()
			if bike.IsNew() {
				fmt.Fprintf(out, "Bike %s is not registered\n", bike.FrameNumber)
				return nil
			}

			fields := fieldsFrom(bike)
			fmt.Fprintf(out, "Frame number:   %s\n", fields.FrameNumber)
			fmt.Fprintf(out, "Brand/type:     %s\n", fields.BrandType)
			fmt.Fprintf(out, "Description:    %s\n", fields.Description)
			fmt.Fprintf(out, "Price:          %s\n", fields.Price)
			fmt.Fprintf(out, "Available from: %s\n", fields.AvailableDate)
			fmt.Fprintf(out, "Color:          %s\n", fields.Color)
			return nil
		},
	}
}

// SaveCmd registers or updates a bike from flags. Flags that are not set
// keep the stored value.
func SaveCmd(bootstrap Bootstrap) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save [frame-number]",
		Short: "Register or update a bike",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, closeFn, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			form := NewForm(service)
			if err := form.Select(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to load bike: %w", err)
			}

			fields := form.Fields()
			flags := cmd.Flags()
			overrides := []struct {
				name  string
				value *string
			}{
				{"brand", &fields.BrandType},
				{"description", &fields.Description},
				{"price", &fields.Price},
				{"date", &fields.AvailableDate},
				{"color", &fields.Color},
			}
			for _, o := range overrides {
				if flags.Changed(o.name) {
					*o.value, _ = flags.GetString(o.name)
				}
			}

			if err := form.Submit(fields); err != nil {
				return err
			}

			result, err := form.Save(cmd.Context())
			if err != nil {
				return err
			}

			infoColor.Fprintf(cmd.OutOrStdout(), "Ok, bike saved! (%s)\n", result)
			return nil
		},
	}

	cmd.Flags().String("brand", "", "brand and type")
	cmd.Flags().String("description", "", "description")
	cmd.Flags().String("price", "", "price, e.g. 450.00")
	cmd.Flags().String("date", "", "available from, YYYY-MM-DD")
	cmd.Flags().String("color", "", "one of "+colorNames())
	return cmd
}

// ServeCmd runs the HTTP API until the process is interrupted.
func ServeCmd(serve func(ctx context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}
