// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/wneessen/agriwatch/internal/export"
	"github.com/wneessen/agriwatch/internal/gazetteer"
	"github.com/wneessen/agriwatch/internal/observability"
	"github.com/wneessen/agriwatch/internal/server"
	"github.com/wneessen/agriwatch/internal/service"
	"github.com/wneessen/agriwatch/internal/synthetic"
)

type setupFunc func() (*app, error)

func serveCmd(setup setupFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and refresh the regional snapshot periodically",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), a)
		},
	}
}

func runServe(ctx context.Context, a *app) error {
	metrics := observability.NewMetrics()
	opts := []service.Option{service.WithMetrics(metrics)}
	if a.conf.Export.Enabled {
		pub, err := export.NewPublisher(a.conf.Export.Brokers, a.conf.Export.Topic, a.log, metrics)
		if err != nil {
			return fmt.Errorf("failed to create snapshot publisher: %w", err)
		}
		opts = append(opts, service.WithPublisher(pub))
	}
	serv, err := a.service(opts...)
	if err != nil {
		return err
	}
	srv, err := server.New(a.conf.Server.Listen, serv, a.log)
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	a.log.Info(a.lang.Get("starting agriwatch service"), slog.String("version", version),
		slog.String("commit", commit), slog.String("date", date))
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return serv.Run(groupCtx)
	})
	group.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.conf.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	err = group.Wait()
	a.log.Info(a.lang.Get("shutting down agriwatch service"))
	return err
}

func reportCmd(setup setupFunc) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "report [region place]",
		Short: "Show weather, risk and forecast of a place (default place if omitted)",
		Args:  placeArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			serv, err := a.service()
			if err != nil {
				return err
			}
			region, place := placeFromArgs(serv, args)
			report, err := serv.PlaceReport(cmd.Context(), region, place)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			return serv.WriteReport(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}

func regionalCmd(setup setupFunc) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "regional",
		Short: "Show the risk overview of every place",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			serv, err := a.service()
			if err != nil {
				return err
			}
			snapshot, err := serv.RefreshSnapshot(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), snapshot)
			}
			return serv.WriteRegional(cmd.OutOrStdout(), snapshot)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}

func fieldCmd(setup setupFunc) *cobra.Command {
	var asJSON, wide bool
	cmd := &cobra.Command{
		Use:   "field <kind> [region place]",
		Short: "Generate the satellite field of a place, or the region-wide field with --regional",
		Args:  placeArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := synthetic.ParseKind(args[0])
			if err != nil {
				return err
			}
			a, err := setup()
			if err != nil {
				return err
			}
			serv, err := a.service()
			if err != nil {
				return err
			}
			var field *synthetic.Field
			if wide {
				field, err = serv.RegionalField(kind)
			} else {
				region, place := placeFromArgs(serv, args[1:])
				field, err = serv.Field(cmd.Context(), kind, region, place)
			}
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), field)
			}
			return writeFieldSummary(cmd.OutOrStdout(), field, kind.Status())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the complete grid as JSON")
	cmd.Flags().BoolVar(&wide, "regional", false, "generate the region-wide field")
	return cmd
}

func seriesCmd(setup setupFunc) *cobra.Command {
	var asJSON bool
	var days int
	cmd := &cobra.Command{
		Use:   "series <kind> [region place]",
		Short: "Generate the daily time series of a place",
		Args:  placeArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := synthetic.ParseKind(args[0])
			if err != nil {
				return err
			}
			a, err := setup()
			if err != nil {
				return err
			}
			serv, err := a.service()
			if err != nil {
				return err
			}
			region, place := placeFromArgs(serv, args[1:])
			series, err := serv.TimeSeries(cmd.Context(), kind, region, place, days)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), series)
			}
			return writeSeries(cmd.OutOrStdout(), series)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	cmd.Flags().IntVarP(&days, "days", "d", 0, "number of days (default from config)")
	return cmd
}

func placesCmd(setup setupFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "places",
		Short: "List all regions and their places",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			serv, err := a.service()
			if err != nil {
				return err
			}
			return writePlaces(cmd.OutOrStdout(), serv.Gazetteer())
		},
	}
}

// placeArgs accepts n leading arguments optionally followed by region and place.
func placeArgs(n int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n && len(args) != n+2 {
			return fmt.Errorf("expected %d or %d arguments, got %d", n, n+2, len(args))
		}
		return nil
	}
}

func placeFromArgs(serv *service.Service, args []string) (string, string) {
	if len(args) == 2 {
		return args[0], args[1]
	}
	place := serv.DefaultPlace()
	return place.Region, place.Name
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

func writeFieldSummary(w io.Writer, field *synthetic.Field, status synthetic.Status) error {
	_, err := fmt.Fprintf(w, "%s\n%s: min %.2f  max %.2f  mean %.2f  (%dx%d, %s)\n%s: %s\n",
		field.Title, field.UnitLabel, field.Min, field.Max, field.Mean, len(field.Cells), len(field.Cells),
		field.ColorScale, status.Headline, status.Info)
	return err
}

func writeSeries(w io.Writer, series *synthetic.Series) error {
	if _, err := fmt.Fprintf(w, "%s (%s)\n", series.Place, series.UnitLabel); err != nil {
		return err
	}
	for _, point := range series.Points {
		if _, err := fmt.Fprintf(w, "%s  %8.3f\n", point.Date.Format("2006-01-02"), point.Value); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "mean %8.3f\n", series.Mean())
	return err
}

func writePlaces(w io.Writer, gaz *gazetteer.Gazetteer) error {
	for _, region := range gaz.Regions() {
		if _, err := fmt.Fprintf(w, "%s (%d)\n", region.Name, region.Len()); err != nil {
			return err
		}
		for _, place := range region.Places() {
			if _, err := fmt.Fprintf(w, "  %s %s\n", runewidth.FillRight(place.Name, 24),
				place.Coordinate); err != nil {
				return err
			}
		}
	}
	return nil
}
