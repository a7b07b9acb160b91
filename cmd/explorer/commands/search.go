package commands

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Kiran-230202/Otelier-Explorer/internal/app"
	"github.com/Kiran-230202/Otelier-Explorer/internal/config"
	"github.com/Kiran-230202/Otelier-Explorer/internal/hotel"
	"github.com/Kiran-230202/Otelier-Explorer/internal/models"
)

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if mode, _ := cmd.Flags().GetString("mode"); mode != "" {
		switch strings.ToLower(mode) {
		case "mock":
			cfg.Mode = config.ModeMock
		case "live":
			cfg.Mode = config.ModeLive
		}
	}
	return cfg, nil
}

func SearchCmd() *cobra.Command {
	var q models.SearchQuery
	var windowOnly bool

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search hotel offers for a city",
		Example: `  explorer search --city PAR --checkin 2025-06-01 --checkout 2025-06-03 --adults 2
  explorer search --city BOM --checkin 2025-06-01 --mode mock`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger := app.NewLogger("error")
			source, err := app.BuildSource(cfg, nil, logger)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.SearchTimeout)
			defer cancel()

			sess := hotel.NewSession(source, logger)
			if err := sess.RunSearch(ctx, q); err != nil {
				return printJSON(map[string]string{"error": err.Error()})
			}

			hotels := sess.Results()
			if windowOnly {
				hotels = sess.Visible()
			}
			return printJSON(map[string]any{
				"query":  sess.Query(),
				"total":  sess.Total(),
				"window": sess.WindowSize(),
				"hotels": hotels,
			})
		},
	}

	cmd.Flags().StringVar(&q.CityCode, "city", "", "City code, e.g. PAR (required)")
	cmd.Flags().StringVar(&q.CheckIn, "checkin", "", "Check-in date YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&q.CheckOut, "checkout", "", "Check-out date YYYY-MM-DD (omit for the quick city lookup)")
	cmd.Flags().IntVar(&q.Adults, "adults", 1, "Number of adults")
	cmd.Flags().IntVar(&q.Rooms, "rooms", 1, "Number of rooms")
	cmd.Flags().BoolVar(&windowOnly, "window", false, "Print only the initial render window")
	_ = cmd.MarkFlagRequired("city")
	_ = cmd.MarkFlagRequired("checkin")

	return cmd
}

func DoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate configuration and upstream credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			report := map[string]any{
				"mode":     string(cfg.Mode),
				"base_url": cfg.AmadeusBaseURL,
				"healthy":  true,
			}

			if cfg.Mode == config.ModeLive {
				if err := cfg.ValidateLive(); err != nil {
					report["healthy"] = false
					report["summary"] = err.Error()
					return printJSON(report)
				}
				logger := app.NewLogger("error")
				source, err := app.BuildSource(cfg, nil, logger)
				if err != nil {
					report["healthy"] = false
					report["summary"] = err.Error()
					return printJSON(report)
				}
				ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
				defer cancel()
				probe := models.SearchQuery{CityCode: "PAR", CheckIn: time.Now().AddDate(0, 0, 30).Format("2006-01-02")}
				if _, err := source.FetchOffers(ctx, probe); err != nil {
					report["healthy"] = false
					report["summary"] = err.Error()
					return printJSON(report)
				}
				report["summary"] = "credentials accepted, upstream reachable"
			} else {
				report["summary"] = "mock mode, no credentials needed"
			}
			return printJSON(report)
		},
	}
	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
