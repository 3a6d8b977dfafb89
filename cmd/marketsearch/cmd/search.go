package cmd

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/mvalldaura/marketsearch/internal/catalog"
	"github.com/mvalldaura/marketsearch/internal/format"
	"github.com/mvalldaura/marketsearch/internal/marketplace"
	"github.com/mvalldaura/marketsearch/internal/pager"
	"github.com/mvalldaura/marketsearch/internal/session"
	"github.com/mvalldaura/marketsearch/pkg/logger"
)

func searchCommand() *cobra.Command {
	var (
		pages int
		lat   float64
		lon   float64
	)

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a one-off marketplace search",
		Long: "Searches the marketplace directly, without the API server, and\n" +
			"prints the rendered results. Pages are fetched in order starting\n" +
			"from page 1.",
		Example: `  marketsearch search "thinkpad x260"
  marketsearch search "thinkpad x260" --pages 3
  marketsearch search "bike" --lat 40.4168 --lon -3.7038`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var latPtr, lonPtr *float64
			if cmd.Flags().Changed("lat") {
				latPtr = &lat
			}
			if cmd.Flags().Changed("lon") {
				lonPtr = &lon
			}
			return runSearch(cmd, args[0], pages, latPtr, lonPtr)
		},
	}

	searchCmd.Flags().IntVar(&pages, "pages", 1, "number of result pages to fetch")
	searchCmd.Flags().Float64Var(&lat, "lat", 0, "search center latitude")
	searchCmd.Flags().Float64Var(&lon, "lon", 0, "search center longitude")

	return searchCmd
}

func runSearch(cmd *cobra.Command, query string, pages int, lat, lon *float64) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level)

	mp := cfg.Marketplace

	versions := marketplace.NewAppVersionProvider(
		marketplace.WithSiteURL(mp.SiteURL),
		marketplace.WithVersionUserAgent(mp.UserAgent),
		marketplace.WithVersionTTL(mp.AppVersionTTL),
		marketplace.WithFallbackVersion(mp.FallbackAppVersion),
	)

	limiter := marketplace.NewRateLimiter(
		mp.RateLimit.PerSecond,
		mp.RateLimit.Burst,
		mp.RateLimit.DailyLimit,
	)

	client := marketplace.NewAPIClient(versions,
		marketplace.WithSearchURL(mp.SearchURL),
		marketplace.WithUserAgent(mp.UserAgent),
		marketplace.WithDeviceOS(mp.DeviceOS),
		marketplace.WithSource(mp.Source),
		marketplace.WithDefaultLocation(mp.DefaultLatitude, mp.DefaultLongitude),
		marketplace.WithSearchHTTPClient(&http.Client{Timeout: mp.Timeout}),
		marketplace.WithRateLimiter(limiter),
	)

	sessions := session.New(cfg.Sessions.Capacity, cfg.Sessions.TTL)
	links := catalog.New(cfg.Catalog.Capacity)

	ctrl := pager.New(client, sessions,
		pager.WithCatalog(links),
		pager.WithLogger(log),
	)

	if pages < 1 {
		pages = 1
	}

	for page := 1; page <= pages; page++ {
		result, err := ctrl.Fetch(cmd.Context(), pager.Request{
			Query:     query,
			Page:      page,
			Latitude:  lat,
			Longitude: lon,
		})
		if err != nil {
			var noCont *pager.NoContinuationError
			if errors.As(err, &noCont) && page > 1 {
				// Fewer pages than requested, not a failure.
				return nil
			}
			return fmt.Errorf("%s", pager.UserMessage(err))
		}

		if page > 1 {
			fmt.Println()
		}
		fmt.Println(format.Render(result))

		if !result.HasMore() {
			return nil
		}
	}

	return nil
}
