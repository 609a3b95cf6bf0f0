// Command neofeed prints one day of the NeoWs feed as a sorted table.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/star/neodash/internal/asteroids"
	"github.com/star/neodash/internal/config"
	"github.com/star/neodash/internal/neo"
	"github.com/star/neodash/internal/table"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := config.LoadFromEnvironment(logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR loading config:", err)
		os.Exit(1)
	}

	date := flag.String("date", time.Now().UTC().Format(time.DateOnly), "day to fetch (YYYY-MM-DD)")
	sortKey := flag.String("sort", string(table.SortByDistance), "sort column: size, distance or speed")
	order := flag.String("order", string(table.Ascending), "sort order: asc or desc")
	locale := flag.String("locale", cfg.Dashboard.Locale, "number formatting locale")
	printURL := flag.Bool("print-url", false, "print the request URL with the key redacted and exit")
	flag.Parse()

	if !asteroids.ValidDate(*date) {
		fmt.Fprintf(os.Stderr, "ERROR: -date %q is not YYYY-MM-DD\n", *date)
		os.Exit(2)
	}

	key, err := table.ParseSortKey(*sortKey)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(2)
	}
	ord, err := table.ParseSortOrder(*order)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(2)
	}
	formatter, err := table.NewFormatter(*locale)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(2)
	}

	if *printURL {
		u, err := neo.BuildURL(cfg.Feed.BaseURL, *date, "REDACTED")
		if err != nil {
			fmt.Fprintln(os.Stderr, "ERROR:", err)
			os.Exit(1)
		}
		fmt.Println(u)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := neo.NewClient(neo.ClientConfig{
		BaseURL:      cfg.Feed.BaseURL,
		Timeout:      cfg.Feed.Timeout,
		MaxBodyBytes: cfg.Feed.MaxBodyBytes,
	}, logger)

	records, err := client.FetchDate(ctx, *date, cfg.Feed.APIKey)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR fetching feed:", err)
		os.Exit(1)
	}

	fmt.Printf("Date: %s | Total Count: %d\n\n", *date, len(records))
	if len(records) == 0 {
		fmt.Println("No asteroids found for this date.")
		return
	}

	view := table.Build(records, table.State{Key: key, Order: ord}, formatter)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, "Name")
	for _, c := range view.Columns {
		fmt.Fprintf(tw, "\t%s%s", c.Label, c.Arrow)
	}
	fmt.Fprintln(tw)
	for _, r := range view.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name, r.Size, r.Distance, r.Speed)
	}
	tw.Flush()
}
