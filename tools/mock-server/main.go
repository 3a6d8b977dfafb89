// Package main implements a mock marketplace API server for local
// development. It serves canned search results from a JSON fixture, paginated
// with continuation tokens the way the real search endpoint does, and a
// minimal site page carrying the app version attribute for the version
// scraper.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

type fixtureItem struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	WebSlug     string  `json:"web_slug"`
	Amount      float64 `json:"amount"`
	Reserved    bool    `json:"reserved"`
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureFile := flag.String("fixture", "tools/mock-server/testdata/items.json", "path to items fixture")
	pageSize := flag.Int("page-size", 4, "items per result page")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	items, err := loadFixture(*fixtureFile)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "items", len(items))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", siteHandler)
	mux.HandleFunc("GET /api/v3/search", searchHandler(logger, items, *pageSize))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock marketplace server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadFixture(path string) ([]fixtureItem, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var items []fixtureItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return items, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

// siteHandler serves an HTML page with the app version attribute the version
// scraper looks for.
func siteHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	fmt.Fprint(w, `<!DOCTYPE html><html><body data-app-version="81.49.10">mock marketplace</body></html>`)
}

func searchHandler(logger *slog.Logger, items []fixtureItem, pageSize int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keywords := strings.ToLower(r.URL.Query().Get("keywords"))
		nextPage := r.URL.Query().Get("next_page")

		offset := 0
		if nextPage != "" {
			v, err := strconv.Atoi(strings.TrimPrefix(nextPage, "offset-"))
			if err != nil || v < 0 {
				w.WriteHeader(http.StatusBadRequest)
				//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
				json.NewEncoder(w).Encode(map[string]string{"error": "invalid next_page token"})
				return
			}
			offset = v
		}

		// Filter items by keyword substring match on title.
		var matched []fixtureItem
		for _, item := range items {
			if keywords == "" || strings.Contains(strings.ToLower(item.Title), keywords) {
				matched = append(matched, item)
			}
		}

		total := len(matched)

		var page []fixtureItem
		if offset < total {
			end := min(offset+pageSize, total)
			page = matched[offset:end]
		}

		next := ""
		if offset+pageSize < total {
			next = fmt.Sprintf("offset-%d", offset+pageSize)
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(buildResponse(page, next))
		logger.Info("search",
			"keywords", keywords, "matched", total,
			"returned", len(page), "offset", offset,
		)
	}
}

// buildResponse assembles the nested response shape the real search endpoint
// uses: items at data.section.payload.items, the continuation token at
// meta.next_page.
func buildResponse(page []fixtureItem, next string) map[string]any {
	wireItems := make([]map[string]any, 0, len(page))
	for _, item := range page {
		wireItems = append(wireItems, map[string]any{
			"id":          item.ID,
			"title":       item.Title,
			"description": item.Description,
			"web_slug":    item.WebSlug,
			"price":       map[string]any{"amount": item.Amount},
			"reserved":    map[string]any{"flag": item.Reserved},
		})
	}

	meta := map[string]any{"next_page": next}
	if next != "" {
		meta["next_section_type"] = "organic_search_results"
	}

	return map[string]any{
		"data": map[string]any{
			"section": map[string]any{
				"payload": map[string]any{"items": wireItems},
			},
		},
		"meta": meta,
	}
}
