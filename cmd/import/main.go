package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/frotaops-platform/api/internal/config"
	"github.com/frotaops-platform/api/internal/db"
	"github.com/frotaops-platform/api/internal/docstore"
	"github.com/frotaops-platform/api/internal/legacyimport"
)

func main() {
	dir := flag.String("dir", ".", "directory holding the legacy CSV exports")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	files, err := collectFiles(*dir)
	if err != nil {
		logger.Error("read import directory", "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		logger.Error("no recognized csv files", "dir", *dir)
		os.Exit(1)
	}

	importer := legacyimport.New(docstore.NewPostgres(pool), cfg.BasePath, cfg.CompanyID, logger)
	importer.MaxRows = cfg.ImportMaxRows
	report := importer.Run(ctx, files)

	fmt.Println(report.Summary())
	if len(report.Errors) > 0 {
		os.Exit(1)
	}
}

func collectFiles(dir string) ([]legacyimport.File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []legacyimport.File
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".csv") {
			continue
		}
		kind, ok := classify(entry.Name())
		if !ok {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		files = append(files, legacyimport.File{Kind: kind, Name: entry.Name(), Data: data})
	}
	return files, nil
}

// classify maps a filename to a feed kind. Longer prefixes are checked
// first so driver_cars files never classify as driver files, and
// car_expense files never classify as car files.
func classify(name string) (legacyimport.Kind, bool) {
	base := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
	switch {
	case strings.HasPrefix(base, "driver_car"):
		return legacyimport.KindDriverCars, true
	case strings.HasPrefix(base, "car_expense"):
		return legacyimport.KindCarExpenses, true
	case strings.HasPrefix(base, "income"):
		return legacyimport.KindIncome, true
	case strings.HasPrefix(base, "maintenance"):
		return legacyimport.KindMaintenance, true
	case strings.HasPrefix(base, "service"):
		return legacyimport.KindServices, true
	case strings.HasPrefix(base, "driver"):
		return legacyimport.KindDrivers, true
	case strings.HasPrefix(base, "address"):
		return legacyimport.KindAddresses, true
	case strings.HasPrefix(base, "pendenc"):
		return legacyimport.KindPendencies, true
	case strings.HasPrefix(base, "car"):
		return legacyimport.KindCars, true
	}
	return "", false
}
