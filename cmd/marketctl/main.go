// marketctl is the operator companion for the dressmarket service. It works
// directly against the sqlite database and the suggestion snapshot file, so
// catalog seeding and index maintenance do not need a running server.
//
// Usage:
//
//	marketctl seed -db dressmarket.db -file catalog.yaml
//	marketctl index -db dressmarket.db -out suggestions.bin
//	marketctl inventory -db dressmarket.db
//	marketctl complete -snapshot suggestions.bin -prefix "sar" -limit 10
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"dressmarket/internal/repos"
	"dressmarket/internal/suggest"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Prefix:          "marketctl",
	})

	if len(os.Args) < 2 {
		usage(logger)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "seed":
		err = runSeed(logger, os.Args[2:])
	case "index":
		err = runIndex(logger, os.Args[2:])
	case "inventory":
		err = runInventory(logger, os.Args[2:])
	case "complete":
		err = runComplete(logger, os.Args[2:])
	default:
		usage(logger)
		os.Exit(2)
	}
	if err != nil {
		logger.Fatal(err)
	}
}

func usage(logger *log.Logger) {
	logger.Print("commands: seed, index, inventory, complete")
	logger.Print("run `marketctl <command> -h` for flags")
}

func runSeed(logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	dsn := fs.String("db", "dressmarket.db", "sqlite database path")
	file := fs.String("file", "", "YAML catalog file")
	fs.Parse(args)
	if *file == "" {
		return fmt.Errorf("seed: -file is required")
	}

	db, err := repos.OpenDB(*dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repos.SeedFromYAML(db, *file); err != nil {
		return err
	}
	logger.Info("catalog seeded", "db", *dsn, "file", *file)
	return nil
}

func runIndex(logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	dsn := fs.String("db", "dressmarket.db", "sqlite database path")
	out := fs.String("out", "suggestions.bin", "snapshot output path")
	fs.Parse(args)

	db, err := repos.OpenDB(*dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	shops, err := repos.NewShopRepo(db).List()
	if err != nil {
		return err
	}
	dresses, err := repos.NewDressRepo(db).ListAll()
	if err != nil {
		return err
	}
	items := suggest.BuildIndex(shops, dresses)
	if err := suggest.SaveSnapshot(*out, items); err != nil {
		return err
	}
	logger.Info("snapshot written", "entries", len(items), "out", *out)
	return nil
}

func runInventory(logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("inventory", flag.ExitOnError)
	dsn := fs.String("db", "dressmarket.db", "sqlite database path")
	fs.Parse(args)

	db, err := repos.OpenDB(*dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	listings, err := repos.NewDressRepo(db).ListAll()
	if err != nil {
		return err
	}
	for _, l := range listings {
		stock := "untracked"
		if l.Stock.Valid {
			stock = fmt.Sprintf("%d", l.Stock.Int64)
		}
		logger.Info(l.Name, "id", l.ID, "shop", l.ShopName, "stock", stock)
	}
	logger.Print(fmt.Sprintf("%d dresses", len(listings)))
	return nil
}

func runComplete(logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("complete", flag.ExitOnError)
	snap := fs.String("snapshot", "suggestions.bin", "snapshot file")
	prefix := fs.String("prefix", "", "prefix to complete")
	limit := fs.Int("limit", 10, "max completions")
	fs.Parse(args)
	if *prefix == "" {
		return fmt.Errorf("complete: -prefix is required")
	}

	ss, err := suggest.LoadSnapshot(*snap)
	if err != nil {
		return err
	}
	m := suggest.NewMatcher(ss.Items)
	for _, it := range m.Complete(*prefix, *limit) {
		logger.Info(it.Text, "type", it.Type, "query", it.SearchQuery())
	}
	return nil
}
