package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"cotiza/internal/backends"
	"cotiza/internal/config"
	"cotiza/internal/store"
	"cotiza/internal/types"
)

const usage = `usage: cotiza <command> [flags]

commands:
  init         load collections, seeding demo data on first run
  clients      list clients
  quotations   list quotations (-status, -query)
  stats        dashboard aggregates
  export       quotations as CSV (-o file)
  backup       write compressed archive to <file>
  restore      load compressed archive from <file>
  clear        wipe all data
`

func main() {
	// Load environment variables
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Info("The .env file not found.")
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	profile, err := config.LoadProfile("")
	if err != nil {
		log.WithError(err).Fatal("failed to load company profile")
	}
	kv, err := backends.KVBackendFromEnv()
	if err != nil {
		log.WithError(err).Fatal("failed to set up storage backend")
	}

	ctx := context.Background()
	st := store.New(kv, profile)
	if err := st.Initialize(ctx); err != nil {
		log.WithError(err).Fatal("failed to initialize store")
	}

	if err := run(ctx, st, os.Args[1], os.Args[2:]); err != nil {
		log.WithError(err).Fatal(os.Args[1])
	}
}

func run(ctx context.Context, st *store.Store, cmd string, args []string) error {
	switch cmd {
	case "init":
		stats := st.Stats()
		fmt.Printf("%d clients, %d quotations\n", stats.TotalClients, stats.TotalQuotations)
		return nil

	case "clients":
		return listClients(st)

	case "quotations":
		fs := flag.NewFlagSet("quotations", flag.ExitOnError)
		status := fs.String("status", "", "filter by status")
		queryExpr := fs.String("query", "", "JMESPath filter over the document")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return listQuotations(st, *status, *queryExpr)

	case "stats":
		return printStats(st)

	case "export":
		fs := flag.NewFlagSet("export", flag.ExitOnError)
		out := fs.String("o", "", "output file (default stdout)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *out == "" {
			return st.ExportCSV(os.Stdout)
		}
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		return st.ExportCSV(f)

	case "backup":
		if len(args) != 1 {
			return fmt.Errorf("backup expects exactly one file argument")
		}
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		if err := st.Backup(f); err != nil {
			return err
		}
		log.Infof("backup written to %s", args[0])
		return nil

	case "restore":
		if len(args) != 1 {
			return fmt.Errorf("restore expects exactly one file argument")
		}
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		if err := st.Restore(ctx, f); err != nil {
			return err
		}
		log.Infof("restored from %s", args[0])
		return nil

	case "clear":
		return st.ClearAll(ctx)

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func listClients(st *store.Store) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tEMAIL\tCONTACT")
	for _, c := range st.Clients() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Code, c.Name, c.Email, c.ContactPerson)
	}
	return w.Flush()
}

func listQuotations(st *store.Store, status, queryExpr string) error {
	var (
		qs  []types.Quotation
		err error
	)
	switch {
	case queryExpr != "":
		qs, err = st.FilterQuotations(queryExpr)
		if err != nil {
			return err
		}
	case status != "":
		if !types.Status(status).Valid() {
			return fmt.Errorf("status %q: %w", status, types.ErrInvalidStatus)
		}
		qs = st.QuotationsByStatus(types.Status(status))
	default:
		qs = st.Quotations()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tTITLE\tSTATUS\tTOTAL\tVALID UNTIL")
	for _, q := range qs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\n",
			q.Number, q.Title, q.Status, q.Totals.Total, q.ValidUntil.Format("2006-01-02"))
	}
	return w.Flush()
}

func printStats(st *store.Store) error {
	stats := st.Stats()
	fmt.Printf("clients:    %d\n", stats.TotalClients)
	fmt.Printf("quotations: %d\n", stats.TotalQuotations)
	for _, status := range types.Statuses {
		fmt.Printf("  %-9s %d\n", status, stats.ByStatus[status])
	}
	fmt.Printf("revenue:    %.2f\n", stats.TotalRevenue)
	return nil
}
