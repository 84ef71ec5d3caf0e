package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	rdbms "github.com/Fa23-max/Relational-database-management-system"
	"github.com/Fa23-max/Relational-database-management-system/internal/config"
	"github.com/Fa23-max/Relational-database-management-system/internal/record"
	"github.com/Fa23-max/Relational-database-management-system/internal/sql"
	"github.com/Fa23-max/Relational-database-management-system/internal/value"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	dataDir := flag.String("data-dir", "", "Data directory (overrides the config file)")
	demo := flag.Bool("demo", false, "Run the demo scenario and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dataDir != "" {
		cfg.Storage.DataDir = *dataDir
	}
	setupLogger(cfg)

	db, err := rdbms.Open(rdbms.Options{
		DataDir:    cfg.Storage.DataDir,
		BTreeOrder: cfg.Storage.BTreeOrder,
	})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	if *demo {
		if err := runDemo(db); err != nil {
			log.Fatalf("Demo failed: %v", err)
		}
		if err := db.Close(); err != nil {
			log.Fatalf("Failed to close database: %v", err)
		}
		return
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("Shutting down...")
		if err := db.Close(); err != nil {
			slog.Error("rdbms.shutdown.save_failed", "error", err)
			os.Exit(1)
		}
		os.Exit(0)
	}()

	fmt.Printf("%s started with data directory: %s\n", cfg.AppName, cfg.Storage.DataDir)
	select {}
}

func setupLogger(cfg *config.Config) {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.Log.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// runDemo drives one statement of every kind through a users/orders pair of
// tables and prints each result.
func runDemo(db *rdbms.Database) error {
	steps := []struct {
		label string
		stmt  sql.Statement
	}{
		{"create users", &sql.CreateTable{
			Name: "users",
			Columns: []record.Column{
				{Name: "id", Type: record.TypeInt, Constraints: []record.Constraint{record.PrimaryKey}},
				{Name: "name", Type: record.TypeText, Constraints: []record.Constraint{record.NotNull}},
				{Name: "age", Type: record.TypeInt},
				{Name: "email", Type: record.TypeText, Constraints: []record.Constraint{record.Unique}},
			},
		}},
		{"create orders", &sql.CreateTable{
			Name: "orders",
			Columns: []record.Column{
				{Name: "id", Type: record.TypeInt, Constraints: []record.Constraint{record.PrimaryKey}},
				{Name: "user_id", Type: record.TypeInt},
				{Name: "total", Type: record.TypeFloat},
			},
		}},
		{"insert alice", &sql.Insert{Table: "users", Values: []value.Value{
			value.NewInt(1), value.NewText("alice"), value.NewInt(30), value.NewText("alice@example.com"),
		}}},
		{"insert bob", &sql.Insert{Table: "users", Values: []value.Value{
			value.NewInt(2), value.NewText("bob"), value.NewInt(25), value.NewText("bob@example.com"),
		}}},
		{"insert order 1", &sql.Insert{Table: "orders", Values: []value.Value{
			value.NewInt(1), value.NewInt(1), value.NewFloat(9.99),
		}}},
		{"insert order 2", &sql.Insert{Table: "orders", Values: []value.Value{
			value.NewInt(2), value.NewInt(1), value.NewFloat(19.99),
		}}},
		{"insert order 3", &sql.Insert{Table: "orders", Values: []value.Value{
			value.NewInt(3), value.NewInt(2), value.NewFloat(5),
		}}},
		{"index users.age", &sql.CreateIndex{Name: "idx_users_age", Table: "users", Column: "age"}},
		{"select by age", &sql.Select{Table: "users", Where: &sql.Predicate{
			Left: sql.Col("age"), Op: value.Eq, Right: sql.Lit(value.NewInt(30)),
		}}},
		{"join users to orders", &sql.Select{
			Table: "users",
			Join:  &sql.Join{Table: "orders", LeftColumn: "id", RightColumn: "user_id"},
		}},
		{"update alice", &sql.Update{
			Table:       "users",
			Assignments: []sql.Assignment{{Column: "age", Value: value.NewInt(31)}},
			Where: &sql.Predicate{
				Left: sql.Col("id"), Op: value.Eq, Right: sql.Lit(value.NewInt(1)),
			},
		}},
		{"delete small orders", &sql.Delete{Table: "orders", Where: &sql.Predicate{
			Left: sql.Col("total"), Op: value.Lt, Right: sql.Lit(value.NewFloat(10)),
		}}},
		{"select users", &sql.Select{Table: "users"}},
	}

	for _, step := range steps {
		res, err := db.Execute(step.stmt)
		if err != nil {
			return fmt.Errorf("%s: %w", step.label, err)
		}
		printResult(step.label, res)
	}

	for _, name := range db.ListTables() {
		info, err := db.TableInfo(name)
		if err != nil {
			return err
		}
		fmt.Printf("table %s: %d columns, %d rows, primary key %q, indexes %v\n",
			info.Name, len(info.Columns), info.RowCount, info.PrimaryKey, info.Indexes)
	}
	return nil
}

func printResult(label string, res *rdbms.Result) {
	switch {
	case res.Message != "":
		fmt.Printf("%s: %s\n", label, res.Message)
	case res.Columns != nil:
		fmt.Printf("%s: %d row(s)\n", label, len(res.Rows))
		for _, row := range res.Rows {
			parts := make([]string, 0, len(res.Columns))
			for _, col := range res.Columns {
				if v, ok := row[col]; ok {
					parts = append(parts, fmt.Sprintf("%s=%s", col, v))
				}
			}
			fmt.Printf("  %s\n", strings.Join(parts, " "))
		}
	default:
		fmt.Printf("%s: %d row(s) affected\n", label, res.AffectedRows)
	}
}
