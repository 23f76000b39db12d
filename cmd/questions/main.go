package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"millionaire/internal/config"
	"millionaire/internal/database"
	"millionaire/internal/repository"
	"millionaire/internal/service"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	statsCmd := flag.NewFlagSet("stats", flag.ExitOnError)

	exportOutput := exportCmd.String("output", "", "Output file path (default: questions_YYYYMMDD_HHMMSS.json)")

	importInput := importCmd.String("input", "", "Input file path (required)")
	importLevel := importCmd.Int("level", -1, "Level for text files (default: number at the end of the file name)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg := config.Load()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.RunMigrations(ctx, cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	catalogService := service.NewCatalogService(repository.NewQuestionRepository(db))

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		handleExport(ctx, catalogService, *exportOutput)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		handleImport(ctx, catalogService, *importInput, *importLevel)

	case "stats":
		statsCmd.Parse(os.Args[2:])
		handleStats(ctx, catalogService)

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleExport(ctx context.Context, catalogService *service.CatalogService, outputPath string) {
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("questions_%s.json", timestamp)
	}

	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	log.Printf("Exporting questions to: %s", outputPath)
	if err := catalogService.Export(ctx, outputPath); err != nil {
		log.Fatalf("Export failed: %v", err)
	}
	log.Println("Export complete!")
}

func handleImport(ctx context.Context, catalogService *service.CatalogService, inputPath string, level int) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		log.Fatalf("Input file does not exist: %s", inputPath)
	}

	count, err := catalogService.Import(ctx, inputPath, level)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	log.Printf("Import complete! %d questions added", count)
}

func handleStats(ctx context.Context, catalogService *service.CatalogService) {
	stats, err := catalogService.Stats(ctx)
	if err != nil {
		log.Fatalf("Failed to read catalog: %v", err)
	}

	fmt.Println("Level  Questions")
	for level := 0; level < len(stats.ByLevel); level++ {
		fmt.Printf("%5d  %9d\n", level, stats.ByLevel[level])
	}
	fmt.Printf("Total: %d\n", stats.Total)

	if !stats.Playable() {
		fmt.Printf("Levels without questions: %v\n", stats.MissingLevels)
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Println("Millionaire Question Catalog Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  questions export [options]    Export the catalog to a JSON file")
	fmt.Println("  questions import [options]    Import questions from JSON or text")
	fmt.Println("  questions stats               Show questions per level")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -output <file>    Output file path (default: questions_YYYYMMDD_HHMMSS.json)")
	fmt.Println()
	fmt.Println("Import Options:")
	fmt.Println("  -input <file>     Input file path (required)")
	fmt.Println("  -level <n>        Level 0-14 for text files")
	fmt.Println()
	fmt.Println("Text files hold blocks of five lines separated by a blank line:")
	fmt.Println("the question, the correct answer and three wrong answers.")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  questions import -input data/questions_3.txt")
	fmt.Println("  questions import -input easy.txt -level 0")
	fmt.Println("  questions export -output backup/catalog.json")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DATABASE_TYPE      Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  DB_PATH            SQLite database path (default: ./millionaire.db)")
	fmt.Println("  DATABASE_URL       PostgreSQL or MySQL connection URL")
	fmt.Println("  MIGRATIONS_PATH    Migrations directory (default: ./migrations)")
}
