package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"brinleneuro/internal/config"
	"brinleneuro/internal/database"
	"brinleneuro/internal/service"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	// Define subcommands
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)

	exportOutput := exportCmd.String("output", "", "Output file path (default: backup_YYYYMMDD_HHMMSS.json)")

	importInput := importCmd.String("input", "", "Input file path (required)")
	importClear := importCmd.Bool("clear", false, "Remove every stored flag before import (WARNING: destructive)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	backupService := service.NewBackupService(db)
	ctx := context.Background()

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		handleExport(ctx, backupService, *exportOutput)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		handleImport(ctx, backupService, *importInput, *importClear)

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleExport(ctx context.Context, backupService *service.BackupService, outputPath string) {
	if outputPath == "" {
		outputPath = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
	}

	if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal().Err(err).Str("dir", dir).Msg("Failed to create output directory")
		}
	}

	log.Info().Str("path", outputPath).Msg("Exporting flags")
	if err := backupService.Export(ctx, outputPath); err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}

	if info, err := os.Stat(outputPath); err == nil {
		log.Info().Int64("bytes", info.Size()).Msg("Export complete")
	}
}

func handleImport(ctx context.Context, backupService *service.BackupService, inputPath string, clearData bool) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		log.Fatal().Str("path", inputPath).Msg("Input file does not exist")
	}

	if clearData {
		fmt.Print("WARNING: This will delete every stored flag. Type 'yes' to confirm: ")
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if strings.TrimSpace(answer) != "yes" {
			log.Info().Msg("Import cancelled")
			return
		}
	}

	log.Info().Str("path", inputPath).Bool("clear", clearData).Msg("Importing flags")
	if err := backupService.Import(ctx, inputPath, clearData); err != nil {
		log.Fatal().Err(err).Msg("Import failed")
	}
	log.Info().Msg("Import complete")
}

func printUsage() {
	fmt.Println("BrinLê Neuro Flag Backup Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  backup export [options]    Export device flags to a JSON file")
	fmt.Println("  backup import [options]    Import device flags from a JSON file")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -output <file>    Output file path (default: backup_YYYYMMDD_HHMMSS.json)")
	fmt.Println()
	fmt.Println("Import Options:")
	fmt.Println("  -input <file>     Input file path (required)")
	fmt.Println("  -clear            Remove every stored flag before import (WARNING: destructive)")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DATABASE_TYPE    Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  DB_PATH          SQLite database path (default: ./brinleneuro.db)")
	fmt.Println("  DATABASE_URL     PostgreSQL or MySQL connection URL")
}
