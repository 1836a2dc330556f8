package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"foodgram/internal/app"
	"foodgram/internal/config"
	"foodgram/internal/logging"
)

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: "console",
		Output: os.Stderr,
	})

	// Opening the database applies pending migrations.
	application, err := app.New(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	switch os.Args[1] {
	case "migrate":
		fmt.Printf("Database %s is up to date.\n", cfg.Database.Path)
	case "import-ingredients":
		cmd := flag.NewFlagSet("import-ingredients", flag.ExitOnError)
		file := cmd.String("file", "data/ingredients.json", "JSON file with name and measurement_unit entries")
		cmd.Parse(os.Args[2:])

		added, err := application.ImportIngredients(ctx, *file)
		if err != nil {
			logging.Fatal().Err(err).Msg("Ingredient import failed")
		}
		fmt.Printf("Successfully imported %d ingredients.\n", added)
	case "import-tags":
		cmd := flag.NewFlagSet("import-tags", flag.ExitOnError)
		file := cmd.String("file", "data/tags.json", "JSON file with name, color and slug entries")
		cmd.Parse(os.Args[2:])

		added, err := application.ImportTags(ctx, *file)
		if err != nil {
			logging.Fatal().Err(err).Msg("Tag import failed")
		}
		fmt.Printf("Successfully imported %d tags.\n", added)
	case "health":
		out, err := json.MarshalIndent(application.Health(ctx), "", "  ")
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to encode health report")
		}
		fmt.Println(string(out))
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: foodgram <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  migrate              Apply database migrations")
	fmt.Println("  import-ingredients   Load the ingredient catalog (-file path)")
	fmt.Println("  import-tags          Load recipe tags (-file path)")
	fmt.Println("  health               Print a runtime health report")
}
