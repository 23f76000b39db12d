package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"millionaire/internal/config"
	"millionaire/internal/database"
	"millionaire/internal/models"
	"millionaire/internal/repository"
	"millionaire/internal/service"
)

func main() {
	userCmd := flag.NewFlagSet("user", flag.ExitOnError)
	newCmd := flag.NewFlagSet("new", flag.ExitOnError)
	gamesCmd := flag.NewFlagSet("games", flag.ExitOnError)
	showCmd := flag.NewFlagSet("show", flag.ExitOnError)
	answerCmd := flag.NewFlagSet("answer", flag.ExitOnError)
	takeCmd := flag.NewFlagSet("take", flag.ExitOnError)
	helpCmd := flag.NewFlagSet("help", flag.ExitOnError)

	userName := userCmd.String("name", "", "Player name (required)")
	userEmail := userCmd.String("email", "", "Player e-mail (required)")

	newUser := newCmd.Int64("user", 0, "User ID (required)")
	gamesUser := gamesCmd.Int64("user", 0, "User ID (required)")

	showToken := showCmd.String("game", "", "Game token (required)")
	answerToken := answerCmd.String("game", "", "Game token (required)")
	answerKey := answerCmd.String("key", "", "Answer key a, b, c or d (required)")
	takeToken := takeCmd.String("game", "", "Game token (required)")
	helpToken := helpCmd.String("game", "", "Game token (required)")
	helpType := helpCmd.String("type", "", "fifty_fifty, audience_help or friend_call (required)")

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

	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	gameRepo := repository.NewGameRepository(db, userRepo)

	var rng *rand.Rand
	if cfg.RandomSeed != 0 {
		rng = rand.New(rand.NewSource(cfg.RandomSeed))
	}
	gameService := service.NewGameService(gameRepo, questionRepo, userRepo, service.SystemClock{}, rng)

	switch os.Args[1] {
	case "user":
		userCmd.Parse(os.Args[2:])
		requireFlag(userCmd, *userName != "" && *userEmail != "")
		user, err := userRepo.CreateUser(ctx, *userName, *userEmail)
		if err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}
		fmt.Printf("User %d created\n", user.ID)

	case "new":
		newCmd.Parse(os.Args[2:])
		requireFlag(newCmd, *newUser != 0)
		game, err := gameService.CreateGameForUser(ctx, *newUser)
		if err != nil {
			log.Fatalf("Failed to create game: %v", err)
		}
		printGame(game)

	case "games":
		gamesCmd.Parse(os.Args[2:])
		requireFlag(gamesCmd, *gamesUser != 0)
		user, err := userRepo.GetUserByID(ctx, *gamesUser)
		if err != nil {
			log.Fatalf("Failed to load user: %v", err)
		}
		games, err := gameRepo.GamesForUser(ctx, user.ID)
		if err != nil {
			log.Fatalf("Failed to list games: %v", err)
		}
		fmt.Printf("%s (balance %s), %d games\n", user.Name, user.Balance, len(games))
		for _, game := range games {
			fmt.Printf("  %s  %s  %-11s level %2d  prize %s\n",
				game.CreatedAt.Format("2006-01-02 15:04"), game.Token, game.Status(), game.CurrentLevel, game.Prize)
		}

	case "show":
		showCmd.Parse(os.Args[2:])
		requireFlag(showCmd, *showToken != "")
		printGame(loadGame(ctx, gameService, *showToken))

	case "answer":
		answerCmd.Parse(os.Args[2:])
		requireFlag(answerCmd, *answerToken != "" && *answerKey != "")
		game := loadGame(ctx, gameService, *answerToken)
		correct, err := gameService.AnswerCurrentQuestion(ctx, game, *answerKey)
		if err != nil {
			log.Fatalf("Failed to answer: %v", err)
		}
		if correct {
			fmt.Println("Correct!")
		} else {
			fmt.Println("Wrong.")
		}
		printGame(game)

	case "take":
		takeCmd.Parse(os.Args[2:])
		requireFlag(takeCmd, *takeToken != "")
		game := loadGame(ctx, gameService, *takeToken)
		err := gameService.TakeMoney(ctx, game)
		if errors.Is(err, models.ErrTimeExpired) {
			fmt.Println("Too late, time is up.")
		} else if err != nil {
			log.Fatalf("Failed to take money: %v", err)
		}
		printGame(game)

	case "help":
		helpCmd.Parse(os.Args[2:])
		requireFlag(helpCmd, *helpToken != "" && *helpType != "")
		help, err := models.ParseHelpType(*helpType)
		if err != nil {
			log.Fatalf("%v", err)
		}
		game := loadGame(ctx, gameService, *helpToken)
		used, err := gameService.UseHelp(ctx, game, help)
		if err != nil {
			log.Fatalf("Failed to use help: %v", err)
		}
		if !used {
			fmt.Printf("%s was already used in this game\n", help)
		}
		printGame(game)

	default:
		printUsage()
		os.Exit(1)
	}
}

func requireFlag(fs *flag.FlagSet, ok bool) {
	if ok {
		return
	}
	fmt.Println("Error: missing required flags")
	fs.PrintDefaults()
	os.Exit(1)
}

func loadGame(ctx context.Context, gameService *service.GameService, token string) *models.Game {
	game, err := gameService.GetGameByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		log.Fatalf("Game %s not found", token)
	}
	if err != nil {
		log.Fatalf("Failed to load game: %v", err)
	}
	return game
}

func printGame(game *models.Game) {
	fmt.Printf("Game %s: %s, level %d, prize %s\n", game.Token, game.Status(), game.CurrentLevel, game.Prize)
	if game.IsFinished() {
		return
	}

	q := game.CurrentGameQuestion()
	if q == nil {
		return
	}
	fmt.Printf("\n%d. %s (for %s)\n", q.Level+1, q.Text(), models.PrizeForLevel(q.Level))
	variants := q.Variants()
	for _, key := range q.VariantKeys() {
		fmt.Printf("  %s) %s\n", key, variants[key])
	}

	if len(q.Help.FiftyFifty) > 0 {
		fmt.Printf("50/50: %v\n", q.Help.FiftyFifty)
	}
	if len(q.Help.AudienceHelp) > 0 {
		for _, key := range q.VariantKeys() {
			fmt.Printf("Audience %s: %d%%\n", key, q.Help.AudienceHelp[key])
		}
	}
	if q.Help.FriendCall != nil {
		fmt.Println(q.Help.FriendCall)
	}
}

func printUsage() {
	fmt.Println("Millionaire Game Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  game user -name <name> -email <email>        Create a player")
	fmt.Println("  game new -user <id>                          Start a game")
	fmt.Println("  game games -user <id>                        List a player's games")
	fmt.Println("  game show -game <token>                      Show the current question")
	fmt.Println("  game answer -game <token> -key <a|b|c|d>     Answer the current question")
	fmt.Println("  game take -game <token>                      Take the money and leave")
	fmt.Println("  game help -game <token> -type <help>         Use a lifeline")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DATABASE_TYPE      Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  DB_PATH            SQLite database path (default: ./millionaire.db)")
	fmt.Println("  DATABASE_URL       PostgreSQL or MySQL connection URL")
	fmt.Println("  RANDOM_SEED        Fixed seed for question selection and shuffling")
}
