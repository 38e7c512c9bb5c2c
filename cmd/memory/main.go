package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	firebase "firebase.google.com/go"
	"github.com/joho/godotenv"
	"github.com/poojachaurasiya603/psmemorygame/pkg/accounting"
	"github.com/poojachaurasiya603/psmemorygame/pkg/auth"
	authproviders "github.com/poojachaurasiya603/psmemorygame/pkg/auth/providers"
	"github.com/poojachaurasiya603/psmemorygame/pkg/game"
	"github.com/poojachaurasiya603/psmemorygame/pkg/game/types"
	"github.com/poojachaurasiya603/psmemorygame/pkg/log"
	"github.com/poojachaurasiya603/psmemorygame/pkg/repositories"
	"github.com/poojachaurasiya603/psmemorygame/pkg/rooms"
	"github.com/poojachaurasiya603/psmemorygame/pkg/session"
	"github.com/poojachaurasiya603/psmemorygame/pkg/state"
	"github.com/poojachaurasiya603/psmemorygame/pkg/workers"
)

func main() {
	modeFlag := flag.String("mode", "single", "Game mode: single, local or online")
	difficultyFlag := flag.String("difficulty", "4x4", "Board size: 4x4, 6x6 or 8x8")
	join := flag.String("join", "", "Room code to join (online mode)")
	name := flag.String("name", "", "Display name")
	logLevel := flag.String("log-level", "warn", "Log level")
	migrations := flag.String("migrations", "./migrations/sqlite", "SQLite migrations directory")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}
	logger := log.New(os.Stderr, parsedLogLevel)
	log.SetDefaultLogger(logger)
	defer logger.Sync()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("Failed to load .env: %v", err)
	}

	mode, err := types.ParseMode(*modeFlag)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse mode: %v", err))
	}
	difficulty, err := types.ParseDifficulty(*difficultyFlag)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse difficulty: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storeURL := envOr("MEMORY_STORE_URL", "memory://")
	databaseURL := envOr("MEMORY_DATABASE_URL", "sqlite://memory.db")
	idToken := os.Getenv("MEMORY_ID_TOKEN")

	var app *firebase.App
	if idToken != "" || strings.HasPrefix(storeURL, "firestore:") || strings.HasPrefix(databaseURL, "firestore:") {
		app, err = auth.NewFirebaseApp(ctx, os.Getenv("MEMORY_FIREBASE_PROJECT_ID"), os.Getenv("MEMORY_FIREBASE_CREDENTIALS"))
		if err != nil {
			panic(fmt.Sprintf("Failed to create Firebase app: %v", err))
		}
	}

	var authProvider authproviders.AuthProvider
	if idToken != "" {
		authProvider, err = authproviders.NewFirebaseAuthProvider(ctx, app)
		if err != nil {
			panic(fmt.Sprintf("Failed to create Firebase auth provider: %v", err))
		}
	}
	player, err := auth.ResolvePlayer(ctx, authProvider, idToken, *name)
	if err != nil {
		panic(fmt.Sprintf("Failed to resolve player: %v", err))
	}
	log.Info("Playing as %s (%s)", player.Name, player.ID)

	repository := newRepository(ctx, databaseURL, *migrations, app)
	defer repository.Close(context.Background())

	workerCtx, stopWorker := context.WithCancel(context.Background())
	statsWorker := workers.NewStatsWorker(workers.NewStatsWorkerOptions{
		Recorder: accounting.NewAccountant(repository),
		Interval: time.Second,
	})
	go statsWorker.Start(workerCtx)
	defer func() {
		stopWorker()
		<-statsWorker.Flushed()
	}()

	var driver session.Driver
	if mode == types.ModeOnline {
		store := newStore(ctx, storeURL, app)
		defer store.Close()
		driver = newNetworkedDriver(ctx, store, player, difficulty, *join, statsWorker)
	} else {
		driver, err = session.NewLocalDriver(session.NewLocalDriverOptions{
			Mode:       mode,
			Difficulty: difficulty,
			Player:     player,
			Recorder:   statsWorker,
		})
		if err != nil {
			panic(fmt.Sprintf("Failed to create local game: %v", err))
		}
	}

	r := &renderer{w: os.Stdout}
	if stats, err := repository.GetStats(ctx, player.ID); err == nil {
		r.best = int(stats.BestScore)
	}
	go func() {
		for v := range driver.Updates() {
			r.render(v)
		}
	}()
	go readCommands(ctx, os.Stdin, driver)

	if err := driver.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stdout, "Game over: %v\n", err)
	}

	if stats, err := repository.GetStats(context.Background(), player.ID); err == nil {
		fmt.Fprintf(os.Stdout, "Best %d, total %d over %d games, %d wins\n", stats.BestScore, stats.TotalScore, stats.TotalGames, stats.Wins)
	} else if !repositories.IsNotFound(err) {
		log.Error("Failed to load stats: %v", err)
	}
}

func envOr(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newRepository(ctx context.Context, connStr string, migrations string, app *firebase.App) repositories.Repository {
	u, err := url.Parse(connStr)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse connection string: %v", err))
	}

	var repository repositories.Repository
	switch u.Scheme {
	case "sqlite":
		repository, err = repositories.NewSQLiteRepository(ctx, u.Host+u.Path, migrations)
		if err != nil {
			panic(fmt.Sprintf("Failed to create SQLite repository: %v", err))
		}
	case "postgresql", "postgres":
		repository, err = repositories.NewPostgresRepository(ctx, u.String())
		if err != nil {
			panic(fmt.Sprintf("Failed to create Postgres repository: %v", err))
		}
	case "firestore":
		repository, err = repositories.NewFirestoreRepository(ctx, app)
		if err != nil {
			panic(fmt.Sprintf("Failed to create Firestore repository: %v", err))
		}
	case "memory":
		repository = repositories.NewInMemoryRepository()
	default:
		panic(fmt.Sprintf("Unknown database type %s", u.Scheme))
	}
	return repository
}

func newStore(ctx context.Context, storeURL string, app *firebase.App) state.Store {
	u, err := url.Parse(storeURL)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse store url: %v", err))
	}

	switch u.Scheme {
	case "memory":
		log.Warn("In-memory room store only reaches clients in this process")
		return state.NewInMemoryStore()
	case "redis", "rediss":
		store, err := state.NewRedisStore(ctx, u.String())
		if err != nil {
			panic(fmt.Sprintf("Failed to create Redis store: %v", err))
		}
		return store
	case "firestore":
		store, err := state.NewFirestoreStore(ctx, app)
		if err != nil {
			panic(fmt.Sprintf("Failed to create Firestore store: %v", err))
		}
		return store
	default:
		panic(fmt.Sprintf("Unknown store type %s", u.Scheme))
	}
}

// newNetworkedDriver creates a room when code is empty, or joins it otherwise.
func newNetworkedDriver(ctx context.Context, store state.Store, player types.Player, difficulty types.Difficulty, code string, recorder accounting.Recorder) session.Driver {
	manager := rooms.NewManager(rooms.NewManagerOptions{Store: store})

	if code == "" {
		created, err := manager.CreateRoom(ctx, player, difficulty)
		if err != nil {
			panic(fmt.Sprintf("Failed to create room: %v", err))
		}
		code = created
		fmt.Fprintf(os.Stdout, "Room %s created, waiting for a guest\n", code)
	} else {
		room, err := manager.JoinRoom(ctx, code, player)
		if err != nil {
			panic(fmt.Sprintf("Failed to join room: %v", err))
		}
		fmt.Fprintf(os.Stdout, "Joined %s's room %s\n", room.HostName, room.Code)
		code = room.Code
	}

	driver, err := session.NewNetworkedDriver(session.NewNetworkedDriverOptions{
		Store:    store,
		Rooms:    manager,
		Code:     code,
		Player:   player,
		Recorder: recorder,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create networked game: %v", err))
	}
	return driver
}

// readCommands forwards stdin commands to the driver until quit or EOF.
func readCommands(ctx context.Context, in io.Reader, driver session.Driver) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		cmd, err := parseCommand(scanner.Text())
		if err != nil {
			fmt.Fprintln(os.Stdout, err)
			continue
		}
		switch cmd.kind {
		case commandNone:
			continue
		case commandFlip:
			err = driver.Flip(ctx, cmd.tile)
		case commandRestart:
			err = driver.Restart(ctx)
		case commandQuit:
			if err := driver.Leave(ctx); err != nil {
				log.Error("Failed to leave: %v", err)
			}
			return
		}
		if msg, ok := rejection(err); ok {
			fmt.Fprintln(os.Stdout, msg)
		}
		if errors.Is(err, session.ErrStopped) {
			return
		}
	}
	if err := driver.Leave(ctx); err != nil {
		log.Error("Failed to leave: %v", err)
	}
}

// rejection returns what to tell the player about a failed command. Illegal
// flips are not reported.
func rejection(err error) (string, bool) {
	if err == nil || errors.Is(err, game.ErrIllegalFlip) {
		return "", false
	}
	return fmt.Sprintf("Rejected: %v", err), true
}

type commandKind int

const (
	commandNone commandKind = iota
	commandFlip
	commandRestart
	commandQuit
)

type userCommand struct {
	kind commandKind
	tile int
}

// parseCommand accepts "flip <id>", a bare tile id, "restart" and "quit".
func parseCommand(line string) (userCommand, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return userCommand{kind: commandNone}, nil
	}
	switch fields[0] {
	case "restart", "r":
		return userCommand{kind: commandRestart}, nil
	case "quit", "q", "exit":
		return userCommand{kind: commandQuit}, nil
	case "flip", "f":
		if len(fields) != 2 {
			return userCommand{}, fmt.Errorf("usage: flip <tile>")
		}
		fields = fields[1:]
	}
	tile, err := strconv.Atoi(fields[0])
	if err != nil {
		return userCommand{}, fmt.Errorf("unknown command %q", line)
	}
	return userCommand{kind: commandFlip, tile: tile}, nil
}
