package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jswales/capstead/pkg/api"
	"github.com/jswales/capstead/pkg/board"
	"github.com/jswales/capstead/pkg/game"
	"github.com/jswales/capstead/pkg/log"
	"github.com/jswales/capstead/pkg/network"
	"github.com/jswales/capstead/pkg/queue"
	"github.com/jswales/capstead/pkg/repositories"
	"github.com/jswales/capstead/pkg/workers"
)

func main() {
	tcpPort := flag.Int("tcp-port", 8888, "TCP port to listen on")
	wsPort := flag.Int("ws-port", 8890, "WebSocket port to listen on")
	apiPort := flag.Int("api-port", 9090, "API port to listen on")
	logLevel := flag.String("log-level", "info", "Log level")
	dbPath := flag.String("db", "capstead.db", "SQLite database path")
	sessionName := flag.String("session-name", "", "Announce the session on the LAN under this name")
	boardPath := flag.String("board", "", "Board layout file (defaults to the built-in layout)")
	players := flag.Int("players", 0, "Start automatically once this many players are seated (0 for manual /start)")
	restore := flag.Bool("restore", false, "Restore the latest checkpoint instead of starting fresh")
	saveInterval := flag.Duration("save-interval", 30*time.Second, "Time between checkpoints")
	heartbeatInterval := flag.Duration("heartbeat-interval", 10*time.Second, "Time between full board rebroadcasts")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file loaded: %v", err)
	}

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := board.Default()
	if *boardPath != "" {
		b, err = board.LoadFile(*boardPath)
		if err != nil {
			panic(fmt.Sprintf("Failed to load board layout: %v", err))
		}
	}

	var repository repositories.Repository
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		repository, err = repositories.NewPostgresRepository(ctx, connStr)
	} else {
		repository, err = repositories.NewSQLiteRepository(ctx, *dbPath)
	}
	if err != nil {
		panic(fmt.Sprintf("Failed to open repository: %v", err))
	}
	defer repository.Close(ctx)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	session := game.NewSession(b, rng)
	if *restore {
		snapshot, timestamp, err := repository.LoadLatestSnapshot(ctx)
		if err != nil {
			panic(fmt.Sprintf("Failed to load checkpoint: %v", err))
		}
		session, err = game.RestoreSession(b, snapshot, rng)
		if err != nil {
			panic(fmt.Sprintf("Failed to restore session: %v", err))
		}
		log.Info("Restored checkpoint from %s", time.UnixMilli(timestamp).Format(time.RFC3339))
	}

	clientManager := network.NewClientManager()
	clientMessageQueue := queue.NewInMemoryQueue(10000)
	connectionEventQueue := queue.NewInMemoryQueue(1000)

	networkManager := network.NewNetworkManager(network.NewNetworkManagerOptions{
		ClientManager: clientManager,
		MessageQueue:  clientMessageQueue,
		TCPPort:       *tcpPort,
		WSPort:        *wsPort,
		SessionName:   *sessionName,
	})
	networkManager.Start(ctx)

	clientEventWorker := workers.NewClientEventWorker(workers.NewClientEventWorkerOptions{
		ClientManager:        clientManager,
		ConnectionEventQueue: connectionEventQueue,
	})
	go clientEventWorker.Start()

	gameLoopInterval := 100 * time.Millisecond
	gameManager := game.NewGameManager(game.NewGameManagerOptions{
		ClientSender:         networkManager,
		ClientMessageQueue:   clientMessageQueue,
		ConnectionEventQueue: connectionEventQueue,
		Session:              session,
		LoopInterval:         gameLoopInterval,
		AutoStart:            *players,
		ResumeOnAttach:       *restore,
	})

	saveChan := make(chan struct{}, 1)
	saveWorker := workers.NewSaveSessionWorker(workers.NewSaveSessionWorkerOptions{
		Repository: repository,
		Source:     gameManager,
		SaveChan:   saveChan,
		Interval:   *saveInterval,
	})
	go saveWorker.Start(ctx)

	heartbeatWorker := workers.NewHeartbeatWorker(workers.NewHeartbeatWorkerOptions{
		Syncer:   gameManager,
		Interval: *heartbeatInterval,
	})
	go heartbeatWorker.Start(ctx)

	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:       *apiPort,
		Summarizer: gameManager,
		SaveChan:   saveChan,
	})
	go apiServer.Start()
	defer apiServer.Stop(context.Background())

	log.Info("Starting game manager")
	gameManager.Start(ctx)
}
