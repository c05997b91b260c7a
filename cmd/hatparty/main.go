package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"

	"github.com/mkovalev/hatparty/internal/logging"
	"github.com/mkovalev/hatparty/pkg/client"
	"github.com/mkovalev/hatparty/pkg/transport"
	"github.com/mkovalev/hatparty/pkg/ui"
)

func main() {
	// A .env file in the working directory can carry the server address
	// for development setups. Missing file is fine.
	_ = godotenv.Load()

	var (
		serverURL  = flag.String("server", os.Getenv("HATPARTY_SERVER_URL"), "ws:// or wss:// game server URL")
		roomID     = flag.String("room", "", "room id to join")
		userID     = flag.Int("user", 0, "local player id")
		playerName = flag.String("name", "", "display name")
		datadir    = flag.String("datadir", "", "config and log directory")
		debugLevel = flag.String("debuglevel", "", "log level (trace, debug, info, warn, error)")
	)
	flag.Parse()

	cfg, err := client.LoadConfig("hatparty", *datadir, client.ConfigOverrides{
		ServerURL:  *serverURL,
		RoomID:     *roomID,
		UserID:     *userID,
		PlayerName: *playerName,
		DebugLevel: *debugLevel,
	})
	if err != nil {
		fmt.Printf("Configuration error: %v\n", err)
		os.Exit(1)
	}
	cfg.Notifications = client.NewNotificationManager()

	logFile := cfg.LogFile
	if logFile == "" {
		logFile = filepath.Join(cfg.DataDir, "logs", "hatparty.log")
	}
	logBackend, err := logging.NewBackend(logging.Config{
		LogFile:     logFile,
		DebugLevel:  cfg.DebugLevel,
		MaxLogFiles: cfg.MaxLogFiles,
	})
	if err != nil {
		fmt.Printf("Logging error: %v\n", err)
		os.Exit(1)
	}
	defer logBackend.Close()

	log := logBackend.Logger("MAIN")
	log.Infof("Using server address: %s", cfg.ServerURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chanCfg := transport.DefaultConfig(cfg.ServerURL)
	chanCfg.ReconnectAttempts = cfg.ReconnectAttempts
	chanCfg.ReconnectDelay = cfg.ReconnectDelay()

	channel, err := transport.Dial(chanCfg, logBackend.Logger("TRNS"))
	if err != nil {
		log.Errorf("Failed to connect: %v", err)
		os.Exit(1)
	}

	cl, err := client.NewGameClient(ctx, cfg, channel, logBackend.Logger("CLNT"), clockwork.NewRealClock())
	if err != nil {
		log.Errorf("Failed to create client: %v", err)
		channel.Close()
		os.Exit(1)
	}
	defer cl.Close()

	ui.Run(ctx, cl)
}
