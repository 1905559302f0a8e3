package main

import (
	"flag"
	"net/http"

	"go.uber.org/zap"

	"github.com/fbarret/chatter/internal/api"
	"github.com/fbarret/chatter/internal/chat"
	"github.com/fbarret/chatter/internal/config"
	"github.com/fbarret/chatter/internal/ingest"
	"github.com/fbarret/chatter/internal/llm"
	"github.com/fbarret/chatter/internal/persona"
	"github.com/fbarret/chatter/internal/speech"
	"github.com/fbarret/chatter/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to TOML config file")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load(*configPath, logger)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	if cfg.APIKey == "" {
		logger.Warn("no API key configured, completion requests will be rejected upstream")
	}

	st, err := store.New(cfg.DBPath, nil)
	if err != nil {
		logger.Fatal("failed to open store",
			zap.Error(err),
			zap.String("dbPath", cfg.DBPath))
	}
	defer st.Close()

	personas := persona.NewRegistry()
	client := llm.New(cfg.BaseURL, cfg.APIKey, cfg.Model, logger)

	var speaker speech.Speaker = speech.Nop{}
	if cfg.SpeechCommand != "" {
		speaker = &speech.Command{Bin: cfg.SpeechCommand, Logger: logger}
	}

	controller := chat.New(chat.Config{
		Store:    st,
		Client:   client,
		Personas: personas,
		Ingestor: ingest.New(logger),
		Speaker:  speaker,
		Logger:   logger,
	})

	handler := api.NewHandler(st, controller, personas, api.Defaults{
		Language: cfg.DefaultLanguage,
		Persona:  cfg.DefaultPersona,
	}, logger)

	mux := http.NewServeMux()
	handler.Register(mux)
	mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))

	root := api.Chain(api.CORS, api.RequestLogger(logger))(mux)

	logger.Info("Starting server",
		zap.String("addr", cfg.ListenAddr),
		zap.String("model", cfg.Model))
	if err := http.ListenAndServe(cfg.ListenAddr, root); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
