package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"twin/config"
	"twin/generator"
	"twin/server"
	"twin/storage"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	addr := flag.String("addr", "", "http listen address (overrides config)")
	serve := flag.Bool("serve", false, "start the web server")
	topic := flag.String("topic", "", "one-shot mode: generate a thread about this topic and print it as JSON")
	hook := flag.String("hook", "negative", "one-shot mode: hook type (negative, numbers, story, contrarian, list)")
	debug := flag.Bool("v", false, "enable debug logs")
	flag.Parse()

	logger, err := buildLogger(*debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	store, err := buildStore(cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	llm, err := buildLLM(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	agent, err := generator.NewAgent(llm, server.VoiceDirectory(store), logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// One-shot CLI mode
	if *topic != "" {
		draft, err := agent.GenerateThread(context.Background(), *topic, *hook, "")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		out, _ := json.MarshalIndent(draft, "", "  ")
		fmt.Println(string(out))
		return
	}

	if !*serve {
		fmt.Fprintln(os.Stderr, "nothing to do: pass -serve or -topic")
		os.Exit(1)
	}

	srv, err := server.New(agent, store, cfg.DemoUserID, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	listen := cfg.Server.Addr
	if *addr != "" {
		listen = *addr
	}
	logger.Info("starting web server", zap.String("addr", listen), zap.String("llm", cfg.LLM.Provider))
	if err := http.ListenAndServe(listen, srv.Routes()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildLogger(debug bool) (*zap.Logger, error) {
	logCfg := zap.NewProductionConfig()
	if debug {
		logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return logCfg.Build()
}

func buildStore(cfg config.Config, logger *zap.Logger) (storage.Store, error) {
	if cfg.Database.DSN == "" {
		logger.Warn("no database dsn configured, using in-memory store")
		return storage.NewMemoryStore(), nil
	}
	return storage.Open(cfg.Database.DSN)
}

func buildLLM(cfg config.Config) (generator.LLMClient, error) {
	switch cfg.LLM.Provider {
	case "mock":
		return generator.MockLLM{}, nil
	case "openai", "deepseek":
		return generator.NewOpenAILLMFromConfig(&generator.LLMSettings{
			Provider: cfg.LLM.Provider,
			Model:    cfg.LLM.Model,
			APIKey:   cfg.LLM.APIKey,
			BaseURL:  cfg.LLM.BaseURL,
		})
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}
