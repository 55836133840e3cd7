// Command wispr is a push-to-talk dictation utility. Hold the hotkey to
// record, release it to transcribe, and the text is pasted into
// whatever has keyboard focus.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"

	"go.skana.me/wispr/audiocapture"
	"go.skana.me/wispr/config"
	"go.skana.me/wispr/hotkey"
	"go.skana.me/wispr/inject"
	"go.skana.me/wispr/internal/session"
	"go.skana.me/wispr/notify"
	"go.skana.me/wispr/singleinstance"
	"go.skana.me/wispr/stats"
	"go.skana.me/wispr/stt"
)

const appName = "Wispr"

func main() {
	os.Exit(run())
}

func run() int {
	auto := flag.Bool("auto", false, "start with the saved model, skipping the model menu")
	remote := flag.Bool("remote", false, "transcribe via the OpenAI API (needs OPENAI_API_KEY) instead of a local model")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      parseLevel(*logLevel),
		TimeFormat: time.Kitchen,
	})))

	guard := singleinstance.New(filepath.Join(os.TempDir(), "wispr.lock"))
	ok, err := guard.TryAcquire()
	if err != nil {
		slog.Error("instance lock", "error", err)
		return 1
	}
	if !ok {
		// Another copy already owns the mic and hotkey; yielding is the
		// expected outcome, not a failure.
		slog.Info("wispr is already running")
		return 0
	}
	defer guard.Release()

	configPath, err := config.DefaultPath()
	if err != nil {
		slog.Error("resolve config dir", "error", err)
		return 1
	}
	dataDir := filepath.Dir(configPath)
	settings := config.Open(configPath)
	statsPath, err := stats.DefaultPath()
	if err != nil {
		slog.Error("resolve stats path", "error", err)
		return 1
	}
	statsStore := stats.Open(statsPath)

	model := settings.Get().CurrentModel
	if !*auto && !*remote {
		model = chooseModel(model)
	}
	if err := settings.SetCurrentModel(model); err != nil {
		slog.Warn("persist model choice", "error", err)
	}
	if err := statsStore.SetModel(model); err != nil {
		slog.Warn("persist model choice", "error", err)
	}

	engine, err := buildEngine(*remote, dataDir, model)
	if err != nil {
		slog.Error("create speech engine", "error", err)
		return 1
	}
	defer engine.Close()

	combo, err := hotkey.ParseCombo(settings.Get().Hotkey)
	if err != nil {
		slog.Error("parse hotkey", "hotkey", settings.Get().Hotkey, "error", err)
		return 1
	}

	hooks := hotkey.NewHookState()
	hooks.Start()
	defer hooks.Stop()

	monitor := hotkey.New(combo, hooks)
	if err := monitor.Start(); err != nil {
		slog.Error("start hotkey monitor", "error", err)
		return 1
	}
	defer monitor.Stop()

	sounds := notify.NewSounds(settings.Get().SoundEffectsEnabled)
	tray := newTray(statsPath)
	presenter := notify.Multi{tray, sounds}
	if settings.Get().FlowBarEnabled {
		presenter = append(presenter, notify.NewDesktop(appName))
	}

	ctrl := session.New(session.Config{
		Mic:         audiocapture.New(audiocapture.Config{SampleRate: stt.SampleRate}),
		Transcriber: session.NewWorker(engine, settings.Get().Language),
		Stats:       statsStore,
		Injector:    inject.NewClipboard(),
		Presenter:   presenter,
		Model:       engine.Model(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tray.Run(stop)
	defer tray.Quit()

	slog.Info("wispr ready",
		"hotkey", combo.String(),
		"model", engine.Model(),
		"language", settings.Get().Language,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := ctrl.Run(gctx, monitor.Events())
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		slog.Error("session loop", "error", err)
		return 1
	}
	slog.Info("wispr stopped")
	return 0
}

// buildEngine picks the local whisper.cpp engine or the hosted API.
func buildEngine(remote bool, dataDir, model string) (stt.Engine, error) {
	if remote {
		return stt.NewAPI(stt.APIConfig{APIKey: os.Getenv("OPENAI_API_KEY")})
	}
	path := stt.ModelPath(filepath.Join(dataDir, "models"), model)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("model file %s not found; download it with the whisper.cpp download-ggml-model script", path)
	}
	return stt.NewLocal(path, model)
}

// chooseModel shows the model catalog on stdout and reads a selection.
// Enter keeps the current model.
func chooseModel(current string) string {
	models := stt.Models()
	fmt.Println("Available models:")
	for i, m := range models {
		marker := " "
		if m.Name == current {
			marker = "*"
		}
		fmt.Printf(" %s %d) %-7s %s\n", marker, i+1, m.Name, m.Description)
	}
	fmt.Printf("Select model [1-%d, Enter keeps %s]: ", len(models), current)

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return current
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return current
	}
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(models) {
		return models[n-1].Name
	}
	if stt.KnownModel(line) {
		return line
	}
	fmt.Printf("Unknown selection %q, keeping %s\n", line, current)
	return current
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
