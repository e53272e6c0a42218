package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/tailored-agentic-units/chatstore/chat"
	"github.com/tailored-agentic-units/chatstore/chatstore"
	"github.com/tailored-agentic-units/chatstore/history"
	"github.com/tailored-agentic-units/chatstore/memory"
	"github.com/tailored-agentic-units/chatstore/observability"
)

const usage = `Usage: chatstore [flags] <command> [args]

Commands:
  save                 read a JSON message array from stdin and store it
  load                 print the stored history as JSON
  append <role> <text> add one message to the stored history
  inspect              print slot size and message counts
  clear                delete the stored history
  sleep <duration>     wait for a duration, e.g. 250ms
`

// usageText lists the commands and the observers selectable with -observer
// or CHATSTORE_OBSERVER.
func usageText() string {
	return fmt.Sprintf("%s\nObservers: %s\n\nFlags:", usage, strings.Join(observability.Names(), ", "))
}

func main() {
	var (
		configFile = flag.String("config", "", "Path to config JSON file")
		envFile    = flag.String("env", ".env", "Path to dotenv file")
		path       = flag.String("path", "", "Store directory; selects the file backend (overrides config)")
		key        = flag.String("key", "", "History slot key (overrides config)")
		limit      = flag.Int("limit", 0, "Size limit in UTF-16 code units (overrides config)")
		observer   = flag.String("observer", "", "Registered observer name (overrides config)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, usageText())
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	cfg := chatstore.DefaultConfig()
	if *configFile != "" {
		loaded, err := chatstore.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}

	if err := cfg.ApplyEnvFile(*envFile); err != nil {
		log.Fatalf("Failed to apply environment: %v", err)
	}

	if *path != "" {
		cfg.Memory.Backend = memory.BackendFile
		cfg.Memory.Path = *path
	}
	if *key != "" {
		cfg.History.Key = *key
	}
	if *limit > 0 {
		cfg.History.Limit = *limit
	}
	if *observer != "" {
		cfg.Observer = *observer
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var opts []chatstore.Option
	if cfg.Observer == "slog" {
		opts = append(opts, chatstore.WithLogger(logger))
	}

	rt, err := chatstore.New(&cfg, opts...)
	if err != nil {
		log.Fatalf("Failed to create runtime: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, rt, flag.Args(), os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "chatstore: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context, rt *chatstore.Runtime, args []string, stdin io.Reader, stdout io.Writer) error {
	h := rt.History()

	switch cmd, rest := args[0], args[1:]; cmd {
	case "save":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		msgs, err := history.Decode(data)
		if err != nil {
			return fmt.Errorf("%w: stdin: %w", history.ErrDecode, err)
		}
		return h.Save(ctx, msgs)

	case "load":
		msgs, err := h.Load(ctx)
		if err != nil {
			return err
		}
		return writeJSON(stdout, msgs)

	case "append":
		if len(rest) < 2 {
			return errors.New("append requires <role> <text>")
		}
		return h.Append(ctx, chat.NewMessage(chat.Role(rest[0]), strings.Join(rest[1:], " ")))

	case "inspect":
		sum, err := h.Inspect(ctx)
		if err != nil {
			return err
		}
		return writeJSON(stdout, sum)

	case "clear":
		return h.Clear(ctx)

	case "sleep":
		if len(rest) != 1 {
			return errors.New("sleep requires <duration>")
		}
		d, err := time.ParseDuration(rest[0])
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		return rt.Wait(ctx, d)

	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// exitCode distinguishes the failure kinds so scripts can react without
// parsing stderr.
func exitCode(err error) int {
	switch {
	case errors.Is(err, history.ErrTooLarge):
		return 3
	case errors.Is(err, history.ErrStorage):
		return 4
	case errors.Is(err, memory.ErrKeyNotFound):
		return 5
	case errors.Is(err, history.ErrDecode), errors.Is(err, history.ErrInvalid):
		return 6
	default:
		return 1
	}
}
