// Package args implements the small subcommand dispatch used by the
// shellop maintenance CLI.
package args

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	flag "github.com/spf13/pflag"
)

// Command is a dispatchable subcommand.
type Command interface {
	Call(ctx context.Context, log *slog.Logger, args []string) error
	Usage() Usage
}

// Usage describes a command for help output.
type Usage struct {
	Names []string
	Usage string
}

// Root dispatches os.Args to its commands.
type Root struct {
	Description string
	Commands    []Command
}

// Run dispatches and returns the process exit code.
func (r *Root) Run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	level := slog.LevelInfo
	if v := os.Getenv("SHELLOP_LOG_LEVEL"); v != "" {
		_ = level.UnmarshalText([]byte(v))
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if len(os.Args) > 1 {
		commandName := strings.ToLower(strings.TrimSpace(os.Args[1]))
		for _, cmd := range r.Commands {
			for _, name := range cmd.Usage().Names {
				if name == commandName {
					if err := cmd.Call(ctx, log, os.Args[2:]); err != nil {
						_, _ = fmt.Fprintf(os.Stderr, "%s\n", err)
						return 1
					}
					return 0
				}
			}
		}
	}
	r.help()
	return 2
}

func (r *Root) help() {
	_, _ = fmt.Fprintf(os.Stderr, "USAGE: %s COMMAND [OPTIONS]\n\n", os.Args[0])
	_, _ = fmt.Fprintf(os.Stderr, "%s\n\n", r.Description)
	_, _ = fmt.Fprintf(os.Stderr, "Commands:\n")
	w := tabwriter.NewWriter(os.Stderr, 0, 0, 1, ' ', tabwriter.AlignRight|tabwriter.Debug)
	for _, cmd := range r.Commands {
		usage := cmd.Usage()
		_, _ = fmt.Fprintln(w, strings.Join(usage.Names, ","), "\t", usage.Usage)
	}
	_ = w.Flush()
}

var _ Command = (*Cmd[struct{}])(nil)

// Cmd binds a flag set and positional parser to a typed payload.
type Cmd[V any] struct {
	Names            []string
	Description      string
	ShortDescription string
	Flags            func(cfg *V, flags *flag.FlagSet)
	Positional       func(cfg *V, args []string) error
	Run              func(ctx context.Context, log *slog.Logger, cfg *V) error
}

func (c *Cmd[V]) Call(ctx context.Context, log *slog.Logger, args []string) error {
	flags := flag.NewFlagSet(c.Names[0], flag.ContinueOnError)
	flags.Usage = func() {}
	cfg := new(V)
	if c.Flags != nil {
		c.Flags(cfg, flags)
	}
	if err := flags.Parse(args); err != nil {
		c.help(flags)
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	rest := flags.Args()
	if c.Positional != nil {
		if err := c.Positional(cfg, rest); err != nil {
			c.help(flags)
			return err
		}
	} else if len(rest) > 0 {
		err := fmt.Errorf("command takes no positional arguments")
		c.help(flags)
		return err
	}
	return c.Run(ctx, log, cfg)
}

func (c *Cmd[V]) help(flags *flag.FlagSet) {
	_, _ = fmt.Fprintf(os.Stderr, "USAGE: %s", strings.Join(c.Names, ","))
	if flags.HasFlags() {
		_, _ = fmt.Fprintf(os.Stderr, " [OPTIONS]")
	}
	_, _ = fmt.Fprintf(os.Stderr, "\n\n%s\n", c.Description)
	if flags.HasFlags() {
		_, _ = fmt.Fprintf(os.Stderr, "\nOptions:\n%s", flags.FlagUsagesWrapped(0))
	}
}

func (c *Cmd[V]) Usage() Usage {
	return Usage{Names: c.Names, Usage: c.ShortDescription}
}
