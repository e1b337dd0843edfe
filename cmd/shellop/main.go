package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"shellop/pkg/args"
	"shellop/pkg/builder"
	"shellop/pkg/certs"
	"shellop/pkg/domain"
	"shellop/pkg/lxd"
	"shellop/pkg/resources"
	"shellop/pkg/runner"
	"shellop/pkg/unitenv"

	flag "github.com/spf13/pflag"
)

func main() {
	root := &args.Root{
		Description: "Operator logic for the termserver shell service",
		Commands: []args.Command{
			configCommand(),
			setupCommand(),
			importImageCommand(),
			exterminateCommand(),
			fetchResourceCommand(),
		},
	}
	os.Exit(root.Run())
}

func configCommand() args.Command {
	return &args.Cmd[domain.CommandConfig]{
		Names:            []string{"config"},
		Description:      "Build the service configuration from the operator options and adjust port exposure.",
		ShortDescription: "Build the service configuration",
		Flags: func(cfg *domain.CommandConfig, flags *flag.FlagSet) {
			flags.StringVar(&cfg.LogLevel, "log-level", "info", "Service log level")
			flags.IntVar(&cfg.Port, "port", 4247, "Service listening port")
			flags.BoolVar(&cfg.TLS, "tls", false, "Enable TLS")
			flags.StringVar(&cfg.TLSCert, "tls-cert", "", "TLS certificate (base64)")
			flags.StringVar(&cfg.TLSKey, "tls-key", "", "TLS key (base64)")
			flags.StringVar(&cfg.DNSName, "dns-name", "", "Public DNS name for externally terminated TLS")
			flags.StringVar(&cfg.JujuAddrs, "juju-addrs", "", "Controller addresses override (space separated)")
			flags.StringVar(&cfg.JujuCert, "juju-cert", "", "Controller CA certificate, or \"from-unit\"")
			flags.StringVar(&cfg.AllowedUsers, "allowed-users", "", "Allowed users (space separated, empty for unrestricted)")
			flags.IntVar(&cfg.SessionTimeout, "session-timeout", 0, "Session timeout in seconds, 0 for none")
			flags.StringVar(&cfg.WelcomeMessage, "welcome-message", "", "Message shown on session start")
			flags.IntVar(&cfg.PrevPort, "prev-port", 0, "Previously exposed port, 0 if none")
		},
		Run: func(ctx context.Context, log *slog.Logger, cfg *domain.CommandConfig) error {
			run := runner.New(log)
			env := unitenv.OSEnviron{}
			snapshot := domain.Snapshot{
				LogLevel:       cfg.LogLevel,
				Port:           cfg.Port,
				TLS:            cfg.TLS,
				TLSCert:        cfg.TLSCert,
				TLSKey:         cfg.TLSKey,
				DNSName:        cfg.DNSName,
				JujuAddrs:      cfg.JujuAddrs,
				JujuCert:       cfg.JujuCert,
				AllowedUsers:   cfg.AllowedUsers,
				SessionTimeout: cfg.SessionTimeout,
				WelcomeMessage: cfg.WelcomeMessage,
			}
			if cfg.PrevPort != 0 {
				snapshot.Prev = &domain.Snapshot{Port: cfg.PrevPort}
			}
			b := &builder.Builder{
				Env:   env,
				Ports: &builder.HookPorts{Runner: run},
				Certs: &certs.Provider{Runner: run, WorkDir: env.CharmDir(), Log: log},
				Log:   log,
			}
			sc, err := b.Build(snapshot)
			if err != nil {
				return err
			}
			fmt.Println(builder.ServiceURL(sc))
			return nil
		},
	}
}

func setupCommand() args.Command {
	return &args.Cmd[domain.CommandSetup]{
		Names:            []string{"setup"},
		Description:      "Initialize the container runtime and apply session resource quotas.",
		ShortDescription: "Initialize the container runtime",
		Flags: func(cfg *domain.CommandSetup, flags *flag.FlagSet) {
			flags.IntVar(&cfg.QuotaCPUCores, "quota-cpu-cores", 1, "CPU cores per session container")
			flags.StringVar(&cfg.QuotaCPUAllowance, "quota-cpu-allowance", "100%", "CPU allowance per session container")
			flags.StringVar(&cfg.QuotaRAM, "quota-ram", "256MB", "Memory limit per session container")
			flags.IntVar(&cfg.QuotaProcesses, "quota-processes", 100, "Process limit per session container")
		},
		Run: func(ctx context.Context, log *slog.Logger, cfg *domain.CommandSetup) error {
			run := runner.New(log)
			client, err := lxd.NewSocketClient(domain.LXDSocketPath, log)
			if err != nil {
				return err
			}
			if err := lxd.Setup(client, run, log); err != nil {
				return err
			}
			return lxd.UpdateQuotas(run, domain.Snapshot{
				QuotaCPUCores:     cfg.QuotaCPUCores,
				QuotaCPUAllowance: cfg.QuotaCPUAllowance,
				QuotaRAM:          cfg.QuotaRAM,
				QuotaProcesses:    cfg.QuotaProcesses,
			})
		},
	}
}

func importImageCommand() args.Command {
	return &args.Cmd[domain.CommandImportImage]{
		Names:            []string{"import-image"},
		Description:      "Import a base image tarball into the runtime under an alias, deduplicated by content.",
		ShortDescription: "Import a base image",
		Positional: func(cfg *domain.CommandImportImage, argv []string) error {
			if len(argv) != 2 {
				return fmt.Errorf("usage: import-image ALIAS PATH")
			}
			cfg.Alias, cfg.Path = argv[0], argv[1]
			return nil
		},
		Run: func(ctx context.Context, log *slog.Logger, cfg *domain.CommandImportImage) error {
			client, err := lxd.NewSocketClient(domain.LXDSocketPath, log)
			if err != nil {
				return err
			}
			return lxd.ImportImage(client, log, cfg.Alias, cfg.Path)
		},
	}
}

func exterminateCommand() args.Command {
	return &args.Cmd[domain.CommandExterminate]{
		Names:            []string{"exterminate"},
		Description:      "Stop and delete session containers. Prints the names of removed containers.",
		ShortDescription: "Remove session containers",
		Flags: func(cfg *domain.CommandExterminate, flags *flag.FlagSet) {
			flags.StringVar(&cfg.Name, "name", "", "Only the container with this exact name")
			flags.BoolVar(&cfg.OnlyStopped, "only-stopped", false, "Only containers that are already stopped")
			flags.BoolVar(&cfg.DryRun, "dry-run", false, "Report what would be removed without touching anything")
		},
		Run: func(ctx context.Context, log *slog.Logger, cfg *domain.CommandExterminate) error {
			client, err := lxd.NewSocketClient(domain.LXDSocketPath, log)
			if err != nil {
				return err
			}
			removed, err := lxd.Exterminate(client, log, cfg.Name, cfg.OnlyStopped, cfg.DryRun)
			if err != nil {
				return err
			}
			for _, name := range removed {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func fetchResourceCommand() args.Command {
	type payload struct {
		Limited bool
	}
	return &args.Cmd[payload]{
		Names:            []string{"fetch-resource"},
		Description:      "Fetch the termserver image resource and stage it for import.",
		ShortDescription: "Stage the termserver image resource",
		Flags: func(cfg *payload, flags *flag.FlagSet) {
			flags.BoolVar(&cfg.Limited, "limited", false, "Fetch the resource-limited image variant")
		},
		Run: func(ctx context.Context, log *slog.Logger, cfg *payload) error {
			run := runner.New(log)
			retriever := &resources.HookRetriever{Runner: run}
			name := domain.ImageName
			if cfg.Limited {
				name += "-limited"
			}
			path := resources.TermserverPath(cfg.Limited)
			if err := resources.Save(retriever, name, path); err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}
