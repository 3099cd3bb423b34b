package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"os/user"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danzirulez/LogAnalyticsCollector/internal/config"
	"github.com/danzirulez/LogAnalyticsCollector/internal/daemon"
	"github.com/danzirulez/LogAnalyticsCollector/internal/engine"
	"github.com/danzirulez/LogAnalyticsCollector/internal/probes"
	"github.com/danzirulez/LogAnalyticsCollector/internal/resolver"
	"github.com/danzirulez/LogAnalyticsCollector/internal/sender"
	"github.com/danzirulez/LogAnalyticsCollector/internal/winsvc"
)

var (
	version    = "dev"
	commitHash = "unknown"
	buildDate  = "unknown"
)

var (
	cfgFile    string
	outputFile string
)

const serviceName = "LogAnalyticsAgent"

var rootCmd = &cobra.Command{
	Use:   "la-agent",
	Short: "Log Analytics agent - collects endpoint facts and uploads reports",
	Long: `Log Analytics agent runs a set of endpoint probes (firmware, drivers,
battery, displays, security posture, logons, optional features, docking,
folder sizes), aggregates the results into a single report and uploads it
to a Log Analytics collector.

Run without a subcommand to start the daemon (equivalent to 'run').`,
	RunE: runDaemon,
}

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run all probes once and print the report as JSON",
	RunE:  runCollect,
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Run all probes once and upload the report to the collector",
	RunE:  runSend,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the collection daemon",
	RunE:  runDaemon,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("la-agent %s (commit: %s, built: %s)\n", version, commitHash, buildDate)
	},
}

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage Windows service installation",
}

var serviceInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install as a Windows service",
	RunE:  runServiceInstall,
}

var serviceUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall the Windows service",
	RunE:  runServiceUninstall,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./configs/agent.yaml)")
	rootCmd.PersistentFlags().String("endpoint", "", "collector base URL (e.g. https://collector.example.com)")
	rootCmd.PersistentFlags().String("workspace-id", "", "workspace id presented in the Authorization header")
	rootCmd.PersistentFlags().String("shared-key", "", "base64 shared key used to sign uploads (empty = unsigned)")

	collectCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write JSON output to file instead of stdout")

	serviceCmd.AddCommand(serviceInstallCmd)
	serviceCmd.AddCommand(serviceUninstallCmd)

	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serviceCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.AgentConfig, error) {
	cfg, err := config.LoadAgent(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// CLI flag overrides.
	if v, _ := cmd.Flags().GetString("endpoint"); v != "" {
		cfg.Endpoint = v
	}
	if v, _ := cmd.Flags().GetString("workspace-id"); v != "" {
		cfg.WorkspaceID = v
	}
	if v, _ := cmd.Flags().GetString("shared-key"); v != "" {
		cfg.SharedKey = v
	}
	return cfg, nil
}

func newEngine(cfg *config.AgentConfig) (*engine.Engine, error) {
	reg := engine.NewRegistry()
	err := probes.RegisterAll(reg, probes.Config{
		FolderTargets:     cfg.FolderTargets,
		VendorAgentPath:   cfg.VendorAgentPath,
		FolderSizeTimeout: cfg.FolderSizeTimeout,
	}, resolver.New())
	if err != nil {
		return nil, fmt.Errorf("register probes: %w", err)
	}

	opts := []engine.Option{engine.WithHostIdentity(hostIdentity(cfg))}
	if cfg.MaxConcurrency > 0 {
		opts = append(opts, engine.WithMaxConcurrency(cfg.MaxConcurrency))
	}
	if cfg.ProbeTimeout > 0 {
		opts = append(opts, engine.WithDefaultTimeout(cfg.ProbeTimeout))
	}
	return engine.New(reg, opts...), nil
}

// hostIdentity stamps the report with where and as whom it was collected.
// The domain comes from config when set, otherwise from the environment.
func hostIdentity(cfg *config.AgentConfig) engine.HostIdentity {
	id := engine.HostIdentity{Domain: cfg.Domain}
	if h, err := os.Hostname(); err == nil {
		id.Hostname = h
	}
	if id.Domain == "" {
		id.Domain = os.Getenv("USERDNSDOMAIN")
	}
	if u, err := user.Current(); err == nil {
		id.User = u.Username
	}
	return id
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := eng.Run(ctx)
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}

	w := os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if outputFile != "" {
		log.Printf("Report written to %s", outputFile)
	}
	return nil
}

func runSend(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Endpoint == "" {
		return fmt.Errorf("no collector endpoint configured")
	}
	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := eng.Run(ctx)
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}

	id, err := sender.Send(ctx, sender.Config{
		Endpoint:    cfg.Endpoint,
		WorkspaceID: cfg.WorkspaceID,
		SharedKey:   cfg.SharedKey,
	}, report)
	if err != nil {
		return fmt.Errorf("upload report: %w", err)
	}

	log.Printf("Report %s uploaded (id %d)", report.RunID, id)
	return nil
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Endpoint == "" {
		return fmt.Errorf("no collector endpoint configured")
	}
	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}

	senderCfg := sender.Config{
		Endpoint:    cfg.Endpoint,
		WorkspaceID: cfg.WorkspaceID,
		SharedKey:   cfg.SharedKey,
	}
	d := daemon.New(eng, func(ctx context.Context, report *engine.Report) (int64, error) {
		return sender.Send(ctx, senderCfg, report)
	}, cfg.Interval)

	// Windows service mode.
	if winsvc.InService() {
		winsvc.RedirectLogToEventLog(serviceName)
		return winsvc.Run(serviceName, d.Run)
	}

	// Interactive mode: shut down on SIGINT / SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return d.Run(ctx)
}

func runServiceInstall(_ *cobra.Command, _ []string) error {
	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("determine executable path: %w", err)
	}

	svcArgs := []string{"run"}
	if cfgFile != "" {
		svcArgs = append(svcArgs, "--config", cfgFile)
	}

	if err := winsvc.Install(winsvc.InstallOptions{
		Name:        serviceName,
		DisplayName: "Log Analytics Agent",
		Description: "Collects endpoint facts and uploads reports to the Log Analytics collector.",
		ExePath:     exePath,
		Args:        svcArgs,
	}); err != nil {
		return err
	}

	log.Printf("Service %s installed successfully", serviceName)
	return nil
}

func runServiceUninstall(_ *cobra.Command, _ []string) error {
	if err := winsvc.Uninstall(serviceName); err != nil {
		return err
	}
	log.Printf("Service %s uninstalled successfully", serviceName)
	return nil
}
