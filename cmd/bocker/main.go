package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kanelabs/bocker/pkg/cgroup"
	"github.com/kanelabs/bocker/pkg/config"
	"github.com/kanelabs/bocker/pkg/image"
	"github.com/kanelabs/bocker/pkg/log"
	"github.com/kanelabs/bocker/pkg/network"
	"github.com/kanelabs/bocker/pkg/sandbox"
	"github.com/kanelabs/bocker/pkg/storage"
	"github.com/kanelabs/bocker/pkg/store"
)

// childSubcommand must match sandbox.childSubcommand; checked before
// cobra ever parses argv, since its remaining args (a raw container
// id, rootfs path, and shell command) don't fit any cobra command's
// flag grammar.
const childSubcommand = "__init__"

var (
	cfg        *config.Config
	volumes    *store.Store
	ledger     *storage.Ledger
	netMgr     *network.Manager
	cgroupMgr  *cgroup.Manager
	acquirer   *image.Acquirer
	launcher   *sandbox.Launcher
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == childSubcommand {
		if err := sandbox.RunInit(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "bocker __init__: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := rootCmd.Execute(); err != nil {
		log.Errorf("command failed", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:     "bocker",
	Short:   "bocker - a minimal container runtime",
	Long:    `bocker composes cgroups, network namespaces, and chroot into reproducible sandboxes, the way early Docker did.`,
	Version: "dev",
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")

	cobra.OnInitialize(initBocker)

	rootCmd.AddCommand(pullCmd, initCmd, imagesCmd, psCmd, runCmd, execCmd, logsCmd, commitCmd, rmCmd)
}

// initBocker wires every package together from a single frozen
// config snapshot; it runs once, before any command's RunE.
func initBocker() {
	cfg = config.Load()

	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")
	if logLevel == "info" {
		logLevel = cfg.LogLevel
	}
	log.Init(log.Config{Level: log.Level(logLevel), JSONOutput: logJSON || cfg.LogJSON})

	log.Debug("opening store at " + cfg.StoreRoot)

	var err error
	volumes, err = store.New(cfg.StoreRoot)
	if err != nil {
		log.Fatal("open store: " + err.Error())
	}

	ledger, err = storage.OpenLedger(cfg.StoreRoot)
	if err != nil {
		log.Fatal("open ledger: " + err.Error())
	}

	netMgr = network.New(ledger)
	cgroupMgr = cgroup.New(cfg.Cgroups, cfg.CPUShare, cfg.MemLimitBytes)
	acquirer = image.New(volumes, cfg.Registry)
	launcher = &sandbox.Launcher{Store: volumes, Cgroup: cgroupMgr, Network: netMgr}
	log.Info("bocker ready")
}

// withStoreLock takes the store root's advisory flock for the
// duration of fn, serializing this invocation against any other
// mutating bocker command (spec.md §5).
func withStoreLock(fn func() error) error {
	closer, err := volumes.Lock()
	if err != nil {
		return err
	}
	defer closer.Close()
	return fn()
}

// exitCode maps a command failure to spec.md §6's exit codes: 130 if
// the contained process was killed by an interactive interrupt, 1 for
// every other failure.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() && ws.Signal() == syscall.SIGINT {
			return 130
		}
	}
	return 1
}
