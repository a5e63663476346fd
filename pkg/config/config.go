package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	defaultStoreRoot  = "/var/bocker"
	defaultCgroups    = "cpu,cpuacct,memory"
	defaultCPUShare   = 512
	defaultMemLimitMB = 512
	defaultRegistry   = "registry.bocker.local"
)

// Config is a frozen snapshot of bocker's environment-driven tunables.
// Construct one via Load; nothing in bocker re-reads the environment
// after that.
type Config struct {
	// StoreRoot is the single directory holding every image and
	// container volume as an immediate child.
	StoreRoot string

	// Cgroups lists the controller subsystems attached per container,
	// e.g. []string{"cpu", "cpuacct", "memory"}.
	Cgroups []string

	// CPUShare is the relative cpu.shares weight written to each
	// container's cgroup.
	CPUShare int

	// MemLimitBytes is the memory.limit_in_bytes cap written to each
	// container's cgroup, already converted from the configured
	// megabyte value.
	MemLimitBytes int64

	// Registry is the host used to resolve `pull <name> <tag>` to
	// https://<Registry>/<name>_<tag>.tar.gz.
	Registry string

	LogLevel string
	LogJSON  bool
}

// Load reads bocker's recognized environment variables, applying
// defaults for anything unset, and returns an immutable snapshot.
func Load() *Config {
	cfg := &Config{
		StoreRoot: getString("BOCKER_BTRFS_PATH", defaultStoreRoot),
		Cgroups:   splitCSV(getString("BOCKER_CGROUPS", defaultCgroups)),
		CPUShare:  getInt("BOCKER_CPU_SHARE", defaultCPUShare),
		Registry:  getString("BOCKER_REGISTRY", defaultRegistry),
		LogLevel:  getString("BOCKER_LOG_LEVEL", "info"),
		LogJSON:   getBool("BOCKER_LOG_JSON", false),
	}
	memMB := getInt("BOCKER_MEM_LIMIT", defaultMemLimitMB)
	cfg.MemLimitBytes = int64(memMB) * 1_000_000
	return cfg
}

func getString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
