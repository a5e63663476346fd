package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"BOCKER_BTRFS_PATH", "BOCKER_CGROUPS", "BOCKER_CPU_SHARE",
		"BOCKER_MEM_LIMIT", "BOCKER_REGISTRY", "BOCKER_LOG_LEVEL", "BOCKER_LOG_JSON",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, defaultStoreRoot, cfg.StoreRoot)
	assert.Equal(t, []string{"cpu", "cpuacct", "memory"}, cfg.Cgroups)
	assert.Equal(t, defaultCPUShare, cfg.CPUShare)
	assert.Equal(t, int64(defaultMemLimitMB)*1_000_000, cfg.MemLimitBytes)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BOCKER_BTRFS_PATH", "/tmp/store")
	t.Setenv("BOCKER_CGROUPS", "cpu, memory")
	t.Setenv("BOCKER_CPU_SHARE", "1024")
	t.Setenv("BOCKER_MEM_LIMIT", "256")
	t.Setenv("BOCKER_REGISTRY", "example.com")

	cfg := Load()

	assert.Equal(t, "/tmp/store", cfg.StoreRoot)
	assert.Equal(t, []string{"cpu", "memory"}, cfg.Cgroups)
	assert.EqualValues(t, 1024, cfg.CPUShare)
	assert.EqualValues(t, 256_000_000, cfg.MemLimitBytes)
	assert.Equal(t, "example.com", cfg.Registry)
}
