/*
Package config captures bocker's runtime tunables from the environment
into a single frozen snapshot taken once at process start.

# Recognized variables

	BOCKER_BTRFS_PATH   store root                 default /var/bocker
	BOCKER_CGROUPS      comma-joined controllers    default cpu,cpuacct,memory
	BOCKER_CPU_SHARE    relative cpu.shares value   default 512
	BOCKER_MEM_LIMIT    memory cap in megabytes     default 512
	BOCKER_REGISTRY     pull origin host            default registry.bocker.local
	BOCKER_LOG_LEVEL    debug/info/warn/error       default info
	BOCKER_LOG_JSON     "1"/"true" for JSON logs    default console

None of these are re-read after Load returns; every package that needs
a tunable is handed the value from the loaded Config at construction
time instead of reading the environment itself.
*/
package config
