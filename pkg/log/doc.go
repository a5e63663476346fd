/*
Package log provides structured logging for bocker using zerolog.

The log package wraps zerolog to provide JSON or console-formatted
logging with component-specific child loggers, a configurable level,
and a handful of package-level helpers for the common case of logging
without a child logger in hand.

# Architecture

	┌──────────────────── LOGGING SYSTEM ──────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐          │
	│  │            Global Logger                    │          │
	│  │  - Zerolog instance                         │          │
	│  │  - Initialized via log.Init()               │          │
	│  │  - Thread-safe for concurrent use           │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │           Configuration                     │          │
	│  │  - Level: debug/info/warn/error             │          │
	│  │  - Format: JSON or console (human)          │          │
	│  │  - Output: stderr or a custom writer        │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │         Component Loggers                   │          │
	│  │  - WithComponent("sandbox")                 │          │
	│  │  - WithImageID("img_42")                    │          │
	│  │  - WithContainerID("ps_7")                  │          │
	│  └────────────────────────────────────────────┘           │
	└────────────────────────────────────────────────────────────┘

JSON format is for log aggregation; console format (the default) is
for a human watching `bocker run` on a terminal.
*/
package log
