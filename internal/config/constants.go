package config

import "time"

// Base application details
const AppName = "waypoint"
const ConfigDirName = "waypoint"
const ThemesDirName = "themes"
const DefaultConfigFileName = "config.toml" // Main config file
const DefaultLogFileName = "waypoint.log"
const DefaultStoreFileName = "state.toml"

// UI Layout
const StatusBarHeight = 1

// Status Bar
const MessageTimeout = 4 * time.Second

// Copy to the system clipboard rather than an internal one.
const SystemClipboard = true

// Metrics server; empty disables it.
const DefaultMetricsAddr = ""
