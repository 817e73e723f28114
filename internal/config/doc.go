// Package config loads the exporter configuration.
//
// Top-level types:
//   - Config{Box, Listen, LogLevel}: full config tree
//   - Device: address (IP, host, host:port or URL) and optional name;
//     Label() and BaseURL() derive the rendered label and the fetch target
//
// Load(path) applies defaults (listen :8080, log level info), reads the
// optional YAML file, overlays BOX_IP, BOX_NAME and LOG_LEVEL from the
// environment, then validates. A missing box address is a startup error.
//
// Watch(ctx, path, onChange) uses fsnotify to detect file changes and calls
// onChange with the newly parsed Config. The caller decides which settings
// may change at runtime; the exporter only applies the log level.
package config
