// Package config loads the tandem configuration file.
//
// A configuration is read from YAML, or from TOML when the file name ends
// in ".toml", on top of the built-in defaults embedded from default.yaml:
//
//	host: 127.0.0.1
//	port: 8080
//	keymap:
//	  - keys: [ctrl+s]
//	    command: save
//	theme:
//	  selection: {bg: "#264f78"}
//
// A non-empty keymap in the file replaces the default keymap entirely.
// Theme entries replace the default entry of the same name; unset fields
// keep their defaults.
//
// # Live Reload
//
// Watcher follows a configuration file with fsnotify and reloads it after
// writes settle, so keymap and theme changes reach a running server.
package config
