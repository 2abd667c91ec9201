package main

import (
	"github.com/oukeidos/deskgif/internal/config"
	"github.com/oukeidos/deskgif/internal/logger"
)

const (
	prefLibraryPath       = "LibraryPath"
	prefThumbSize         = "ThumbSize"
	prefQuarantineCorrupt = "QuarantineCorrupt"
)

// prefStore is the part of fyne.Preferences the settings use.
type prefStore interface {
	StringWithFallback(key, fallback string) string
	IntWithFallback(key string, fallback int) int
	BoolWithFallback(key string, fallback bool) bool
	SetString(key, value string)
	SetInt(key string, value int)
	SetBool(key string, value bool)
}

func loadConfig(prefs prefStore) config.Config {
	cfg := config.Default()
	if prefs == nil {
		return cfg
	}
	cfg.LibraryPath = prefs.StringWithFallback(prefLibraryPath, cfg.LibraryPath)
	cfg.ThumbSize = prefs.IntWithFallback(prefThumbSize, cfg.ThumbSize)
	cfg.QuarantineCorrupt = prefs.BoolWithFallback(prefQuarantineCorrupt, cfg.QuarantineCorrupt)

	adjusted := false
	for _, adj := range cfg.Normalize() {
		logger.Warn("Setting adjusted", "field", adj.Field, "requested", adj.Requested, "effective", adj.Effective)
		adjusted = true
	}
	if adjusted {
		saveConfig(prefs, cfg)
	}
	return cfg
}

func saveConfig(prefs prefStore, cfg config.Config) {
	if prefs == nil {
		return
	}
	prefs.SetString(prefLibraryPath, cfg.LibraryPath)
	prefs.SetInt(prefThumbSize, cfg.ThumbSize)
	prefs.SetBool(prefQuarantineCorrupt, cfg.QuarantineCorrupt)
}
