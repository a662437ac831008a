package catalog

import (
	"log/slog"
	"path/filepath"

	"github.com/liminalpurple/sticker-panel/internal/config"
	"github.com/liminalpurple/sticker-panel/internal/sticker"
	"github.com/liminalpurple/sticker-panel/internal/storage"
)

// DefaultIconName is the toolbar icon of the pseudo-groups, inside the preset root
const DefaultIconName = "sticker_tab_latest.png"

// Options controls where the catalog looks for stickers and how it
// reconciles them with the store.
type Options struct {
	Sources        []string // Preset roots, scanned in order
	UserDir        string
	ReadOnlyPrefix string
	DefaultIcon    string
	Category       int
	RecentLimit    int
	FrameOrder     sticker.FrameOrder
	DeleteFiles    bool
	SeedGroups     []string // Group names registered under Sources[0] on first start
	Logger         *slog.Logger
}

// OptionsFromConfig builds catalog options from the loaded configuration
func OptionsFromConfig(cfg config.CatalogConfig, logger *slog.Logger) (Options, error) {
	order, err := sticker.ParseFrameOrder(cfg.FrameOrder)
	if err != nil {
		return Options{}, err
	}

	opts := Options{
		Sources:        cfg.Sources(),
		UserDir:        cfg.UserDir,
		ReadOnlyPrefix: cfg.ReadOnlyPrefix,
		Category:       cfg.Category,
		RecentLimit:    cfg.RecentLimit,
		FrameOrder:     order,
		DeleteFiles:    cfg.DeleteFiles,
		SeedGroups:     cfg.SeedGroups,
		Logger:         logger,
	}
	if cfg.PresetDir != "" {
		opts.DefaultIcon = filepath.Join(cfg.PresetDir, DefaultIconName)
	}
	return opts, nil
}

func (o Options) recentLimit() int {
	if o.RecentLimit <= 0 {
		return storage.DefaultRecentLimit
	}
	return o.RecentLimit
}

func (o Options) seedRecords() []storage.GroupRecord {
	if len(o.Sources) == 0 {
		return nil
	}
	records := make([]storage.GroupRecord, 0, len(o.SeedGroups))
	for i, name := range o.SeedGroups {
		records = append(records, storage.GroupRecord{
			ID:       filepath.Join(o.Sources[0], name),
			Name:     name,
			Ordering: i + 1,
			Category: o.Category,
		})
	}
	return records
}
