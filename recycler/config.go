package recycler

import s "github.com/bnclabs/gosettings"

// Config parameters for a Recycler, built from a Settings map the same
// way package arena builds its Config.
//
// "recycler.maxcapacity" (int64, default: 262144)
//		Max elements a single goroutine's Local stack retains. Zero
//		disables pooling: Recycle accepts a handle without error but
//		drops it, so every Get allocates fresh.
//
// "recycler.linkcapacity" (int64, default: 16)
//		Number of elements buffered per Link in a Queue; mirrors
//		WeakOrderQueue's fixed 16-slot Link size.
type Config struct {
	MaxCapacity  int64
	LinkCapacity int64
}

// Defaultsettings returns the default Settings for a Recycler.
func Defaultsettings() s.Settings {
	return s.Settings{
		"recycler.maxcapacity":  int64(262144),
		"recycler.linkcapacity": int64(16),
	}
}

// NewConfig materializes a Config from Settings.
func NewConfig(setts s.Settings) Config {
	return Config{
		MaxCapacity:  setts.Int64("recycler.maxcapacity"),
		LinkCapacity: setts.Int64("recycler.linkcapacity"),
	}
}
