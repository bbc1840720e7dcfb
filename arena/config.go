package arena

import s "github.com/bnclabs/gosettings"
import "github.com/cloudfoundry/gosigar"

// Config parameters for an Arena, built from a Settings map so
// applications can compose arena tuning with the rest of their own
// settings the way the rest of this module's ambient stack does.
//
// "pagesize" (int64, default: 8192)
//		Size, in bytes, of the smallest unit the buddy tree allocates
//		as a whole. Must be a power of two and >= 4096.
//
// "maxorder" (int64, default: 11)
//		Height of the buddy tree. chunksize = pagesize << maxorder.
//		Must be <= 14.
//
// "chunkcapacity" (int64, default: a quarter of free system memory,
// counted in default-sized chunks)
//		Soft cap on the number of chunks an arena will create before
//		refusing further Normal allocations with ErrOutOfMemory; 0
//		means unbounded (subject only to Huge's unpooled fallback never
//		applying to Normal).
type Config struct {
	PageSize      int64
	MaxOrder      int64
	ChunkCapacity int64
}

// Defaultsettings returns the default Settings for an Arena, seeded with
// the standard 8 KiB page / 11-level buddy tree (16 MiB chunks). Free
// system memory is consulted only to produce a sane default chunk
// capacity, mirroring how the rest of this module's config layer sizes
// itself off gosigar.
func Defaultsettings() s.Settings {
	_, _, free := getsysmem()
	chunkSize := int64(8192) << 11
	chunkcapacity := int64(0)
	if chunkSize > 0 {
		chunkcapacity = int64(free) / chunkSize / 4 // leave headroom
	}
	return s.Settings{
		"pagesize":      int64(8192),
		"maxorder":      int64(11),
		"chunkcapacity": chunkcapacity,
	}
}

// NewConfig materializes a Config from Settings, built the way this
// module's config layers build their typed Config structs off a generic
// Settings map.
func NewConfig(setts s.Settings) Config {
	return Config{
		PageSize:      setts.Int64("pagesize"),
		MaxOrder:      setts.Int64("maxorder"),
		ChunkCapacity: setts.Int64("chunkcapacity"),
	}
}

func getsysmem() (total, used, free uint64) {
	mem := sigar.Mem{}
	mem.Get()
	return mem.Total, mem.Used, mem.Free
}
