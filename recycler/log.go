package recycler

import "sync/atomic"

import "github.com/bnclabs/pooledbuf/log"

var logok int32

// EnableLogging turns on the recycler package's debugf/warnf output,
// which the shared log package still filters by its level.
func EnableLogging() {
	atomic.StoreInt32(&logok, 1)
}

// DisableLogging turns logging back off.
func DisableLogging() {
	atomic.StoreInt32(&logok, 0)
}

func debugf(format string, v ...interface{}) {
	if atomic.LoadInt32(&logok) > 0 {
		log.Debugf(format, v...)
	}
}

func warnf(format string, v ...interface{}) {
	if atomic.LoadInt32(&logok) > 0 {
		log.Warnf(format, v...)
	}
}
