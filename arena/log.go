package arena

import "sync/atomic"

import "github.com/bnclabs/pooledbuf/log"

var logok int32

// EnableLogging turns on the arena package's debugf/infof/warnf/errorf
// output, which the shared log package still filters by its level. By
// default logging is disabled so that hot allocation paths never pay for
// formatting args that are thrown away.
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

func infof(format string, v ...interface{}) {
	if atomic.LoadInt32(&logok) > 0 {
		log.Infof(format, v...)
	}
}

func warnf(format string, v ...interface{}) {
	if atomic.LoadInt32(&logok) > 0 {
		log.Warnf(format, v...)
	}
}

func errorf(format string, v ...interface{}) {
	if atomic.LoadInt32(&logok) > 0 {
		log.Errorf(format, v...)
	}
}
