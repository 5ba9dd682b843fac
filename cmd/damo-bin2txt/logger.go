package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirkon/message"

	"github.com/piyushthange/damo/damon"
)

// eventLogger вывод событий разбора.
type eventLogger struct{}

func (eventLogger) FormatDetected(cursor uuid.UUID, name string, version damon.Version) {
	message.Infof("cursor %s: file %s has record format %s", cursor, name, version)
}

func (eventLogger) WindowReached(cursor uuid.UUID, until, at time.Duration) {
	message.Infof("cursor %s: window of %s is reached by the snapshot started at %s", cursor, until, at)
}

func (eventLogger) CursorExhausted(cursor uuid.UUID, pos int64) {
	message.Infof("cursor %s: end of file reached at %d", cursor, pos)
}

var _ damon.Logger = eventLogger{}
