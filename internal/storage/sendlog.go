package storage

import "context"

var _ SendLog = (*NopSendLog)(nil)

// NopSendLog is used when no database is configured.
type NopSendLog struct{}

func (NopSendLog) Record(context.Context, SentMessage) error { return nil }
