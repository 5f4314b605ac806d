package sync

import "github.com/MrSnakeDoc/smartmark/internal/logger"

// NoticeKind classifies user-facing notifications. All notices are
// transient; none block the collection.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeWarn
	NoticeError
)

// Notifier receives the transient user-facing notifications the
// pipeline emits (saved, removed, duplicate rejected, sync failed).
type Notifier interface {
	Notify(kind NoticeKind, message string)
}

// NotifyFunc adapts a function to the Notifier interface.
type NotifyFunc func(kind NoticeKind, message string)

func (f NotifyFunc) Notify(kind NoticeKind, message string) { f(kind, message) }

// LogNotifier routes notices to the structured log. Used when no
// interactive surface is attached to a collection.
func LogNotifier(log logger.Logger) Notifier {
	return NotifyFunc(func(kind NoticeKind, message string) {
		switch kind {
		case NoticeError:
			log.Warn("user notice", logger.String("level", "error"), logger.String("message", message))
		case NoticeWarn:
			log.Warn("user notice", logger.String("level", "warn"), logger.String("message", message))
		default:
			log.Debug("user notice", logger.String("level", "info"), logger.String("message", message))
		}
	})
}
