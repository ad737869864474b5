package taskslab

import "github.com/joeycumines/logiface"

// logifaceEvent is a minimal logiface.Event implementation: a struct
// embedding logiface.UnimplementedEvent that only needs Level and
// AddField to satisfy the interface. It accumulates fields into a map
// so NewLogifaceLogger's Writer can hand them to the wrapped Logger.
type logifaceEvent struct {
	logiface.UnimplementedEvent
	level  logiface.Level
	fields map[string]any
}

func (e *logifaceEvent) Level() logiface.Level { return e.level }

func (e *logifaceEvent) AddField(key string, val any) {
	if e.fields == nil {
		e.fields = make(map[string]any)
	}
	e.fields[key] = val
}

type logifaceEventFactory struct{}

func (logifaceEventFactory) NewEvent(level logiface.Level) *logifaceEvent {
	return &logifaceEvent{level: level}
}

// logifaceWriter adapts written logiface events onto a taskslab.Logger.
type logifaceWriter struct {
	target Logger
}

func (w logifaceWriter) Write(event *logifaceEvent) error {
	w.target.Log(LogEntry{
		Level:    logifaceLevelToLocal(event.level),
		Category: "logiface",
		Context:  event.fields,
		Message:  logifaceMessage(event.fields),
		Err:      logifaceErr(event.fields),
	})
	return nil
}

// logifaceMessage extracts the message field logiface's Builder.Log adds
// via Event.AddField as a fallback (since logifaceEvent does not
// implement AddMessage): key "msg", per Builder.log's documented
// fallback behavior.
func logifaceMessage(fields map[string]any) string {
	if fields == nil {
		return ""
	}
	if msg, ok := fields["msg"].(string); ok {
		delete(fields, "msg")
		return msg
	}
	return ""
}

// logifaceErr extracts the error field Builder.Err falls back to adding
// via Event.AddField under key "err" (since logifaceEvent does not
// implement AddError).
func logifaceErr(fields map[string]any) error {
	if fields == nil {
		return nil
	}
	if err, ok := fields["err"].(error); ok {
		delete(fields, "err")
		return err
	}
	return nil
}

func logifaceLevelToLocal(l logiface.Level) LogLevel {
	switch {
	case l <= logiface.LevelError:
		return LevelError
	case l <= logiface.LevelWarning:
		return LevelWarn
	case l <= logiface.LevelInformational:
		return LevelInfo
	default:
		return LevelDebug
	}
}

// NewLogifaceLogger builds a *logiface.Logger[*logifaceEvent] whose
// output is routed through target (a taskslab.Logger). This is the
// scheduler's concrete use of the logiface dependency: rather than
// reimplementing logiface's generic Event/Builder machinery, it adapts
// logiface onto the scheduler's own lightweight Logger so callers already
// invested in logiface get a single coherent sink.
func NewLogifaceLogger(target Logger, level logiface.Level) *logiface.Logger[*logifaceEvent] {
	return logiface.New[*logifaceEvent](
		logiface.WithEventFactory[*logifaceEvent](logifaceEventFactory{}),
		logiface.WithWriter[*logifaceEvent](logifaceWriter{target: target}),
		logiface.WithLevel[*logifaceEvent](level),
	)
}
