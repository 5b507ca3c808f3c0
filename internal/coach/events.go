package coach

// EventSink receives analytics events from the engine. The sink is an
// explicit capability handed in by the caller; the engine never reaches
// for ambient global state to report usage.
type EventSink interface {
	Emit(event string, payload map[string]any)
}

func (e *Engine) emit(event string, payload map[string]any) {
	if e.sink == nil {
		return
	}
	e.sink.Emit(event, payload)
}
