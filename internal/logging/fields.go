package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// Workflow adds the workflow name ("bw" or "cutout").
func Workflow(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("workflow", name)
	}
}

// State adds a session state field.
func State(s string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("state", s)
	}
}

// Transition adds from/to state fields and the triggering event.
func Transition(from, to, event string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("from_state", from).Str("to_state", to).Str("event", event)
	}
}

// Endpoint adds the request path.
func Endpoint(path string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("endpoint", path)
	}
}

// RequestID adds the correlation id sent with a request.
func RequestID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("request_id", id)
	}
}

// Status adds an HTTP status code.
func Status(code int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("status", code)
	}
}

// Generation adds a request generation token.
func Generation(gen uint64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("generation", int64(gen)) //nolint:gosec // generations stay far below MaxInt64
	}
}

// Method adds a conversion method or cutout result type.
func Method(m string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("method", m)
	}
}

// Size adds pixel dimensions.
func Size(prefix string, w, h int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int(prefix+"_width", w).Int(prefix+"_height", h)
	}
}

// Path adds a file path.
func Path(p string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("path", p)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Str adds a string field with custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}
