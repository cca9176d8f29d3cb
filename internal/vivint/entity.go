package vivint

import (
	"reflect"
	"sync"

	"github.com/ChrisWondeFro/vivintpy/internal/models"
)

// EventUpdate is emitted by an entity whenever an update changes at least
// one observable attribute.
const EventUpdate = "update"

// EmitFunc receives change notifications from an entity. Entities know
// nothing about transports; the hook is wired up by the owning object.
type EmitFunc func(event string, data map[string]any)

// Entity holds the raw attribute state shared by systems, panels and
// devices. The attribute map is owned by the entity and mutated only through
// Update; readers always observe a consistent snapshot.
type Entity struct {
	mu   sync.RWMutex
	data map[string]any
	emit EmitFunc
}

func newEntity(data map[string]any) Entity {
	if data == nil {
		data = make(map[string]any)
	}
	return Entity{data: data}
}

// SetEmitter installs the change-notification hook.
func (e *Entity) SetEmitter(fn EmitFunc) {
	e.mu.Lock()
	e.emit = fn
	e.mu.Unlock()
}

// Update merges newData into the attribute map. With override false only
// keys present in newData are replaced; prior keys are preserved. With
// override true the map is replaced wholesale (variants layer their own
// reconciliation on top). Returns true when at least one attribute changed;
// repeated identical payloads are no-ops, which keeps Update idempotent.
func (e *Entity) Update(newData map[string]any, override bool) bool {
	e.mu.Lock()
	changed := make(map[string]any)

	if override {
		for key, val := range newData {
			if prev, ok := e.data[key]; !ok || !reflect.DeepEqual(prev, val) {
				changed[key] = val
			}
		}
		for key := range e.data {
			if _, ok := newData[key]; !ok {
				changed[key] = nil
			}
		}
		replacement := make(map[string]any, len(newData))
		for key, val := range newData {
			replacement[key] = val
		}
		e.data = replacement
	} else {
		for key, val := range newData {
			if prev, ok := e.data[key]; !ok || !reflect.DeepEqual(prev, val) {
				e.data[key] = val
				changed[key] = val
			}
		}
	}

	emit := e.emit
	e.mu.Unlock()

	if len(changed) == 0 {
		return false
	}
	if emit != nil {
		emit(EventUpdate, changed)
	}
	return true
}

// Emit raises an event through the entity's hook, if one is installed.
func (e *Entity) Emit(event string, data map[string]any) {
	e.mu.RLock()
	emit := e.emit
	e.mu.RUnlock()
	if emit != nil {
		emit(event, data)
	}
}

// Attributes returns a copy of the raw attribute map.
func (e *Entity) Attributes() map[string]any {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]any, len(e.data))
	for key, val := range e.data {
		out[key] = val
	}
	return out
}

// Get returns a raw attribute value.
func (e *Entity) Get(key string) (any, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	val, ok := e.data[key]
	return val, ok
}

// Int returns an attribute coerced to int.
func (e *Entity) Int(key string) (int, bool) {
	val, ok := e.Get(key)
	if !ok {
		return 0, false
	}
	return models.ToInt(val)
}

// Str returns an attribute coerced to string, or "" when absent.
func (e *Entity) Str(key string) string {
	val, ok := e.Get(key)
	if !ok || val == nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// Bool returns an attribute coerced to bool. Numeric 0/1 values count.
func (e *Entity) Bool(key string) bool {
	val, ok := e.Get(key)
	if !ok {
		return false
	}
	switch v := val.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	}
	return false
}

// Has reports whether the attribute is present and non-nil.
func (e *Entity) Has(key string) bool {
	val, ok := e.Get(key)
	return ok && val != nil
}
