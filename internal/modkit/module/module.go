// Package module resolves ports between modules, either from a module value or from the
// name registry filled while the API is mounted
package module

import (
	"reflect"
	"sort"
	"sync"

	phttp "trendscope/internal/platform/net/http"
)

// Module is the part of modkit.Module port lookups need. It lives here so a module
// can import this package without importing modkit
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}

// PortSet is whatever a module returns from Ports: one port or a struct of them
type PortSet = any

// PortsOf finds a T in m.Ports(): the value itself, or the first exported field of a
// struct (or pointer to struct) bundle that implements T
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	p := m.Ports()
	if p == nil {
		return zero, false
	}
	if v, ok := p.(T); ok {
		return v, true
	}
	rv := reflect.ValueOf(p)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return zero, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := range rv.NumField() {
		f := rv.Field(i)
		if !f.CanInterface() {
			continue
		}
		if v, ok := f.Interface().(T); ok {
			return v, true
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf for wiring code; a missing port is a programming error
func MustPortsOf[T any](m Module) T {
	v, ok := PortsOf[T](m)
	if !ok {
		panic("module: requested port not found on module " + m.Name())
	}
	return v
}

var (
	mu  sync.RWMutex
	reg = map[string]any{}
)

// Register stores the port set of a mounted module under its name; a later call replaces it
func Register(name string, ports any) {
	mu.Lock()
	defer mu.Unlock()
	reg[name] = ports
}

// PortsAs returns the port set registered under name when it is a T
func PortsAs[T any](name string) (T, bool) {
	mu.RLock()
	defer mu.RUnlock()
	v, ok := reg[name].(T)
	return v, ok
}

// Names lists registered module names in order
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(reg))
	for n := range reg {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Reset clears the registry; tests call it between mounts
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	reg = map[string]any{}
}
