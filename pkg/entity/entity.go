package entity

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const sep = "::"

// Overrides answers method and model redirections. *override.Snapshot and
// *override.Resolver implement it.
type Overrides interface {
	ResolveMethod(key string) (string, bool)
	ResolveModel(key string) (string, bool)
}

// Entity is a record bound to a model. Entities created from an overriding
// class consult Overrides on every call; plain ones always run their own
// model's methods.
type Entity struct {
	Class string
	Model string
	Data  map[string]any

	models   *Models
	override bool
}

// Overriding reports whether calls on e consult overrides.
func (e *Entity) Overriding() bool { return e.override }

// Get returns a data field.
func (e *Entity) Get(field string) (any, bool) {
	v, ok := e.Data[field]
	return v, ok
}

// Call invokes method on the entity's model.
//
// For an overriding entity the key "Model::method" is looked up as a method
// override and then as a model override. A target "T::m" calls m, a bare
// "T" keeps the method name. When T is a different registered model its
// method runs with e as the receiver and its result is returned as is.
// A target model that is not registered falls back to e's own model.
func (e *Entity) Call(ctx context.Context, o Overrides, method string, args ...any) (any, error) {
	model, name := e.Model, method

	if e.override && o != nil && e.Model != "" {
		if typ, m, ok := redirect(o, e.Model+sep+method); ok {
			if m != "" {
				name = m
			}
			if typ != "" && typ != e.Model {
				if target, err := e.models.Get(typ); err == nil {
					model = target.Name
				}
			}
		}
	}

	m, err := e.models.Get(model)
	if err != nil {
		return nil, err
	}
	fn, ok := m.Method(name)
	if !ok {
		return nil, errors.Join(ErrMethodNotFound, fmt.Errorf("%s%s%s", model, sep, name))
	}
	return fn(ctx, e, args...)
}

func redirect(o Overrides, key string) (typ, method string, ok bool) {
	target, ok := o.ResolveMethod(key)
	if !ok {
		target, ok = o.ResolveModel(key)
	}
	if !ok {
		return "", "", false
	}
	typ, method, _ = strings.Cut(target, sep)
	return typ, method, true
}
