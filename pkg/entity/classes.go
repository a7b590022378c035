package entity

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"

	"github.com/dmitrymomot/waffle/pkg/filter"
)

// Entity classes shipped with the package. The overriding classes consult
// Overrides on Call; the plain ones do not.
const (
	DocumentClass = "waffle/entity/Document"
	RecordClass   = "waffle/entity/Record"

	PlainDocumentClass = "data/entity/Document"
	PlainRecordClass   = "data/entity/Record"
)

// Kinds that class substitution recognizes by name suffix.
const (
	KindDocument = "Document"
	KindRecord   = "Record"
)

// Request describes an entity to instantiate.
type Request struct {
	Class string
	Model string
	Data  map[string]any
}

// Constructor builds an entity for a request.
type Constructor func(ctx context.Context, models *Models, req Request) (*Entity, error)

// Classes is a registry of entity class constructors. Instantiation runs
// through an interceptor chain so the requested class can be rewritten.
type Classes struct {
	mu     sync.RWMutex
	ctors  map[string]Constructor
	models *Models
	chain  *filter.Chain[Request, *Entity]
}

// NewClasses creates an empty class registry bound to models.
func NewClasses(models *Models) *Classes {
	return &Classes{
		ctors:  make(map[string]Constructor),
		models: models,
		chain:  filter.New[Request, *Entity](),
	}
}

// Register adds a constructor under a class name.
func (c *Classes) Register(name string, ctor Constructor) error {
	if name == "" || ctor == nil {
		return ErrInvalidClass
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.ctors[name]; ok {
		return errors.Join(ErrDuplicateClass, fmt.Errorf("class %q", name))
	}
	c.ctors[name] = ctor
	return nil
}

// Use appends instantiation interceptors.
func (c *Classes) Use(interceptors ...filter.Interceptor[Request, *Entity]) {
	c.chain.Use(interceptors...)
}

// Instantiate creates an entity of class bound to model.
func (c *Classes) Instantiate(ctx context.Context, class, model string, data map[string]any) (*Entity, error) {
	req := Request{Class: class, Model: model, Data: data}
	return c.chain.Run(ctx, req, c.construct)
}

func (c *Classes) construct(ctx context.Context, req Request) (*Entity, error) {
	c.mu.RLock()
	ctor, ok := c.ctors[req.Class]
	c.mu.RUnlock()

	if !ok {
		return nil, errors.Join(ErrClassNotFound, fmt.Errorf("class %q", req.Class))
	}
	return ctor(ctx, c.models, req)
}

// New returns a constructor for entities that do or do not consult overrides.
func New(overriding bool) Constructor {
	return func(_ context.Context, models *Models, req Request) (*Entity, error) {
		if _, err := models.Get(req.Model); err != nil {
			return nil, err
		}
		return &Entity{
			Class:    req.Class,
			Model:    req.Model,
			Data:     maps.Clone(req.Data),
			models:   models,
			override: overriding,
		}, nil
	}
}

// RegisterDefaults registers the overriding and plain Document and Record classes.
func RegisterDefaults(c *Classes) error {
	return errors.Join(
		c.Register(DocumentClass, New(true)),
		c.Register(RecordClass, New(true)),
		c.Register(PlainDocumentClass, New(false)),
		c.Register(PlainRecordClass, New(false)),
	)
}

// SubstituteClasses rewrites requested classes whose name ends in Document
// or Record to the replacement that lookup returns for that kind. A nil or
// empty map leaves the request alone, which is the case while no method or
// model override is active.
func SubstituteClasses(lookup func(ctx context.Context) map[string]string) filter.Interceptor[Request, *Entity] {
	return func(ctx context.Context, req Request, next filter.Next[Request, *Entity]) (*Entity, error) {
		if classes := lookup(ctx); len(classes) > 0 {
			for _, kind := range []string{KindDocument, KindRecord} {
				if !strings.HasSuffix(req.Class, kind) {
					continue
				}
				if repl, ok := classes[kind]; ok && repl != "" {
					req.Class = repl
				}
				break
			}
		}
		return next(ctx, req)
	}
}
