// Package filter implements ordered interceptor chains.
//
// An operation that other code may want to wrap (instantiating an entity
// class, locating a template) runs through a Chain. Each interceptor receives
// the parameters and a continuation; it can rewrite the parameters before
// calling next, short-circuit by not calling it, or adjust the result.
//
//	chain := filter.New[string, string]()
//	chain.Use(func(ctx context.Context, name string, next filter.Next[string, string]) (string, error) {
//		if strings.HasSuffix(name, "Document") {
//			name = "app/models/PromoDocument"
//		}
//		return next(ctx, name)
//	})
//	class, err := chain.Run(ctx, "app/models/BlogDocument", lookup)
package filter
