// Package entity dispatches entity method calls through feature overrides.
//
// Models are registered explicitly and entities are created through a
// Classes registry. Entities of the overriding classes (DocumentClass,
// RecordClass) look every call up in the active overrides before running
// it; entities of the plain classes do not. SubstituteClasses installs the
// overriding classes while overrides are active:
//
//	models, _ := entity.NewModels(blog, blogFeature)
//	classes := entity.NewClasses(models)
//	_ = entity.RegisterDefaults(classes)
//	classes.Use(entity.SubstituteClasses(func(ctx context.Context) map[string]string {
//		return override.FromContext(ctx).Classes()
//	}))
//
//	post, _ := classes.Instantiate(ctx, entity.PlainDocumentClass, "Blog", data)
//	title, err := post.Call(ctx, override.FromContext(ctx), "title")
package entity
