// Package view locates templates, trying enabled features' variants first.
//
//	loc := view.NewLocator(os.DirFS("."), map[string][]string{
//		view.KindTemplate: {"app/views/{:controller}/{:template}.{:type}.tmpl"},
//	})
//	name, err := loc.Locate(ctx, override.FromContext(ctx), view.KindTemplate, map[string]string{
//		"controller": "blog", "template": "show", "type": "html",
//	})
//
// With the Promo feature declaring view filters, the lookup tries
// app/views/features/blog/show_Promo.html.tmpl before app/views/blog/show.html.tmpl.
package view
