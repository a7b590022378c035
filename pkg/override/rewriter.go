package override

import "regexp"

// viewPattern splits a template path pattern into the part up to /views/,
// the sub-path, the first template or layout placeholder and the rest.
var viewPattern = regexp.MustCompile(`^(.*?/views/)(.+?)(\{:(?:template|layout)\})(.*)$`)

// ExpandTemplatePaths returns, for every pattern, one feature variant per
// name followed by the pattern itself:
//
//	app/views/blog/{:template}.html.tmpl, [Promo]
//	=> app/views/features/blog/{:template}_Promo.html.tmpl
//	   app/views/blog/{:template}.html.tmpl
//
// Patterns without a views segment and a placeholder pass through alone.
// With no names the result equals patterns element for element.
// The input slice is never modified.
func ExpandTemplatePaths(patterns, names []string) []string {
	if len(names) == 0 {
		return append([]string(nil), patterns...)
	}
	out := make([]string, 0, len(patterns)*(len(names)+1))
	for _, p := range patterns {
		if m := viewPattern.FindStringSubmatch(p); m != nil {
			for _, name := range names {
				out = append(out, m[1]+"features/"+m[2]+m[3]+"_"+name+m[4])
			}
		}
		out = append(out, p)
	}
	return out
}
