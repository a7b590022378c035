// Package helper resolves view helpers through feature overrides and
// offers feature checks to templates.
//
// A Locator maps helper paths to constructors. Instance consults the
// active overrides first, so a feature declaring
// {"app/extensions/helper/Lists": "app/extensions/helper/ListsFeature"}
// gets the ListsFeature helper wherever Lists is requested.
//
// Templates check features with Enabled or wrap markup in IfEnabled:
//
//	@helper.IfEnabled("Promo", promoBanner())
//
// Both read the snapshot that override.Middleware attached to the request
// context.
package helper
