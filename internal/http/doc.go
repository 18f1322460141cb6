// Package http exposes the synchronised site content as a JSON API.
//
// Routes mount under /api:
//   - Collections: /slides, /team, /testimonials, /services
//   - Single service: /services/{slug}
//   - Navigation singleton: /navigation
//   - Newsletter: POST /subscribers
//   - Locale switch: POST /locale
//   - Cache refresh: POST /cache/refresh
//
// LocaleMiddleware resolves the request locale from the path prefix, the
// locale cookie and Accept-Language, in that order, and keeps the cookie in
// step with the path.
package http
