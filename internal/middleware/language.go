// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
)

type languageKey struct{}

// Language validates the {lang} route parameter against the supported
// languages. Unknown languages get a 404; known ones are stored in the
// request context and echoed as Content-Language.
func Language(supported []string) func(http.Handler) http.Handler {
	supported = slices.Clone(supported)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := chi.URLParam(r, "lang")
			if !slices.Contains(supported, lang) {
				writeError(w, http.StatusNotFound, "unknown language")
				return
			}
			w.Header().Set("Content-Language", lang)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), languageKey{}, lang)))
		})
	}
}

// LanguageFrom returns the language stored by Language, or "".
func LanguageFrom(ctx context.Context) string {
	lang, _ := ctx.Value(languageKey{}).(string)
	return lang
}
