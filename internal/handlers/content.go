// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"investpress/internal/cache"
	"investpress/internal/middleware"
	"investpress/internal/models"
)

// CountryFinder reads countries.
type CountryFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Country, error)
	FindBySlug(ctx context.Context, lang, value string) (*models.Country, error)
	ListActive(ctx context.Context) ([]models.Country, error)
}

// ServiceFinder reads services.
type ServiceFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Service, error)
	FindBySlug(ctx context.Context, lang, value string) (*models.Service, error)
	ListActive(ctx context.Context) ([]models.Service, error)
}

// CategoryFinder reads article categories.
type CategoryFinder interface {
	FindByID(ctx context.Context, id int64) (*models.ArticleCategory, error)
	FindBySlug(ctx context.Context, lang, value string) (*models.ArticleCategory, error)
}

// ArticleFinder reads articles.
type ArticleFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Article, error)
	FindBySlug(ctx context.Context, lang, value string) (*models.Article, error)
	ListPublished(ctx context.Context, limit int) ([]models.Article, error)
	ListByCountry(ctx context.Context, countryID int64) ([]models.Article, error)
	ListByCategorySlug(ctx context.Context, lang, value string) ([]models.Article, error)
	Search(ctx context.Context, lang, q string, limit int) ([]models.Article, error)
}

// LandingPageFinder reads landing pages.
type LandingPageFinder interface {
	FindByID(ctx context.Context, id int64) (*models.LandingPage, error)
	FindBySlug(ctx context.Context, lang, value string) (*models.LandingPage, error)
}

// InvestmentFinder reads investment objects.
type InvestmentFinder interface {
	FindByID(ctx context.Context, id int64) (*models.InvestmentObject, error)
	ListActive(ctx context.Context, limit int) ([]models.InvestmentObject, error)
	ListByCountry(ctx context.Context, countryID int64) ([]models.InvestmentObject, error)
	Search(ctx context.Context, lang, q string, limit int) ([]models.InvestmentObject, error)
}

// MediaResolver turns stored media keys into public URLs.
type MediaResolver interface {
	FileURL(key string) string
}

// Content groups the read-only JSON handlers of the public site. Every
// record is addressed by its slug in the request language.
type Content struct {
	Countries   CountryFinder
	Services    ServiceFinder
	Categories  CategoryFinder
	Articles    ArticleFinder
	Landings    LandingPageFinder
	Investments InvestmentFinder

	// Cache may be nil.
	Cache *cache.SlugCache

	// Media may be nil, in which case media keys are served as stored.
	Media MediaResolver

	// DefaultLanguage is used for text missing in the request language.
	DefaultLanguage string
}

func (h *Content) viewer(r *http.Request) viewer {
	return viewer{
		lang:  middleware.LanguageFrom(r.Context()),
		def:   h.DefaultLanguage,
		media: h.Media,
	}
}

// slugParam returns the {slug} route parameter, answering 404 itself when
// it cannot name a record.
func slugParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	value := chi.URLParam(r, "slug")
	if msg := validateSlugParam(value); msg != "" {
		writeError(w, http.StatusNotFound, msg)
		return "", false
	}
	return value, true
}

func activeCountry(c *models.Country) bool        { return c.Active }
func activeService(s *models.Service) bool        { return s.Active }
func anyCategory(*models.ArticleCategory) bool    { return true }
func publishedArticle(a *models.Article) bool     { return a.Publish }
func publishedLanding(p *models.LandingPage) bool { return p.Publish }

// Home returns the front page: active countries, featured investment
// objects and the latest published articles.
func (h *Content) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v := h.viewer(r)

	countries, err := h.Countries.ListActive(ctx)
	if err != nil {
		internalError(w, r, "list countries failed", err)
		return
	}
	objects, err := h.Investments.ListActive(ctx, homeObjects)
	if err != nil {
		internalError(w, r, "list featured objects failed", err)
		return
	}
	articles, err := h.Articles.ListPublished(ctx, homeArticles)
	if err != nil {
		internalError(w, r, "list latest articles failed", err)
		return
	}

	out := make([]countryView, 0, len(countries))
	for i := range countries {
		out = append(out, v.country(&countries[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"countries":        out,
		"featured_objects": v.investments(objects),
		"latest_articles":  v.articles(articles),
	})
}

// ListCountries lists the active countries.
func (h *Content) ListCountries(w http.ResponseWriter, r *http.Request) {
	items, err := h.Countries.ListActive(r.Context())
	if err != nil {
		internalError(w, r, "list countries failed", err)
		return
	}
	v := h.viewer(r)
	out := make([]countryView, 0, len(items))
	for i := range items {
		out = append(out, v.country(&items[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"countries": out})
}

// ShowCountry returns a country with its published articles and active
// investment objects.
func (h *Content) ShowCountry(w http.ResponseWriter, r *http.Request) {
	value, ok := slugParam(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	v := h.viewer(r)

	c, err := lookup(ctx, h.Cache, models.TableCountries, v.lang, value,
		h.Countries.FindByID, h.Countries.FindBySlug, activeCountry)
	if err != nil {
		internalError(w, r, "find country failed", err)
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "country not found")
		return
	}

	articles, err := h.Articles.ListByCountry(ctx, c.ID)
	if err != nil {
		internalError(w, r, "list country articles failed", err)
		return
	}
	objects, err := h.Investments.ListByCountry(ctx, c.ID)
	if err != nil {
		internalError(w, r, "list investment objects failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"country":            v.country(c),
		"articles":           v.articles(articles),
		"investment_objects": v.investments(objects),
	})
}

// ShowService returns an active service.
func (h *Content) ShowService(w http.ResponseWriter, r *http.Request) {
	value, ok := slugParam(w, r)
	if !ok {
		return
	}
	v := h.viewer(r)

	s, err := lookup(r.Context(), h.Cache, models.TableServices, v.lang, value,
		h.Services.FindByID, h.Services.FindBySlug, activeService)
	if err != nil {
		internalError(w, r, "find service failed", err)
		return
	}
	if s == nil {
		writeError(w, http.StatusNotFound, "service not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"service": v.service(s)})
}

// ListServices lists the active services.
func (h *Content) ListServices(w http.ResponseWriter, r *http.Request) {
	items, err := h.Services.ListActive(r.Context())
	if err != nil {
		internalError(w, r, "list services failed", err)
		return
	}
	v := h.viewer(r)
	out := make([]serviceView, 0, len(items))
	for i := range items {
		out = append(out, v.service(&items[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": out})
}

// ShowObject returns an active investment object by id. Investment objects
// carry no slug.
func (h *Content) ShowObject(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusNotFound, "investment object not found")
		return
	}

	o, err := h.Investments.FindByID(r.Context(), id)
	if err != nil {
		internalError(w, r, "find investment object failed", err)
		return
	}
	if o == nil || !o.Active {
		writeError(w, http.StatusNotFound, "investment object not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"investment_object": h.viewer(r).investment(o)})
}

// ShowArticle returns a published article.
func (h *Content) ShowArticle(w http.ResponseWriter, r *http.Request) {
	value, ok := slugParam(w, r)
	if !ok {
		return
	}
	v := h.viewer(r)

	a, err := lookup(r.Context(), h.Cache, models.TableArticles, v.lang, value,
		h.Articles.FindByID, h.Articles.FindBySlug, publishedArticle)
	if err != nil {
		internalError(w, r, "find article failed", err)
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "article not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"article": v.article(a)})
}

// ShowLanding returns a published landing page.
func (h *Content) ShowLanding(w http.ResponseWriter, r *http.Request) {
	value, ok := slugParam(w, r)
	if !ok {
		return
	}
	v := h.viewer(r)

	p, err := lookup(r.Context(), h.Cache, models.TableLandingPages, v.lang, value,
		h.Landings.FindByID, h.Landings.FindBySlug, publishedLanding)
	if err != nil {
		internalError(w, r, "find landing page failed", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "landing page not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"landing_page": v.landing(p)})
}

// CategoryArticles returns a category with its published articles.
func (h *Content) CategoryArticles(w http.ResponseWriter, r *http.Request) {
	value, ok := slugParam(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	v := h.viewer(r)

	c, err := lookup(ctx, h.Cache, models.TableArticleCategories, v.lang, value,
		h.Categories.FindByID, h.Categories.FindBySlug, anyCategory)
	if err != nil {
		internalError(w, r, "find category failed", err)
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}

	articles, err := h.Articles.ListByCategorySlug(ctx, v.lang, value)
	if err != nil {
		internalError(w, r, "list category articles failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"category": v.category(c),
		"articles": v.articles(articles),
	})
}

// Search matches articles and investment objects against q in the request
// language.
func (h *Content) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if msg := validateQuery(q); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	v := h.viewer(r)
	if q == "" {
		writeJSON(w, http.StatusOK, map[string]any{
			"query":              q,
			"articles":           []articleView{},
			"investment_objects": []investmentView{},
		})
		return
	}
	ctx := r.Context()

	articles, err := h.Articles.Search(ctx, v.lang, q, searchLimit)
	if err != nil {
		internalError(w, r, "search articles failed", err)
		return
	}
	objects, err := h.Investments.Search(ctx, v.lang, q, searchLimit)
	if err != nil {
		internalError(w, r, "search investment objects failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":              q,
		"articles":           v.articles(articles),
		"investment_objects": v.investments(objects),
	})
}
