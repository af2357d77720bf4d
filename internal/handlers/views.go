// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"time"

	"investpress/internal/markdown"
	"investpress/internal/models"
)

// The views flatten translated fields to the requested language, falling
// back to the default language for text. Slugs never fall back: a record
// without a slug in the requested language has no URL there, and
// Alternates lists the languages it does have. Content is Markdown and is
// also served rendered as ContentHTML.

type countryView struct {
	ID         int64            `json:"id"`
	Name       string           `json:"name"`
	Slug       string           `json:"slug,omitempty"`
	Alternates models.Localized `json:"alternates"`
}

type serviceView struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Slug        string           `json:"slug,omitempty"`
	Alternates  models.Localized `json:"alternates"`
}

type categoryView struct {
	ID         int64            `json:"id"`
	Name       string           `json:"name"`
	Slug       string           `json:"slug,omitempty"`
	Alternates models.Localized `json:"alternates"`
}

type articleView struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	ContentHTML string           `json:"content_html"`
	Slug        string           `json:"slug,omitempty"`
	Alternates  models.Localized `json:"alternates"`
	CategoryID  *int64           `json:"category_id,omitempty"`
	CountryID   *int64           `json:"country_id,omitempty"`
	CoverImage  string           `json:"cover_image,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

type landingView struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	ContentHTML string           `json:"content_html"`
	Slug        string           `json:"slug,omitempty"`
	Alternates  models.Localized `json:"alternates"`
	ServiceID   *int64           `json:"service_id,omitempty"`
}

type investmentView struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	CountryID   int64            `json:"country_id"`
	Price       *string          `json:"price,omitempty"`
	ExpectedROI string           `json:"expected_roi"`
	Images      []string         `json:"images"`
}

// viewer renders records for one request language.
type viewer struct {
	lang  string
	def   string
	media MediaResolver // may be nil
}

// mediaURL resolves a stored media key; keys pass through unchanged when
// no storage is configured.
func (v viewer) mediaURL(key string) string {
	if v.media == nil {
		return key
	}
	return v.media.FileURL(key)
}

// html renders Markdown content. A render failure is logged and yields an
// empty string; the raw content is still served.
func (v viewer) html(source string) string {
	out, err := markdown.ToHTML(source)
	if err != nil {
		slog.Warn("render markdown", "lang", v.lang, "error", err)
		return ""
	}
	return out
}

func alternates(l models.Localized) models.Localized {
	if l == nil {
		return models.Localized{}
	}
	return l
}

func (v viewer) country(c *models.Country) countryView {
	return countryView{
		ID:         c.ID,
		Name:       c.Name.Fallback(v.lang, v.def),
		Slug:       c.Slug.Get(v.lang),
		Alternates: alternates(c.Slug),
	}
}

func (v viewer) service(s *models.Service) serviceView {
	return serviceView{
		ID:          s.ID,
		Title:       s.Title.Fallback(v.lang, v.def),
		Description: s.Description.Fallback(v.lang, v.def),
		Slug:        s.Slug.Get(v.lang),
		Alternates:  alternates(s.Slug),
	}
}

func (v viewer) category(c *models.ArticleCategory) categoryView {
	return categoryView{
		ID:         c.ID,
		Name:       c.Name.Fallback(v.lang, v.def),
		Slug:       c.Slug.Get(v.lang),
		Alternates: alternates(c.Slug),
	}
}

func (v viewer) article(a *models.Article) articleView {
	content := a.Content.Fallback(v.lang, v.def)
	view := articleView{
		ID:          a.ID,
		Title:       a.Title.Fallback(v.lang, v.def),
		Content:     content,
		ContentHTML: v.html(content),
		Slug:        a.Slug.Get(v.lang),
		Alternates:  alternates(a.Slug),
		CategoryID:  a.CategoryID,
		CountryID:   a.CountryID,
		CreatedAt:   a.CreatedAt,
	}
	if a.CoverImage != nil {
		view.CoverImage = v.mediaURL(*a.CoverImage)
	}
	return view
}

func (v viewer) articles(items []models.Article) []articleView {
	out := make([]articleView, 0, len(items))
	for i := range items {
		out = append(out, v.article(&items[i]))
	}
	return out
}

func (v viewer) landing(p *models.LandingPage) landingView {
	content := p.Content.Fallback(v.lang, v.def)
	return landingView{
		ID:          p.ID,
		Title:       p.Title.Fallback(v.lang, v.def),
		Content:     content,
		ContentHTML: v.html(content),
		Slug:        p.Slug.Get(v.lang),
		Alternates:  alternates(p.Slug),
		ServiceID:   p.ServiceID,
	}
}

func (v viewer) investment(o *models.InvestmentObject) investmentView {
	images := make([]string, 0, len(o.Images))
	for _, key := range o.Images {
		images = append(images, v.mediaURL(key))
	}
	return investmentView{
		ID:          o.ID,
		Title:       o.Title.Fallback(v.lang, v.def),
		Description: o.Description.Fallback(v.lang, v.def),
		CountryID:   o.CountryID,
		Price:       o.Price,
		ExpectedROI: o.ExpectedROI,
		Images:      images,
	}
}

func (v viewer) investments(items []models.InvestmentObject) []investmentView {
	out := make([]investmentView, 0, len(items))
	for i := range items {
		out = append(out, v.investment(&items[i]))
	}
	return out
}
