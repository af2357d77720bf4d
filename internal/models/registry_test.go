package models

import (
	"testing"

	"investpress/internal/slug"
)

func TestSlugModels(t *testing.T) {
	models := SlugModels()
	wantOrder := []string{"country", "service", "article_category", "article", "landing_page"}
	if len(models) != len(wantOrder) {
		t.Fatalf("got %d models, want %d", len(models), len(wantOrder))
	}

	tables := map[string]bool{}
	for i, m := range models {
		if m.Name != wantOrder[i] {
			t.Errorf("model %d: got %q, want %q", i, m.Name, wantOrder[i])
		}
		if tables[m.Table] {
			t.Errorf("table %q configured twice", m.Table)
		}
		tables[m.Table] = true
		if len(m.Fields) != 1 || m.Fields[0].Slug != FieldSlug {
			t.Errorf("%s: fields = %+v", m.Name, m.Fields)
		}
	}
	if tables[TableInvestmentObjects] {
		t.Error("investment objects carry no slug")
	}
}

func TestModelsSatisfyEntity(t *testing.T) {
	var _ slug.Entity = (*Country)(nil)
	var _ slug.Entity = (*Service)(nil)
	var _ slug.Entity = (*ArticleCategory)(nil)
	var _ slug.Entity = (*Article)(nil)
	var _ slug.Entity = (*LandingPage)(nil)
	var _ slug.Entity = (*Record)(nil)
}
