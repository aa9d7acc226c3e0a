package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/zapvendas/internal/entity"
)

func TestCatalogRelevant(t *testing.T) {
	catalog := entity.NewCatalog([]entity.Product{
		{ID: "tee", Name: "Classic T-Shirt", Keywords: []string{"tee"}},
		{ID: "hoodie", Name: "Essential Hoodie", Category: "hoodie"},
		{ID: "cap", Name: "Snapback Cap", Keywords: []string{"cap"}},
		{ID: "tote", Name: "Canvas Tote Bag", Keywords: []string{"tote"}},
	})

	ids := func(ps []entity.Product) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	assert.Equal(t, []string{"tee", "hoodie", "cap"}, ids(catalog.Relevant("TOTE, cap, Hoodie or a tee?", 3)))
	assert.Equal(t, []string{"tote"}, ids(catalog.Relevant("the canvas tote bag please", 3)))
	assert.Empty(t, catalog.Relevant("good morning", 3))
}

func TestCatalogProductsIsCopy(t *testing.T) {
	catalog := entity.NewCatalog([]entity.Product{{ID: "a", Name: "A"}})
	ps := catalog.Products()
	ps[0].Name = "changed"
	assert.Equal(t, "A", catalog.Products()[0].Name)
	assert.Equal(t, 1, catalog.Len())
}

func TestCatalogRender(t *testing.T) {
	catalog := entity.NewCatalog([]entity.Product{{ID: "a", Name: "Snapback Cap", Price: 19.99, Colors: []string{"black", "red"}}})
	out := catalog.Render()
	assert.Contains(t, out, "1. Snapback Cap - $19.99")
	assert.Contains(t, out, "Colors: black, red")
}
