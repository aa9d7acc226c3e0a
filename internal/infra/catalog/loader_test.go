package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	c, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, 5, c.Len())
	assert.Equal(t, "tshirt-classic", c.Products()[0].ID)
}

func TestLoadJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	body := `[{"id":"p1","name":"Mug","price":9.5,"keywords":["mug","cup"]}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	c, err := Load(path)

	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
	p := c.Products()[0]
	assert.Equal(t, "Mug", p.Name)
	assert.Equal(t, 9.5, p.Price)
	assert.Equal(t, []string{"mug", "cup"}, p.Keywords)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParseRejectsInvalidProducts(t *testing.T) {
	cases := map[string]string{
		"empty":        "products: []",
		"missing id":   "- name: Mug\n  price: 1",
		"missing name": "- id: p1\n  price: 1",
		"negative":     "- id: p1\n  name: Mug\n  price: -1",
		"duplicate":    "- id: p1\n  name: A\n- id: p1\n  name: B",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			assert.Error(t, err)
		})
	}
}
