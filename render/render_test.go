package render

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRenderer(t *testing.T) {
	ct, body, err := JSONRenderer{}.Render("posts/index.html", Context{"count": 3})
	require.NoError(t, err)
	assert.Equal(t, ContentTypeJSON, ct)

	out := map[string]any{}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "posts/index.html", out["template"])
	assert.Equal(t, 3.0, out["count"])
}

func TestHTMLRenderer(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "profile.html"),
		[]byte(`{{define "posts/profile.html"}}<h1>{{.author}}</h1>{{end}}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "404.html"),
		[]byte(`{{range pages 3}}{{.}}{{end}} missing {{.path}}`), 0o600))

	r, err := NewHTMLRenderer(filepath.Join(dir, "*.html"))
	require.NoError(t, err)

	ct, body, err := r.Render("posts/profile.html", Context{"author": "<leo>"})
	require.NoError(t, err)
	assert.Equal(t, ContentTypeHTML, ct)
	assert.Equal(t, "<h1>&lt;leo&gt;</h1>", string(body))

	_, body, err = r.Render("core/404.html", Context{"path": "/x"})
	require.NoError(t, err)
	assert.Equal(t, "123 missing /x", string(body))

	_, _, err = r.Render("posts/none.html", nil)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}
