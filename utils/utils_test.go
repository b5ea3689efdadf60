package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testPNG(t *testing.T, w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	buf := bytes.Buffer{}
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCreateThumb(t *testing.T) {
	out := bytes.Buffer{}
	res, err := CreateThumb(50, bytes.NewReader(testPNG(t, 200, 100)), &out)
	require.NoError(t, err)
	assert.Equal(t, uint16(50), res.NewX)
	assert.Equal(t, uint16(25), res.NewY)
	assert.Equal(t, uint16(200), res.OldX)
	assert.Equal(t, int64(out.Len()), res.ThumbSize)

	format, err := ImageFormat(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestImageFormat(t *testing.T) {
	format, err := ImageFormat(testPNG(t, 2, 2))
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	_, err = ImageFormat([]byte("definitely not an image"))
	assert.Error(t, err)
}

func TestCacheRouter(t *testing.T) {
	r := gin.New()
	r.GET("/none", (&CacheRouter{}).Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/cached", (&CacheRouter{CacheTime: 20}).Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/public", (&CacheRouter{CacheTime: 60, Public: true}).Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/none", nil))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cached", nil))
	assert.Equal(t, "private, max-age=20", w.Header().Get("Cache-Control"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public", nil))
	assert.Equal(t, "public, max-age=60", w.Header().Get("Cache-Control"))
}

func TestRandSalt(t *testing.T) {
	a, b := RandSalt(32), RandSalt(32)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 44)
}
