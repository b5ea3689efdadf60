package posts

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"postboard/db"
	"postboard/metrics"
	"postboard/models"
	"postboard/processing"
	"postboard/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const testPerPage = 10

type fixture struct {
	svc   *Service
	ctx   context.Context
	clock int64
}

func newFixture(t *testing.T) *fixture {
	tx := db.OpenTest(t)
	require.NoError(t, models.Init(tx))
	require.NoError(t, processing.Init(tx))
	svc := NewService(tx, storage.NewDiskStorage(t.TempDir()), metrics.New(prometheus.NewRegistry()))
	svc.PerPage = testPerPage
	return &fixture{svc: svc, ctx: context.Background(), clock: 1700000000}
}

func (f *fixture) user(t *testing.T, username string) *models.User {
	u, err := models.UserCreate(f.svc.DB, username, "", "secret")
	require.NoError(t, err)
	return &u
}

func (f *fixture) group(t *testing.T, slug string) *models.Group {
	g, err := models.GroupCreate(f.svc.DB, "Group "+slug, slug, "")
	require.NoError(t, err)
	return &g
}

// post inserts a post with a strictly increasing creation time
func (f *fixture) post(t *testing.T, author *models.User, group *models.Group, text string) models.Post {
	f.clock++
	p := models.Post{AuthorID: author.ID, Text: text, CreatedAt: f.clock}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(t, f.svc.DB.Create(&p).Error)
	return p
}

func (f *fixture) count(t *testing.T, model any) int64 {
	var n int64
	require.NoError(t, f.svc.DB.Model(model).Count(&n).Error)
	return n
}

func pngImage(t *testing.T) []byte {
	buf := bytes.Buffer{}
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func postIDs(page Page) []uint64 {
	ids := make([]uint64, 0, len(page.Posts))
	for _, p := range page.Posts {
		ids = append(ids, p.ID)
	}
	return ids
}
