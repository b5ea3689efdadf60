package processing

import (
	"bytes"
	"image"

	"postboard/models"
	"postboard/utils"
)

// metadata records the dimensions of the original image
type metadata struct{}

func (md *metadata) getName() string {
	return "metadata"
}

func (md *metadata) shouldHandle(post *models.Post) bool {
	return post.Image != "" && (post.ImageWidth == 0 || post.ImageHeight == 0)
}

func (md *metadata) process(p *Processor, post *models.Post) int {
	buf := bytes.Buffer{}
	if _, err := p.Storage.Load(post.Image, &buf); err != nil {
		utils.Logger.WithError(err).WithField("post", post.ID).Warn("metadata: cannot load image")
		return FailedStorage
	}
	cfg, _, err := image.DecodeConfig(&buf)
	if err != nil {
		utils.Logger.WithError(err).WithField("post", post.ID).Warn("metadata: cannot decode image")
		return Failed
	}
	post.ImageWidth = clampUint16(cfg.Width)
	post.ImageHeight = clampUint16(cfg.Height)
	res := p.DB.Model(&models.Post{}).
		Where("id = ? AND image = ?", post.ID, post.Image).
		UpdateColumns(map[string]any{"image_width": post.ImageWidth, "image_height": post.ImageHeight})
	if res.Error != nil {
		utils.Logger.WithError(res.Error).WithField("post", post.ID).Error("metadata: cannot update post")
		return FailedDB
	}
	return Done
}

func clampUint16(v int) uint16 {
	if v > 0xFFFF {
		return 0xFFFF
	}
	if v < 0 {
		return 0
	}
	return uint16(v)
}
