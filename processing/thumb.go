package processing

import (
	"bytes"

	"postboard/models"
	"postboard/storage"
	"postboard/utils"
)

type thumb struct{}

func (t *thumb) getName() string {
	return "thumb"
}

func (t *thumb) shouldHandle(post *models.Post) bool {
	return post.Image != "" && post.ImageThumb == ""
}

func (t *thumb) process(p *Processor, post *models.Post) int {
	original := bytes.Buffer{}
	if _, err := p.Storage.Load(post.Image, &original); err != nil {
		utils.Logger.WithError(err).WithField("post", post.ID).Warn("cannot load image for thumbnail")
		return FailedStorage
	}
	thumbBuf := bytes.Buffer{}
	if _, err := utils.CreateThumb(p.ThumbSize, &original, &thumbBuf); err != nil {
		utils.Logger.WithError(err).WithField("post", post.ID).Warn("cannot create thumbnail")
		return Failed
	}
	thumbPath := storage.ThumbPath(post.Image)
	if _, err := p.Storage.Save(thumbPath, &thumbBuf); err != nil {
		utils.Logger.WithError(err).WithField("post", post.ID).Warn("cannot store thumbnail")
		return FailedStorage
	}
	// Only set if the image wasn't replaced in the meantime
	res := p.DB.Model(&models.Post{}).
		Where("id = ? AND image = ?", post.ID, post.Image).
		UpdateColumn("image_thumb", thumbPath)
	if res.Error != nil {
		utils.Logger.WithError(res.Error).WithField("post", post.ID).Error("cannot save thumbnail path")
		return FailedDB
	}
	post.ImageThumb = thumbPath
	return Done
}
