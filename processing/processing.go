package processing

import (
	"context"
	"errors"
	"time"

	"postboard/metrics"
	"postboard/models"
	"postboard/storage"
	"postboard/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type processingTask interface {
	getName() string
	shouldHandle(*models.Post) bool
	process(*Processor, *models.Post) int
}

var (
	tasks = map[string]processingTask{}
)

func registerTask(t processingTask) {
	tasks[t.getName()] = t
}

func init() {
	registerTask(&metadata{})
	registerTask(&thumb{})
}

// Processor creates derived files for uploaded post images in the background
type Processor struct {
	DB        *gorm.DB
	Storage   storage.StorageAPI
	Metrics   *metrics.Metrics
	ThumbSize uint
	Every     time.Duration
}

func Init(db *gorm.DB) error {
	return db.AutoMigrate(&ProcessingTask{})
}

// Reset forgets all task results of a post so its new image gets processed again
func Reset(tx *gorm.DB, postID uint64) error {
	return tx.Where("post_id = ?", postID).Delete(&ProcessingTask{}).Error
}

// ProcessPending runs every registered task once for each post with an image that
// was not processed yet and returns the number of posts handled
func (p *Processor) ProcessPending(ctx context.Context) int {
	var ids []uint64
	err := p.DB.WithContext(ctx).
		Model(&models.Post{}).
		Joins("LEFT JOIN processing_tasks ON processing_tasks.post_id = posts.id").
		Where("posts.image <> '' AND processing_tasks.post_id IS NULL").
		Order("posts.id").
		Pluck("posts.id", &ids).Error
	if err != nil {
		utils.Logger.WithError(err).Error("processPending query failed")
		return 0
	}
	handled := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		post := models.Post{}
		if err = p.DB.WithContext(ctx).First(&post, id).Error; err != nil {
			utils.Logger.WithError(err).WithField("post", id).Warn("processPending load post failed")
			continue
		}
		p.processOne(&post)
		handled++
	}
	return handled
}

func (p *Processor) processOne(post *models.Post) {
	current := ProcessingTask{PostID: post.ID}
	statusMap := current.statusToMap()
	for taskName, task := range tasks {
		// For now - just one try for each task
		if !task.shouldHandle(post) {
			statusMap[taskName] = Skipped
			continue
		}
		start := time.Now()
		statusMap[taskName] = task.process(p, post)
		utils.Logger.WithFields(logrus.Fields{
			"task":   taskName,
			"post":   post.ID,
			"result": statusMap[taskName],
			"ms":     time.Since(start).Milliseconds(),
		}).Info("processing task finished")
		if p.Metrics != nil {
			p.Metrics.ProcessingTasks.WithLabelValues(taskName, statusNames[statusMap[taskName]]).Inc()
		}
	}
	current.updateWith(statusMap)
	err := p.DB.Create(&current).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		utils.Logger.WithError(err).WithField("post", post.ID).Error("processPending save task failed")
	}
}

// Start processes pending posts until ctx is cancelled
func (p *Processor) Start(ctx context.Context) {
	every := p.Every
	if every <= 0 {
		every = 30 * time.Second
	}
	for {
		p.ProcessPending(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(every):
		}
	}
}
