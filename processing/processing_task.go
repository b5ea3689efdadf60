package processing

import (
	"sort"
	"strconv"
	"strings"

	"postboard/models"
	"postboard/utils"
)

const (
	Skipped       = 0
	Done          = 2
	Failed        = 3
	FailedStorage = 4
	FailedDB      = 5
)

var statusNames = map[int]string{
	Skipped:       "skipped",
	Done:          "done",
	Failed:        "failed",
	FailedStorage: "failed_storage",
	FailedDB:      "failed_db",
}

type ProcessingTask struct {
	PostID uint64      `gorm:"primaryKey;autoIncrement:false"`
	Post   models.Post `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Status string      `gorm:"type:varchar(1024)"` // Contains comma-separated pairs of task and status, e.g. "metadata:2,thumb:3"
}

func (pt *ProcessingTask) statusToMap() map[string]int {
	result := map[string]int{}
	if pt.Status == "" {
		return result
	}
	for _, v := range strings.Split(pt.Status, ",") {
		current := strings.Split(v, ":")
		if len(current) != 2 {
			utils.Logger.WithField("post", pt.PostID).WithField("status", pt.Status).Warn("task status contains invalid chars")
			continue
		}
		result[current[0]], _ = strconv.Atoi(current[1])
	}
	return result
}

func (pt *ProcessingTask) updateWith(statusMap map[string]int) {
	result := []string{}
	for k, v := range statusMap {
		result = append(result, k+":"+strconv.Itoa(v))
	}
	sort.Strings(result)
	pt.Status = strings.Join(result, ",")
}
