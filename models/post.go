package models

// Post belongs to its author for life, only Text, Group and Image may change
type Post struct {
	ID         uint64  `gorm:"primaryKey" json:"id"`
	CreatedAt  int64   `gorm:"index;<-:create" json:"pub_date"`
	UpdatedAt  int64   `json:"-"`
	AuthorID   uint64  `gorm:"not null;index;<-:create" json:"-"`
	Author     User    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	GroupID    *uint64 `gorm:"index" json:"-"`
	Group      *Group  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"group"`
	Text       string  `gorm:"type:text;not null" json:"text"`
	Image      string  `gorm:"type:varchar(300)" json:"image,omitempty"`
	ImageThumb string  `gorm:"type:varchar(300)" json:"image_thumb,omitempty"`
	// Filled in by the background processing
	ImageWidth  uint16 `json:"image_width,omitempty"`
	ImageHeight uint16 `json:"image_height,omitempty"`
}

func (p Post) String() string {
	return firstRunes(p.Text, 15)
}

func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}
