package models

type Comment struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	CreatedAt int64  `gorm:"index;<-:create" json:"created"`
	AuthorID  uint64 `gorm:"not null;index" json:"-"`
	Author    User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	PostID    uint64 `gorm:"not null;index;<-:create" json:"post_id"`
	Post      *Post  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Text      string `gorm:"type:text;not null" json:"text"`
}

func (c Comment) String() string {
	return firstRunes(c.Text, 15)
}
