package models

type TagGroup struct {
	ID   uint   `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name;type:text" json:"name"`
}

func (TagGroup) TableName() string { return "tag_groups" }

type Tag struct {
	ID      uint     `gorm:"column:id;primaryKey" json:"id"`
	GroupID uint     `gorm:"column:group_id;index" json:"group_id"`
	Group   TagGroup `gorm:"foreignKey:GroupID" json:"-"`
	Name    string   `gorm:"column:name;type:text" json:"name"`
}

func (Tag) TableName() string { return "tags" }

// UserTag is a user's ranked tag preference. Positions are 0-based and
// dense per user: {0..n-1} after any create/move.
type UserTag struct {
	ID       uint   `gorm:"column:id;primaryKey" json:"id"`
	UserID   string `gorm:"column:user_id;type:uuid;uniqueIndex:uniq_user_tag" json:"user_id"`
	TagID    uint   `gorm:"column:tag_id;uniqueIndex:uniq_user_tag" json:"tag_id"`
	Tag      Tag    `gorm:"foreignKey:TagID" json:"-"`
	Position int    `gorm:"column:position" json:"position"`
}

func (UserTag) TableName() string { return "user_tags" }

// VacancyTag orders a vacancy's tags by prominence, same position
// semantics as UserTag.
type VacancyTag struct {
	ID        uint `gorm:"column:id;primaryKey" json:"id"`
	VacancyID uint `gorm:"column:vacancy_id;uniqueIndex:uniq_vacancy_tag" json:"vacancy_id"`
	TagID     uint `gorm:"column:tag_id;uniqueIndex:uniq_vacancy_tag" json:"tag_id"`
	Tag       Tag  `gorm:"foreignKey:TagID" json:"-"`
	Position  int  `gorm:"column:position" json:"position"`
}

func (VacancyTag) TableName() string { return "vacancy_tags" }
