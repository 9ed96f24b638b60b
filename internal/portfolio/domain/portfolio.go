package domain

import "time"

// ViewTopicName kafka topic for view events
const ViewTopicName = "portfolio.views"

// Profile one member's public portfolio page
type Profile struct {
	MemberID    string    `bson:"_id" json:"memberId"`
	DisplayName string    `bson:"display_name" json:"displayName"`
	Headline    string    `bson:"headline,omitempty" json:"headline,omitempty"`
	Bio         string    `bson:"bio,omitempty" json:"bio,omitempty"`
	Skills      []string  `bson:"skills,omitempty" json:"skills,omitempty"`
	Website     string    `bson:"website,omitempty" json:"website,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

// Credit one production credit on a member's resume
type Credit struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	MemberID   string    `gorm:"index;size:64" json:"memberId"`
	Production string    `gorm:"size:255" json:"production"`
	Role       string    `gorm:"size:128" json:"role"`
	Year       int       `json:"year"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// ViewEvent emitted to kafka whenever a portfolio video is watched
type ViewEvent struct {
	MediaID  string    `json:"media_id"`
	ViewerID string    `json:"viewer_id,omitempty"`
	ViewedAt time.Time `json:"viewed_at"`
}
