package model

import (
	"time"
)

// Every stored video is rendered as a 1080x1920 portrait.
const (
	VideoHeight    = 1920
	VideoWidth     = 1080
	DefaultQuality = 100
)

type Transformation struct {
	Height  int `bson:"height" json:"height"`
	Width   int `bson:"width" json:"width"`
	Quality int `bson:"quality" json:"quality"`
}

type Video struct {
	ID             string         `bson:"_id" json:"id"`
	Title          string         `bson:"title" json:"title"`
	Description    string         `bson:"description" json:"description"`
	VideoURL       string         `bson:"video_url" json:"videoUrl"`
	ThumbnailURL   string         `bson:"thumbnail_url" json:"thumbnailUrl"`
	FileID         string         `bson:"file_id" json:"fileId,omitempty"`
	Controls       bool           `bson:"controls" json:"controls"`
	Transformation Transformation `bson:"transformation" json:"transformation"`
	OwnerID        string         `bson:"owner_id" json:"ownerId"`
	CreatedAt      time.Time      `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time      `bson:"updated_at" json:"updatedAt"`
}
