package domain

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrImageNotFound    = errors.New("image not found")
	ErrInvalidImageName = errors.New("invalid image name")
)

// GalleryImage is one entry of the gallery manifest
type GalleryImage struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Alt          string `json:"alt"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

// HeroState describes the hero background rotation at a point in time
type HeroState struct {
	Images          []string `json:"images"`
	IntervalSeconds int      `json:"interval_seconds"`
	Current         string   `json:"current"`
	Index           int      `json:"index"`
}

// GalleryUsecase serves the photo gallery and the hero rotation
type GalleryUsecase interface {
	List(ctx context.Context) []GalleryImage
	// WriteThumbnail encodes a JPEG thumbnail of the named image, bounded by maxDimension.
	WriteThumbnail(ctx context.Context, w io.Writer, name string, maxDimension int) error
	Hero(ctx context.Context, at time.Time) (HeroState, error)
}
