package usecase

import (
	"context"
	"io"
	"net/url"
	"time"

	"seaview-backend/internal/carousel"
	"seaview-backend/internal/domain"
	"seaview-backend/internal/gallery"

	"github.com/samber/lo"
)

// ImageLibrary is the part of gallery.Library the usecase depends on
type ImageLibrary interface {
	Images() []gallery.Image
	WriteThumbnail(w io.Writer, name string, maxDimension int) error
}

type galleryUsecase struct {
	library  ImageLibrary
	rotation carousel.Rotation
}

// NewGalleryUsecase creates the gallery usecase. The hero rotation is
// anchored at the Unix epoch so every server instance shows the same image.
func NewGalleryUsecase(library ImageLibrary, heroImages []string, heroInterval time.Duration) (domain.GalleryUsecase, error) {
	rotation, err := carousel.NewRotation(heroImages, heroInterval, time.Unix(0, 0))
	if err != nil {
		return nil, err
	}
	return &galleryUsecase{
		library:  library,
		rotation: rotation,
	}, nil
}

func (uc *galleryUsecase) List(ctx context.Context) []domain.GalleryImage {
	return lo.Map(uc.library.Images(), func(img gallery.Image, _ int) domain.GalleryImage {
		escaped := url.PathEscape(img.Name)
		return domain.GalleryImage{
			Name:         img.Name,
			URL:          "/gallery/" + escaped,
			ThumbnailURL: "/v1/gallery/" + escaped + "/thumbnail",
			Alt:          gallery.AltText(img.Name),
			Width:        img.Width,
			Height:       img.Height,
		}
	})
}

func (uc *galleryUsecase) WriteThumbnail(ctx context.Context, w io.Writer, name string, maxDimension int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return uc.library.WriteThumbnail(w, name, maxDimension)
}

func (uc *galleryUsecase) Hero(ctx context.Context, at time.Time) (domain.HeroState, error) {
	idx, current := uc.rotation.At(at)
	return domain.HeroState{
		Images:          uc.rotation.Images(),
		IntervalSeconds: int(uc.rotation.Interval() / time.Second),
		Current:         current,
		Index:           idx,
	}, nil
}
