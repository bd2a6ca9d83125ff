package utils

import (
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// CreateThumb renders a wxh thumbnail next to the source image, named
// <id>_thumb<ext>.
func CreateThumb(id, dir, ext string, w, h int) error {
	src, err := imaging.Open(filepath.Join(dir, id+ext))
	if err != nil {
		return err
	}
	thumb := imaging.Thumbnail(src, w, h, imaging.Lanczos)
	return imaging.Save(thumb, filepath.Join(dir, id+"_thumb"+ext))
}

func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
