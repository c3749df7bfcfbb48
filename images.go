package statica

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
)

const jpegQuality = 80

// featuredImageURL returns the public URL of a featured-image file. Media
// always lives under the standard tree.
func featuredImageURL(cfg SiteConfig, postID int64, filename string) string {
	return BuildURL(cfg.URL, "media", "featured", strconv.FormatInt(postID, 10), filename)
}

func baseName(p string) string {
	return path.Base(p)
}

// renditionName derives the output filename of a downscaled rendition.
// Renditions are always encoded as JPEG regardless of the source format.
func renditionName(p string, width int) string {
	base := path.Base(p)
	ext := path.Ext(base)
	return strings.TrimSuffix(base, ext) + "-" + strconv.Itoa(width) + ".jpg"
}

// processFeaturedImages copies each featured image from the media directory
// into the output tree and writes one JPEG rendition per configured width.
// A missing or undecodable source is recorded as a data warning and skipped;
// the pass continues.
func (pc *passContext) processFeaturedImages() {
	for postID, img := range pc.cache.FeaturedImages {
		src := filepath.Join(pc.cfg.MediaDir, filepath.FromSlash(img.Path))
		data, err := os.ReadFile(src)
		if err != nil {
			pc.errs.DataWarning(fmt.Sprintf("featured image for post %d", postID), err)
			continue
		}

		destDir := path.Join("media", "featured", strconv.FormatInt(postID, 10))
		if err := pc.emitter.WriteFile(path.Join(destDir, baseName(img.Path)), data); err != nil {
			pc.errs.Append("write featured image for post "+strconv.FormatInt(postID, 10), err.Error())
			continue
		}

		decoded, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			pc.errs.DataWarning(fmt.Sprintf("decode featured image for post %d", postID), err)
			continue
		}
		for _, width := range pc.cfg.ImageWidths {
			encoded, err := encodeRendition(decoded, width)
			if err != nil {
				pc.errs.DataWarning(fmt.Sprintf("resize featured image for post %d to %d", postID, width), err)
				continue
			}
			if err := pc.emitter.WriteFile(path.Join(destDir, renditionName(img.Path, width)), encoded); err != nil {
				pc.errs.Append("write featured image rendition for post "+strconv.FormatInt(postID, 10), err.Error())
			}
		}
	}
}

// encodeRendition downscales img to the given width, keeping aspect ratio,
// and encodes it as JPEG. Images already narrower than width are re-encoded
// at their original size so the rendition URL always resolves.
func encodeRendition(img image.Image, width int) ([]byte, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > width {
		newH := h * width / w
		dst := image.NewRGBA(image.Rect(0, 0, width, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
