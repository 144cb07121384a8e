package render

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".gif":  true,
	".webp": true,
}

var sizeDirective = regexp.MustCompile(`\b(width|height)=(\d{1,3})%`)

// IsImagePath reports whether path names a raster image by extension.
func IsImagePath(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// ResolvePath resolves dest against the directory of the slide's origin
// unless it is already absolute.
func ResolvePath(origin, dest string) string {
	if filepath.IsAbs(dest) {
		return dest
	}
	dir := filepath.Dir(origin)
	if origin == "" {
		dir = "."
	}
	return filepath.Join(dir, dest)
}

// ImageBox is the largest cell area an image may occupy. Zero on an axis
// means that axis is unconstrained. By default an image gets two thirds of
// the viewport each way; a width=NN% or height=NN% directive in the caption
// pins that axis and frees the other one.
func ImageBox(caption string, viewport Size) Size {
	box := Size{Width: viewport.Width * 2 / 3, Height: viewport.Height * 2 / 3}
	var widthSet, heightSet bool
	for _, m := range sizeDirective.FindAllStringSubmatch(caption, -1) {
		pct, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		pct = min(pct, 100)
		switch m[1] {
		case "width":
			box.Width = max(1, viewport.Width*pct/100)
			widthSet = true
		case "height":
			box.Height = max(1, viewport.Height*pct/100)
			heightSet = true
		}
	}
	switch {
	case widthSet && !heightSet:
		box.Height = 0
	case heightSet && !widthSet:
		box.Width = 0
	}
	return box
}

// OpenCommand is the command line a caption asks for to open an image, with
// size directives removed. "feh width=50%" becomes ["feh"].
func OpenCommand(caption string) []string {
	return strings.Fields(sizeDirective.ReplaceAllString(caption, ""))
}
