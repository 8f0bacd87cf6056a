package travel

import (
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/draddo11/Holiday/pkg/core/surface"
)

// SceneRequest describes a weather postcard.
type SceneRequest struct {
	Destination string  `json:"destination"`
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"weather_condition"`
	Season      Season  `json:"season,omitempty"`
}

// ScenePrompt builds the image-model prompt for an isometric miniature
// diorama of the destination in the given weather.
func ScenePrompt(req SceneRequest) string {
	temp := fmt.Sprintf("%.0f", req.Temperature)
	var b strings.Builder
	fmt.Fprintf(&b, "Professional isometric 3D miniature diorama of %s at %s°C with %s weather.\n\n",
		req.Destination, temp, strings.ToLower(req.Condition))
	b.WriteString(`STYLE: ultra-detailed isometric 3D render:
- Perfect 30-degree isometric perspective
- Miniature diorama style with incredible detail
- Smooth gradients and professional lighting
- Vibrant saturated colors with depth
- Soft shadows and ambient occlusion
- Clean polished 3D render quality

SCENE:
`)
	fmt.Fprintf(&b, "- Iconic %s landmarks in miniature\n", req.Destination)
	fmt.Fprintf(&b, "- %s\n", sky(req.Condition))
	fmt.Fprintf(&b, "- Temperature indicator showing %s°C\n", temp)
	if s := seasonDressing(req.Season); s != "" {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	b.WriteString(`- Tiny people, cars, trees for scale
- Water features, parks, plazas

TECHNICAL:
- Isometric 3D render, NOT flat illustration
- Smooth surfaces with realistic materials
- 1024x1024 resolution

Premium 3D architectural visualization or high-end video game asset.`)
	return b.String()
}

func sky(condition string) string {
	switch weatherKind(condition) {
	case "rain":
		return "Overcast sky, falling rain, wet reflective streets, puddles"
	case "snow":
		return "Soft falling snow, snow-covered rooftops, cold blue lighting"
	case "storm":
		return "Dark storm clouds, lightning in the distance, dramatic lighting"
	case "cloud":
		return "Fluffy clouds drifting over the city, diffused daylight"
	case "fog":
		return "Low mist wrapping the buildings, muted pastel light"
	default:
		return "Bright sun, clear blue sky, warm golden lighting"
	}
}

func seasonDressing(s Season) string {
	switch s {
	case SeasonHalloween:
		return "Glowing jack-o'-lanterns, autumn leaves, orange and purple accents"
	case SeasonChristmas:
		return "Christmas lights, a decorated tree in the main square, festive wreaths"
	case SeasonSummer:
		return "Beach umbrellas, ice cream stands, people in summer clothes"
	case SeasonSpring:
		return "Cherry blossoms and flower beds in full bloom"
	default:
		return ""
	}
}

// weatherKind folds a free-text condition into a small set of kinds.
func weatherKind(condition string) string {
	c := strings.ToLower(condition)
	switch {
	case strings.Contains(c, "storm") || strings.Contains(c, "thunder"):
		return "storm"
	case strings.Contains(c, "snow"):
		return "snow"
	case strings.Contains(c, "rain") || strings.Contains(c, "drizzle") || strings.Contains(c, "shower"):
		return "rain"
	case strings.Contains(c, "fog") || strings.Contains(c, "mist"):
		return "fog"
	case strings.Contains(c, "cloud") || strings.Contains(c, "overcast"):
		return "cloud"
	default:
		return "clear"
	}
}

// SceneSize is the edge length of fallback postcards. Smaller requests are
// raised to minSceneSize.
const (
	SceneSize    = 512
	minSceneSize = 64
)

// RenderScene draws a deterministic postcard: a seasonal gradient sky, a
// sun or weather overlay and a skyline silhouette derived from the
// destination name. It is used when no image model is available.
func RenderScene(req SceneRequest, size int) (*surface.Surface, error) {
	if size <= 0 {
		size = SceneSize
	}
	if size < minSceneSize {
		size = minSceneSize
	}
	season := req.Season
	if season == "" {
		season = SeasonDefault
	}
	pal := season.Palette()

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		c := pal.At(float64(y) / float64(size-1))
		r, g, b := c.RGB255()
		row := color.NRGBA{R: r, G: g, B: b, A: 255}
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, y, row)
		}
	}

	kind := weatherKind(req.Condition)
	if kind == "clear" {
		disk(img, size*3/4, size/4, size/10, color.NRGBA{R: 255, G: 236, B: 160, A: 230})
	}
	skyline(img, req.Destination, pal)

	out := img
	switch kind {
	case "rain", "storm":
		streaks(img, req.Destination)
		out = imaging.AdjustBrightness(img, -12)
	case "snow":
		flakes(img, req.Destination)
	case "fog":
		out = imaging.Blur(img, float64(size)/128)
	case "cloud":
		out = imaging.AdjustSaturation(img, -25)
	}
	return surface.Adopt(out)
}

func disk(img *image.NRGBA, cx, cy, r int, c color.NRGBA) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx, dy := float64(x-cx), float64(y-cy)
			if dx*dx+dy*dy <= float64(r*r) && image.Pt(x, y).In(img.Rect) {
				img.SetNRGBA(x, y, over(img.NRGBAAt(x, y), c))
			}
		}
	}
}

// skyline draws building blocks along the bottom edge. Widths and heights
// come from the destination hash so the same city always looks the same.
func skyline(img *image.NRGBA, destination string, pal Palette) {
	size := img.Rect.Dx()
	h := fnv.New64a()
	h.Write([]byte(Normalize(destination)))
	seed := h.Sum64()

	dark := pal.Secondary.BlendLab(colorful.Color{}, 0.6).Clamped()
	r, g, b := dark.RGB255()
	fill := color.NRGBA{R: r, G: g, B: b, A: 255}

	base := size * 9 / 10
	for x := 0; x < size; {
		seed = seed*6364136223846793005 + 1442695040888963407
		w := size/24 + int(seed>>33)%(size/12)
		height := size/10 + int(seed>>17)%(size/4)
		for yy := base - height; yy < size; yy++ {
			for xx := x; xx < x+w && xx < size; xx++ {
				img.SetNRGBA(xx, yy, fill)
			}
		}
		x += w + 1 + int(seed>>50)%4
	}
}

func streaks(img *image.NRGBA, destination string) {
	size := img.Rect.Dx()
	h := fnv.New32a()
	h.Write([]byte(destination))
	seed := h.Sum32()
	c := color.NRGBA{R: 200, G: 210, B: 230, A: 110}
	for i := 0; i < size/2; i++ {
		seed = seed*1664525 + 1013904223
		x, y := int(seed%uint32(size)), int((seed>>11)%uint32(size))
		for k := 0; k < size/40; k++ {
			px, py := x+k/3, y+k
			if image.Pt(px, py).In(img.Rect) {
				img.SetNRGBA(px, py, over(img.NRGBAAt(px, py), c))
			}
		}
	}
}

func flakes(img *image.NRGBA, destination string) {
	size := img.Rect.Dx()
	h := fnv.New32a()
	h.Write([]byte(destination))
	seed := h.Sum32()
	r := int(math.Max(1, float64(size)/256))
	for i := 0; i < size/3; i++ {
		seed = seed*1664525 + 1013904223
		disk(img, int(seed%uint32(size)), int((seed>>11)%uint32(size)), r, color.NRGBA{R: 255, G: 255, B: 255, A: 200})
	}
}

// over alpha-composites src onto an opaque dst.
func over(dst, src color.NRGBA) color.NRGBA {
	a := float64(src.A) / 255
	mix := func(d, s uint8) uint8 { return surface.Round8(float64(d)*(1-a) + float64(s)*a) }
	return color.NRGBA{R: mix(dst.R, src.R), G: mix(dst.G, src.G), B: mix(dst.B, src.B), A: 255}
}
