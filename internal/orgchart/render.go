package orgchart

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

const (
	canvasMargin   = 90.0
	slotMinWidth   = 170.0
	layerMinHeight = 150.0
	arrowLength    = 10.0
)

// Renderer рисует органиграмму в PNG.
type Renderer struct {
	width  int
	height int
	face   font.Face
}

// NewRenderer загружает TTF-шрифт, если путь задан, иначе использует встроенный.
func NewRenderer(width, height int, fontPath string) (*Renderer, error) {
	r := &Renderer{width: width, height: height, face: basicfont.Face7x13}
	if r.width <= 0 {
		r.width = 1600
	}
	if r.height <= 0 {
		r.height = 1000
	}
	if fontPath != "" {
		face, err := loadFontFace(fontPath, 13)
		if err != nil {
			return nil, err
		}
		r.face = face
	}
	return r, nil
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать шрифт: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("не удалось разобрать TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}

// Render раскладывает граф (если еще не разложен) и возвращает PNG.
// Паника внутри отрисовки превращается в ошибку.
func (r *Renderer) Render(chart *Chart) (png []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			png, err = nil, fmt.Errorf("паника при отрисовке: %v", p)
		}
	}()

	if chart.Algorithm == "" {
		// ошибка послойной раскладки уже обработана фолбэком
		_, _ = Arrange(chart)
	}
	if len(chart.Nodes) == 0 {
		return nil, fmt.Errorf("органиграмма пуста")
	}

	width, height := r.canvasSize(chart)
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(r.face)

	toCanvas := func(n Node) (float64, float64) {
		return canvasMargin + n.X*(float64(width)-2*canvasMargin),
			canvasMargin + n.Y*(float64(height)-2*canvasMargin)
	}

	idx := chart.nodeIndex()
	dc.SetRGB(0.45, 0.45, 0.45)
	dc.SetLineWidth(1.5)
	for _, e := range chart.Edges {
		from, to := chart.Nodes[idx[e.ManagerID]], chart.Nodes[idx[e.PersonID]]
		x1, y1 := toCanvas(from)
		x2, y2 := toCanvas(to)
		drawArrow(dc, x1, y1, x2, y2, nodeRadius(to.Size))
	}

	for _, n := range chart.Nodes {
		x, y := toCanvas(n)
		radius := nodeRadius(n.Size)
		dc.DrawCircle(x, y, radius)
		dc.SetHexColor(n.Color)
		dc.FillPreserve()
		dc.SetRGB(0.3, 0.3, 0.3)
		dc.SetLineWidth(1)
		dc.Stroke()

		dc.SetRGB(0.1, 0.1, 0.1)
		dc.DrawStringAnchored(n.Name, x, y+radius+12, 0.5, 0.5)
		dc.DrawStringAnchored("("+n.Position+")", x, y+radius+26, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("ошибка кодирования PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// Placeholder - заглушка вместо органиграммы, которую не удалось нарисовать.
func (r *Renderer) Placeholder(message string) []byte {
	dc := gg.NewContext(640, 160)
	dc.SetRGB(0.96, 0.96, 0.96)
	dc.Clear()
	dc.SetFontFace(r.face)
	dc.SetRGB(0.4, 0.4, 0.4)
	dc.DrawStringAnchored(message, 320, 80, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil
	}
	return buf.Bytes()
}

func (r *Renderer) canvasSize(chart *Chart) (int, int) {
	if chart.Algorithm != AlgorithmLayered {
		return r.width, r.height
	}
	width := math.Max(float64(r.width), float64(chart.slots)*slotMinWidth+2*canvasMargin)
	height := math.Max(float64(r.height), float64(chart.layers)*layerMinHeight+2*canvasMargin)
	return int(width), int(height)
}

// nodeRadius: размер задан как площадь узла, как в networkx.
func nodeRadius(size float64) float64 {
	return math.Sqrt(size/math.Pi) * 0.9
}

func drawArrow(dc *gg.Context, x1, y1, x2, y2, targetRadius float64) {
	angle := math.Atan2(y2-y1, x2-x1)
	tipX := x2 - math.Cos(angle)*targetRadius
	tipY := y2 - math.Sin(angle)*targetRadius
	dc.DrawLine(x1, y1, tipX, tipY)
	dc.Stroke()

	dc.MoveTo(tipX, tipY)
	dc.LineTo(tipX-arrowLength*math.Cos(angle-math.Pi/7), tipY-arrowLength*math.Sin(angle-math.Pi/7))
	dc.LineTo(tipX-arrowLength*math.Cos(angle+math.Pi/7), tipY-arrowLength*math.Sin(angle+math.Pi/7))
	dc.ClosePath()
	dc.Fill()
}
