package orgchart

import (
	"fmt"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	MinNodeSize = 1500.0
	MaxNodeSize = 3000.0

	pastelSaturation = 0.6
	pastelLightness  = 0.8
)

// Member - сотрудник, попавший в органиграмму.
type Member struct {
	PersonID     uint64
	Name         string
	PositionName string
	Level        int
}

type Node struct {
	ID       uint64  `json:"id"`
	Name     string  `json:"name"`
	Position string  `json:"position"`
	Label    string  `json:"label"`
	Tooltip  string  `json:"tooltip"`
	Level    int     `json:"level"`
	Size     float64 `json:"size"`
	Color    string  `json:"color"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

type LevelStyle struct {
	Level int     `json:"level"`
	Size  float64 `json:"size"`
	Color string  `json:"color"`
}

// Chart - готовая к отрисовке органиграмма.
type Chart struct {
	Nodes     []Node       `json:"nodes"`
	Edges     []Edge       `json:"edges"`
	Levels    []LevelStyle `json:"levels"`
	Algorithm string       `json:"algorithm,omitempty"`

	slots  int
	layers int
}

func (c *Chart) nodeIndex() map[uint64]int {
	idx := make(map[uint64]int, len(c.Nodes))
	for i, n := range c.Nodes {
		idx[n.ID] = i
	}
	return idx
}

// Layout назначает каждому узлу уровень его должности, размер и цвет уровня.
// Связи вне набора members отбрасываются.
func Layout(members []Member, edges []Edge) *Chart {
	ids := make([]uint64, 0, len(members))
	levels := make([]int, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.PersonID)
		levels = append(levels, m.Level)
	}

	styles := LevelStyles(levels)
	byLevel := make(map[int]LevelStyle, len(styles))
	for _, s := range styles {
		byLevel[s.Level] = s
	}

	nodes := make([]Node, 0, len(members))
	for _, m := range members {
		style := byLevel[m.Level]
		nodes = append(nodes, Node{
			ID:       m.PersonID,
			Name:     m.Name,
			Position: m.PositionName,
			Label:    fmt.Sprintf("%s\n(%s)", m.Name, m.PositionName),
			Tooltip:  fmt.Sprintf("Сотрудник: %s\nДолжность: %s\nУровень: %d", m.Name, m.PositionName, m.Level),
			Level:    m.Level,
			Size:     style.Size,
			Color:    style.Color,
		})
	}
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	return &Chart{
		Nodes:  nodes,
		Edges:  FilterEdges(edges, ids),
		Levels: styles,
	}
}

// LevelStyles возвращает стиль для каждого различного уровня по возрастанию.
func LevelStyles(levels []int) []LevelStyle {
	distinct := uniqueSorted(levels)
	if len(distinct) == 0 {
		return nil
	}

	lmin, lmax := distinct[0], distinct[len(distinct)-1]
	styles := make([]LevelStyle, 0, len(distinct))
	for i, level := range distinct {
		styles = append(styles, LevelStyle{
			Level: level,
			Size:  NodeSize(level, lmin, lmax),
			Color: PastelColor(i, len(distinct)),
		})
	}
	return styles
}

// NodeSize линейно масштабирует уровень в [MinNodeSize, MaxNodeSize].
// Если все уровни равны, размер фиксированный.
func NodeSize(level, lmin, lmax int) float64 {
	if lmax == lmin {
		return MaxNodeSize
	}
	ratio := float64(level-lmin) / float64(lmax-lmin)
	return MinNodeSize + ratio*(MaxNodeSize-MinNodeSize)
}

// PastelColor - i-й из n равномерно разнесенных по кругу оттенков.
func PastelColor(i, n int) string {
	if n <= 0 {
		n = 1
	}
	hue := float64(i) / float64(n) * 360
	return colorful.Hsl(hue, pastelSaturation, pastelLightness).Clamped().Hex()
}

func uniqueSorted(values []int) []int {
	seen := make(map[int]bool, len(values))
	out := make([]int, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}
