package orgchart

import (
	"errors"
	"math"
	"sort"
)

const (
	AlgorithmLayered = "layered"
	AlgorithmForce   = "force"

	forceIterations = 200
)

var errNoRanking = errors.New("граф не является лесом: нельзя назначить ранги")

// Arrange заполняет X/Y узлов в диапазоне [0,1]. Сначала пробует
// послойную раскладку сверху вниз, при неудаче - силовую.
func Arrange(chart *Chart) (string, error) {
	if len(chart.Nodes) == 0 {
		chart.Algorithm = AlgorithmLayered
		return chart.Algorithm, nil
	}
	layerErr := arrangeLayered(chart)
	if layerErr == nil {
		chart.Algorithm = AlgorithmLayered
		return chart.Algorithm, nil
	}
	arrangeForce(chart)
	chart.Algorithm = AlgorithmForce
	return chart.Algorithm, layerErr
}

// arrangeLayered: ранг = глубина от корня, листья получают соседние слоты,
// родитель встает над серединой своих детей.
func arrangeLayered(chart *Chart) error {
	idx := chart.nodeIndex()
	children := make(map[uint64][]uint64)
	hasParent := make(map[uint64]bool)
	for _, e := range chart.Edges {
		if hasParent[e.PersonID] {
			return errNoRanking
		}
		hasParent[e.PersonID] = true
		children[e.ManagerID] = append(children[e.ManagerID], e.PersonID)
	}

	byName := func(ids []uint64) {
		sort.SliceStable(ids, func(i, j int) bool {
			a, b := chart.Nodes[idx[ids[i]]], chart.Nodes[idx[ids[j]]]
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return a.ID < b.ID
		})
	}

	var roots []uint64
	for _, n := range chart.Nodes {
		if !hasParent[n.ID] {
			roots = append(roots, n.ID)
		}
	}
	if len(roots) == 0 {
		return errNoRanking
	}
	byName(roots)
	for id := range children {
		byName(children[id])
	}

	xs := make(map[uint64]float64, len(chart.Nodes))
	depth := make(map[uint64]int, len(chart.Nodes))
	visited := make(map[uint64]bool, len(chart.Nodes))
	nextSlot := 0.0
	maxDepth := 0

	var place func(id uint64, d int) error
	place = func(id uint64, d int) error {
		if visited[id] {
			return errNoRanking
		}
		visited[id] = true
		depth[id] = d
		if d > maxDepth {
			maxDepth = d
		}
		kids := children[id]
		if len(kids) == 0 {
			xs[id] = nextSlot
			nextSlot++
			return nil
		}
		for _, kid := range kids {
			if err := place(kid, d+1); err != nil {
				return err
			}
		}
		xs[id] = (xs[kids[0]] + xs[kids[len(kids)-1]]) / 2
		return nil
	}
	for _, root := range roots {
		if err := place(root, 0); err != nil {
			return err
		}
	}
	// узлы в цикле без корня недостижимы
	if len(visited) != len(chart.Nodes) {
		return errNoRanking
	}

	chart.slots = int(nextSlot)
	chart.layers = maxDepth + 1

	width := math.Max(nextSlot-1, 1)
	height := math.Max(float64(maxDepth), 1)
	for i := range chart.Nodes {
		id := chart.Nodes[i].ID
		chart.Nodes[i].X = xs[id] / width
		chart.Nodes[i].Y = float64(depth[id]) / height
		if nextSlot == 1 {
			chart.Nodes[i].X = 0.5
		}
		if maxDepth == 0 {
			chart.Nodes[i].Y = 0.5
		}
	}
	return nil
}

// arrangeForce - Фрюхтерман-Рейнгольд с детерминированным стартом по окружности.
func arrangeForce(chart *Chart) {
	n := len(chart.Nodes)
	if n == 1 {
		chart.Nodes[0].X, chart.Nodes[0].Y = 0.5, 0.5
		return
	}

	idx := chart.nodeIndex()
	px := make([]float64, n)
	py := make([]float64, n)
	for i := range chart.Nodes {
		angle := 2 * math.Pi * float64(i) / float64(n)
		px[i] = math.Cos(angle)
		py[i] = math.Sin(angle)
	}

	k := math.Sqrt(4.0 / float64(n))
	temperature := 0.2
	cooling := temperature / float64(forceIterations+1)
	dx := make([]float64, n)
	dy := make([]float64, n)

	for iter := 0; iter < forceIterations; iter++ {
		for i := range dx {
			dx[i], dy[i] = 0, 0
		}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				ddx, ddy := px[i]-px[j], py[i]-py[j]
				dist := math.Max(math.Hypot(ddx, ddy), 0.01)
				force := k * k / dist
				fx, fy := ddx/dist*force, ddy/dist*force
				dx[i] += fx
				dy[i] += fy
				dx[j] -= fx
				dy[j] -= fy
			}
		}
		for _, e := range chart.Edges {
			a, b := idx[e.ManagerID], idx[e.PersonID]
			ddx, ddy := px[a]-px[b], py[a]-py[b]
			dist := math.Max(math.Hypot(ddx, ddy), 0.01)
			force := dist * dist / k
			fx, fy := ddx/dist*force, ddy/dist*force
			dx[a] -= fx
			dy[a] -= fy
			dx[b] += fx
			dy[b] += fy
		}
		for i := 0; i < n; i++ {
			disp := math.Hypot(dx[i], dy[i])
			if disp > 0 {
				step := math.Min(disp, temperature)
				px[i] += dx[i] / disp * step
				py[i] += dy[i] / disp * step
			}
		}
		temperature -= cooling
	}

	normalize(px)
	normalize(py)
	for i := range chart.Nodes {
		chart.Nodes[i].X = px[i]
		chart.Nodes[i].Y = py[i]
	}
}

func normalize(values []float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo
	for i, v := range values {
		if span < 1e-9 {
			values[i] = 0.5
			continue
		}
		values[i] = (v - lo) / span
	}
}
