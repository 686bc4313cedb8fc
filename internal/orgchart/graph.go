// Package orgchart строит органиграмму: поддерево подчинения, размеры и цвета
// узлов по уровню должности, раскладку и PNG.
package orgchart

import "sort"

// Edge - связь руководитель -> подчиненный.
type Edge struct {
	ManagerID uint64 `json:"manager_id"`
	PersonID  uint64 `json:"person_id"`
}

// Graph - отношение "прямые подчиненные" на одну дату.
type Graph struct {
	reports map[uint64][]uint64
}

func NewGraph(edges []Edge) *Graph {
	g := &Graph{reports: make(map[uint64][]uint64)}
	for _, e := range edges {
		g.reports[e.ManagerID] = append(g.reports[e.ManagerID], e.PersonID)
	}
	for id := range g.reports {
		ids := g.reports[id]
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}
	return g
}

func (g *Graph) DirectReports(managerID uint64) []uint64 {
	return g.reports[managerID]
}

// SubtreeFrom обходит подчиненных в ширину начиная с root и возвращает root
// и всех достижимых потомков. Каждый узел посещается один раз, поэтому
// случайный цикл в данных не зацикливает обход.
func SubtreeFrom(g *Graph, root uint64) []uint64 {
	visited := map[uint64]bool{root: true}
	result := []uint64{root}
	queue := []uint64{root}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range g.DirectReports(current) {
			if visited[child] {
				continue
			}
			visited[child] = true
			result = append(result, child)
			queue = append(queue, child)
		}
	}
	return result
}

// IsDescendant - лежит ли candidate в поддереве root (не считая самого root).
func IsDescendant(g *Graph, root, candidate uint64) bool {
	if root == candidate {
		return false
	}
	for _, id := range SubtreeFrom(g, root)[1:] {
		if id == candidate {
			return true
		}
	}
	return false
}

// FilterEdges оставляет только связи, оба конца которых входят в ids.
func FilterEdges(edges []Edge, ids []uint64) []Edge {
	in := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		in[id] = true
	}
	filtered := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if in[e.ManagerID] && in[e.PersonID] {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
