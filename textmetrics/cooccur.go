package textmetrics

import "sort"

const (
	// cooccurSentenceCap bounds the scan for large documents.
	cooccurSentenceCap = 200
	// cooccurMinWeight drops edges seen in fewer sentences.
	cooccurMinWeight = 2
)

// Edge is one weighted co-occurrence link between two words. Source sorts
// before Target so each pair appears once.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// Network is a word co-occurrence graph limited to the highest-degree words.
type Network struct {
	Nodes []string `json:"nodes"`
	Edges []Edge   `json:"edges"`
}

// BuildCooccurrence links words appearing in the same sentence, keeps the
// topN words by total co-occurrence mass, and returns the edges between them
// that clear the weight floor.
func BuildCooccurrence(text string, topN int) *Network {
	sentences := SplitSentences(text)
	if len(sentences) > cooccurSentenceCap {
		sentences = sentences[:cooccurSentenceCap]
	}

	weights := map[[2]string]int{}
	mass := map[string]int{}
	for _, sent := range sentences {
		words := contentWords(sent, 3)
		for i, w1 := range words {
			for _, w2 := range words[i+1:] {
				if w1 == w2 {
					continue
				}
				a, b := w1, w2
				if a > b {
					a, b = b, a
				}
				weights[[2]string{a, b}]++
				mass[w1]++
				mass[w2]++
			}
		}
	}

	top := make([]string, 0, len(mass))
	for w := range mass {
		top = append(top, w)
	}
	sort.Slice(top, func(i, j int) bool {
		if mass[top[i]] != mass[top[j]] {
			return mass[top[i]] > mass[top[j]]
		}
		return top[i] < top[j]
	})
	if topN > 0 && len(top) > topN {
		top = top[:topN]
	}
	keep := map[string]bool{}
	for _, w := range top {
		keep[w] = true
	}

	net := &Network{Nodes: top}
	for pair, w := range weights {
		if w >= cooccurMinWeight && keep[pair[0]] && keep[pair[1]] {
			net.Edges = append(net.Edges, Edge{Source: pair[0], Target: pair[1], Weight: w})
		}
	}
	sort.Slice(net.Edges, func(i, j int) bool {
		if net.Edges[i].Weight != net.Edges[j].Weight {
			return net.Edges[i].Weight > net.Edges[j].Weight
		}
		if net.Edges[i].Source != net.Edges[j].Source {
			return net.Edges[i].Source < net.Edges[j].Source
		}
		return net.Edges[i].Target < net.Edges[j].Target
	})
	return net
}
