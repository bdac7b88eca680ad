package tables

import (
	"math"
	"sort"

	"github.com/tablewright/tablewright/model"
)

// Half-widths of the band an X sample may wander in and still extend a range.
// MID alignments are held to the tighter constant.
const (
	halfRangeSize    = 2.0
	midHalfRangeSize = 1.5
)

// LEFT edges within this many page units of the text bounding box are the
// page margin, not a table.
const leftMarginSlack = 8

// Bullet-point reduction: edges closer than this in X with this much Y
// overlap are projections of the same glyph column.
const (
	bulletXDistance  = 5.0
	bulletYOverlap   = 0.9
)

// textEdges holds the discovered alignments of one analysis pass, by kind.
type textEdges struct {
	left  []*model.TextEdge
	mid   []*model.TextEdge
	right []*model.TextEdge
}

// edgeRange is a running cluster of X samples of one kind, with a rolling
// average and the chunks that contributed.
type edgeRange struct {
	kind    model.EdgeKind
	sum     float64
	avg     float64
	numbers []float64
	chunks  []*model.TextChunk
}

func newEdgeRange(first float64, chunk *model.TextChunk, kind model.EdgeKind) *edgeRange {
	return &edgeRange{
		kind:    kind,
		sum:     first,
		avg:     first,
		numbers: []float64{first},
		chunks:  []*model.TextChunk{chunk},
	}
}

func (r *edgeRange) halfRangeSizeConst() float64 {
	if r.kind == model.EdgeMid {
		return midHalfRangeSize
	}
	return halfRangeSize
}

// halfRange returns the absorption tolerance for a new sample. For LEFT and
// RIGHT alignments the tolerance shrinks with the vertical distance to the
// last contributing chunk: far-apart chunks demand tighter X agreement.
func (r *edgeRange) halfRange(chunk *model.TextChunk) float64 {
	maxRange := r.halfRangeSizeConst()
	if len(r.chunks) > 0 && r.kind != model.EdgeMid {
		distance := math.Abs(chunk.Top - r.chunks[len(r.chunks)-1].Bottom())
		k := 60.0 / (distance * math.Log(math.Max(distance, 10)))
		maxRange = k * maxRange
	}
	return maxRange
}

// add absorbs a sample if it falls within the tolerance band.
func (r *edgeRange) add(number float64, chunk *model.TextChunk) bool {
	if math.Abs(number-r.avg) < r.halfRange(chunk) {
		r.sum += number
		r.numbers = append(r.numbers, number)
		r.chunks = append(r.chunks, chunk)
		r.avg = r.sum / float64(len(r.numbers))
		return true
	}
	return false
}

// addToBeginning absorbs a backtracked sample at the front of the range.
func (r *edgeRange) addToBeginning(number float64, chunk *model.TextChunk) bool {
	if !r.add(number, chunk) {
		return false
	}
	copy(r.numbers[1:], r.numbers[:len(r.numbers)-1])
	r.numbers[0] = number
	copy(r.chunks[1:], r.chunks[:len(r.chunks)-1])
	r.chunks[0] = chunk
	return true
}

// blownOut reports whether the current chunk overlaps the range's average X
// while the relevant edge has drifted away: the alignment is over.
func (r *edgeRange) blownOut(chunk *model.TextChunk, left, mid, right float64) bool {
	var edge, halfRange float64
	if r.kind == model.EdgeMid {
		edge = mid
		halfRange = r.halfRangeSizeConst()
	} else {
		if r.kind == model.EdgeLeft {
			edge = left
		} else {
			edge = right
		}
		halfRange = r.halfRange(chunk) / 2
	}

	return r.avg > left && r.avg < right && math.Abs(edge-r.avg) >= halfRange
}

// toEdge promotes the range to a TextEdge spanning from the first chunk's top
// to the last chunk's bottom.
func (r *edgeRange) toEdge(lineCount int) *model.TextEdge {
	first := r.chunks[0]
	last := r.chunks[len(r.chunks)-1]
	rowCount := len(r.chunks)
	if rowCount > lineCount {
		rowCount = lineCount
	}
	return &model.TextEdge{
		X:         r.avg,
		Top:       first.Top,
		Bottom:    last.Bottom(),
		HalfWidth: r.halfRangeSizeConst(),
		Kind:      r.kind,
		RowCount:  rowCount,
	}
}

// computeTextEdges discovers the X coordinates at which chunks repeatedly
// align on their left, middle, or right, scanning lines top-to-bottom.
func computeTextEdges(lines []*model.Line, textBounds model.Rectangle, requiredLines int) textEdges {
	retired := [3][]*edgeRange{}
	active := [3][]*edgeRange{}

	for _, textRow := range lines {
		for _, chunk := range textRow.Chunks {
			if chunk.IsWhitespace() {
				continue
			}
			left := chunk.Left
			right := chunk.Right()
			mid := left + (right-left)/2

			for kind := model.EdgeLeft; kind <= model.EdgeRight; kind++ {
				var number float64
				switch kind {
				case model.EdgeLeft:
					number = left
				case model.EdgeMid:
					number = mid
				default:
					number = right
				}

				added := false
				var closestNumber float64
				var closestRange *edgeRange
				for _, rng := range active[kind] {
					added = rng.add(number, chunk)

					lastNumber := rng.numbers[len(rng.numbers)-1]
					if closestRange == nil || (number > lastNumber &&
						math.Abs(number-lastNumber) < math.Abs(number-closestNumber)) {
						closestNumber = lastNumber
						closestRange = rng
					}

					if added {
						break
					}
				}
				if !added {
					newRange := newEdgeRange(number, chunk, kind)

					// backtrack: seed the new range with recent entries of the
					// closest existing range that are still within tolerance
					if closestRange != nil {
						for j := len(closestRange.chunks) - 1; j >= 0; j-- {
							candidate := closestRange.numbers[j]
							if math.Abs(number-candidate) > closestRange.halfRangeSizeConst() {
								break
							}
							if !newRange.addToBeginning(candidate, closestRange.chunks[j]) {
								break
							}
						}
					}
					active[kind] = append(active[kind], newRange)
				}

				// retire blown-out ranges, keeping the ones that accumulated
				// enough samples
				surviving := active[kind][:0]
				for _, rng := range active[kind] {
					if rng.blownOut(chunk, left, mid, right) {
						if len(rng.numbers) >= requiredLines {
							retired[kind] = append(retired[kind], rng)
						}
					} else {
						surviving = append(surviving, rng)
					}
				}
				active[kind] = surviving
			}
		}
	}

	// promote surviving active ranges
	for kind := model.EdgeLeft; kind <= model.EdgeRight; kind++ {
		for _, rng := range active[kind] {
			if len(rng.numbers) >= requiredLines {
				retired[kind] = append(retired[kind], rng)
			}
		}
	}

	var edges textEdges
	for kind := model.EdgeLeft; kind <= model.EdgeRight; kind++ {
		for _, rng := range retired[kind] {
			edge := rng.toEdge(len(lines))
			switch kind {
			case model.EdgeLeft:
				edges.left = append(edges.left, edge)
			case model.EdgeMid:
				edges.mid = append(edges.mid, edge)
			default:
				edges.right = append(edges.right, edge)
			}
		}
	}

	// left edges hugging the text bounding box are the page margin
	kept := edges.left[:0]
	for _, edge := range edges.left {
		if edge.X-edge.HalfWidth >= textBounds.Left+leftMarginSlack {
			kept = append(kept, edge)
		}
	}
	edges.left = kept

	reduceBulletPointEdges(&edges)

	return edges
}

// reduceBulletPointEdges collapses the left/mid/right edge triples that a
// column of identical bullet glyphs projects. Edges are visited shortest
// first so the longer duplicates are the ones dropped.
func reduceBulletPointEdges(edges *textEdges) {
	all := make([]*model.TextEdge, 0, len(edges.left)+len(edges.mid)+len(edges.right))
	all = append(all, edges.left...)
	all = append(all, edges.mid...)
	all = append(all, edges.right...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Height() < all[j].Height()
	})

	remove := make(map[*model.TextEdge]bool)
	var prev *model.TextEdge
	for _, edge := range all {
		if prev != nil && math.Abs(edge.X-prev.X) < bulletXDistance &&
			edge.YOverlapPercent(prev) > bulletYOverlap {
			remove[edge] = true
		}
		prev = edge
	}

	filter := func(in []*model.TextEdge) []*model.TextEdge {
		out := in[:0]
		for _, e := range in {
			if !remove[e] {
				out = append(out, e)
			}
		}
		return out
	}
	edges.left = filter(edges.left)
	edges.mid = filter(edges.mid)
	edges.right = filter(edges.right)
}
