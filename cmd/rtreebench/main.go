// Command rtreebench exercises an R-tree end to end: bulk load, query,
// freeze, and a round trip through the binary codec. It's a
// smoke test and a rough throughput indicator, not a benchmark suite.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/maja42/rstartree"
)

func main() {
	size := flag.Int("size", 100000, "number of entries to load")
	queries := flag.Int("queries", 1000, "number of nearest-neighbor queries to run")
	flag.Parse()

	rects := make([]rstartree.Rect, *size)
	ids := make([]int, *size)
	for i := range rects {
		rects[i] = randomRect()
		ids[i] = i
	}

	start := time.Now()
	tree := rstartree.NewFromRects(rstartree.Config{}, rects, ids)
	log.Printf("bulk-loaded %d entries in %s", tree.Size(), time.Since(start))

	start = time.Now()
	var found int
	cb := func(id int) bool { found++; return true }
	for i := 0; i < *queries; i++ {
		tree.NearestN(randomPoint(), 10, float32(3.0), cb)
	}
	log.Printf("%d nearestN(10) queries returned %d results total in %s", *queries, found, time.Since(start))

	frozen := tree.ToIndex()
	log.Printf("froze %d entries; mutable tree now holds %d", frozen.Size(), tree.Size())

	var buf bytes.Buffer
	dup := rstartree.New(rstartree.Config{})
	for i := range rects {
		dup.Add(rects[i], ids[i])
	}
	if err := dup.Encode(&buf); err != nil {
		log.Fatalf("encode: %v", err)
	}
	decoded, err := rstartree.Decode(&buf, rstartree.Config{})
	if err != nil {
		log.Fatalf("decode: %v", err)
	}
	fmt.Printf("round-tripped %d entries through the codec (%d bytes)\n", decoded.Size(), buf.Len())
}

func randomRect() rstartree.Rect {
	const dim = 1000
	x0, y0 := rand.Float32()*dim, rand.Float32()*dim
	x1, y1 := rand.Float32()*dim, rand.Float32()*dim
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return rstartree.Rect{MinX: x0, MinY: y0, MaxX: x1, MaxY: y1}
}

func randomPoint() rstartree.Point {
	const dim = 1000
	return rstartree.Point{X: rand.Float32() * dim, Y: rand.Float32() * dim}
}
