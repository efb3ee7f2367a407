package main

import (
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/loov/hrtime"
	"github.com/philpearl/internlist"
)

const (
	count   = 1e7
	uniques = 1e4
)

func main() {
	symbols := make([]string, count)
	for i := range symbols {
		symbols[i] = "value-" + strconv.Itoa(i%uniques)
	}

	fmt.Println("plain slice:", humanize.Bytes(measure(func() {
		vs := make([]string, 0, count)
		for _, s := range symbols {
			vs = append(vs, s)
		}
		runtime.KeepAlive(vs)
	})))

	var l *internlist.List[string]
	fmt.Println("interning list:", humanize.Bytes(measure(func() {
		l = internlist.New[string](internlist.WithCapacity[string](count))
		for _, s := range symbols {
			l.Add(s)
		}
	})))
	fmt.Printf("count=%d unique=%d index=%s\n", l.Len(), l.UniqueCount(), l.IndexType())

	// Latency histogram for Add. The interesting tails are the widening
	// copies, which are O(count) when they hit.
	b := hrtime.NewBenchmarkTSC(count)
	l2 := internlist.New[string]()
	for i := 0; b.Next(); i++ {
		if i >= count {
			i = 0
		}
		t := hrtime.TSC()
		l2.Add(symbols[i])
		dur := hrtime.TSC() - t
		if dur.ApproxDuration() > time.Millisecond*100 {
			fmt.Printf("big number at %d\n", i)
		}
	}

	opts := hrtime.HistogramOptions{
		BinCount:        20,
		NiceRange:       true,
		ClampMaximum:    0,
		ClampPercentile: 0.999999,
	}
	fmt.Println(hrtime.NewDurationHistogram(b.Laps(), &opts))
}

// measure reports how much heap f's allocations hold on to.
func measure(f func()) uint64 {
	runtime.GC()
	var before runtime.MemStats
	runtime.ReadMemStats(&before)
	f()
	runtime.GC()
	var after runtime.MemStats
	runtime.ReadMemStats(&after)
	if after.HeapAlloc < before.HeapAlloc {
		return 0
	}
	return after.HeapAlloc - before.HeapAlloc
}
