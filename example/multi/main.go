// Command multi demonstrates several bars sharing one terminal block via
// a Multi, plus a log line interleaved mid-run.
package main

import (
	"sync"
	"time"

	"github.com/jatill/barline"
)

func main() {
	m := barline.NewMulti(barline.WithMultiAlignment(barline.AlignBottom))

	style, err := barline.NewProgressStyle("{prefix:10} {bar:30.green/grey} {pos}/{len} {msg}")
	if err != nil {
		panic(err)
	}

	var wg sync.WaitGroup
	jobs := []struct {
		name   string
		length uint64
	}{
		{"fetch", 40},
		{"build", 120},
		{"upload", 20},
	}

	bars := make([]*barline.Bar, len(jobs))
	for i, job := range jobs {
		bar := barline.NewBar(job.length,
			barline.WithStyle(style),
			barline.WithPrefix(job.name),
		)
		m.Add(bar)
		bars[i] = bar
	}

	for i, bar := range bars {
		wg.Add(1)
		go func(i int, bar *barline.Bar) {
			defer wg.Done()
			for bar.Position() < bar.Length() {
				time.Sleep(10 * time.Millisecond)
				bar.Inc(1)
			}
			bar.FinishWithMessage("done")
		}(i, bar)
	}

	time.Sleep(150 * time.Millisecond)
	m.Println("build step reached halfway")

	wg.Wait()
}
