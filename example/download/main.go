// Command download demonstrates wrapping an io.Reader with a progress
// bar sized to a known content length.
package main

import (
	"fmt"
	"io"

	"github.com/jatill/barline"
	"github.com/jatill/barline/ioutil"
)

func main() {
	const size = 8 * 1024 * 1024
	body := io.LimitReader(infiniteZeros{}, size)

	style, err := barline.NewProgressStyle(
		"{prefix:.bold} {wide_bar:.cyan/grey} {bytes}/{total_bytes} ({eta})",
		barline.WithFinishPolicy(barline.FinishAndLeave),
	)
	if err != nil {
		panic(err)
	}

	bar := barline.NewBar(size,
		barline.WithStyle(style),
		barline.WithPrefix("payload.bin"),
	)

	reader := ioutil.NewReader(body, bar)
	if _, err := io.Copy(io.Discard, reader); err != nil {
		fmt.Println("download failed:", err)
	}
}

// infiniteZeros is a stand-in for a network body in this example.
type infiniteZeros struct{}

func (infiniteZeros) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}
