// Standalone mock results page for trying the CLI without Chrome.
//
// Usage:
//
//	go run ./example/cmd/mockserver
//
// Then in another terminal:
//
//	go run ./cmd/resultboard serve -c example/config.yaml --watch
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
)

// rows cycle so successive scrapes see different first rows.
var rows = []string{
	"English League|Arsenal 2 - 1 Chelsea",
	"Spanish League|Sevilla 0 - 0 Getafe",
	"English League|Leeds 3 - 3 Everton",
	"Italian League|Torino 1 - 2 Lazio",
	"English League|Fulham 0 - 1 Brighton",
	"German League|Mainz 2 - 2 Bochum",
}

func main() {
	fmt.Println("Mock results page on http://localhost:9999/virtual-sports")
	fmt.Println("Each request rotates the rows by one")
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	var offset atomic.Int64

	http.HandleFunc("/virtual-sports", func(w http.ResponseWriter, r *http.Request) {
		start := int(offset.Add(1))

		var b strings.Builder
		b.WriteString("<html><body><div class=\"v-results-table\">\n")
		for i := range rows {
			league, match, _ := strings.Cut(rows[(start+i)%len(rows)], "|")
			fmt.Fprintf(&b, "<div class=\"v-result-row\"><div>%s</div><div>%s</div></div>\n", league, match)
		}
		b.WriteString("</div></body></html>\n")

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(b.String()))
	})

	if err := http.ListenAndServe(":9999", nil); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
