package main

import (
	"fmt"
	"html/template"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

var (
	leagues = []string{"English League", "Spanish League", "Italian League", "German League"}
	teams   = map[string][]string{
		"English League": {"Arsenal", "Chelsea", "Leeds", "Everton", "Fulham", "Brighton"},
		"Spanish League": {"Sevilla", "Getafe", "Girona", "Osasuna"},
		"Italian League": {"Torino", "Lazio", "Empoli", "Genoa"},
		"German League":  {"Mainz", "Bochum", "Hertha", "Koln"},
	}
)

// mockResult is one finished match on the mock page.
type mockResult struct {
	League string
	Home   string
	Away   string
	Score  string
}

var mockPage = template.Must(template.New("results").Parse(`<!DOCTYPE html>
<html><body>
<h2>Virtual results</h2>
<div class="v-results-table">
{{- range .}}
  <div class="v-result-row">
    <div class="league">{{.League}}</div>
    <div class="teams">{{.Home}} {{.Score}} {{.Away}}</div>
  </div>
{{- end}}
</div>
</body></html>`))

// StartMockResultsServer serves a results page shaped like the live one,
// adding a new random result every few seconds. Newest results come first.
// Call this in a goroutine before starting the board.
func StartMockResultsServer(addr string) {
	var (
		mu      sync.Mutex
		results []mockResult
		next    = time.Now()
	)

	http.HandleFunc("/virtual-sports", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		for time.Now().After(next) {
			results = append([]mockResult{randomResult()}, results...)
			if len(results) > 30 {
				results = results[:30]
			}
			next = next.Add(time.Duration(2+rand.Intn(4)) * time.Second)
		}
		snapshot := append([]mockResult(nil), results...)
		mu.Unlock()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := mockPage.Execute(w, snapshot); err != nil {
			slog.Error("failed to render mock page", "error", err)
		}
	})

	if err := http.ListenAndServe(addr, nil); err != nil {
		slog.Error("mock server error", "error", err)
	}
}

func randomResult() mockResult {
	league := leagues[rand.Intn(len(leagues))]
	names := teams[league]
	home := rand.Intn(len(names))
	away := (home + 1 + rand.Intn(len(names)-1)) % len(names)
	return mockResult{
		League: league,
		Home:   names[home],
		Away:   names[away],
		Score:  fmt.Sprintf("%d - %d", rand.Intn(5), rand.Intn(5)),
	}
}
