package app

import (
	"github.com/prometheus/client_golang/prometheus"

	"liuproxy_connector/internal/shared/logger"
)

const attemptsMetric = "connector_connect_attempts_total"

// AttemptsByResult sums the connect attempt counters in g by their result label.
func AttemptsByResult(g prometheus.Gatherer) (map[string]float64, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for _, mf := range families {
		if mf.GetName() != attemptsMetric {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "result" {
					out[lp.GetValue()] += m.GetCounter().GetValue()
				}
			}
		}
	}
	return out, nil
}

// LogAttemptSummary logs one line with the attempt counts of the run.
func LogAttemptSummary(g prometheus.Gatherer) {
	byResult, err := AttemptsByResult(g)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to gather connect metrics")
		return
	}
	total := 0
	ev := logger.Info()
	for result, n := range byResult {
		ev = ev.Int(result, int(n))
		total += int(n)
	}
	ev.Int("total", total).Msg("Connect attempts")
}
