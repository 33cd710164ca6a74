package commands

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// RunMetrics gathers the registry and prints it in the Prometheus text
// exposition format. The application has no metrics HTTP server; this
// command is how operators read counters out of a run.
func RunMetrics(gatherer prometheus.Gatherer, writer io.Writer) error {
	if gatherer == nil {
		fmt.Fprintln(writer, "metrics are disabled")
		return nil
	}

	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	encoder := expfmt.NewEncoder(writer, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range families {
		if err := encoder.Encode(family); err != nil {
			return fmt.Errorf("failed to encode metrics: %w", err)
		}
	}
	return nil
}
