package prometheus

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"strings"

	shopAuth "github.com/MrEthical07/shopAuth"
	"github.com/MrEthical07/shopAuth/metrics/export/internaldefs"
)

const contentType = "text/plain; version=0.0.4; charset=utf-8"

// Source is implemented by *shopAuth.Engine.
type Source interface {
	MetricsSnapshot() shopAuth.MetricsSnapshot
	AuditDropped() uint64
}

// Exporter renders shopAuth metrics in Prometheus text exposition format.
type Exporter struct {
	source Source
}

// NewExporter returns an Exporter reading from source.
func NewExporter(source Source) *Exporter {
	return &Exporter{source: source}
}

// Handler serves the current metrics.
func (p *Exporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = p.WriteTo(w)
	})
}

// Render returns the exposition text, or "" when metrics are disabled and
// no audit events were dropped.
func (p *Exporter) Render() string {
	var b strings.Builder
	_, _ = p.WriteTo(&b)
	return b.String()
}

// WriteTo streams one scrape to w.
func (p *Exporter) WriteTo(w io.Writer) (int64, error) {
	if p == nil || p.source == nil {
		return 0, nil
	}

	snap := p.source.MetricsSnapshot()
	dropped := p.source.AuditDropped()
	if len(snap.Counters) == 0 && len(snap.Histograms) == 0 && dropped == 0 {
		return 0, nil
	}

	cw := &countingWriter{w: w}
	e := expo{bufio.NewWriter(cw)}

	for _, def := range internaldefs.CounterDefs {
		e.counter(def.Name, def.Help, snap.Counters[def.ID])
	}
	for _, def := range internaldefs.HistogramDefs {
		raw, ok := snap.Histograms[def.ID]
		if !ok {
			continue
		}
		e.histogram(def.Name, def.Help, internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw)))
	}
	e.counter("shopauth_audit_dropped_total", "Audit events dropped by the dispatcher.", dropped)

	err := e.Flush()
	return cw.n, err
}

// expo writes exposition lines. Write errors surface on Flush.
type expo struct{ *bufio.Writer }

func (e expo) header(name, help, kind string) {
	help = strings.NewReplacer(`\`, `\\`, "\n", `\n`).Replace(help)
	fmt.Fprintf(e, "# HELP %s %s\n# TYPE %s %s\n", name, help, name, kind)
}

func (e expo) counter(name, help string, v uint64) {
	e.header(name, help, "counter")
	fmt.Fprintf(e, "%s %d\n", name, v)
}

func (e expo) histogram(name, help string, cumulative [8]uint64) {
	e.header(name, help, "histogram")
	for i, le := range internaldefs.HistogramBounds {
		fmt.Fprintf(e, "%s_bucket{le=%q} %d\n", name, le, cumulative[i])
	}
	// Only bucket counts are tracked, so the sum is always zero.
	fmt.Fprintf(e, "%s_count %d\n%s_sum 0\n", name, cumulative[len(cumulative)-1], name)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
