package metrics

import (
	"context"

	"github.com/silver-ring/printke-web/internal/core/domain/model/printjob"
	"github.com/silver-ring/printke-web/internal/core/ports"
)

// InstrumentedPrintBackend counts submissions made through the wrapped backend.
type InstrumentedPrintBackend struct {
	ports.PrintBackend
	metrics *Collector
}

func InstrumentPrintBackend(backend ports.PrintBackend, c *Collector) *InstrumentedPrintBackend {
	return &InstrumentedPrintBackend{PrintBackend: backend, metrics: c}
}

func (b *InstrumentedPrintBackend) Submit(ctx context.Context, documentPath string, copies int) (printjob.Submission, error) {
	sub, err := b.PrintBackend.Submit(ctx, documentPath, copies)
	b.metrics.PrintSubmission(b.Name(), err)
	return sub, err
}
