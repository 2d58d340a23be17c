package printer

import (
	"context"
	"fmt"
	"sync"

	"github.com/tillbridge/tillbridge/internal/escpos"
	"github.com/tillbridge/tillbridge/pkg/receipt"
)

// Pipeline queues print jobs and feeds them to the printer one at a
// time. A single worker drains the queue in submission order so two
// receipts can never interleave on paper.
type Pipeline struct {
	conn      *Manager
	formatter *escpos.Formatter

	jobs   chan *job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type job struct {
	ctx  context.Context
	data []byte
	done chan error
}

// NewPipeline creates a pipeline and starts its worker
func NewPipeline(conn *Manager, formatter *escpos.Formatter) *Pipeline {
	ctx, cancel := context.WithCancel(context.Background())

	p := &Pipeline{
		conn:      conn,
		formatter: formatter,
		jobs:      make(chan *job, 32),
		ctx:       ctx,
		cancel:    cancel,
	}

	p.wg.Add(1)
	go p.worker(ctx)

	return p
}

// PrintReceipt formats the document and queues it for printing. It
// blocks until the job has been written to the printer or fails.
func (p *Pipeline) PrintReceipt(ctx context.Context, doc *receipt.Document) error {
	if !p.conn.IsConnected() {
		return ErrNotConnected
	}

	data := p.formatter.FormatReceipt(doc)
	if err := p.submit(ctx, data); err != nil {
		return fmt.Errorf("failed to print receipt %s: %w", doc.ReceiptNumber, err)
	}
	return nil
}

// PrintTestPage queues the diagnostic page
func (p *Pipeline) PrintTestPage(ctx context.Context) error {
	if !p.conn.IsConnected() {
		return ErrNotConnected
	}

	return p.submit(ctx, p.formatter.FormatTestPage())
}

// OpenCashDrawer sends the drawer kick pulse. The pulse goes through
// the queue like any other job so it cannot split a receipt in half.
func (p *Pipeline) OpenCashDrawer(ctx context.Context) error {
	if !p.conn.IsConnected() {
		return ErrNotConnected
	}

	return p.submit(ctx, escpos.CashDrawerPulse)
}

// Stop shuts down the worker. Queued jobs that have not started are
// abandoned; their submitters receive the shutdown error.
func (p *Pipeline) Stop() {
	p.cancel()
	p.wg.Wait()
}

func (p *Pipeline) submit(ctx context.Context, data []byte) error {
	j := &job{
		ctx:  ctx,
		data: data,
		done: make(chan error, 1),
	}

	select {
	case p.jobs <- j:
	case <-p.ctx.Done():
		return fmt.Errorf("print queue stopped")
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-j.done:
		return err
	case <-p.ctx.Done():
		return fmt.Errorf("print queue stopped")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pipeline) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			p.drain()
			return
		case j := <-p.jobs:
			// Skip jobs whose submitter already gave up
			if j.ctx.Err() != nil {
				j.done <- j.ctx.Err()
				continue
			}
			j.done <- p.conn.Write(j.data)
		}
	}
}

// drain fails any jobs still queued at shutdown
func (p *Pipeline) drain() {
	for {
		select {
		case j := <-p.jobs:
			j.done <- fmt.Errorf("print queue stopped")
		default:
			return
		}
	}
}
