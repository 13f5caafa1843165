package preview

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool decode işlerini sınırlı sayıda worker ile çalıştırır
type Pool struct {
	Workers    int
	source     FrameSource
	processed  atomic.Int64
	OnProgress func(completed, total int) // Worker goroutine'lerinden çağrılır
}

// NewPool yeni bir worker pool oluşturur
func NewPool(source FrameSource, workers int) *Pool {
	if workers <= 0 {
		workers = 2
	}
	// Çok fazla ffmpeg süreci açmayı engelle
	maxWorkers := runtime.NumCPU() * 2
	if workers > maxWorkers {
		workers = maxWorkers
	}
	return &Pool{Workers: workers, source: source}
}

// Start işleri arka planda çalıştırır ve sonuçları tamamlanma sırasıyla
// gönderen kanalı döner. Kanal tüm işler bitince kapanır.
func (p *Pool) Start(ctx context.Context, jobs []*Job) <-chan Result {
	resultChan := make(chan Result, len(jobs))
	p.processed.Store(0)
	if len(jobs) == 0 {
		close(resultChan)
		return resultChan
	}

	workers := min(p.Workers, len(jobs))
	jobChan := make(chan *Job, len(jobs))
	for _, job := range jobs {
		jobChan <- job
	}
	close(jobChan)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobChan {
				// İptal edilmiş işler decode edilmeden atlanır
				if job.Cancelled() {
					resultChan <- Result{Job: job, Err: ErrCancelled}
				} else {
					resultChan <- job.Run(ctx, p.source)
				}
				completed := int(p.processed.Add(1))
				if p.OnProgress != nil {
					p.OnProgress(completed, len(jobs))
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	return resultChan
}

// Execute işleri çalıştırır ve hepsi bitene kadar bekler
func (p *Pool) Execute(ctx context.Context, jobs []*Job) []Result {
	results := make([]Result, 0, len(jobs))
	for r := range p.Start(ctx, jobs) {
		results = append(results, r)
	}
	return results
}
