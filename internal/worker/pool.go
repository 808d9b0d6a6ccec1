package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"barberia/internal/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEmail = "jobs:email"

	JobEmail = "email"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes one job payload. A returned error schedules a retry.
type Handler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// ErrPermanente marks a failure that retrying cannot fix; the job goes
// straight to the DLQ.
var ErrPermanente = errors.New("fallo permanente")

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb redis.Cmdable
}

func NewDispatcher(rdb redis.Cmdable) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, JobEmail, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return push(ctx, d.rdb, queue, Job{ID: uuid.NewString(), Type: jobType, Payload: data})
}

func push(ctx context.Context, rdb redis.Cmdable, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb         redis.Cmdable
	handlers    map[string]Handler
	queues      map[string]string
	maxAttempts int
}

// NewPool creates a pool; maxAttempts bounds deliveries per job before it is
// moved to the DLQ.
func NewPool(rdb redis.Cmdable, maxAttempts int) *Pool {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Pool{
		rdb:         rdb,
		handlers:    make(map[string]Handler),
		queues:      make(map[string]string),
		maxAttempts: maxAttempts,
	}
}

// Handle routes jobs of jobType, read from queue, to h.
func (p *Pool) Handle(queue, jobType string, h Handler) {
	p.handlers[jobType] = h
	p.queues[queue] = queue
}

// Start launches numWorkers goroutines consuming every registered queue.
// Each goroutine blocks on BRPOP, zero CPU when idle.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	queues := make([]string, 0, len(p.queues))
	for q := range p.queues {
		queues = append(queues, q)
	}
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i, queues)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) run(ctx context.Context, id int, queues []string) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop, waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			p.ProcessJob(ctx, result[0], result[1])
		}
	}
}

// ProcessJob decodes raw, runs its handler and requeues or dead-letters it on
// failure.
func (p *Pool) ProcessJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		EnviarADLQ(ctx, p.rdb, queue, "desconocido", json.RawMessage(fmt.Sprintf("%q", raw)), err.Error(), 0)
		return
	}
	h, ok := p.handlers[job.Type]
	if !ok {
		EnviarADLQ(ctx, p.rdb, queue, job.Type, job.Payload, "sin handler registrado", job.Attempts)
		return
	}

	job.Attempts++
	err := h.Process(ctx, job.Payload)
	switch Decidir(err, job.Attempts, p.maxAttempts) {
	case ResultadoOK:
		metrics.ObserveJob(job.Type, "ok")
	case ResultadoReintento:
		metrics.ObserveJob(job.Type, "retry")
		log.Warn().Err(err).Str("job_id", job.ID).Int("attempts", job.Attempts).Msg("job failed, requeued")
		if perr := push(ctx, p.rdb, queue, job); perr != nil {
			log.Error().Err(perr).Str("job_id", job.ID).Msg("requeue failed")
		}
	case ResultadoDLQ:
		metrics.ObserveJob(job.Type, "dlq")
		EnviarADLQ(ctx, p.rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
	}
}

type Resultado int

const (
	ResultadoOK Resultado = iota
	ResultadoReintento
	ResultadoDLQ
)

// Decidir picks what happens to a job after its attempts-th delivery ended
// with err.
func Decidir(err error, attempts, maxAttempts int) Resultado {
	switch {
	case err == nil:
		return ResultadoOK
	case errors.Is(err, ErrPermanente), attempts >= maxAttempts:
		return ResultadoDLQ
	default:
		return ResultadoReintento
	}
}
