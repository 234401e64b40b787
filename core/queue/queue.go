package queue

import (
	"context"

	"eventra/core/logger"

	"github.com/hibiken/asynq"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (c RedisConfig) opt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	}
}

// Enqueuer is the producer side of the task queue. Services depend on this
// interface so tests can capture enqueued tasks.
type Enqueuer interface {
	Enqueue(ctx context.Context, task *asynq.Task) error
}

type Client struct {
	client *asynq.Client
}

func NewClient(config RedisConfig) *Client {
	return &Client{client: asynq.NewClient(config.opt())}
}

func (c *Client) Enqueue(ctx context.Context, task *asynq.Task) error {
	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		logger.Error("Queue:Enqueue:Error", "type", task.Type(), "error", err)
		return err
	}
	logger.Debug("Queue:Enqueued", "type", task.Type(), "id", info.ID, "queue", info.Queue)
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Server wraps the asynq worker that processes background tasks in-process.
type Server struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

func NewServer(config RedisConfig, concurrency int) *Server {
	srv := asynq.NewServer(config.opt(), asynq.Config{
		Concurrency: concurrency,
	})
	return &Server{
		srv: srv,
		mux: asynq.NewServeMux(),
	}
}

func (s *Server) HandleFunc(taskType string, handler func(context.Context, *asynq.Task) error) {
	s.mux.HandleFunc(taskType, handler)
}

// Start runs the worker in the background.
func (s *Server) Start() error {
	return s.srv.Start(s.mux)
}

func (s *Server) Shutdown() {
	s.srv.Shutdown()
}
