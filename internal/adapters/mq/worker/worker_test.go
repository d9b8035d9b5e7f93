package worker_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/okian/medalist/internal/adapters/mq/queue"
	"github.com/okian/medalist/internal/adapters/mq/worker"
	"github.com/okian/medalist/internal/domain/eligibility"
	logging "github.com/okian/medalist/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockQueue struct {
	jobs chan queue.Job
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(chan queue.Job, 10)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan queue.Job { return mq.jobs }

func (mq *mockQueue) Close() error {
	close(mq.jobs)
	return nil
}

type mockEvaluator struct {
	mu     sync.Mutex
	errors map[string]error
	calls  []string
}

func newMockEvaluator() *mockEvaluator {
	return &mockEvaluator{errors: make(map[string]error)}
}

func (me *mockEvaluator) EvaluateAll(_ context.Context, profileID string) (eligibility.Summary, error) {
	me.mu.Lock()
	defer me.mu.Unlock()
	me.calls = append(me.calls, profileID)
	if err, ok := me.errors[profileID]; ok {
		return eligibility.Summary{}, err
	}
	return eligibility.Summary{
		Achievable: []eligibility.Result{{AwardID: "bronze", Status: eligibility.StatusAchievable}},
	}, nil
}

type collector struct {
	outcomes chan worker.Outcome
}

func newCollector() *collector {
	return &collector{outcomes: make(chan worker.Outcome, 10)}
}

func (c *collector) Deliver(_ context.Context, o worker.Outcome) { c.outcomes <- o }

func (c *collector) next() (worker.Outcome, bool) {
	select {
	case o := <-c.outcomes:
		return o, true
	case <-time.After(time.Second):
		return worker.Outcome{}, false
	}
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a running worker", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		eval := newMockEvaluator()
		sink := newCollector()
		w := worker.NewInMemoryWorker(q, eval, sink, worker.WithName("test-worker"))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When a job is queued", func() {
			q.jobs <- queue.Job{ID: "job-1", ProfileID: "p1"}
			o, ok := sink.next()

			convey.Convey("Then its outcome reaches the sink", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(o.JobID, convey.ShouldEqual, "job-1")
				convey.So(o.ProfileID, convey.ShouldEqual, "p1")
				convey.So(o.Err, convey.ShouldBeNil)
				convey.So(o.Summary.Achievable, convey.ShouldHaveLength, 1)
			})
		})

		convey.Convey("When evaluation fails", func() {
			boom := errors.New("boom")
			eval.mu.Lock()
			eval.errors["p2"] = boom
			eval.mu.Unlock()
			q.jobs <- queue.Job{ID: "job-2", ProfileID: "p2"}
			o, ok := sink.next()

			convey.Convey("Then the error is delivered with the outcome", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(errors.Is(o.Err, boom), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When shutting down", func() {
			sctx, scancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer scancel()

			convey.Convey("Then it stops gracefully", func() {
				convey.So(w.Shutdown(sctx), convey.ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool of three workers", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		eval := newMockEvaluator()
		sink := newCollector()
		pool := worker.NewPool(3, q, eval, sink)
		convey.So(pool.Size(), convey.ShouldEqual, 3)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.Convey("When several jobs are queued", func() {
			ids := []string{"a", "b", "c", "d", "e"}
			for _, id := range ids {
				q.jobs <- queue.Job{ID: "job-" + id, ProfileID: id}
			}
			seen := map[string]bool{}
			for range ids {
				o, ok := sink.next()
				convey.So(ok, convey.ShouldBeTrue)
				seen[o.ProfileID] = true
			}

			convey.Convey("Then each profile is evaluated once", func() {
				convey.So(seen, convey.ShouldHaveLength, len(ids))
			})
		})

		convey.Convey("When shutting down", func() {
			sctx, scancel := context.WithTimeout(context.Background(), time.Second)
			defer scancel()

			convey.Convey("Then the queue closes and workers stop", func() {
				convey.So(pool.Shutdown(sctx), convey.ShouldBeNil)
			})
		})

		convey.Convey("When jobs are still queued at shutdown", func() {
			for i := range 8 {
				q.jobs <- queue.Job{ID: "job-" + strconv.Itoa(i), ProfileID: "p" + strconv.Itoa(i)}
			}
			sctx, scancel := context.WithTimeout(context.Background(), time.Second)
			defer scancel()
			err := pool.Shutdown(sctx)

			convey.Convey("Then every queued job is delivered before the workers exit", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(sink.outcomes, convey.ShouldHaveLength, 8)
			})
		})
	})

	convey.Convey("Given a worker whose queue never closes", t, func() {
		w := worker.NewInMemoryWorker(newMockQueue(), newMockEvaluator(), worker.SinkFunc(func(context.Context, worker.Outcome) {}))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When waiting for it to drain", func() {
			wctx, wcancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer wcancel()
			err := w.Wait(wctx)

			convey.Convey("Then the wait times out and Shutdown still stops it", func() {
				convey.So(errors.Is(err, context.DeadlineExceeded), convey.ShouldBeTrue)
				convey.So(w.Shutdown(context.Background()), convey.ShouldBeNil)
				convey.So(w.Shutdown(context.Background()), convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given a non-positive worker count", t, func() {
		pool := worker.NewPool(0, newMockQueue(), newMockEvaluator(), worker.SinkFunc(func(context.Context, worker.Outcome) {}))

		convey.Convey("Then the pool still has workers", func() {
			convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
		})
	})
}
