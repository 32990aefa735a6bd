// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package sites

import (
	"context"
	"sync"
)

// writeQueue runs submitted jobs one at a time per key, in the order they
// were submitted. Jobs for different keys run concurrently. A key's worker
// goroutine exits once its queue drains.
type writeQueue struct {
	mu    sync.Mutex
	lanes map[string]*lane
}

type lane struct {
	jobs    []*job
	running bool
}

type job struct {
	ctx     context.Context
	fn      func(context.Context) error
	done    chan error
	started bool // guarded by writeQueue.mu
}

func newWriteQueue() *writeQueue {
	return &writeQueue{lanes: make(map[string]*lane)}
}

// do enqueues fn for key and waits for its result. If ctx ends while the job
// is still queued the job is skipped and do returns ctx.Err(). Once started
// the job runs to completion and do reports its result.
func (q *writeQueue) do(ctx context.Context, key string, fn func(context.Context) error) error {
	j := &job{ctx: ctx, fn: fn, done: make(chan error, 1)}

	q.mu.Lock()
	l := q.lanes[key]
	if l == nil {
		l = &lane{}
		q.lanes[key] = l
	}
	l.jobs = append(l.jobs, j)
	if !l.running {
		l.running = true
		go q.drain(key, l)
	}
	q.mu.Unlock()

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
	}

	q.mu.Lock()
	started := j.started
	q.mu.Unlock()
	if started {
		return <-j.done
	}
	return ctx.Err()
}

func (q *writeQueue) drain(key string, l *lane) {
	for {
		q.mu.Lock()
		if len(l.jobs) == 0 {
			l.running = false
			delete(q.lanes, key)
			q.mu.Unlock()
			return
		}
		j := l.jobs[0]
		l.jobs[0] = nil
		l.jobs = l.jobs[1:]
		err := j.ctx.Err()
		j.started = err == nil
		q.mu.Unlock()

		if err != nil {
			j.done <- err
			continue
		}
		j.done <- j.fn(context.WithoutCancel(j.ctx))
	}
}
