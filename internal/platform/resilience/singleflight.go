package resilience

import "sync"

// Group collapses concurrent calls that share a key into one execution.
type Group[T any] struct {
	mu    sync.Mutex
	calls map[string]*flight[T]
}

type flight[T any] struct {
	wg   sync.WaitGroup
	val  T
	err  error
	dups int
}

// Do runs fn once per in-flight key. shared reports whether the result was
// handed to more than one caller.
func (g *Group[T]) Do(key string, fn func() (T, error)) (val T, shared bool, err error) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*flight[T])
	}

	if f, ok := g.calls[key]; ok {
		f.dups++
		g.mu.Unlock()
		f.wg.Wait()
		return f.val, true, f.err
	}

	f := &flight[T]{}
	f.wg.Add(1)
	g.calls[key] = f
	g.mu.Unlock()

	f.val, f.err = fn()
	f.wg.Done()

	g.mu.Lock()
	delete(g.calls, key)
	shared = f.dups > 0
	g.mu.Unlock()

	return f.val, shared, f.err
}
