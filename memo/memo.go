// Package memo caches results of pure functions by their arguments.
//
// A Func is safe for concurrent use only if its Store is. Concurrent
// misses on the same key may call the wrapped function more than once.
package memo

// Func wraps fn and remembers its result for every argument it was
// called with.
type Func[K comparable, R any] struct {
	fn    func(K) R
	store Store[K, R]
}

// New memoizes fn in an unbounded map.
func New[K comparable, R any](fn func(K) R) *Func[K, R] {
	return NewWithStore(fn, Store[K, R](NewMapStore[K, R]()))
}

func NewWithStore[K comparable, R any](fn func(K) R, store Store[K, R]) *Func[K, R] {
	return &Func[K, R]{fn: fn, store: store}
}

// Call returns the stored result for arg, or calls the wrapped function
// and stores its result.
func (f *Func[K, R]) Call(arg K) R {
	if res, ok := f.store.Get(arg); ok {
		return res
	}
	res := f.fn(arg)
	f.store.Add(arg, res)
	return res
}

// Len returns the number of stored results.
func (f *Func[K, R]) Len() int { return f.store.Len() }

// Purge forgets all stored results.
func (f *Func[K, R]) Purge() { f.store.Purge() }

// Args2 is the key of a two-argument function.
type Args2[T1, T2 comparable] struct {
	A T1
	B T2
}

// Args3 is the key of a three-argument function.
type Args3[T1, T2, T3 comparable] struct {
	A T1
	B T2
	C T3
}

type Func2[A, B comparable, R any] struct {
	*Func[Args2[A, B], R]
}

func New2[A, B comparable, R any](fn func(A, B) R) *Func2[A, B, R] {
	return New2WithStore(fn, Store[Args2[A, B], R](NewMapStore[Args2[A, B], R]()))
}

func New2WithStore[A, B comparable, R any](fn func(A, B) R, store Store[Args2[A, B], R]) *Func2[A, B, R] {
	return &Func2[A, B, R]{
		Func: NewWithStore(func(args Args2[A, B]) R { return fn(args.A, args.B) }, store),
	}
}

func (f *Func2[A, B, R]) Call(a A, b B) R {
	return f.Func.Call(Args2[A, B]{A: a, B: b})
}

type Func3[A, B, C comparable, R any] struct {
	*Func[Args3[A, B, C], R]
}

func New3[A, B, C comparable, R any](fn func(A, B, C) R) *Func3[A, B, C, R] {
	return New3WithStore(fn, Store[Args3[A, B, C], R](NewMapStore[Args3[A, B, C], R]()))
}

func New3WithStore[A, B, C comparable, R any](fn func(A, B, C) R, store Store[Args3[A, B, C], R]) *Func3[A, B, C, R] {
	return &Func3[A, B, C, R]{
		Func: NewWithStore(func(args Args3[A, B, C]) R { return fn(args.A, args.B, args.C) }, store),
	}
}

func (f *Func3[A, B, C, R]) Call(a A, b B, c C) R {
	return f.Func.Call(Args3[A, B, C]{A: a, B: b, C: c})
}
