package itertools

import (
	"fmt"
	"iter"

	"golang.org/x/exp/constraints"
)

func Cat[T any](seqs ...iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, seq := range seqs {
			for v := range seq {
				if !yield(v) {
					return
				}
			}
		}
	}
}

func One[T any](v T) iter.Seq[T] {
	return func(yield func(T) bool) {
		yield(v)
	}
}

func Filter[T any](seq iter.Seq[T], pred func(T) bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range seq {
			if pred(v) && !yield(v) {
				return
			}
		}
	}
}

func Map[Vin, Vout any](seq iter.Seq[Vin], transform func(Vin) Vout) iter.Seq[Vout] {
	return func(yield func(Vout) bool) {
		for v := range seq {
			if !yield(transform(v)) {
				return
			}
		}
	}
}

func Range[Int constraints.Unsigned](start, end Int) iter.Seq[Int] {
	return func(yield func(Int) bool) {
		for i := start; i < end; i++ {
			if !yield(i) {
				return
			}
		}
	}
}

func Stringify[V fmt.Stringer](seq iter.Seq[V]) iter.Seq[string] {
	return Map(seq, func(v V) string { return v.String() })
}
