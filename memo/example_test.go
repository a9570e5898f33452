package memo_test

import (
	"fmt"

	"functools/memo"
)

func poly(x int) int {
	return 3*x*x*x + 5*x*x + 7*x + 1
}

func Example() {
	cached := memo.New(poly)

	for j := 0; j < 10; j++ {
		i := j % 5
		if poly(i) != cached.Call(i) {
			fmt.Println("mismatch at", i)
		}
	}

	fmt.Println("cache size:", cached.Len())
	// Output: cache size: 5
}

func ExampleNew2() {
	cached := memo.New2(func(x, y int) int { return 3*x*x*x + 5*y*y + 7*x + 1 })

	for j := 0; j < 10; j++ {
		cached.Call(j%5, 3)
	}

	fmt.Println("cache size:", cached.Len())
	// Output: cache size: 5
}
