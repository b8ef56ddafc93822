package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/container"
)

func TestPriorityQueue(t *testing.T) {
	q := container.NewPriorityQueue[string]()
	q.Push("c", 3)
	q.Push("a", -1)
	q.Push("b", 0.5)
	q.Heapify()
	q.HeapPush("d", 0)
	assert.Equal(t, 4, q.Len())

	order := make([]string, 0)
	for q.Len() > 0 {
		v, _ := q.HeapPop()
		order = append(order, v)
	}
	assert.Equal(t, []string{"a", "d", "b", "c"}, order)
}
