package container

import (
	"fmt"
	"log"
)

// ListNode 双向链表中的节点
// 功能：表示队列中的一个元素，S为沿行驶方向的前进量快照
// 说明：节点同一时刻只能属于一个链表，在链表间移动时必须先Remove再Push
type ListNode[T any] struct {
	parent     *List[T]     // 所属链表
	prev, next *ListNode[T] // 前驱（更靠前）和后继（更靠后）节点
	S          int          // 键值（上一次快照时的前进量）
	Value      T            // 主要值
}

// NewNode 创建一个不属于任何链表的节点
func NewNode[T any](value T) *ListNode[T] {
	return &ListNode[T]{Value: value}
}

func (n *ListNode[T]) String() string {
	return fmt.Sprintf("Node{Key:%v, Value:%+v}", n.S, n.Value)
}

// Prev 获取前一个节点（队列中更靠前的元素），如果是队首则返回nil
func (n *ListNode[T]) Prev() *ListNode[T] {
	return n.prev
}

// Next 获取后一个节点（队列中更靠后的元素），如果是队尾则返回nil
func (n *ListNode[T]) Next() *ListNode[T] {
	return n.next
}

// Parent 获取节点所在的链表
func (n *ListNode[T]) Parent() *List[T] {
	return n.parent
}

// InsertAfter 在节点后插入新节点
// 功能：在当前节点之后插入一个新节点
// 参数：add-要插入的新节点
// 算法说明：
// 1. 检查新节点是否已经在其他链表中
// 2. 设置新节点的父链表和前后指针
// 3. 更新当前节点和后继节点的指针
// 4. 如果新节点是最后一个节点，更新链表尾指针
// 5. 增加链表长度计数
func (n *ListNode[T]) InsertAfter(add *ListNode[T]) {
	if add.parent != nil {
		log.Panic("insert node who already in list")
	}
	add.parent = n.parent
	add.prev = n
	add.next = n.next
	n.next = add
	if add.next != nil {
		add.next.prev = add
	} else {
		add.parent.tail = add
	}
	n.parent.length++
}

// List 双向链表
// 功能：先进先出的车辆队列，队首为最靠近停车线（或最靠前）的元素
// 说明：链表持有元素的所有权，元素在队列间转移即所有权转移
type List[T any] struct {
	ID         string       // 链表标识符
	head, tail *ListNode[T] // 头尾节点指针
	length     int          // 链表长度
}

// NewList 创建空链表
func NewList[T any](id string) *List[T] {
	return &List[T]{ID: id}
}

func (l *List[T]) String() string {
	return fmt.Sprintf("List{ID:%v, Len:%v}", l.ID, l.length)
}

// Keys 获取所有节点的键值（从队首到队尾）
func (l *List[T]) Keys() []int {
	keys := make([]int, l.length)
	for i, node := 0, l.head; node != nil; i, node = i+1, node.next {
		keys[i] = node.S
	}
	return keys
}

// Values 获取所有节点的值（从队首到队尾）
// 说明：返回新切片，调用方修改切片不会影响链表
func (l *List[T]) Values() []T {
	values := make([]T, l.length)
	for i, node := 0, l.head; node != nil; i, node = i+1, node.next {
		values[i] = node.Value
	}
	return values
}

// Len 获取双向链表长度
func (l *List[T]) Len() int {
	return l.length
}

// PushBack 向链表尾部插入节点
// 功能：在队尾添加一个新节点
// 参数：add-要插入的新节点
// 算法说明：
// 1. 检查新节点是否已经在其他链表中
// 2. 如果链表为空，直接设置为头尾节点
// 3. 如果链表不为空，在尾节点后插入新节点
func (l *List[T]) PushBack(add *ListNode[T]) {
	if add.parent != nil {
		log.Panic("push back node who already in list")
	}
	add.next = nil
	add.prev = nil
	if l.tail == nil {
		add.parent = l
		l.head = add
		l.tail = add
		l.length++
	} else {
		// length++和add.parent在InsertAfter中处理
		l.tail.InsertAfter(add)
	}
}

// Remove 从链表中移除节点
// 功能：从链表中删除指定的节点
// 参数：node-要删除的节点
// 说明：节点不属于当前链表时panic
func (l *List[T]) Remove(node *ListNode[T]) {
	if node.parent != l {
		log.Panic("remove node from wrong list")
	}
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev = nil
	node.next = nil
	node.parent = nil
	l.length--
}

// PopFront 移除并返回队首节点，空链表返回nil
func (l *List[T]) PopFront() *ListNode[T] {
	node := l.head
	if node != nil {
		l.Remove(node)
	}
	return node
}

// First 获取链表头部节点，如果链表为空则返回nil
func (l *List[T]) First() *ListNode[T] {
	return l.head
}

// Last 获取链表尾部节点，如果链表为空则返回nil
func (l *List[T]) Last() *ListNode[T] {
	return l.tail
}
